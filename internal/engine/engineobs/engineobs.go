package engineobs

import (
	"context"

	"orb-scanner/internal/interfaces"
	"orb-scanner/internal/logger"
	"orb-scanner/internal/trace"
	"orb-scanner/internal/types"
)

// observableEngine wraps an Engine with observability (logging & tracing)
type observableEngine struct {
	engine interfaces.Engine
}

// Compile-time interface check
var _ interfaces.Engine = (*observableEngine)(nil)

// Wrap wraps an engine with observability middleware
func Wrap(engine interfaces.Engine) interfaces.Engine {
	return &observableEngine{engine: engine}
}

// Step evaluates one symbol with observability
func (oe *observableEngine) Step(ctx context.Context, symbol string, bars []types.Bar) []types.Alert {
	ctx, span := trace.StartSpan(ctx, "engine.Step")
	defer span.End()

	logger.DebugSkip(ctx, 1, "Evaluating symbol", "symbol", symbol, "bars", len(bars))

	alerts := oe.engine.Step(ctx, symbol, bars)

	if len(alerts) > 0 {
		logger.InfoSkip(ctx, 1, "Signals fired", "symbol", symbol, "alerts", len(alerts))
	}
	return alerts
}
