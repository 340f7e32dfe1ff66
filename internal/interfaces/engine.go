package interfaces

import (
	"context"

	"orb-scanner/internal/types"
)

// Engine runs one evaluation cycle for a symbol over the bars seen so far
// and returns the alerts that fired on this cycle, already deduplicated.
type Engine interface {
	Step(ctx context.Context, symbol string, bars []types.Bar) []types.Alert
}
