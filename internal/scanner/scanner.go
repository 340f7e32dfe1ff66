package scanner

import (
	"context"
	"fmt"
	"time"

	"orb-scanner/internal/interfaces"
	"orb-scanner/internal/logger"
	"orb-scanner/internal/types"
)

// Scanner drives the live pipeline: one batched fetch per tick, one engine
// step per symbol, alerts pushed to the notifier. A failed cycle is logged
// and the next tick proceeds as usual.
type Scanner struct {
	interval time.Duration
	symbols  []string
	src      interfaces.DataSource
	eng      interfaces.Engine
	ntf      interfaces.Notifier
}

func New(interval time.Duration, symbols []string, src interfaces.DataSource, eng interfaces.Engine, ntf interfaces.Notifier) *Scanner {
	return &Scanner{interval: interval, symbols: symbols, src: src, eng: eng, ntf: ntf}
}

// Run polls until the context is cancelled.
func (s *Scanner) Run(ctx context.Context) error {
	tick := time.NewTicker(s.interval)
	defer tick.Stop()

	logger.Info(ctx, "Scanner started", "symbols", len(s.symbols), "poll_interval", s.interval.String())
	// First cycle runs immediately; the ticker paces the rest.
	s.runCycle(ctx)
	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "Scanner stopped")
			return nil
		case <-tick.C:
			s.runCycle(ctx)
		}
	}
}

func (s *Scanner) runCycle(ctx context.Context) {
	op := logger.StartOperation(ctx, "scan.cycle", "symbols", len(s.symbols))
	ctx = op.GetContext()

	dispatched, err := s.cycle(ctx)
	if err != nil {
		op.EndWithError(err)
		return
	}
	op.End("alerts_dispatched", dispatched)
}

// cycle runs one full evaluation pass. Panics are converted to errors so a
// single bad cycle never takes the process down.
func (s *Scanner) cycle(ctx context.Context) (dispatched int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("cycle panic: %v", r)
		}
	}()

	data, err := s.src.IntradayBars(ctx, s.symbols)
	if err != nil {
		return 0, fmt.Errorf("fetch bars: %w", err)
	}
	if len(data) == 0 {
		logger.Debug(ctx, "No bar data this cycle")
		return 0, nil
	}

	for _, sym := range s.symbols {
		bars, ok := data[sym]
		if !ok {
			continue
		}
		for _, a := range s.eng.Step(ctx, sym, bars) {
			s.dispatch(ctx, a)
			dispatched++
		}
	}
	return dispatched, nil
}

func (s *Scanner) dispatch(ctx context.Context, a types.Alert) {
	logger.Alert(ctx, a.Symbol, string(a.Direction), a.Price, a.RangeHigh, a.RangeLow, a.VWAP)
	if err := s.ntf.Send(ctx, a.Title(), a.Message()); err != nil {
		// At-most-once: dedup state has already advanced, no retry.
		logger.Warn(ctx, "Alert delivery failed", "symbol", a.Symbol, "direction", a.Direction, "error", err)
	}
}
