package replay

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"orb-scanner/internal/engine"
	"orb-scanner/internal/interfaces"
	"orb-scanner/internal/logger"
	"orb-scanner/internal/marketdata"
	"orb-scanner/internal/types"
)

// Options configures a replay run.
type Options struct {
	CSV         string
	Symbol      string
	OpenMinutes int
	VolFactor   float64
	VolMAWindow int
	// Step is the wall-clock delay between simulated minutes, floored at
	// 50ms so a zero-delay replay still yields the scheduler.
	Step     time.Duration
	Location *time.Location
}

const minStep = 50 * time.Millisecond

// Run replays a historical minute-bar CSV through the same detection
// pipeline the live scanner uses, advancing a simulated clock one minute at
// a time. Schema and empty-window problems are fatal before the loop.
func Run(ctx context.Context, opts Options, ntf interfaces.Notifier) error {
	bars, err := marketdata.LoadCSV(opts.CSV, opts.Location)
	if err != nil {
		return err
	}
	if len(bars) == 0 {
		return errors.New("replay csv contains no usable bars")
	}
	win := marketdata.OpeningWindow(bars, opts.OpenMinutes)
	if len(win) == 0 {
		return fmt.Errorf("opening range window is empty: check csv timestamps against open minutes %d", opts.OpenMinutes)
	}

	eng := engine.New(engine.Config{
		OpenMinutes: opts.OpenMinutes,
		VolFactor:   opts.VolFactor,
		VolMAWindow: opts.VolMAWindow,
	})
	// The full file is available up front, so the range is established
	// immediately regardless of how sparse the window is.
	eng.FreezeRange(ctx, opts.Symbol, bars)

	step := opts.Step
	if step < minStep {
		step = minStep
	}

	logger.Info(ctx, "Replay started",
		"symbol", opts.Symbol,
		"bars", len(bars),
		"orb_minutes", opts.OpenMinutes,
		"step", step.String(),
	)

	cur := bars[0].Ts
	last := bars[len(bars)-1].Ts
	for !cur.After(last) {
		n := sort.Search(len(bars), func(i int) bool { return bars[i].Ts.After(cur) })
		if n > 0 {
			for _, a := range eng.Step(ctx, opts.Symbol, bars[:n]) {
				dispatch(ctx, ntf, a)
			}
		}

		select {
		case <-ctx.Done():
			logger.Info(ctx, "Replay stopped")
			return nil
		case <-time.After(step):
		}
		cur = cur.Add(time.Minute)
	}
	logger.Info(ctx, "Replay finished", "symbol", opts.Symbol)
	return nil
}

func dispatch(ctx context.Context, ntf interfaces.Notifier, a types.Alert) {
	logger.Alert(ctx, a.Symbol, string(a.Direction), a.Price, a.RangeHigh, a.RangeLow, a.VWAP)
	if err := ntf.Send(ctx, a.Title(), a.Message()); err != nil {
		logger.Warn(ctx, "Alert delivery failed", "symbol", a.Symbol, "direction", a.Direction, "error", err)
	}
}
