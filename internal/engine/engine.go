package engine

import (
	"context"
	"math"
	"time"

	"orb-scanner/internal/logger"
	"orb-scanner/internal/marketdata"
	"orb-scanner/internal/ta"
	"orb-scanner/internal/types"
)

type Config struct {
	OpenMinutes int
	VolFactor   float64
	VolMAWindow int
	// MinRangeBars is the bar count required before the opening range
	// freezes. Zero means max(1, OpenMinutes/2).
	MinRangeBars int
}

// Engine owns every symbol's state. No state is shared across symbols, so
// evaluation order never matters.
type Engine struct {
	cfg    Config
	states map[string]*types.SymbolState
}

func New(cfg Config) *Engine {
	if cfg.VolMAWindow == 0 {
		cfg.VolMAWindow = 10
	}
	if cfg.MinRangeBars == 0 {
		cfg.MinRangeBars = max(1, cfg.OpenMinutes/2)
	}
	return &Engine{cfg: cfg, states: map[string]*types.SymbolState{}}
}

// State exposes a symbol's tracked state, creating it on first use.
func (e *Engine) State(symbol string) *types.SymbolState {
	st := e.states[symbol]
	if st == nil {
		st = &types.SymbolState{}
		e.states[symbol] = st
	}
	return st
}

// Step runs one evaluation cycle for a symbol over the session bars seen so
// far and returns the alerts that fired, at most one per direction. Bars
// must be normalized (strictly increasing timestamps).
func (e *Engine) Step(ctx context.Context, symbol string, bars []types.Bar) []types.Alert {
	if len(bars) == 0 {
		return nil
	}
	st := e.State(symbol)

	// Establish the opening range once; it is immutable afterwards.
	if !st.Frozen() {
		win := marketdata.OpeningWindow(bars, e.cfg.OpenMinutes)
		if len(win) < e.cfg.MinRangeBars {
			logger.Debug(ctx, "Opening range not yet established",
				"symbol", symbol, "window_bars", len(win), "required", e.cfg.MinRangeBars)
			return nil
		}
		e.freeze(ctx, symbol, st, win)
	}

	derived := ta.Derive(bars, e.cfg.VolMAWindow)
	last := derived[len(derived)-1]
	// No bar beyond the opening window yet.
	if last.Ts.Before(st.RangeEnd) {
		return nil
	}

	price := last.Close
	vwap := last.VWAP
	vol := last.Volume
	if math.IsNaN(vol) {
		vol = 0
	}
	volMA := last.VolMA
	if math.IsNaN(volMA) {
		volMA = 0
	}

	// Undefined volume confirmation never triggers; NaN vwap fails both
	// comparisons below the same way.
	confirmed := volMA > 0 && vol >= volMA*e.cfg.VolFactor
	longOK := price > st.RangeHigh && confirmed && price >= vwap
	shortOK := price < st.RangeLow && confirmed && price <= vwap

	barID := last.Ts.Truncate(time.Minute)

	var alerts []types.Alert
	if longOK && !barID.Equal(st.LastLongBar) {
		alerts = append(alerts, e.newAlert(symbol, types.Long, last, st))
		st.LastLongBar = barID
	}
	if shortOK && !barID.Equal(st.LastShortBar) {
		alerts = append(alerts, e.newAlert(symbol, types.Short, last, st))
		st.LastShortBar = barID
	}
	return alerts
}

// FreezeRange establishes a symbol's opening range directly from the full
// bar series, for drivers that have the whole session up front. A frozen
// symbol is left untouched.
func (e *Engine) FreezeRange(ctx context.Context, symbol string, bars []types.Bar) {
	st := e.State(symbol)
	if st.Frozen() {
		return
	}
	win := marketdata.OpeningWindow(bars, e.cfg.OpenMinutes)
	if len(win) == 0 {
		return
	}
	e.freeze(ctx, symbol, st, win)
}

func (e *Engine) freeze(ctx context.Context, symbol string, st *types.SymbolState, win []types.Bar) {
	st.RangeHigh, st.RangeLow = win[0].High, win[0].Low
	for _, b := range win[1:] {
		if b.High > st.RangeHigh {
			st.RangeHigh = b.High
		}
		if b.Low < st.RangeLow {
			st.RangeLow = b.Low
		}
	}
	st.RangeEnd = win[len(win)-1].Ts
	logger.Info(ctx, "Opening range frozen",
		"symbol", symbol,
		"range_high", st.RangeHigh,
		"range_low", st.RangeLow,
		"range_end", st.RangeEnd.Format(time.RFC3339),
	)
}

func (e *Engine) newAlert(symbol string, dir types.Direction, bar types.DerivedBar, st *types.SymbolState) types.Alert {
	return types.Alert{
		Symbol:    symbol,
		Direction: dir,
		Ts:        bar.Ts,
		Price:     bar.Close,
		RangeHigh: st.RangeHigh,
		RangeLow:  st.RangeLow,
		VWAP:      bar.VWAP,
	}
}
