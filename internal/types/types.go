package types

import (
	"fmt"
	"strings"
	"time"
)

type Bar struct {
	Ts                             time.Time
	Open, High, Low, Close, Volume float64
}

// DerivedBar carries the session-cumulative VWAP and the trailing volume
// moving average alongside the raw bar.
type DerivedBar struct {
	Bar
	VWAP  float64
	VolMA float64
}

type Direction string

const (
	Long  Direction = "long"
	Short Direction = "short"
)

// SymbolState tracks one symbol across scan cycles. The range fields are
// either all zero (range not yet established) or all set; once set they are
// never recomputed for the rest of the run.
type SymbolState struct {
	RangeHigh float64
	RangeLow  float64
	RangeEnd  time.Time

	LastLongBar  time.Time
	LastShortBar time.Time
}

func (s *SymbolState) Frozen() bool { return !s.RangeEnd.IsZero() }

type Alert struct {
	Symbol    string
	Direction Direction
	Ts        time.Time
	Price     float64
	RangeHigh float64
	RangeLow  float64
	VWAP      float64
}

func (a Alert) Title() string {
	if a.Direction == Short {
		return "ORB short breakdown"
	}
	return "ORB long breakout"
}

func (a Alert) Message() string {
	return fmt.Sprintf("%s %s @ %.2f | %s | ORH=%.2f ORL=%.2f VWAP=%.2f",
		a.Symbol, strings.ToUpper(string(a.Direction)), a.Price,
		a.Ts.Format("2006-01-02 15:04"), a.RangeHigh, a.RangeLow, a.VWAP)
}
