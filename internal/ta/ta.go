package ta

import (
	"math"

	"orb-scanner/internal/types"
)

// VWAP returns the session-cumulative volume weighted average price at each
// bar: cum(typical*volume)/cum(volume) with typical = (H+L+C)/3. While the
// cumulative volume is zero the value is NaN.
func VWAP(bars []types.Bar) []float64 {
	out := make([]float64, len(bars))
	cumPV, cumV := 0.0, 0.0
	for i, b := range bars {
		tp := (b.High + b.Low + b.Close) / 3.0
		cumPV += tp * b.Volume
		cumV += b.Volume
		if cumV == 0 {
			out[i] = math.NaN()
		} else {
			out[i] = cumPV / cumV
		}
	}
	return out
}

// VolMA returns the trailing mean of volume over up to n bars ending at each
// index. The window shrinks near the start of the series, minimum period 1.
func VolMA(bars []types.Bar, n int) []float64 {
	out := make([]float64, len(bars))
	if n <= 0 {
		n = 1
	}
	sum := 0.0
	for i, b := range bars {
		sum += b.Volume
		if i >= n {
			sum -= bars[i-n].Volume
		}
		w := i + 1
		if w > n {
			w = n
		}
		out[i] = sum / float64(w)
	}
	return out
}

// Derive zips VWAP and the n-bar volume MA onto the bar series. Pure in the
// series prefix: the same bars always produce the same derived values.
func Derive(bars []types.Bar, n int) []types.DerivedBar {
	vwap := VWAP(bars)
	volma := VolMA(bars, n)
	out := make([]types.DerivedBar, len(bars))
	for i, b := range bars {
		out[i] = types.DerivedBar{Bar: b, VWAP: vwap[i], VolMA: volma[i]}
	}
	return out
}
