package marketdata

import (
	"sort"
	"time"

	"orb-scanner/internal/types"
)

// Normalize converts every bar timestamp into loc, sorts the series by
// timestamp and collapses duplicates (last occurrence wins). The result is
// strictly increasing, which the engine relies on.
func Normalize(bars []types.Bar, loc *time.Location) []types.Bar {
	out := make([]types.Bar, len(bars))
	copy(out, bars)
	for i := range out {
		out[i].Ts = out[i].Ts.In(loc)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Ts.Before(out[j].Ts) })

	dedup := out[:0]
	for _, b := range out {
		if n := len(dedup); n > 0 && dedup[n-1].Ts.Equal(b.Ts) {
			dedup[n-1] = b
			continue
		}
		dedup = append(dedup, b)
	}
	return dedup
}

// OpeningWindow returns the bars whose timestamps lie in
// [first, first+openMinutes).
func OpeningWindow(bars []types.Bar, openMinutes int) []types.Bar {
	if len(bars) == 0 {
		return nil
	}
	first := bars[0].Ts
	end := first.Add(time.Duration(openMinutes) * time.Minute)
	var win []types.Bar
	for _, b := range bars {
		if b.Ts.Before(end) {
			win = append(win, b)
		} else {
			break
		}
	}
	return win
}
