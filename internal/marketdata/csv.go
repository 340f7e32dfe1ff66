package marketdata

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"orb-scanner/internal/types"
)

// Column names are matched case-insensitively against these canonical keys.
var tsColumns = []string{"datetime", "timestamp", "date", "time"}

var ohlcvColumns = []string{"open", "high", "low", "close", "volume"}

// Timestamp layouts accepted in CSV input. Layouts without a zone offset are
// interpreted in the configured timezone; zoned layouts are converted to it.
var csvLayouts = []struct {
	layout string
	zoned  bool
}{
	{time.RFC3339, true},
	{"2006-01-02 15:04:05Z07:00", true},
	{"2006-01-02T15:04:05", false},
	{"2006-01-02 15:04:05", false},
	{"2006-01-02 15:04", false},
}

// LoadCSV reads a minute-bar CSV with a timestamp column plus OHLCV columns
// into a normalized bar series. A missing required column is a *SchemaError.
func LoadCSV(path string, loc *time.Location) ([]types.Bar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	cols := map[string]int{}
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}

	tsIdx := -1
	for _, name := range tsColumns {
		if i, ok := cols[name]; ok {
			tsIdx = i
			break
		}
	}
	if tsIdx < 0 {
		return nil, &SchemaError{Column: "Datetime"}
	}
	idx := map[string]int{}
	for _, name := range ohlcvColumns {
		i, ok := cols[name]
		if !ok {
			return nil, &SchemaError{Column: strings.ToUpper(name[:1]) + name[1:]}
		}
		idx[name] = i
	}

	var bars []types.Bar
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// A malformed record means the remainder of the session
			// cannot be trusted; fail loudly instead of truncating.
			return nil, fmt.Errorf("read csv record: %w", err)
		}
		if allEmpty(rec, idx) {
			continue
		}
		ts, err := parseTimestamp(rec[tsIdx], loc)
		if err != nil {
			continue
		}
		bar := types.Bar{Ts: ts}
		bar.Open, err = parseField(rec, idx["open"])
		if err != nil {
			continue
		}
		bar.High, err = parseField(rec, idx["high"])
		if err != nil {
			continue
		}
		bar.Low, err = parseField(rec, idx["low"])
		if err != nil {
			continue
		}
		bar.Close, err = parseField(rec, idx["close"])
		if err != nil {
			continue
		}
		// Missing volume is zero, which deterministically fails the
		// volume confirmation later.
		if v, err := parseField(rec, idx["volume"]); err == nil {
			bar.Volume = v
		}
		bars = append(bars, bar)
	}
	return Normalize(bars, loc), nil
}

func allEmpty(rec []string, idx map[string]int) bool {
	for _, i := range idx {
		if i < len(rec) && strings.TrimSpace(rec[i]) != "" {
			return false
		}
	}
	return true
}

func parseField(rec []string, i int) (float64, error) {
	if i >= len(rec) || strings.TrimSpace(rec[i]) == "" {
		return 0, fmt.Errorf("empty field")
	}
	return strconv.ParseFloat(strings.TrimSpace(rec[i]), 64)
}

func parseTimestamp(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, l := range csvLayouts {
		if l.zoned {
			if t, err := time.Parse(l.layout, s); err == nil {
				return t.In(loc), nil
			}
		} else {
			if t, err := time.ParseInLocation(l.layout, s, loc); err == nil {
				return t, nil
			}
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}
