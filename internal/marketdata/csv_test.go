package marketdata

import (
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bars.csv")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func taipei(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Taipei")
	if err != nil {
		t.Fatal(err)
	}
	return loc
}

func TestLoadCSVMissingVolumeColumn(t *testing.T) {
	path := writeCSV(t, "Datetime,Open,High,Low,Close\n2024-05-06 09:00,100,101,99,100\n")

	_, err := LoadCSV(path, taipei(t))
	if err == nil {
		t.Fatal("expected schema error for missing Volume column")
	}
	var schemaErr *SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("expected *SchemaError, got %T: %v", err, err)
	}
	if schemaErr.Column != "Volume" {
		t.Errorf("SchemaError column = %q, want Volume", schemaErr.Column)
	}
}

func TestLoadCSVHeaderCaseInsensitive(t *testing.T) {
	path := writeCSV(t, "DATETIME,open,HIGH,low,Close,VOLUME\n2024-05-06 09:00,100,101,99,100.5,1500\n")

	bars, err := LoadCSV(path, taipei(t))
	if err != nil {
		t.Fatal(err)
	}
	if len(bars) != 1 {
		t.Fatalf("expected 1 bar, got %d", len(bars))
	}
	b := bars[0]
	if b.Open != 100 || b.High != 101 || b.Low != 99 || b.Close != 100.5 || b.Volume != 1500 {
		t.Errorf("unexpected bar %+v", b)
	}
}

func TestLoadCSVNaiveTimestampLocalized(t *testing.T) {
	loc := taipei(t)
	path := writeCSV(t, "Datetime,Open,High,Low,Close,Volume\n2024-05-06 09:00,100,101,99,100,1000\n")

	bars, err := LoadCSV(path, loc)
	if err != nil {
		t.Fatal(err)
	}
	want := time.Date(2024, 5, 6, 9, 0, 0, 0, loc)
	if !bars[0].Ts.Equal(want) {
		t.Errorf("timestamp = %v, want %v", bars[0].Ts, want)
	}
}

func TestLoadCSVZonedTimestampConverted(t *testing.T) {
	loc := taipei(t)
	path := writeCSV(t, "Datetime,Open,High,Low,Close,Volume\n2024-05-06T01:00:00Z,100,101,99,100,1000\n")

	bars, err := LoadCSV(path, loc)
	if err != nil {
		t.Fatal(err)
	}
	// 01:00 UTC is 09:00 in Taipei.
	want := time.Date(2024, 5, 6, 9, 0, 0, 0, loc)
	if !bars[0].Ts.Equal(want) {
		t.Errorf("timestamp = %v, want %v", bars[0].Ts, want)
	}
	if bars[0].Ts.Location() != loc {
		t.Errorf("timestamp location = %v, want %v", bars[0].Ts.Location(), loc)
	}
}

func TestLoadCSVDropsEmptyRows(t *testing.T) {
	path := writeCSV(t, `Datetime,Open,High,Low,Close,Volume
2024-05-06 09:00,100,101,99,100,1000
2024-05-06 09:01,,,,,
2024-05-06 09:02,101,102,100,101,800
`)

	bars, err := LoadCSV(path, taipei(t))
	if err != nil {
		t.Fatal(err)
	}
	if len(bars) != 2 {
		t.Fatalf("expected 2 bars after dropping the empty row, got %d", len(bars))
	}
}

func TestLoadCSVMalformedRecordIsFatal(t *testing.T) {
	// A row with the wrong field count must fail the whole load rather than
	// silently truncate the session at the bad row.
	path := writeCSV(t, `Datetime,Open,High,Low,Close,Volume
2024-05-06 09:00,100,101,99,100,1000
2024-05-06 09:01,101,102,100
2024-05-06 09:02,101,102,100,101,800
2024-05-06 09:03,102,103,101,102,900
`)

	bars, err := LoadCSV(path, taipei(t))
	if err == nil {
		t.Fatalf("expected error for malformed record, got %d bars", len(bars))
	}
	var parseErr *csv.ParseError
	if !errors.As(err, &parseErr) {
		t.Errorf("expected *csv.ParseError, got %T: %v", err, err)
	}
}

func TestLoadCSVMissingVolumeValueIsZero(t *testing.T) {
	path := writeCSV(t, "Datetime,Open,High,Low,Close,Volume\n2024-05-06 09:00,100,101,99,100,\n")

	bars, err := LoadCSV(path, taipei(t))
	if err != nil {
		t.Fatal(err)
	}
	if len(bars) != 1 || bars[0].Volume != 0 {
		t.Fatalf("expected one bar with zero volume, got %+v", bars)
	}
}

func TestNormalizeSortsAndDeduplicates(t *testing.T) {
	loc := taipei(t)
	t0 := time.Date(2024, 5, 6, 9, 0, 0, 0, loc)

	bars, err := LoadCSV(writeCSV(t, `Datetime,Open,High,Low,Close,Volume
2024-05-06 09:02,102,103,101,102,300
2024-05-06 09:00,100,101,99,100,100
2024-05-06 09:00,100,101,99,100.5,150
2024-05-06 09:01,101,102,100,101,200
`), loc)
	if err != nil {
		t.Fatal(err)
	}
	if len(bars) != 3 {
		t.Fatalf("expected 3 bars after dedup, got %d", len(bars))
	}
	for i, want := range []time.Time{t0, t0.Add(time.Minute), t0.Add(2 * time.Minute)} {
		if !bars[i].Ts.Equal(want) {
			t.Errorf("bar %d timestamp = %v, want %v", i, bars[i].Ts, want)
		}
	}
	// Last occurrence wins on duplicate timestamps.
	if bars[0].Close != 100.5 {
		t.Errorf("duplicate timestamp: close = %f, want 100.5", bars[0].Close)
	}
}
