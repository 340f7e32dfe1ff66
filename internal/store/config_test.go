package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, "symbols:\n  - 2330.TW\n"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.OpenMinutes != 15 {
		t.Errorf("OpenMinutes = %d, want 15", cfg.OpenMinutes)
	}
	if cfg.PollSeconds != 30 {
		t.Errorf("PollSeconds = %d, want 30", cfg.PollSeconds)
	}
	if cfg.Timezone != "Asia/Taipei" {
		t.Errorf("Timezone = %q, want Asia/Taipei", cfg.Timezone)
	}
	if cfg.VolFactor != 1.5 {
		t.Errorf("VolFactor = %f, want 1.5", cfg.VolFactor)
	}
	if cfg.VolMAWindow != 10 {
		t.Errorf("VolMAWindow = %d, want 10", cfg.VolMAWindow)
	}
	if cfg.Notify != "ntfy" {
		t.Errorf("Notify = %q, want ntfy", cfg.Notify)
	}
	if cfg.Ntfy.Server != "https://ntfy.sh" {
		t.Errorf("Ntfy.Server = %q, want https://ntfy.sh", cfg.Ntfy.Server)
	}
}

func TestLoadConfigRejectsBadNotify(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, "notify: carrier-pigeon\n"))
	if err == nil || !strings.Contains(err.Error(), "notify") {
		t.Errorf("expected notify validation error, got %v", err)
	}
}

func TestLoadConfigRejectsBadTimezone(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, "timezone: Not/AZone\n"))
	if err == nil || !strings.Contains(err.Error(), "timezone") {
		t.Errorf("expected timezone validation error, got %v", err)
	}
}

func TestLoadConfigRejectsNegativeVolFactor(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, "vol_factor: -1\n"))
	if err == nil || !strings.Contains(err.Error(), "vol_factor") {
		t.Errorf("expected vol_factor validation error, got %v", err)
	}
}

func TestResolveSymbolsDedupPreservesOrder(t *testing.T) {
	file := filepath.Join(t.TempDir(), "symbols.txt")
	if err := os.WriteFile(file, []byte("2317.TW\n\n0050.TW\n2330.TW\n"), 0644); err != nil {
		t.Fatal(err)
	}

	got, err := ResolveSymbols([]string{"2330.TW, 2317.TW"}, file)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"2330.TW", "2317.TW", "0050.TW"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("symbol %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestResolveSymbolsEmpty(t *testing.T) {
	got, err := ResolveSymbols(nil, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("expected empty symbol list, got %v", got)
	}
}
