package store

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Symbols     []string `yaml:"symbols"`
	SymbolsFile string   `yaml:"symbols_file"`
	OpenMinutes int      `yaml:"open_minutes"`
	PollSeconds int      `yaml:"poll_seconds"`
	Timezone    string   `yaml:"timezone"`
	VolFactor   float64  `yaml:"vol_factor"`
	VolMAWindow int      `yaml:"vol_ma_window"`
	Notify      string   `yaml:"notify"`
	Ntfy        struct {
		Server string `yaml:"server"`
		Topic  string `yaml:"topic"`
	} `yaml:"ntfy"`
	Replay struct {
		CSV         string  `yaml:"csv"`
		Symbol      string  `yaml:"symbol"`
		StepSeconds float64 `yaml:"step_seconds"`
	} `yaml:"replay"`
}

func (c *Config) Validate() error {
	// The ntfy topic requirement is checked at notifier construction,
	// after CLI flag overrides have been applied.
	if c.Notify != "ntfy" && c.Notify != "print" {
		return fmt.Errorf("invalid notify '%s': must be 'ntfy' or 'print'", c.Notify)
	}
	if c.OpenMinutes <= 0 {
		return fmt.Errorf("open_minutes must be positive, got %d", c.OpenMinutes)
	}
	if c.PollSeconds <= 0 {
		return fmt.Errorf("poll_seconds must be positive, got %d", c.PollSeconds)
	}
	if c.VolFactor <= 0 {
		return fmt.Errorf("vol_factor must be positive, got %.2f", c.VolFactor)
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("invalid timezone '%s': %w", c.Timezone, err)
	}
	return nil
}

// Location resolves the configured timezone. Validate has already checked
// that it loads.
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}
	c.ApplyDefaults()
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &c, nil
}

func (c *Config) ApplyDefaults() {
	if c.OpenMinutes == 0 {
		c.OpenMinutes = 15
	}
	if c.PollSeconds == 0 {
		c.PollSeconds = 30
	}
	if c.Timezone == "" {
		c.Timezone = "Asia/Taipei"
	}
	if c.VolFactor == 0 {
		c.VolFactor = 1.5
	}
	if c.VolMAWindow == 0 {
		c.VolMAWindow = 10
	}
	if c.Notify == "" {
		c.Notify = "ntfy"
	}
	if c.Ntfy.Server == "" {
		c.Ntfy.Server = "https://ntfy.sh"
	}
	if c.Replay.Symbol == "" {
		c.Replay.Symbol = "SYMBOL"
	}
	if c.Replay.StepSeconds == 0 {
		c.Replay.StepSeconds = 0.5
	}
}

// ResolveSymbols merges the inline list with an optional one-per-line file,
// trimming blanks and deduplicating while preserving first-seen order.
func ResolveSymbols(inline []string, file string) ([]string, error) {
	var raw []string
	for _, s := range inline {
		for _, part := range strings.Split(s, ",") {
			raw = append(raw, strings.TrimSpace(part))
		}
	}
	if file != "" {
		f, err := os.Open(file)
		if err != nil {
			return nil, fmt.Errorf("symbols file: %w", err)
		}
		defer f.Close()
		sc := bufio.NewScanner(f)
		for sc.Scan() {
			raw = append(raw, strings.TrimSpace(sc.Text()))
		}
		if err := sc.Err(); err != nil {
			return nil, fmt.Errorf("symbols file: %w", err)
		}
	}
	seen := map[string]bool{}
	out := make([]string, 0, len(raw))
	for _, s := range raw {
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out, nil
}
