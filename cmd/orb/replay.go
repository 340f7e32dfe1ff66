package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"orb-scanner/internal/replay"
	"orb-scanner/internal/trace"
)

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Replay a historical minute-bar CSV through the breakout pipeline",
	RunE:  runReplay,
}

func init() {
	f := replayCmd.Flags()
	f.String("config", "config.yaml", "config file path")
	f.String("csv", "", "minute-bar CSV with Datetime and OHLCV columns")
	f.String("symbol", "", "display symbol for alerts")
	f.Int("open-mins", 0, "opening range window in minutes")
	f.Float64("vol-factor", 0, "volume confirmation threshold")
	f.Float64("speed", 0, "seconds of wall time per simulated minute")
	f.String("timezone", "", "IANA timezone for naive CSV timestamps")
	f.String("notify", "", "notification sink: ntfy or print")
	f.String("ntfy-topic", "", "ntfy topic for push alerts")
}

func runReplay(cmd *cobra.Command, args []string) error {
	if err := initializeSystem(); err != nil {
		return err
	}

	f := cmd.Flags()
	configPath, _ := f.GetString("config")
	cfg, err := loadConfig(configPath, f.Changed("config"))
	if err != nil {
		return err
	}

	if f.Changed("csv") {
		cfg.Replay.CSV, _ = f.GetString("csv")
	}
	if f.Changed("symbol") {
		cfg.Replay.Symbol, _ = f.GetString("symbol")
	}
	if f.Changed("open-mins") {
		cfg.OpenMinutes, _ = f.GetInt("open-mins")
	}
	if f.Changed("vol-factor") {
		cfg.VolFactor, _ = f.GetFloat64("vol-factor")
	}
	if f.Changed("speed") {
		cfg.Replay.StepSeconds, _ = f.GetFloat64("speed")
	}
	if f.Changed("timezone") {
		cfg.Timezone, _ = f.GetString("timezone")
	}
	if f.Changed("notify") {
		cfg.Notify, _ = f.GetString("notify")
	}
	if f.Changed("ntfy-topic") {
		cfg.Ntfy.Topic, _ = f.GetString("ntfy-topic")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.Replay.CSV == "" {
		return errors.New("no csv supplied: use --csv or replay.csv in the config file")
	}

	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	ntf, err := buildNotifier(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	defer trace.Shutdown(context.Background())

	return replay.Run(ctx, replay.Options{
		CSV:         cfg.Replay.CSV,
		Symbol:      cfg.Replay.Symbol,
		OpenMinutes: cfg.OpenMinutes,
		VolFactor:   cfg.VolFactor,
		VolMAWindow: cfg.VolMAWindow,
		Step:        time.Duration(cfg.Replay.StepSeconds * float64(time.Second)),
		Location:    loc,
	}, ntf)
}
