package main

import (
	"context"
	"errors"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"orb-scanner/internal/engine"
	"orb-scanner/internal/engine/engineobs"
	"orb-scanner/internal/logger"
	"orb-scanner/internal/marketdata"
	"orb-scanner/internal/scanner"
	"orb-scanner/internal/store"
	"orb-scanner/internal/trace"
)

var liveCmd = &cobra.Command{
	Use:   "live",
	Short: "Poll live minute bars and alert on opening range breakouts",
	RunE:  runLive,
}

func init() {
	f := liveCmd.Flags()
	f.String("config", "config.yaml", "config file path")
	f.String("symbols", "", "comma separated symbols, e.g. 2330.TW,2317.TW,0050.TW")
	f.String("symbols-file", "", "file with one symbol per line")
	f.Int("open-mins", 0, "opening range window in minutes")
	f.Int("poll-secs", 0, "poll interval in seconds")
	f.String("timezone", "", "IANA timezone for bar timestamps")
	f.Float64("vol-factor", 0, "volume confirmation threshold (volume >= volMA * factor)")
	f.String("notify", "", "notification sink: ntfy or print")
	f.String("ntfy-topic", "", "ntfy topic, e.g. Chailease (https://ntfy.sh/Chailease)")
}

func runLive(cmd *cobra.Command, args []string) error {
	if err := initializeSystem(); err != nil {
		return err
	}

	f := cmd.Flags()
	configPath, _ := f.GetString("config")
	cfg, err := loadConfig(configPath, f.Changed("config"))
	if err != nil {
		return err
	}

	if f.Changed("open-mins") {
		cfg.OpenMinutes, _ = f.GetInt("open-mins")
	}
	if f.Changed("poll-secs") {
		cfg.PollSeconds, _ = f.GetInt("poll-secs")
	}
	if f.Changed("timezone") {
		cfg.Timezone, _ = f.GetString("timezone")
	}
	if f.Changed("vol-factor") {
		cfg.VolFactor, _ = f.GetFloat64("vol-factor")
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

	inline := cfg.Symbols
	if f.Changed("symbols") {
		s, _ := f.GetString("symbols")
		inline = append(inline, s)
	}
	symbolsFile := cfg.SymbolsFile
	if f.Changed("symbols-file") {
		symbolsFile, _ = f.GetString("symbols-file")
	}
	symbols, err := store.ResolveSymbols(inline, symbolsFile)
	if err != nil {
		return err
	}
	if len(symbols) == 0 {
		return errors.New("no symbols supplied: use --symbols, --symbols-file, or the config file")
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

	src := marketdata.NewYahooSource(loc)
	eng := engineobs.Wrap(engine.New(engine.Config{
		OpenMinutes: cfg.OpenMinutes,
		VolFactor:   cfg.VolFactor,
		VolMAWindow: cfg.VolMAWindow,
	}))

	logger.Info(ctx, "Starting ORB scan",
		"symbols", strings.Join(symbols, ","),
		"orb_minutes", cfg.OpenMinutes,
		"timezone", cfg.Timezone,
		"vol_factor", cfg.VolFactor,
		"sink", cfg.Notify,
	)

	sc := scanner.New(time.Duration(cfg.PollSeconds)*time.Second, symbols, src, eng, ntf)
	return sc.Run(ctx)
}
