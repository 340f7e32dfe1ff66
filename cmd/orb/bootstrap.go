package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"orb-scanner/internal/interfaces"
	"orb-scanner/internal/logger"
	"orb-scanner/internal/notify"
	"orb-scanner/internal/notify/notifyobs"
	"orb-scanner/internal/store"
	"orb-scanner/internal/trace"
)

// initializeSystem initializes env, logger, and tracer
func initializeSystem() error {
	// Load environment variables
	_ = godotenv.Load()

	// Initialize logger
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	// Initialize tracer
	if err := trace.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize tracer: %v\n", err)
	}

	return nil
}

// loadConfig loads the config file. A missing file is fatal only when the
// path was given explicitly; the default path falls back to built-in
// defaults so flag-only invocations work.
func loadConfig(path string, explicit bool) (*store.Config, error) {
	cfg, err := store.LoadConfig(path)
	if err == nil {
		return cfg, nil
	}
	if !explicit && errors.Is(err, os.ErrNotExist) {
		cfg = &store.Config{}
		cfg.ApplyDefaults()
		return cfg, nil
	}
	return nil, err
}

// buildNotifier selects and wraps the configured notification sink
func buildNotifier(cfg *store.Config) (interfaces.Notifier, error) {
	switch cfg.Notify {
	case "print":
		return notifyobs.Wrap(notify.NewPrint()), nil
	case "ntfy":
		if cfg.Ntfy.Topic == "" {
			return nil, errors.New("ntfy sink selected but no topic given: set --ntfy-topic or ntfy.topic")
		}
		return notifyobs.Wrap(notify.NewNtfy(cfg.Ntfy.Server, cfg.Ntfy.Topic)), nil
	default:
		return nil, fmt.Errorf("unknown notify sink %q: must be 'ntfy' or 'print'", cfg.Notify)
	}
}
