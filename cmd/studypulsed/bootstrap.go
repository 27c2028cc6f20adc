package main

import (
	"fmt"
	"log/slog"

	"github.com/joho/godotenv"

	"studypulse/internal/api"
	"studypulse/internal/config"
	"studypulse/internal/daemon"
	"studypulse/internal/logging"
	"studypulse/internal/sessions"
)

// loadDotEnv reads .env from the working directory when present. Variables
// already set in the environment win.
func loadDotEnv() {
	_ = godotenv.Load()
}

// bootstrap loads configuration and wires the daemon. The returned daemon
// owns the store and must be closed by the caller.
func bootstrap(configPath string) (*daemon.Daemon, *slog.Logger, error) {
	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, nil, fmt.Errorf("ensure directories: %w", err)
	}

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}

	opts, err := api.ProvidersFromConfig(cfg, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("configure providers: %w", err)
	}

	store, err := sessions.Open(cfg, sessions.WithLogger(logger))
	if err != nil {
		return nil, nil, fmt.Errorf("open session store: %w", err)
	}

	d, err := daemon.New(cfg, store, logger, opts)
	if err != nil {
		_ = store.Close()
		return nil, nil, fmt.Errorf("create daemon: %w", err)
	}
	return d, logger, nil
}
