package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	loadDotEnv()

	if err := run(ctx, os.Getenv("STUDYPULSE_CONFIG")); err != nil {
		cancel()
		log.Fatalf("studypulsed: %v", err)
	}
}

// run serves until ctx is cancelled. The daemon and its store are closed on
// every return path.
func run(ctx context.Context, configPath string) error {
	d, logger, err := bootstrap(configPath)
	if err != nil {
		return err
	}
	defer d.Close()

	if err := d.Start(ctx); err != nil {
		return fmt.Errorf("start daemon: %w", err)
	}

	<-ctx.Done()
	logger.Info("studypulsed shutting down")
	return nil
}
