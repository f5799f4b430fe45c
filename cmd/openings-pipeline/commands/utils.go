// ABOUTME: Shared setup helpers for CLI commands
// ABOUTME: Consolidates config, logger, store, and progress wiring
package commands

import (
	"fmt"
	"io"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/Freddiekinns/chess-opening-explorer/internal/config"
	"github.com/Freddiekinns/chess-opening-explorer/internal/models"
	"github.com/Freddiekinns/chess-opening-explorer/internal/storage"
	"github.com/Freddiekinns/chess-opening-explorer/internal/storage/sqlite"
)

// loadConfig reads .env (if present) and the EXPLORER_* environment
func loadConfig() (*config.Config, error) {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// newLogger builds the command logger; verbose switches to development output
func newLogger() (*zap.Logger, error) {
	if quiet {
		return zap.NewNop(), nil
	}
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// storeFactory defers opening the store until the pipeline needs it
func storeFactory(cfg *config.Config) storage.Factory {
	return func() (storage.Gateway, error) {
		return sqlite.Open(cfg.DBPath)
	}
}

// openGateway opens the store directly for commands that read it up front.
// Schema creation is idempotent, so a freshly created store file ends up
// with its tables instead of surfacing "no such table" on every insert.
func openGateway(cfg *config.Config) (storage.Gateway, error) {
	gw, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}
	if err := gw.InitSchema(); err != nil {
		_ = gw.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}
	return gw, nil
}

// progressSink renders batch progress to the command's output stream
func progressSink(out io.Writer) models.ProgressSink {
	if quiet {
		return models.NopProgress
	}
	return models.ProgressFunc(func(e models.ProgressEvent) {
		fmt.Fprintf(out, "[%s] %d/%d (%.1f%%) %s\n", e.Stage, e.Processed, e.Total, e.Percent, e.LastItem)
	})
}

// printErrors lists collected run errors unless quiet is set
func printErrors(out io.Writer, errs models.ErrorList) {
	if quiet || len(errs) == 0 {
		return
	}
	fmt.Fprintf(out, "%d error(s):\n", len(errs))
	for _, line := range errs.Strings() {
		fmt.Fprintf(out, "  %s\n", line)
	}
}
