// Package cli holds the initialization steps shared by cmd/quanly,
// cmd/quanly-worker, and cmd/quanly-import.
package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"quanly/internal/config"
	applog "quanly/internal/log"
	"quanly/internal/storage"
)

// SetupLogger initializes structured logging and installs it as the process
// default so package-level slog calls share the same handler.
func SetupLogger() *applog.Logger {
	logger := applog.New(applog.Config{
		Level: slog.LevelInfo,
		JSON:  os.Getenv("LOG_FORMAT") == "json",
	})
	applog.SetDefault(logger)
	return logger
}

// LoadEnvFile loads .env when present. Production deployments set real env
// vars, so a missing file is not an error.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig reads the env config and exits the process when it
// does not validate. Mains have nothing useful to do with a broken config.
func LoadAndValidateConfig(logger *applog.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}
	return cfg
}

// InitSQLite opens the lease-entry log, exiting the process on failure.
func InitSQLite(logger *applog.Logger, dbPath string) *storage.SQLiteRepository {
	repo, err := storage.NewSQLiteRepository(dbPath)
	if err != nil {
		logger.Error("Cannot open SQLite ledger", "error", err, "path", dbPath)
		os.Exit(1)
	}
	return repo
}

// GracefulShutdown installs SIGINT/SIGTERM handling. The returned context is
// cancelled after cleanup runs; done closes once shutdown has finished or
// the timeout has passed.
func GracefulShutdown(logger *applog.Logger, timeout time.Duration, cleanup func()) (context.Context, <-chan struct{}) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		defer close(done)

		sig := <-sigCh
		logger.Info("Shutdown signal received", "signal", sig.String())

		deadline := time.After(timeout)
		finished := make(chan struct{})
		go func() {
			if cleanup != nil {
				cleanup()
			}
			cancel()
			close(finished)
		}()

		select {
		case <-finished:
			logger.Info("Shutdown complete")
		case <-deadline:
			logger.Warn("Shutdown timed out", "timeout", timeout)
			cancel()
		}
	}()

	return ctx, done
}

// WaitForShutdown blocks until the shutdown sequence has run.
func WaitForShutdown(ctx context.Context, done <-chan struct{}) {
	<-ctx.Done()
	<-done
}
