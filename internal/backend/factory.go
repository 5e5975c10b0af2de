package backend

import (
	"context"
	"fmt"
	"log/slog"

	"quanly/internal/amqp"
	glsheet "quanly/internal/ledger/google"
	"quanly/internal/ledger/memory"
	"quanly/internal/services"
	"quanly/internal/storage"
)

type defaultFactory struct {
	logger *slog.Logger
}

// NewFactory returns the standard factory. A nil logger falls back to the
// process default.
func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &defaultFactory{logger: logger}
}

func (f *defaultFactory) CreateBackend(ctx context.Context, cfg Config) (*BackendResult, error) {
	switch cfg.Type {
	case SQLiteBackend:
		return f.buildSQLite(cfg)
	case SheetsBackend:
		return f.buildSheets(ctx)
	case MemoryBackend:
		f.logger.Info("Using in-memory backend")
		return &BackendResult{Backend: memory.New()}, nil
	default:
		return nil, fmt.Errorf("unknown backend type %q", cfg.Type)
	}
}

// buildSQLite wires the append-only log plus, when a broker URL is set, the
// sync-message publisher. A broker that is down at startup only costs the
// publish path; rows stay pending and the worker recovers them.
func (f *defaultFactory) buildSQLite(cfg Config) (*BackendResult, error) {
	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite ledger: %w", err)
	}

	var bus *amqp.Client
	if cfg.AMQPURL != "" {
		bus, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			f.logger.Warn("AMQP unavailable, entries will sync via worker scan", "error", err)
			bus = nil
		}
	}

	svc := services.NewEntryService(repo, bus)
	f.logger.Info("Using SQLite backend",
		"db_path", cfg.SQLiteDBPath, "amqp_enabled", bus != nil)
	return &BackendResult{Backend: svc, Cleanup: svc.Close}, nil
}

func (f *defaultFactory) buildSheets(ctx context.Context) (*BackendResult, error) {
	cli, err := glsheet.NewFromEnv(ctx)
	if err != nil {
		return nil, fmt.Errorf("init sheets client: %w", err)
	}
	f.logger.Info("Using Google Sheets backend")
	return &BackendResult{Backend: cli}, nil
}
