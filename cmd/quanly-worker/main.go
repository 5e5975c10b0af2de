package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"quanly/internal/amqp"
	"quanly/internal/cli"
	glsheet "quanly/internal/ledger/google"
	applog "quanly/internal/log"
	"quanly/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger().WithComponent(applog.ComponentWorker)
	logger.Info("Starting quanly-worker")

	cfg := cli.LoadAndValidateConfig(logger)

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	if cfg.GoogleSpreadsheetID == "" {
		logger.Error("The worker mirrors to Google Sheets; set GOOGLE_SPREADSHEET_ID")
		os.Exit(1)
	}
	sheetsClient, err := glsheet.NewFromEnv(context.Background())
	if err != nil {
		logger.Error("Cannot build Sheets client", "error", err)
		os.Exit(1)
	}
	logger.Info("Mirroring to spreadsheet", "spreadsheet_id", cfg.GoogleSpreadsheetID)

	bus, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Cannot connect to AMQP broker", "error", err)
		os.Exit(1)
	}
	defer bus.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	syncWorker := worker.NewSyncWorker(repo, sheetsClient, sheetsClient, cfg.SyncBatchSize)

	// Optional full republish, for recovering from manual sheet edits
	if os.Getenv("REBUILD_MIRROR") == "true" {
		logger.Info("Rebuilding sheet mirror from local log")
		if err := syncWorker.RebuildMirror(ctx); err != nil {
			logger.Error("Mirror rebuild failed", "error", err)
			os.Exit(1)
		}
	}

	// Catch up on rows the broker never delivered.
	if err := syncWorker.StartupSyncCheck(ctx); err != nil {
		logger.Error("Startup sync check failed, continuing", "error", err)
	}

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := bus.ConsumeEntrySync(ctx, func(msg *amqp.EntrySyncMessage) error {
			return syncWorker.HandleSyncMessage(ctx, msg)
		}); err != nil {
			if err != context.Canceled {
				logger.Error("Consumer stopped", "error", err)
			}
			cancel()
		}
	}()

	// Periodic sweep for rows whose message was lost.
	ticker := time.NewTicker(cfg.SyncInterval)
	defer ticker.Stop()
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := syncWorker.ProcessPendingEntries(ctx); err != nil {
					logger.Error("Periodic sync failed", "error", err)
				}
			}
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("Stopping on signal", "signal", sig.String())
	case <-ctx.Done():
		logger.Info("Stopping, consumer ended")
	}
	cancel()

	// Let the consumer and the sweep finish their in-flight syncs.
	idle := make(chan struct{})
	go func() {
		wg.Wait()
		close(idle)
	}()
	select {
	case <-idle:
		logger.Info("Worker stopped")
	case <-time.After(30 * time.Second):
		logger.Warn("Worker stopped with syncs still in flight")
	}
}
