package main

import (
	"context"
	"os"

	"quanly/internal/amqp"
	"quanly/internal/cli"
	"quanly/internal/importer"
	applog "quanly/internal/log"
	"quanly/internal/services"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger().WithComponent(applog.ComponentImport)

	if len(os.Args) < 2 {
		logger.Error("Usage: quanly-import <workbook.xlsx> [more.xlsx ...]")
		os.Exit(2)
	}

	cfg := cli.LoadAndValidateConfig(logger)

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	// AMQP is optional here too; without it the worker's startup check
	// picks the imported rows up later.
	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		var err error
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, importing without sync messages", "error", err)
			amqpClient = nil
		} else {
			defer amqpClient.Close()
		}
	}

	service := services.NewEntryService(repo, amqpClient)
	imp := importer.New(service)

	ctx := context.Background()
	exitCode := 0
	for _, path := range os.Args[1:] {
		res, err := imp.ImportFile(ctx, path)
		if err != nil {
			logger.Error("Import failed", "path", path, "error", err)
			exitCode = 1
			continue
		}
		logger.Info("Import finished",
			"path", path,
			"batch_id", res.BatchID,
			"sheets", len(res.Sheets),
			"parsed", res.Parsed,
			"appended", res.Appended,
			"failed", res.Failed)
		if res.Failed > 0 {
			exitCode = 1
		}
	}

	os.Exit(exitCode)
}
