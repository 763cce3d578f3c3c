package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"finvision/internal/amqp"
	"finvision/internal/config"
	applog "finvision/internal/log"
	"finvision/internal/services"
	"finvision/internal/sheets"
	"finvision/internal/sheets/google"
	"finvision/internal/storage"
	"finvision/internal/worker"
)

func main() {
	_ = godotenv.Load()

	logger := applog.New(applog.Config{Level: slog.LevelInfo, Component: "worker"})
	applog.SetDefault(logger)

	logger.Info("Starting finvision worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	repo, err := storage.Open(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to open database", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to connect AMQP, running scan-only", "error", err)
			amqpClient = nil
		} else {
			defer amqpClient.Close()
		}
	} else {
		logger.Info("AMQP disabled, running scan-only")
	}

	var exporter sheets.TransactionWriter
	if cfg.SheetsSpreadsheetID != "" {
		client, err := google.New(ctx, cfg.SheetsSpreadsheetID, cfg.SheetsReportName)
		if err != nil {
			logger.Warn("Failed to initialize report export", "error", err)
		} else {
			exporter = client
			logger.Info("Report export enabled",
				"spreadsheet_id", cfg.SheetsSpreadsheetID,
				"sheet", cfg.SheetsReportName)
		}
	}

	processor := services.NewRecurringProcessor(repo, exporter)
	w := worker.NewRecurringWorker(processor, amqpClient, cfg.RecurringInterval)

	logger.Info("Worker configured",
		"interval", cfg.RecurringInterval,
		"sqlite_db", cfg.SQLiteDBPath)

	if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker failed", "error", err)
		os.Exit(1)
	}
	logger.Info("Worker shutdown complete")
}
