package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"finvision/internal/amqp"
	"finvision/internal/auth"
	"finvision/internal/config"
	"finvision/internal/dashboard"
	apphttp "finvision/internal/http"
	applog "finvision/internal/log"
	"finvision/internal/services"
	"finvision/internal/storage"
)

func main() {
	// .env is for local development; missing file is fine.
	_ = godotenv.Load()

	logger := applog.New(applog.Config{Level: slog.LevelInfo, Component: "api"})
	applog.SetDefault(logger)

	logger.Info("Starting finvision API")

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

	// Without a broker, recurring templates are picked up by the worker's
	// periodic scan instead of a queue message.
	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to connect AMQP, continuing without queue", "error", err)
			amqpClient = nil
		} else {
			defer amqpClient.Close()
		}
	} else {
		logger.Info("AMQP disabled")
	}

	var publisher services.TemplatePublisher
	if amqpClient != nil {
		publisher = amqpClient
	}

	server := apphttp.NewServer(
		":"+cfg.Port,
		repo,
		services.NewTransactionService(repo, publisher),
		dashboard.NewService(repo),
		auth.NewTokens(cfg.JWTSecret, cfg.JWTExpiry),
	)

	go func() {
		logger.Info("Listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	logger.Info("Shutdown signal received", "signal", sig.String())

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Shutdown failed", "error", err)
		os.Exit(1)
	}
	logger.Info("Shutdown complete")
}
