package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"moneta/internal/backend"
	"moneta/internal/config"
	"moneta/internal/events"
	applog "moneta/internal/log"
	"moneta/internal/storage"
	"moneta/internal/worker"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger := applog.New(applog.ComponentWorker, applog.ParseLevel(cfg.LogLevel))
	applog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("configuration validation failed", "error", err)
		os.Exit(1)
	}
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the backup worker")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	be, err := backend.Open(cfg, logger.Logger)
	if err != nil {
		logger.Error("failed to open data backend", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := be.Cleanup(); err != nil {
			logger.Warn("backend cleanup failed", "error", err)
		}
	}()

	store := storage.New(be.Store)

	client, err := events.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("failed to connect to AMQP", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := client.Close(); err != nil {
			logger.Warn("AMQP close failed", "error", err)
		}
	}()

	w := worker.NewBackupWorker(store, client, cfg.BackupPath, cfg.BackupInterval)

	logger.Info("backup worker started",
		"backend", cfg.DataBackend,
		"path", cfg.BackupPath,
		"interval", cfg.BackupInterval,
	)

	if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("backup worker stopped", "error", err)
		os.Exit(1)
	}
	logger.Info("backup worker shut down")
}
