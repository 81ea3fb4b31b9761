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
	"golang.org/x/sync/errgroup"

	appamqp "pocketledger/internal/amqp"
	"pocketledger/internal/config"
	"pocketledger/internal/extract"
	apphttp "pocketledger/internal/http"
	"pocketledger/internal/services"
	"pocketledger/internal/storage"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	store, err := storage.Open(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to open store", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}

	// AMQP is optional; without it writes still succeed, only backups stop.
	var publisher services.BackupPublisher
	if cfg.AMQPURL != "" {
		amqpClient, err := appamqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client, backups disabled", "error", err)
		} else {
			publisher = amqpClient
			logger.Info("AMQP backup publishing enabled", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
		}
	} else {
		logger.Info("AMQP disabled - no AMQP_URL provided")
	}

	service := services.NewLedgerService(store, publisher)
	defer service.Close()

	var pipeline *extract.Pipeline
	if cfg.AIAPIKey != "" {
		pipeline = extract.NewPipeline(extract.NewClient(extract.Config{
			URL:            cfg.AIAPIURL,
			APIKey:         cfg.AIAPIKey,
			Model:          cfg.AIModel,
			ConnectTimeout: cfg.AIConnectTimeout,
			ReadTimeout:    cfg.AIReadTimeout,
		}))
		logger.Info("Assistant enabled", "model", cfg.AIModel)
	} else {
		logger.Info("Assistant disabled - no AI_API_KEY provided")
	}

	srv := apphttp.NewServer(":"+cfg.Port, service, store, pipeline)
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 60 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting pocketledger server", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		logger.Info("Shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", "error", err)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}
