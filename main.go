package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/grogbot/dominions-bot/app"
	"github.com/grogbot/dominions-bot/config"
	"github.com/grogbot/dominions-bot/internal/observability"
)

func main() {
	configFile := flag.String("config", "config.yaml", "Path to the configuration file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	obs := observability.New(observability.Config{
		LogLevel:    cfg.Observability.LogLevel,
		LogFormat:   cfg.Observability.LogFormat,
		Environment: cfg.Observability.Environment,
	})
	logger := obs.Logger
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.NewApp(ctx, cfg, obs)
	if err != nil {
		logger.Error("Failed to initialize app", slog.Any("error", err))
		os.Exit(1)
	}

	runErr := application.Start(ctx)
	if runErr != nil {
		logger.Error("Application stopped with error", slog.Any("error", runErr))
	}

	if err := application.Close(); err != nil {
		logger.Error("Error during shutdown", slog.Any("error", err))
	}
	logger.Info("Application shut down gracefully")

	if runErr != nil {
		os.Exit(1)
	}
}
