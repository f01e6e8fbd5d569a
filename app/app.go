package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	"github.com/grogbot/dominions-bot/app/eventbus"
	"github.com/grogbot/dominions-bot/app/modules/game"
	"github.com/grogbot/dominions-bot/config"
	"github.com/grogbot/dominions-bot/internal/observability"
)

// App wires configuration, infrastructure and modules together.
type App struct {
	Config        *config.Config
	Observability *observability.Observability
	DB            *bun.DB
	EventBus      *eventbus.EventBus
	GameModule    *game.Module

	server *http.Server
	wg     sync.WaitGroup
}

// NewApp initializes the application with the necessary services and configuration.
func NewApp(ctx context.Context, cfg *config.Config, obs *observability.Observability) (*App, error) {
	logger := obs.Logger
	app := &App{Config: cfg, Observability: obs}

	pgdb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.Postgres.DSN)))
	app.DB = bun.NewDB(pgdb, pgdialect.New())
	if err := app.DB.PingContext(ctx); err != nil {
		_ = app.DB.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	logger.InfoContext(ctx, "Database connection established")

	if cfg.NATS.URL != "" {
		bus, err := eventbus.NewEventBus(ctx, eventbus.Config{
			URL:       cfg.NATS.URL,
			NKeySeed:  cfg.NATS.NKeySeed,
			JetStream: cfg.NATS.JetStream,
			Stream:    cfg.NATS.Stream,
			Subjects:  []string{cfg.Notifications.Subject},
		}, logger)
		if err != nil {
			_ = app.DB.Close()
			return nil, fmt.Errorf("failed to initialize event bus: %w", err)
		}
		app.EventBus = bus
	}

	gameModule, err := game.NewGameModule(ctx, cfg, obs, app.EventBus, app.DB)
	if err != nil {
		app.closeInfra()
		return nil, fmt.Errorf("failed to initialize game module: %w", err)
	}
	app.GameModule = gameModule

	app.server = &http.Server{
		Addr:    cfg.HTTP.Addr,
		Handler: app.Router(),
	}

	logger.InfoContext(ctx, "Application initialized", slog.String("http_addr", cfg.HTTP.Addr))
	return app, nil
}

// HealthCheck reports the health of every dependency.
func (app *App) HealthCheck(ctx context.Context) error {
	if err := app.DB.PingContext(ctx); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if app.EventBus != nil {
		if err := app.EventBus.HealthCheck(ctx); err != nil {
			return fmt.Errorf("eventbus: %w", err)
		}
	}
	if err := app.GameModule.HealthCheck(ctx); err != nil {
		return fmt.Errorf("game queue: %w", err)
	}
	return nil
}

// Close shuts modules down first, then the shared infrastructure.
func (app *App) Close() error {
	var firstErr error
	if app.GameModule != nil {
		if err := app.GameModule.Close(); err != nil {
			firstErr = err
		}
	}
	app.wg.Wait()
	app.closeInfra()
	return firstErr
}

func (app *App) closeInfra() {
	logger := app.Observability.Logger
	if app.EventBus != nil {
		if err := app.EventBus.Close(); err != nil {
			logger.Error("Error closing event bus", slog.Any("error", err))
		}
	}
	if app.DB != nil {
		if err := app.DB.Close(); err != nil {
			logger.Error("Error closing database", slog.Any("error", err))
		}
	}
}
