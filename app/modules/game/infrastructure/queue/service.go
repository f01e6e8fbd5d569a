package gamequeue

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	gamemetrics "github.com/grogbot/dominions-bot/app/modules/game/infrastructure/metrics"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
)

const (
	// DefaultPollInterval is how often every active game is checked.
	DefaultPollInterval = 15 * time.Minute
	component           = "river"
)

// Config controls the poll schedule.
type Config struct {
	PollInterval time.Duration
	CycleTimeout time.Duration
	MaxWorkers   int
}

// QueueService defines the lifecycle of the background poller.
type QueueService interface {
	// TriggerPoll enqueues an immediate poll cycle.
	TriggerPoll(ctx context.Context) error
	HealthCheck(ctx context.Context) error
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

var _ QueueService = (*Service)(nil)

// Service runs the periodic poll job on River.
type Service struct {
	client  *river.Client[pgx.Tx]
	pool    *pgxpool.Pool
	logger  *slog.Logger
	metrics gamemetrics.GameMetrics
}

// NewService creates a River client with the poll worker and periodic job registered.
func NewService(ctx context.Context, dsn string, poller Poller, cfg Config, logger *slog.Logger, metrics gamemetrics.GameMetrics) (*Service, error) {
	ctxLogger := logger.With(
		slog.String("operation", "new_game_queue_service"),
		slog.String("component", "river_queue"),
	)
	if metrics == nil {
		metrics = gamemetrics.NewNoop()
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultPollInterval
	}
	if cfg.CycleTimeout <= 0 {
		cfg.CycleTimeout = cfg.PollInterval
	}
	if cfg.MaxWorkers <= 0 {
		cfg.MaxWorkers = 1
	}

	metrics.RecordOperationAttempt(ctx, "initialize_service", component)
	ctxLogger.Info("Initializing game queue service", slog.Duration("poll_interval", cfg.PollInterval))

	// River requires pgx, not database/sql
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		metrics.RecordOperationFailure(ctx, "initialize_service", component)
		return nil, fmt.Errorf("failed to parse DSN: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		metrics.RecordOperationFailure(ctx, "initialize_service", component)
		return nil, fmt.Errorf("failed to create pgx pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		ctxLogger.Error("Failed to ping database for River", slog.Any("error", err))
		metrics.RecordOperationFailure(ctx, "initialize_service", component)
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	workers := river.NewWorkers()
	river.AddWorker(workers, NewPollGamesWorker(poller, ctxLogger, cfg.CycleTimeout))

	riverClient, err := river.NewClient(riverpgxv5.New(pool), &river.Config{
		Queues: map[string]river.QueueConfig{
			QueueGames: {MaxWorkers: cfg.MaxWorkers},
		},
		Workers:      workers,
		PeriodicJobs: periodicJobs(cfg.PollInterval),
		Logger:       logger,
	})
	if err != nil {
		pool.Close()
		ctxLogger.Error("Failed to create River client", slog.Any("error", err))
		metrics.RecordOperationFailure(ctx, "initialize_service", component)
		return nil, fmt.Errorf("failed to create River client: %w", err)
	}

	metrics.RecordOperationSuccess(ctx, "initialize_service", component)
	ctxLogger.Info("Game queue service initialized successfully")

	return &Service{
		client:  riverClient,
		pool:    pool,
		logger:  ctxLogger,
		metrics: metrics,
	}, nil
}

// Start starts the River client; the periodic poll runs immediately.
func (s *Service) Start(ctx context.Context) error {
	s.logger.Info("Starting game queue service")
	if err := s.client.Start(ctx); err != nil {
		s.logger.Error("Failed to start River client", slog.Any("error", err))
		s.metrics.RecordOperationFailure(ctx, "start_service", component)
		return fmt.Errorf("failed to start River client: %w", err)
	}
	s.metrics.RecordOperationSuccess(ctx, "start_service", component)
	return nil
}

// Stop waits for a running cycle to finish, then closes the pool.
func (s *Service) Stop(ctx context.Context) error {
	s.logger.Info("Stopping game queue service")
	defer s.pool.Close()

	if err := s.client.Stop(ctx); err != nil {
		s.logger.Error("Failed to stop River client", slog.Any("error", err))
		s.metrics.RecordOperationFailure(ctx, "stop_service", component)
		return fmt.Errorf("failed to stop River client: %w", err)
	}
	s.metrics.RecordOperationSuccess(ctx, "stop_service", component)
	s.logger.Info("Game queue service stopped successfully")
	return nil
}

func (s *Service) TriggerPoll(ctx context.Context) error {
	if _, err := s.client.Insert(ctx, PollGamesArgs{}, nil); err != nil {
		return fmt.Errorf("failed to enqueue poll: %w", err)
	}
	return nil
}

// HealthCheck verifies the queue's database is reachable.
func (s *Service) HealthCheck(ctx context.Context) error {
	if s.client == nil {
		return fmt.Errorf("river client is nil")
	}

	var count int
	if err := s.pool.QueryRow(ctx, "SELECT COUNT(*) FROM river_job WHERE kind = $1", PollGamesArgs{}.Kind()).Scan(&count); err != nil {
		s.logger.Error("Queue service health check failed", slog.Any("error", err))
		return fmt.Errorf("queue service health check failed: %w", err)
	}

	s.logger.Debug("Queue service health check passed", slog.Int("poll_jobs", count))
	return nil
}
