package game

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/uptrace/bun"

	"github.com/grogbot/dominions-bot/app/eventbus"
	gameservice "github.com/grogbot/dominions-bot/app/modules/game/application"
	gamedomain "github.com/grogbot/dominions-bot/app/modules/game/domain"
	lobbycache "github.com/grogbot/dominions-bot/app/modules/game/infrastructure/cache"
	gamehandlers "github.com/grogbot/dominions-bot/app/modules/game/infrastructure/handlers"
	"github.com/grogbot/dominions-bot/app/modules/game/infrastructure/lobby"
	gamemetrics "github.com/grogbot/dominions-bot/app/modules/game/infrastructure/metrics"
	"github.com/grogbot/dominions-bot/app/modules/game/infrastructure/notifier"
	gamequeue "github.com/grogbot/dominions-bot/app/modules/game/infrastructure/queue"
	gamedb "github.com/grogbot/dominions-bot/app/modules/game/infrastructure/repositories"
	"github.com/grogbot/dominions-bot/config"
	"github.com/grogbot/dominions-bot/internal/observability"
)

// Module represents the game tracking module.
type Module struct {
	GameService   gameservice.Service
	SlackHandlers *gamehandlers.SlackHandlers
	QueueService  gamequeue.QueueService

	routeConfig gamehandlers.RouteConfig
	redis       *redis.Client
	logger      *slog.Logger

	// done is cancelled by Close; Run never starts the queue after that.
	done       context.Context
	cancelFunc context.CancelFunc
	queueMu    sync.Mutex
}

// NewGameModule creates and initializes a new game module.
// bus may be nil when notifications do not go through NATS.
func NewGameModule(
	ctx context.Context,
	cfg *config.Config,
	obs *observability.Observability,
	bus *eventbus.EventBus,
	db *bun.DB,
) (*Module, error) {
	logger := obs.Logger
	tracer := obs.Tracer

	logger.InfoContext(ctx, "game.NewGameModule initializing")

	// 1. Initialize Repository
	repo := gamedb.NewRepository(db)

	// 2. Initialize Metrics
	metrics, err := gamemetrics.NewPrometheus(obs.Registry)
	if err != nil {
		return nil, fmt.Errorf("failed to register game metrics: %w", err)
	}

	// 3. Status source and optional cache
	source := lobby.NewClient(lobby.Config{
		URLTemplate:       cfg.Tracker.StatusURLTemplate,
		Timeout:           cfg.Tracker.FetchTimeout,
		RequestsPerSecond: cfg.Tracker.FetchRate,
	})

	var (
		cache       gameservice.LobbyCache
		redisClient *redis.Client
	)
	if cfg.Redis.Addr != "" {
		redisClient, err = lobbycache.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return nil, err
		}
		cache = lobbycache.NewRedisCache(redisClient, cfg.Redis.TTL)
	}

	// 4. Notification sink and dispatcher
	sink, err := newSink(cfg.Notifications, bus, logger)
	if err != nil {
		if redisClient != nil {
			_ = redisClient.Close()
		}
		return nil, err
	}
	dispatcher := gameservice.NewDispatcher(repo, sink, logger, metrics)

	// 5. Initialize Service
	service := gameservice.NewGameService(repo, source, cache, dispatcher, logger, metrics, tracer, db, gameservice.Options{
		FinishPolicy: gamedomain.FinishPolicy{
			Marker:               cfg.Tracker.FinishedMarker,
			MissingTimerFinishes: cfg.Tracker.MissingTimerFinishes,
		},
		MaxConcurrency: cfg.Tracker.MaxConcurrency,
	})

	// 6. Initialize Handlers
	commands := gamehandlers.NewCommands(service, logger, tracer)
	slack := gamehandlers.NewSlackHandlers(commands, logger)

	// 7. Initialize the poll queue
	queue, err := gamequeue.NewService(ctx, cfg.Postgres.DSN, service, gamequeue.Config{
		PollInterval: cfg.Tracker.PollInterval,
	}, logger, metrics)
	if err != nil {
		if redisClient != nil {
			_ = redisClient.Close()
		}
		return nil, fmt.Errorf("failed to create game queue: %w", err)
	}

	logger.InfoContext(ctx, "Game module initialized",
		slog.String("sink", sink.Destination()),
		slog.Bool("cache", cache != nil),
	)

	done, cancel := context.WithCancel(context.Background())
	return &Module{
		GameService:   service,
		SlackHandlers: slack,
		QueueService:  queue,
		routeConfig: gamehandlers.RouteConfig{
			SigningSecret:  cfg.Slack.SigningSecret,
			RequestsPerSec: cfg.HTTP.RequestsPerSec,
			Burst:          cfg.HTTP.Burst,
		},
		redis:      redisClient,
		logger:     logger,
		done:       done,
		cancelFunc: cancel,
	}, nil
}

func newSink(cfg config.NotificationsConfig, bus *eventbus.EventBus, logger *slog.Logger) (gameservice.Sink, error) {
	switch cfg.Sink {
	case config.SinkNATS:
		if bus == nil {
			return nil, fmt.Errorf("notification sink %q needs a NATS connection", cfg.Sink)
		}
		return notifier.NewPublisherSink(bus.Publisher(), cfg.Subject), nil
	case config.SinkWebhook:
		return notifier.NewWebhookSink(cfg.WebhookURL, 0), nil
	case config.SinkLog, "":
		return notifier.NewLogSink(logger), nil
	default:
		return nil, fmt.Errorf("unknown notification sink %q", cfg.Sink)
	}
}

// RegisterRoutes mounts the slash-command endpoint.
func (m *Module) RegisterRoutes(r chi.Router) {
	m.SlackHandlers.Mount(r, m.routeConfig)
}

// HealthCheck reports whether the poll queue can reach its database.
func (m *Module) HealthCheck(ctx context.Context) error {
	return m.QueueService.HealthCheck(ctx)
}

// Run starts the game module and blocks until ctx is done or Close is called.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	if wg != nil {
		defer wg.Done()
	}
	m.logger.InfoContext(ctx, "Starting game module")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(m.done, cancel)
	defer stop()

	m.queueMu.Lock()
	if m.done.Err() != nil {
		m.queueMu.Unlock()
		m.logger.InfoContext(ctx, "Game module closed before start")
		return
	}
	err := m.QueueService.Start(ctx)
	m.queueMu.Unlock()
	if err != nil {
		m.logger.ErrorContext(ctx, "Failed to start game queue", slog.Any("error", err))
		return
	}

	<-ctx.Done()
	m.logger.InfoContext(ctx, "Game module goroutine stopped")
}

// Close shuts down the game module. It is safe to call before or during Run.
func (m *Module) Close() error {
	m.logger.Info("Stopping game module")

	if m.cancelFunc != nil {
		m.cancelFunc()
	}

	stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if m.SlackHandlers != nil {
		m.SlackHandlers.Wait()
	}

	var firstErr error
	if m.QueueService != nil {
		m.queueMu.Lock()
		err := m.QueueService.Stop(stopCtx)
		m.queueMu.Unlock()
		if err != nil {
			m.logger.Error("Error stopping game queue", slog.Any("error", err))
			firstErr = fmt.Errorf("error stopping game queue: %w", err)
		}
	}
	if m.redis != nil {
		if err := m.redis.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("error closing redis: %w", err)
		}
	}

	m.logger.Info("Game module stopped")
	return firstErr
}
