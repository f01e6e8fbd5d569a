package gameservice

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	gamedomain "github.com/grogbot/dominions-bot/app/modules/game/domain"
	gamemetrics "github.com/grogbot/dominions-bot/app/modules/game/infrastructure/metrics"
	gamedb "github.com/grogbot/dominions-bot/app/modules/game/infrastructure/repositories"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	serviceName           = "GameService"
	defaultMaxConcurrency = 4
)

// Options tunes reconciliation and polling.
type Options struct {
	FinishPolicy   gamedomain.FinishPolicy
	MaxConcurrency int
	// Now overrides the clock used for deadline estimates.
	Now func() time.Time
}

// GameService implements the Service interface.
type GameService struct {
	repo       gamedb.Repository
	source     StatusSource
	cache      LobbyCache
	dispatcher *Dispatcher
	logger     *slog.Logger
	metrics    gamemetrics.GameMetrics
	tracer     trace.Tracer
	db         *bun.DB

	policy         gamedomain.FinishPolicy
	maxConcurrency int
	now            func() time.Time
}

// NewGameService creates a new GameService. cache and dispatcher may be nil.
func NewGameService(
	repo gamedb.Repository,
	source StatusSource,
	cache LobbyCache,
	dispatcher *Dispatcher,
	logger *slog.Logger,
	metrics gamemetrics.GameMetrics,
	tracer trace.Tracer,
	db *bun.DB,
	opts Options,
) *GameService {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = gamemetrics.NewNoop()
	}
	if opts.MaxConcurrency < 1 {
		opts.MaxConcurrency = defaultMaxConcurrency
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &GameService{
		repo:           repo,
		source:         source,
		cache:          cache,
		dispatcher:     dispatcher,
		logger:         logger,
		metrics:        metrics,
		tracer:         tracer,
		db:             db,
		policy:         opts.FinishPolicy,
		maxConcurrency: opts.MaxConcurrency,
		now:            opts.Now,
	}
}

var _ Service = (*GameService)(nil)

// -----------------------------------------------------------------------------
// Generic Helpers (Defined as functions because methods cannot have type params)
// -----------------------------------------------------------------------------

// withTelemetry wraps a service operation with tracing, metrics, and panic recovery.
func withTelemetry[T any](
	s *GameService,
	ctx context.Context,
	operationName string,
	identifier string,
	op func(ctx context.Context) (T, error),
) (result T, err error) {
	var span trace.Span
	if s.tracer != nil {
		ctx, span = s.tracer.Start(ctx, operationName, trace.WithAttributes(
			attribute.String("operation", operationName),
			attribute.String("identifier", identifier),
		))
	} else {
		span = trace.SpanFromContext(ctx)
	}
	defer span.End()

	s.metrics.RecordOperationAttempt(ctx, operationName, serviceName)

	startTime := time.Now()
	defer func() {
		s.metrics.RecordOperationDuration(ctx, operationName, serviceName, time.Since(startTime))
	}()

	s.logger.InfoContext(ctx, "Operation triggered",
		slog.String("operation", operationName),
		slog.String("identifier", identifier),
	)

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in %s: %v", operationName, r)
			s.logger.ErrorContext(ctx, "Critical panic recovered",
				slog.String("identifier", identifier),
				slog.Any("error", err),
			)
			s.metrics.RecordOperationFailure(ctx, operationName, serviceName)
			span.RecordError(err)
			var zero T
			result = zero
		}
	}()

	result, err = op(ctx)
	if err != nil {
		if isUserFailure(err) {
			s.logger.WarnContext(ctx, "Operation returned failure result",
				slog.String("operation", operationName),
				slog.String("identifier", identifier),
				slog.String("failure", err.Error()),
			)
		} else {
			s.logger.ErrorContext(ctx, "Operation failed with error",
				slog.String("operation", operationName),
				slog.String("identifier", identifier),
				slog.Any("error", err),
			)
			span.RecordError(err)
		}
		s.metrics.RecordOperationFailure(ctx, operationName, serviceName)
		return result, err
	}

	s.logger.InfoContext(ctx, "Operation completed successfully",
		slog.String("operation", operationName),
		slog.String("identifier", identifier),
	)
	s.metrics.RecordOperationSuccess(ctx, operationName, serviceName)
	return result, nil
}

// runInTx ensures the operation runs within a transaction.
func runInTx[T any](
	s *GameService,
	ctx context.Context,
	fn func(ctx context.Context, db bun.IDB) (T, error),
) (T, error) {
	if s.db == nil {
		return fn(ctx, nil)
	}

	var result T
	err := s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		var txErr error
		result, txErr = fn(ctx, tx)
		return txErr
	})
	return result, err
}

// isUserFailure reports errors caused by command input rather than infrastructure.
func isUserFailure(err error) bool {
	var nf *gamedomain.NotFoundError
	switch {
	case errors.As(err, &nf),
		errors.Is(err, ErrGameAlreadyTracked),
		errors.Is(err, ErrGameInactive),
		errors.Is(err, ErrNoPrimaryGame),
		errors.Is(err, ErrInvalidStatus),
		errors.Is(err, ErrEmptyName):
		return true
	}
	return false
}
