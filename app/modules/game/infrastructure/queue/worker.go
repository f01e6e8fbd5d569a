package gamequeue

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	gameservice "github.com/grogbot/dominions-bot/app/modules/game/application"
	"github.com/riverqueue/river"
)

// Poller runs one reconciliation cycle.
type Poller interface {
	PollActiveGames(ctx context.Context) (gameservice.CycleReport, error)
}

// PollGamesWorker executes PollGamesArgs jobs.
type PollGamesWorker struct {
	river.WorkerDefaults[PollGamesArgs]
	poller  Poller
	logger  *slog.Logger
	timeout time.Duration
}

// NewPollGamesWorker creates the worker. timeout bounds a single cycle.
func NewPollGamesWorker(poller Poller, logger *slog.Logger, timeout time.Duration) *PollGamesWorker {
	return &PollGamesWorker{poller: poller, logger: logger, timeout: timeout}
}

// Timeout bounds a single poll cycle.
func (w *PollGamesWorker) Timeout(*river.Job[PollGamesArgs]) time.Duration {
	return w.timeout
}

func (w *PollGamesWorker) Work(ctx context.Context, job *river.Job[PollGamesArgs]) error {
	report, err := w.poller.PollActiveGames(ctx)
	if err != nil {
		w.logger.ErrorContext(ctx, "Poll cycle failed",
			slog.Int64("job_id", job.ID),
			slog.Any("error", err),
		)
		return fmt.Errorf("poll cycle: %w", err)
	}

	w.logger.InfoContext(ctx, "Poll job finished",
		slog.Int64("job_id", job.ID),
		slog.Int("games", len(report.Results)),
		slog.Int("failed", report.Failed()),
	)
	return nil
}
