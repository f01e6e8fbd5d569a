package gameservice

import (
	"context"
	"log/slog"

	gamedomain "github.com/grogbot/dominions-bot/app/modules/game/domain"
	gamemetrics "github.com/grogbot/dominions-bot/app/modules/game/infrastructure/metrics"
	gamedb "github.com/grogbot/dominions-bot/app/modules/game/infrastructure/repositories"
)

// Dispatcher announces turn advances and finished games to a Sink.
type Dispatcher struct {
	repo    gamedb.Repository
	sink    Sink
	logger  *slog.Logger
	metrics gamemetrics.GameMetrics
}

// NewDispatcher creates a Dispatcher.
func NewDispatcher(repo gamedb.Repository, sink Sink, logger *slog.Logger, metrics gamemetrics.GameMetrics) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = gamemetrics.NewNoop()
	}
	return &Dispatcher{repo: repo, sink: sink, logger: logger, metrics: metrics}
}

// Notify renders the stored state of game and sends it for notifying
// outcomes. Failures are logged and never returned.
func (d *Dispatcher) Notify(ctx context.Context, outcome gamedomain.Outcome, game *gamedb.Game) {
	if !outcome.Notifies() || game == nil || d.sink == nil {
		return
	}

	players, err := d.repo.ListPlayers(ctx, nil, game.ID)
	if err != nil {
		d.logger.ErrorContext(ctx, "Failed to load players for notification",
			slog.String("game", game.Name),
			slog.Any("error", err),
		)
		return
	}

	n := Notification{
		Outcome:  outcome,
		Game:     game.Name,
		Display:  game.DisplayName(),
		Turn:     game.Turn,
		TimeLeft: derefString(game.TimeLeft),
		Text:     RenderNotification(outcome, game, players),
	}

	if err := d.sink.Send(ctx, n); err != nil {
		nerr := &gamedomain.NotificationError{Destination: d.sink.Destination(), Err: err}
		d.metrics.RecordNotificationFailure(ctx, d.sink.Destination())
		d.logger.ErrorContext(ctx, "Notification delivery failed",
			slog.String("game", game.Name),
			slog.String("outcome", outcome.String()),
			slog.Any("error", nerr),
		)
		return
	}

	d.logger.InfoContext(ctx, "Notification sent",
		slog.String("game", game.Name),
		slog.String("outcome", outcome.String()),
		slog.String("destination", d.sink.Destination()),
	)
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
