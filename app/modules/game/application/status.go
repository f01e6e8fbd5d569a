package gameservice

import (
	"context"
	"log/slog"
	"strings"

	gamedomain "github.com/grogbot/dominions-bot/app/modules/game/domain"
	gamedb "github.com/grogbot/dominions-bot/app/modules/game/infrastructure/repositories"
	"github.com/uptrace/bun"
)

// CheckGame fetches the live status of any game name. Recent results are
// served from the cache when one is configured; cache failures only log.
func (s *GameService) CheckGame(ctx context.Context, name string) (*gamedomain.LobbyStatus, error) {
	name = strings.TrimSpace(name)
	return withTelemetry(s, ctx, "CheckGame", name, func(ctx context.Context) (*gamedomain.LobbyStatus, error) {
		if name == "" {
			return nil, ErrEmptyName
		}

		if s.cache != nil {
			cached, err := s.cache.Get(ctx, name)
			if err != nil {
				s.logger.WarnContext(ctx, "Lobby cache read failed",
					slog.String("game", name),
					slog.Any("error", err),
				)
			} else if cached != nil {
				return cached, nil
			}
		}

		status, err := s.source.FetchStatus(ctx, name)
		if err != nil {
			return nil, err
		}

		if s.cache != nil {
			if err := s.cache.Set(ctx, name, status); err != nil {
				s.logger.WarnContext(ctx, "Lobby cache write failed",
					slog.String("game", name),
					slog.Any("error", err),
				)
			}
		}
		return status, nil
	})
}

// RefreshGame fetches and reconciles one active game on demand.
func (s *GameService) RefreshGame(ctx context.Context, name string) (gamedomain.Outcome, error) {
	return withTelemetry(s, ctx, "RefreshGame", name, func(ctx context.Context) (gamedomain.Outcome, error) {
		game, err := s.findGame(ctx, nil, name)
		if err != nil {
			return "", err
		}
		if !game.Active {
			return "", ErrGameInactive
		}
		return s.fetchAndReconcile(ctx, game)
	})
}

// ReconcileGame applies an already fetched status to a game in one
// transaction and dispatches a notification once it has committed.
func (s *GameService) ReconcileGame(ctx context.Context, game *gamedb.Game, status *gamedomain.LobbyStatus) (gamedomain.Outcome, error) {
	outcome, err := runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (gamedomain.Outcome, error) {
		return Reconcile(ctx, db, s.repo, s.policy, game, status, s.now())
	})
	if err != nil {
		return "", err
	}

	s.metrics.RecordOutcome(ctx, outcome.String())
	s.logger.InfoContext(ctx, "Game reconciled",
		slog.String("game", game.Name),
		slog.String("outcome", outcome.String()),
		slog.Int("turn", game.Turn),
	)

	if s.dispatcher != nil {
		s.dispatcher.Notify(ctx, outcome, game)
	}
	return outcome, nil
}

func (s *GameService) fetchAndReconcile(ctx context.Context, game *gamedb.Game) (gamedomain.Outcome, error) {
	status, err := s.source.FetchStatus(ctx, game.Name)
	if err != nil {
		return "", err
	}
	return s.ReconcileGame(ctx, game, status)
}
