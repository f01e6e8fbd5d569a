package gameservice

import (
	"context"
	"fmt"
	"time"

	gamedomain "github.com/grogbot/dominions-bot/app/modules/game/domain"
	gamedb "github.com/grogbot/dominions-bot/app/modules/game/infrastructure/repositories"
	"github.com/uptrace/bun"
)

// Reconcile applies a fetched status to a stored game and reports the outcome.
// The game row is re-read under a row lock, so game may be a stale copy; it is
// overwritten with the row as persisted. Players are upserted before the
// outcome is decided. The stored turn never decreases, and a game that was
// deactivated since game was loaded is left untouched.
func Reconcile(
	ctx context.Context,
	db bun.IDB,
	repo gamedb.Repository,
	policy gamedomain.FinishPolicy,
	game *gamedb.Game,
	fetched *gamedomain.LobbyStatus,
	now time.Time,
) (gamedomain.Outcome, error) {
	if game == nil || fetched == nil {
		return "", fmt.Errorf("reconcile: game and status are required")
	}

	current, err := repo.GetGameForUpdate(ctx, db, game.ID)
	if err != nil {
		return "", fmt.Errorf("lock game: %w", err)
	}
	*game = *current
	if !game.Active {
		return gamedomain.OutcomeNoChange, nil
	}

	for _, p := range fetched.Players {
		if _, err := repo.UpsertPlayer(ctx, db, game.ID, p.ShortName(), gamedb.PlayerUpsert{
			Nation:     p.DisplayName,
			TurnState:  p.TurnState.String(),
			StatusText: p.StatusText,
		}); err != nil {
			return "", fmt.Errorf("upsert player %q: %w", p.ShortName(), err)
		}
	}

	timeLeft := fetched.TimeLeft
	deadline := gamedomain.EstimateDeadline(timeLeft, now)

	if policy.IsFinished(fetched) {
		inactive, notPrimary := false, false
		if err := repo.UpdateGame(ctx, db, game.ID, &gamedb.GameUpdate{
			TimeLeft:   &timeLeft,
			DeadlineAt: &deadline,
			Active:     &inactive,
			Primary:    &notPrimary,
		}); err != nil {
			return "", fmt.Errorf("mark game finished: %w", err)
		}
		game.Active = false
		game.Primary = false
		game.TimeLeft = timeLeft
		game.DeadlineAt = deadline
		return gamedomain.OutcomeGameFinished, nil
	}

	update := &gamedb.GameUpdate{TimeLeft: &timeLeft, DeadlineAt: &deadline}
	outcome := gamedomain.OutcomeNoChange
	if fetched.Turn > game.Turn {
		turn := fetched.Turn
		update.Turn = &turn
		outcome = gamedomain.OutcomeTurnAdvanced
	}

	if err := repo.UpdateGame(ctx, db, game.ID, update); err != nil {
		return "", fmt.Errorf("update game state: %w", err)
	}

	if update.Turn != nil {
		game.Turn = *update.Turn
	}
	game.TimeLeft = timeLeft
	game.DeadlineAt = deadline
	return outcome, nil
}
