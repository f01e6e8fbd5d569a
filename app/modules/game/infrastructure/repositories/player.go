package gamedb

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

func (r *Impl) UpsertPlayer(ctx context.Context, db bun.IDB, gameID uuid.UUID, shortName string, fields PlayerUpsert) (*Player, error) {
	db = r.resolveDB(db)
	now := time.Now().UTC()
	player := &Player{
		ID:         uuid.New(),
		GameID:     gameID,
		Nation:     fields.Nation,
		ShortName:  shortName,
		TurnState:  fields.TurnState,
		StatusText: fields.StatusText,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	_, err := db.NewInsert().
		Model(player).
		On("CONFLICT (game_id, short_name) DO UPDATE").
		Set("nation = EXCLUDED.nation").
		Set("turn_state = EXCLUDED.turn_state").
		Set("status_text = EXCLUDED.status_text").
		Set("updated_at = EXCLUDED.updated_at").
		Returning("*").
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert player %q: %w", shortName, err)
	}
	return player, nil
}

func (r *Impl) ListPlayers(ctx context.Context, db bun.IDB, gameID uuid.UUID) ([]Player, error) {
	db = r.resolveDB(db)
	var players []Player
	err := db.NewSelect().
		Model(&players).
		Where("game_id = ?", gameID).
		Order("nation ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	return players, nil
}

func (r *Impl) SetPlayerName(ctx context.Context, db bun.IDB, gameID uuid.UUID, shortName, playerName string) error {
	db = r.resolveDB(db)
	result, err := db.NewUpdate().
		Model((*Player)(nil)).
		Set("player_name = ?", playerName).
		Set("updated_at = ?", time.Now().UTC()).
		Where("game_id = ?", gameID).
		Where("short_name = ?", shortName).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to set player name: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}
