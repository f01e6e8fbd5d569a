package gamedb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Impl implements the Repository interface using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new game repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

// resolveDB returns the provided db handle, falling back to the repository's
// default connection if db is nil.
func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

func (r *Impl) GetGameByName(ctx context.Context, db bun.IDB, name string) (*Game, error) {
	db = r.resolveDB(db)
	game := new(Game)
	err := db.NewSelect().
		Model(game).
		Where("name = ?", name).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get game by name: %w", err)
	}
	return game, nil
}

func (r *Impl) GetGameForUpdate(ctx context.Context, db bun.IDB, gameID uuid.UUID) (*Game, error) {
	db = r.resolveDB(db)
	game := new(Game)
	err := db.NewSelect().
		Model(game).
		Where("id = ?", gameID).
		For("UPDATE").
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to lock game: %w", err)
	}
	return game, nil
}

func (r *Impl) GetPrimaryGame(ctx context.Context, db bun.IDB) (*Game, error) {
	db = r.resolveDB(db)
	game := new(Game)
	err := db.NewSelect().
		Model(game).
		Where("is_primary = ?", true).
		Where("active = ?", true).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get primary game: %w", err)
	}
	return game, nil
}

func (r *Impl) ListActiveGames(ctx context.Context, db bun.IDB) ([]Game, error) {
	db = r.resolveDB(db)
	var games []Game
	err := db.NewSelect().
		Model(&games).
		Where("active = ?", true).
		Order("name ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list active games: %w", err)
	}
	return games, nil
}

func (r *Impl) ListGames(ctx context.Context, db bun.IDB) ([]Game, error) {
	db = r.resolveDB(db)
	var games []Game
	err := db.NewSelect().
		Model(&games).
		Order("active DESC", "name ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}
	return games, nil
}

func (r *Impl) CreateGame(ctx context.Context, db bun.IDB, game *Game) error {
	db = r.resolveDB(db)
	if game.ID == uuid.Nil {
		game.ID = uuid.New()
	}
	now := time.Now().UTC()
	game.CreatedAt = now
	game.UpdatedAt = now
	if _, err := db.NewInsert().Model(game).Exec(ctx); err != nil {
		return fmt.Errorf("failed to create game: %w", err)
	}
	return nil
}

func (r *Impl) UpdateGame(ctx context.Context, db bun.IDB, gameID uuid.UUID, updates *GameUpdate) error {
	if updates.IsEmpty() {
		return nil
	}
	db = r.resolveDB(db)

	q := db.NewUpdate().
		Model((*Game)(nil)).
		Where("id = ?", gameID).
		Set("updated_at = ?", time.Now().UTC())

	if updates.Turn != nil {
		q = q.Set("turn = GREATEST(turn, ?)", *updates.Turn)
	}
	if updates.TimeLeft != nil {
		q = q.Set("time_left = ?", *updates.TimeLeft)
	}
	if updates.DeadlineAt != nil {
		q = q.Set("deadline_at = ?", *updates.DeadlineAt)
	}
	if updates.Active != nil {
		q = q.Set("active = ?", *updates.Active)
	}
	if updates.Primary != nil {
		q = q.Set("is_primary = ?", *updates.Primary)
	}
	if updates.Nickname != nil {
		q = q.Set("nickname = ?", *updates.Nickname)
	}

	result, err := q.Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update game: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNoRowsAffected
	}
	return nil
}

func (r *Impl) ClearPrimaryGames(ctx context.Context, db bun.IDB) error {
	db = r.resolveDB(db)
	_, err := db.NewUpdate().
		Model((*Game)(nil)).
		Set("is_primary = ?", false).
		Set("updated_at = ?", time.Now().UTC()).
		Where("is_primary = ?", true).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to clear primary games: %w", err)
	}
	return nil
}
