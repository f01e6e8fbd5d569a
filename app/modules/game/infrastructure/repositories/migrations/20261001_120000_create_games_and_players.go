package gamemigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating games and players tables...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS games (
					id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
					name VARCHAR(255) NOT NULL UNIQUE,
					nickname VARCHAR(255),
					active BOOLEAN NOT NULL DEFAULT TRUE,
					is_primary BOOLEAN NOT NULL DEFAULT FALSE,
					turn INTEGER NOT NULL DEFAULT 0 CHECK (turn >= 0),
					time_left TEXT,
					deadline_at TIMESTAMPTZ,
					created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
				);
				CREATE UNIQUE INDEX IF NOT EXISTS idx_games_single_primary ON games(is_primary) WHERE is_primary;
				CREATE INDEX IF NOT EXISTS idx_games_active ON games(active);
			`); err != nil {
				return fmt.Errorf("failed to create games table: %w", err)
			}

			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS players (
					id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
					game_id UUID NOT NULL REFERENCES games(id) ON DELETE CASCADE,
					nation VARCHAR(255) NOT NULL,
					short_name VARCHAR(255) NOT NULL,
					player_name VARCHAR(255),
					turn_state VARCHAR(32) NOT NULL DEFAULT 'unknown',
					status_text TEXT NOT NULL DEFAULT '',
					created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					UNIQUE (game_id, short_name)
				);
			`); err != nil {
				return fmt.Errorf("failed to create players table: %w", err)
			}
			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping games and players tables...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS players;`); err != nil {
				return fmt.Errorf("failed to drop players table: %w", err)
			}
			if _, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS games;`); err != nil {
				return fmt.Errorf("failed to drop games table: %w", err)
			}
			return nil
		})
	})
}
