package gamedb

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// GameUpdate represents the updateable fields of a game.
// Pointer fields distinguish "not provided" (nil) from "set to zero value".
type GameUpdate struct {
	Turn       *int // written as GREATEST(turn, value); the stored turn never goes down
	TimeLeft   **string
	DeadlineAt **time.Time
	Active     *bool
	Primary    *bool
	Nickname   *string
}

// IsEmpty reports whether any fields are set for update.
func (u *GameUpdate) IsEmpty() bool {
	if u == nil {
		return true
	}
	return u.Turn == nil &&
		u.TimeLeft == nil &&
		u.DeadlineAt == nil &&
		u.Active == nil &&
		u.Primary == nil &&
		u.Nickname == nil
}

// PlayerUpsert carries the fields reconciliation is allowed to write.
// It never touches player_name.
type PlayerUpsert struct {
	Nation     string
	TurnState  string
	StatusText string
}

// Repository defines the contract for game and player persistence.
// A nil db argument means the repository's default connection.
//
// Error semantics:
//   - ErrNotFound: the game or player does not exist
//   - ErrNoRowsAffected: UPDATE matched no rows
//   - Other errors: infrastructure failures
type Repository interface {
	// GetGameByName retrieves a game by its server name, active or not.
	GetGameByName(ctx context.Context, db bun.IDB, name string) (*Game, error)

	// GetGameForUpdate reads a game and locks its row until db's transaction ends.
	GetGameForUpdate(ctx context.Context, db bun.IDB, gameID uuid.UUID) (*Game, error)

	// GetPrimaryGame retrieves the active primary game.
	GetPrimaryGame(ctx context.Context, db bun.IDB) (*Game, error)

	// ListActiveGames returns every game with active = true, ordered by name.
	ListActiveGames(ctx context.Context, db bun.IDB) ([]Game, error)

	// ListGames returns every stored game, active first, then by name.
	ListGames(ctx context.Context, db bun.IDB) ([]Game, error)

	// CreateGame inserts a new game; ID is assigned when zero.
	CreateGame(ctx context.Context, db bun.IDB, game *Game) error

	// UpdateGame applies a partial update. Returns ErrNoRowsAffected if the game does not exist.
	UpdateGame(ctx context.Context, db bun.IDB, gameID uuid.UUID, updates *GameUpdate) error

	// ClearPrimaryGames unsets is_primary on every game.
	ClearPrimaryGames(ctx context.Context, db bun.IDB) error

	// UpsertPlayer creates the (game, short name) row or updates its nation and turn state.
	UpsertPlayer(ctx context.Context, db bun.IDB, gameID uuid.UUID, shortName string, fields PlayerUpsert) (*Player, error)

	// ListPlayers returns the game's players ordered by nation.
	ListPlayers(ctx context.Context, db bun.IDB, gameID uuid.UUID) ([]Player, error)

	// SetPlayerName assigns the human nickname for a nation. Returns ErrNotFound if no such player.
	SetPlayerName(ctx context.Context, db bun.IDB, gameID uuid.UUID, shortName, playerName string) error
}
