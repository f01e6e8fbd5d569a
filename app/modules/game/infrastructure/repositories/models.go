package gamedb

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Game is a tracked Dominions game.
type Game struct {
	bun.BaseModel `bun:"table:games,alias:g"`
	ID            uuid.UUID  `bun:"id,pk,type:uuid,default:gen_random_uuid()"`
	Name          string     `bun:"name,notnull,unique"`
	Nickname      *string    `bun:"nickname"`
	Active        bool       `bun:"active,notnull,default:true"`
	Primary       bool       `bun:"is_primary,notnull,default:false"`
	Turn          int        `bun:"turn,notnull,default:0"`
	TimeLeft      *string    `bun:"time_left"`
	DeadlineAt    *time.Time `bun:"deadline_at,nullzero"`
	CreatedAt     time.Time  `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt     time.Time  `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

// DisplayName returns the nickname when one is set, otherwise the server name.
func (g *Game) DisplayName() string {
	if g.Nickname != nil && *g.Nickname != "" {
		return *g.Nickname
	}
	return g.Name
}

// Player is one nation slot within a tracked game.
type Player struct {
	bun.BaseModel `bun:"table:players,alias:p"`
	ID            uuid.UUID `bun:"id,pk,type:uuid,default:gen_random_uuid()"`
	GameID        uuid.UUID `bun:"game_id,type:uuid,notnull"`
	Nation        string    `bun:"nation,notnull"`
	ShortName     string    `bun:"short_name,notnull"`
	PlayerName    *string   `bun:"player_name"`
	TurnState     string    `bun:"turn_state,notnull,default:'unknown'"`
	StatusText    string    `bun:"status_text,notnull,default:''"`
	CreatedAt     time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt     time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}
