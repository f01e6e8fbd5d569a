package gameservice

import (
	"context"

	gamedomain "github.com/grogbot/dominions-bot/app/modules/game/domain"
	gamedb "github.com/grogbot/dominions-bot/app/modules/game/infrastructure/repositories"
)

// Service is the game tracking surface used by chat commands and the poller.
type Service interface {
	AddGame(ctx context.Context, name string) (*GameSnapshot, error)
	RemoveGame(ctx context.Context, name string) error
	SetNickname(ctx context.Context, name, nickname string) error
	ListGames(ctx context.Context, includeInactive bool) ([]gamedb.Game, error)
	SetPrimary(ctx context.Context, name string) error
	SetActive(ctx context.Context, name string, active bool) error
	AssignPlayer(ctx context.Context, gameName, nation, playerName string) error

	CheckGame(ctx context.Context, name string) (*gamedomain.LobbyStatus, error)
	PrimarySnapshot(ctx context.Context) (*GameSnapshot, error)
	RefreshGame(ctx context.Context, name string) (gamedomain.Outcome, error)

	PollActiveGames(ctx context.Context) (CycleReport, error)
}

// StatusSource fetches and parses a game's lobby status page.
type StatusSource interface {
	FetchStatus(ctx context.Context, name string) (*gamedomain.LobbyStatus, error)
}

// Sink delivers a rendered notification to the broadcast destination.
type Sink interface {
	Send(ctx context.Context, n Notification) error
	Destination() string
}

// LobbyCache holds recently fetched statuses for on-demand checks.
// Get returns nil, nil on a miss.
type LobbyCache interface {
	Get(ctx context.Context, name string) (*gamedomain.LobbyStatus, error)
	Set(ctx context.Context, name string, status *gamedomain.LobbyStatus) error
}

// Notification is the payload handed to a Sink.
type Notification struct {
	Outcome  gamedomain.Outcome `json:"outcome"`
	Game     string             `json:"game"`
	Display  string             `json:"display"`
	Turn     int                `json:"turn"`
	TimeLeft string             `json:"time_left,omitempty"`
	Text     string             `json:"text"`
}

// GameSnapshot is a game with its persisted players.
type GameSnapshot struct {
	Game    gamedb.Game
	Players []gamedb.Player
}
