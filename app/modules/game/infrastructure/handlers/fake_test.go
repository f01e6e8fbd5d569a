package gamehandlers

import (
	"context"
	"sync"

	gameservice "github.com/grogbot/dominions-bot/app/modules/game/application"
	gamedomain "github.com/grogbot/dominions-bot/app/modules/game/domain"
	gamedb "github.com/grogbot/dominions-bot/app/modules/game/infrastructure/repositories"
)

// FakeService implements gameservice.Service with overridable funcs.
type FakeService struct {
	mu    sync.Mutex
	trace []string

	AddGameFunc         func(ctx context.Context, name string) (*gameservice.GameSnapshot, error)
	RemoveGameFunc      func(ctx context.Context, name string) error
	SetNicknameFunc     func(ctx context.Context, name, nickname string) error
	ListGamesFunc       func(ctx context.Context, includeInactive bool) ([]gamedb.Game, error)
	SetPrimaryFunc      func(ctx context.Context, name string) error
	SetActiveFunc       func(ctx context.Context, name string, active bool) error
	AssignPlayerFunc    func(ctx context.Context, gameName, nation, playerName string) error
	CheckGameFunc       func(ctx context.Context, name string) (*gamedomain.LobbyStatus, error)
	PrimarySnapshotFunc func(ctx context.Context) (*gameservice.GameSnapshot, error)
	RefreshGameFunc     func(ctx context.Context, name string) (gamedomain.Outcome, error)
	PollActiveGamesFunc func(ctx context.Context) (gameservice.CycleReport, error)
}

var _ gameservice.Service = (*FakeService)(nil)

func (f *FakeService) record(step string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.trace = append(f.trace, step)
}

// Trace returns the called methods in order.
func (f *FakeService) Trace() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *FakeService) AddGame(ctx context.Context, name string) (*gameservice.GameSnapshot, error) {
	f.record("AddGame")
	if f.AddGameFunc != nil {
		return f.AddGameFunc(ctx, name)
	}
	return &gameservice.GameSnapshot{Game: gamedb.Game{Name: name, Active: true}}, nil
}

func (f *FakeService) RemoveGame(ctx context.Context, name string) error {
	f.record("RemoveGame")
	if f.RemoveGameFunc != nil {
		return f.RemoveGameFunc(ctx, name)
	}
	return nil
}

func (f *FakeService) SetNickname(ctx context.Context, name, nickname string) error {
	f.record("SetNickname")
	if f.SetNicknameFunc != nil {
		return f.SetNicknameFunc(ctx, name, nickname)
	}
	return nil
}

func (f *FakeService) ListGames(ctx context.Context, includeInactive bool) ([]gamedb.Game, error) {
	f.record("ListGames")
	if f.ListGamesFunc != nil {
		return f.ListGamesFunc(ctx, includeInactive)
	}
	return nil, nil
}

func (f *FakeService) SetPrimary(ctx context.Context, name string) error {
	f.record("SetPrimary")
	if f.SetPrimaryFunc != nil {
		return f.SetPrimaryFunc(ctx, name)
	}
	return nil
}

func (f *FakeService) SetActive(ctx context.Context, name string, active bool) error {
	f.record("SetActive")
	if f.SetActiveFunc != nil {
		return f.SetActiveFunc(ctx, name, active)
	}
	return nil
}

func (f *FakeService) AssignPlayer(ctx context.Context, gameName, nation, playerName string) error {
	f.record("AssignPlayer")
	if f.AssignPlayerFunc != nil {
		return f.AssignPlayerFunc(ctx, gameName, nation, playerName)
	}
	return nil
}

func (f *FakeService) CheckGame(ctx context.Context, name string) (*gamedomain.LobbyStatus, error) {
	f.record("CheckGame")
	if f.CheckGameFunc != nil {
		return f.CheckGameFunc(ctx, name)
	}
	return &gamedomain.LobbyStatus{}, nil
}

func (f *FakeService) PrimarySnapshot(ctx context.Context) (*gameservice.GameSnapshot, error) {
	f.record("PrimarySnapshot")
	if f.PrimarySnapshotFunc != nil {
		return f.PrimarySnapshotFunc(ctx)
	}
	return nil, gameservice.ErrNoPrimaryGame
}

func (f *FakeService) RefreshGame(ctx context.Context, name string) (gamedomain.Outcome, error) {
	f.record("RefreshGame")
	if f.RefreshGameFunc != nil {
		return f.RefreshGameFunc(ctx, name)
	}
	return gamedomain.OutcomeNoChange, nil
}

func (f *FakeService) PollActiveGames(ctx context.Context) (gameservice.CycleReport, error) {
	f.record("PollActiveGames")
	if f.PollActiveGamesFunc != nil {
		return f.PollActiveGamesFunc(ctx)
	}
	return gameservice.CycleReport{}, nil
}
