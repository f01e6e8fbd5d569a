package gameservice

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	gamedomain "github.com/grogbot/dominions-bot/app/modules/game/domain"
	gamedb "github.com/grogbot/dominions-bot/app/modules/game/infrastructure/repositories"
	"github.com/uptrace/bun"
)

// ------------------------
// Fake Game Repo
// ------------------------

// FakeGameRepo keeps games and players in memory. Any Func field that is set
// replaces the in-memory behaviour for that method.
type FakeGameRepo struct {
	mu      sync.Mutex
	trace   []string
	games   map[uuid.UUID]*gamedb.Game
	players map[uuid.UUID]map[string]*gamedb.Player

	GetGameByNameFunc     func(ctx context.Context, db bun.IDB, name string) (*gamedb.Game, error)
	GetGameForUpdateFunc  func(ctx context.Context, db bun.IDB, gameID uuid.UUID) (*gamedb.Game, error)
	GetPrimaryGameFunc    func(ctx context.Context, db bun.IDB) (*gamedb.Game, error)
	ListActiveGamesFunc   func(ctx context.Context, db bun.IDB) ([]gamedb.Game, error)
	ListGamesFunc         func(ctx context.Context, db bun.IDB) ([]gamedb.Game, error)
	CreateGameFunc        func(ctx context.Context, db bun.IDB, game *gamedb.Game) error
	UpdateGameFunc        func(ctx context.Context, db bun.IDB, gameID uuid.UUID, updates *gamedb.GameUpdate) error
	ClearPrimaryGamesFunc func(ctx context.Context, db bun.IDB) error
	UpsertPlayerFunc      func(ctx context.Context, db bun.IDB, gameID uuid.UUID, shortName string, fields gamedb.PlayerUpsert) (*gamedb.Player, error)
	ListPlayersFunc       func(ctx context.Context, db bun.IDB, gameID uuid.UUID) ([]gamedb.Player, error)
	SetPlayerNameFunc     func(ctx context.Context, db bun.IDB, gameID uuid.UUID, shortName, playerName string) error
}

func NewFakeGameRepo() *FakeGameRepo {
	return &FakeGameRepo{
		trace:   []string{},
		games:   map[uuid.UUID]*gamedb.Game{},
		players: map[uuid.UUID]map[string]*gamedb.Player{},
	}
}

func (f *FakeGameRepo) record(step string) {
	f.mu.Lock()
	f.trace = append(f.trace, step)
	f.mu.Unlock()
}

// seed stores a game directly and returns a copy of it.
func (f *FakeGameRepo) seed(g gamedb.Game) gamedb.Game {
	f.mu.Lock()
	defer f.mu.Unlock()
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	stored := g
	f.games[g.ID] = &stored
	return g
}

// --- Repository Interface Implementation ---

func (f *FakeGameRepo) GetGameByName(ctx context.Context, db bun.IDB, name string) (*gamedb.Game, error) {
	f.record("GetGameByName")
	if f.GetGameByNameFunc != nil {
		return f.GetGameByNameFunc(ctx, db, name)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, g := range f.games {
		if g.Name == name {
			cp := *g
			return &cp, nil
		}
	}
	return nil, gamedb.ErrNotFound
}

func (f *FakeGameRepo) GetGameForUpdate(ctx context.Context, db bun.IDB, gameID uuid.UUID) (*gamedb.Game, error) {
	f.record("GetGameForUpdate")
	if f.GetGameForUpdateFunc != nil {
		return f.GetGameForUpdateFunc(ctx, db, gameID)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	g, ok := f.games[gameID]
	if !ok {
		return nil, gamedb.ErrNotFound
	}
	cp := *g
	return &cp, nil
}

func (f *FakeGameRepo) GetPrimaryGame(ctx context.Context, db bun.IDB) (*gamedb.Game, error) {
	f.record("GetPrimaryGame")
	if f.GetPrimaryGameFunc != nil {
		return f.GetPrimaryGameFunc(ctx, db)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, g := range f.games {
		if g.Primary && g.Active {
			cp := *g
			return &cp, nil
		}
	}
	return nil, gamedb.ErrNotFound
}

func (f *FakeGameRepo) ListActiveGames(ctx context.Context, db bun.IDB) ([]gamedb.Game, error) {
	f.record("ListActiveGames")
	if f.ListActiveGamesFunc != nil {
		return f.ListActiveGamesFunc(ctx, db)
	}
	var out []gamedb.Game
	for _, g := range f.snapshotGames() {
		if g.Active {
			out = append(out, g)
		}
	}
	return out, nil
}

func (f *FakeGameRepo) ListGames(ctx context.Context, db bun.IDB) ([]gamedb.Game, error) {
	f.record("ListGames")
	if f.ListGamesFunc != nil {
		return f.ListGamesFunc(ctx, db)
	}
	return f.snapshotGames(), nil
}

func (f *FakeGameRepo) CreateGame(ctx context.Context, db bun.IDB, game *gamedb.Game) error {
	f.record("CreateGame")
	if f.CreateGameFunc != nil {
		return f.CreateGameFunc(ctx, db, game)
	}
	if game.ID == uuid.Nil {
		game.ID = uuid.New()
	}
	f.seed(*game)
	return nil
}

func (f *FakeGameRepo) UpdateGame(ctx context.Context, db bun.IDB, gameID uuid.UUID, updates *gamedb.GameUpdate) error {
	f.record("UpdateGame")
	if f.UpdateGameFunc != nil {
		return f.UpdateGameFunc(ctx, db, gameID, updates)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	g, ok := f.games[gameID]
	if !ok {
		return gamedb.ErrNoRowsAffected
	}
	if updates.Turn != nil {
		g.Turn = max(g.Turn, *updates.Turn)
	}
	if updates.TimeLeft != nil {
		g.TimeLeft = *updates.TimeLeft
	}
	if updates.DeadlineAt != nil {
		g.DeadlineAt = *updates.DeadlineAt
	}
	if updates.Active != nil {
		g.Active = *updates.Active
	}
	if updates.Primary != nil {
		g.Primary = *updates.Primary
	}
	if updates.Nickname != nil {
		nick := *updates.Nickname
		g.Nickname = &nick
	}
	return nil
}

func (f *FakeGameRepo) ClearPrimaryGames(ctx context.Context, db bun.IDB) error {
	f.record("ClearPrimaryGames")
	if f.ClearPrimaryGamesFunc != nil {
		return f.ClearPrimaryGamesFunc(ctx, db)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, g := range f.games {
		g.Primary = false
	}
	return nil
}

func (f *FakeGameRepo) UpsertPlayer(ctx context.Context, db bun.IDB, gameID uuid.UUID, shortName string, fields gamedb.PlayerUpsert) (*gamedb.Player, error) {
	f.record("UpsertPlayer")
	if f.UpsertPlayerFunc != nil {
		return f.UpsertPlayerFunc(ctx, db, gameID, shortName, fields)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	byShort, ok := f.players[gameID]
	if !ok {
		byShort = map[string]*gamedb.Player{}
		f.players[gameID] = byShort
	}
	p, ok := byShort[shortName]
	if !ok {
		p = &gamedb.Player{ID: uuid.New(), GameID: gameID, ShortName: shortName}
		byShort[shortName] = p
	}
	p.Nation = fields.Nation
	p.TurnState = fields.TurnState
	p.StatusText = fields.StatusText
	cp := *p
	return &cp, nil
}

func (f *FakeGameRepo) ListPlayers(ctx context.Context, db bun.IDB, gameID uuid.UUID) ([]gamedb.Player, error) {
	f.record("ListPlayers")
	if f.ListPlayersFunc != nil {
		return f.ListPlayersFunc(ctx, db, gameID)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]gamedb.Player, 0, len(f.players[gameID]))
	for _, p := range f.players[gameID] {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Nation < out[j].Nation })
	return out, nil
}

func (f *FakeGameRepo) SetPlayerName(ctx context.Context, db bun.IDB, gameID uuid.UUID, shortName, playerName string) error {
	f.record("SetPlayerName")
	if f.SetPlayerNameFunc != nil {
		return f.SetPlayerNameFunc(ctx, db, gameID, shortName, playerName)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.players[gameID][shortName]
	if !ok {
		return gamedb.ErrNotFound
	}
	name := playerName
	p.PlayerName = &name
	return nil
}

// --- Accessors for assertions ---

func (f *FakeGameRepo) Trace() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *FakeGameRepo) game(name string) *gamedb.Game {
	for _, g := range f.snapshotGames() {
		if g.Name == name {
			return &g
		}
	}
	return nil
}

func (f *FakeGameRepo) primaryCount() int {
	n := 0
	for _, g := range f.snapshotGames() {
		if g.Primary {
			n++
		}
	}
	return n
}

func (f *FakeGameRepo) snapshotGames() []gamedb.Game {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]gamedb.Game, 0, len(f.games))
	for _, g := range f.games {
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Ensure the fake actually satisfies the interface
var _ gamedb.Repository = (*FakeGameRepo)(nil)

// ------------------------
// Fake Status Source
// ------------------------

type FakeStatusSource struct {
	mu       sync.Mutex
	calls    []string
	statuses map[string]*gamedomain.LobbyStatus
	errs     map[string]error
}

func NewFakeStatusSource() *FakeStatusSource {
	return &FakeStatusSource{
		statuses: map[string]*gamedomain.LobbyStatus{},
		errs:     map[string]error{},
	}
}

func (f *FakeStatusSource) Set(name string, status *gamedomain.LobbyStatus) {
	f.mu.Lock()
	f.statuses[name] = status
	f.mu.Unlock()
}

func (f *FakeStatusSource) Fail(name string, err error) {
	f.mu.Lock()
	f.errs[name] = err
	f.mu.Unlock()
}

func (f *FakeStatusSource) FetchStatus(_ context.Context, name string) (*gamedomain.LobbyStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name)
	if err, ok := f.errs[name]; ok {
		return nil, err
	}
	if s, ok := f.statuses[name]; ok {
		return s, nil
	}
	return nil, &gamedomain.FetchError{Game: name, StatusCode: 404}
}

func (f *FakeStatusSource) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

var _ StatusSource = (*FakeStatusSource)(nil)

// ------------------------
// Fake Sink
// ------------------------

type FakeSink struct {
	mu   sync.Mutex
	sent []Notification
	Err  error
}

func (f *FakeSink) Send(_ context.Context, n Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return f.Err
	}
	f.sent = append(f.sent, n)
	return nil
}

func (f *FakeSink) Destination() string { return "fake" }

func (f *FakeSink) Sent() []Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Notification, len(f.sent))
	copy(out, f.sent)
	return out
}

var _ Sink = (*FakeSink)(nil)

// ------------------------
// Fake Lobby Cache
// ------------------------

type FakeLobbyCache struct {
	entries map[string]*gamedomain.LobbyStatus
	GetErr  error
	SetErr  error
}

func NewFakeLobbyCache() *FakeLobbyCache {
	return &FakeLobbyCache{entries: map[string]*gamedomain.LobbyStatus{}}
}

func (f *FakeLobbyCache) Get(_ context.Context, name string) (*gamedomain.LobbyStatus, error) {
	if f.GetErr != nil {
		return nil, f.GetErr
	}
	return f.entries[name], nil
}

func (f *FakeLobbyCache) Set(_ context.Context, name string, status *gamedomain.LobbyStatus) error {
	if f.SetErr != nil {
		return f.SetErr
	}
	f.entries[name] = status
	return nil
}

var _ LobbyCache = (*FakeLobbyCache)(nil)
