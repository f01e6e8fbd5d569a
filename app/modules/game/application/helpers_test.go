package gameservice

import (
	"io"
	"log/slog"
	"time"

	gamedomain "github.com/grogbot/dominions-bot/app/modules/game/domain"
	gamemetrics "github.com/grogbot/dominions-bot/app/modules/game/infrastructure/metrics"
	"go.opentelemetry.io/otel/trace/noop"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func strPtr(s string) *string { return &s }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type testDeps struct {
	repo   *FakeGameRepo
	source *FakeStatusSource
	sink   *FakeSink
	cache  *FakeLobbyCache
}

func newTestService(deps testDeps, opts Options) *GameService {
	if deps.repo == nil {
		deps.repo = NewFakeGameRepo()
	}
	if deps.source == nil {
		deps.source = NewFakeStatusSource()
	}
	if opts.Now == nil {
		opts.Now = func() time.Time { return fixedNow }
	}
	if opts.FinishPolicy == (gamedomain.FinishPolicy{}) {
		opts.FinishPolicy = gamedomain.DefaultFinishPolicy()
	}

	logger := discardLogger()
	metrics := gamemetrics.NewNoop()

	var dispatcher *Dispatcher
	if deps.sink != nil {
		dispatcher = NewDispatcher(deps.repo, deps.sink, logger, metrics)
	}

	var cache LobbyCache
	if deps.cache != nil {
		cache = deps.cache
	}

	return NewGameService(
		deps.repo,
		deps.source,
		cache,
		dispatcher,
		logger,
		metrics,
		noop.NewTracerProvider().Tracer("test"),
		nil,
		opts,
	)
}

func lobby(turn int, timeLeft *string, players ...gamedomain.PlayerStatus) *gamedomain.LobbyStatus {
	return &gamedomain.LobbyStatus{
		ServerInfo: "test",
		Turn:       turn,
		TimeLeft:   timeLeft,
		Players:    players,
	}
}

func nation(display string, state gamedomain.TurnState) gamedomain.PlayerStatus {
	return gamedomain.PlayerStatus{DisplayName: display, TurnState: state}
}
