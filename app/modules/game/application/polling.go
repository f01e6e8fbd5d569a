package gameservice

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	gamedomain "github.com/grogbot/dominions-bot/app/modules/game/domain"
	"golang.org/x/sync/errgroup"
)

// GameResult is the outcome of one game within a poll cycle.
type GameResult struct {
	Game    string
	Outcome gamedomain.Outcome
	Err     error
}

// CycleReport summarises a poll cycle.
type CycleReport struct {
	Results  []GameResult
	Duration time.Duration
}

// Failed returns the number of games whose reconciliation failed.
func (r CycleReport) Failed() int {
	n := 0
	for _, res := range r.Results {
		if res.Err != nil {
			n++
		}
	}
	return n
}

// Result returns the entry for a game name.
func (r CycleReport) Result(game string) (GameResult, bool) {
	for _, res := range r.Results {
		if res.Game == game {
			return res, true
		}
	}
	return GameResult{}, false
}

// PollActiveGames reconciles every active game once. A failure for one game
// is logged and recorded in the report without affecting the others; the
// returned error is only set when the active games cannot be listed.
func (s *GameService) PollActiveGames(ctx context.Context) (CycleReport, error) {
	start := time.Now()

	games, err := s.repo.ListActiveGames(ctx, nil)
	if err != nil {
		return CycleReport{}, fmt.Errorf("failed to list active games: %w", err)
	}

	var (
		mu      sync.Mutex
		results = make([]GameResult, 0, len(games))
	)

	// Workers never return an error so one game cannot cancel the rest.
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxConcurrency)

	for i := range games {
		game := &games[i]
		g.Go(func() error {
			outcome, err := s.fetchAndReconcile(gctx, game)
			if err != nil {
				s.logger.WarnContext(gctx, "Skipping game for this cycle",
					slog.String("game", game.Name),
					slog.Any("error", err),
				)
			}
			mu.Lock()
			results = append(results, GameResult{Game: game.Name, Outcome: outcome, Err: err})
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	report := CycleReport{Results: results, Duration: time.Since(start)}
	s.metrics.RecordPollCycle(ctx, len(games), report.Failed(), report.Duration)
	s.logger.InfoContext(ctx, "Poll cycle complete",
		slog.Int("games", len(games)),
		slog.Int("failed", report.Failed()),
		slog.Duration("duration", report.Duration),
	)
	return report, nil
}
