package gamequeue

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	gameservice "github.com/grogbot/dominions-bot/app/modules/game/application"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/rivertype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePoller struct {
	calls  int
	report gameservice.CycleReport
	err    error
}

func (f *fakePoller) PollActiveGames(context.Context) (gameservice.CycleReport, error) {
	f.calls++
	return f.report, f.err
}

func testJob() *river.Job[PollGamesArgs] {
	return &river.Job[PollGamesArgs]{JobRow: &rivertype.JobRow{ID: 42}}
}

func TestPollGamesWorker_Work(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("success", func(t *testing.T) {
		poller := &fakePoller{report: gameservice.CycleReport{Results: []gameservice.GameResult{
			{Game: "a"},
			{Game: "b", Err: errors.New("fetch failed")},
		}}}
		w := NewPollGamesWorker(poller, logger, time.Minute)

		require.NoError(t, w.Work(context.Background(), testJob()))
		assert.Equal(t, 1, poller.calls)
	})

	t.Run("list failure is returned", func(t *testing.T) {
		poller := &fakePoller{err: errors.New("database unavailable")}
		w := NewPollGamesWorker(poller, logger, time.Minute)

		err := w.Work(context.Background(), testJob())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database unavailable")
	})

	t.Run("timeout", func(t *testing.T) {
		w := NewPollGamesWorker(&fakePoller{}, logger, 7*time.Minute)
		assert.Equal(t, 7*time.Minute, w.Timeout(testJob()))
	})
}

func TestPollGamesArgs(t *testing.T) {
	args := PollGamesArgs{}
	assert.Equal(t, "poll_games", args.Kind())

	opts := args.InsertOpts()
	assert.Equal(t, 1, opts.MaxAttempts)
	assert.Equal(t, QueueGames, opts.Queue)
}

func TestPeriodicJobs(t *testing.T) {
	jobs := periodicJobs(DefaultPollInterval)
	require.Len(t, jobs, 1)
	assert.NotNil(t, jobs[0])
	assert.Equal(t, 15*time.Minute, DefaultPollInterval)
}
