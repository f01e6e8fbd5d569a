package gamequeue

import (
	"time"

	"github.com/riverqueue/river"
)

// QueueGames is the river queue poll jobs run on.
const QueueGames = "games"

// PollGamesArgs is the periodic job that reconciles every active game.
type PollGamesArgs struct{}

// Kind returns the job type identifier for River
func (PollGamesArgs) Kind() string { return "poll_games" }

// InsertOpts disables retries. A failed cycle waits for the next tick.
func (PollGamesArgs) InsertOpts() river.InsertOpts {
	return river.InsertOpts{
		MaxAttempts: 1,
		Queue:       QueueGames,
	}
}

// periodicJobs returns the poll schedule for the given interval.
func periodicJobs(interval time.Duration) []*river.PeriodicJob {
	return []*river.PeriodicJob{
		river.NewPeriodicJob(
			river.PeriodicInterval(interval),
			func() (river.JobArgs, *river.InsertOpts) {
				return PollGamesArgs{}, nil
			},
			&river.PeriodicJobOpts{RunOnStart: true},
		),
	}
}
