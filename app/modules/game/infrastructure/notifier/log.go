package notifier

import (
	"context"
	"log/slog"

	gameservice "github.com/grogbot/dominions-bot/app/modules/game/application"
)

// LogSink writes notifications to the logger. Used when no chat destination is configured.
type LogSink struct {
	logger *slog.Logger
}

func NewLogSink(logger *slog.Logger) *LogSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSink{logger: logger}
}

func (s *LogSink) Send(ctx context.Context, n gameservice.Notification) error {
	s.logger.InfoContext(ctx, "Game notification",
		slog.String("game", n.Game),
		slog.String("outcome", n.Outcome.String()),
		slog.Int("turn", n.Turn),
		slog.String("text", n.Text),
	)
	return nil
}

func (s *LogSink) Destination() string {
	return "log"
}

var _ gameservice.Sink = (*LogSink)(nil)
