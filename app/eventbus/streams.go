package eventbus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go/jetstream"
)

// EnsureStream creates the notification stream if it does not exist yet.
func EnsureStream(ctx context.Context, js jetstream.JetStream, name string, subjects []string, logger *slog.Logger) error {
	if name == "" || len(subjects) == 0 {
		return fmt.Errorf("jetstream stream name and subjects are required")
	}

	_, err := js.Stream(ctx, name)
	if errors.Is(err, jetstream.ErrStreamNotFound) {
		if _, err := js.CreateStream(ctx, jetstream.StreamConfig{
			Name:     name,
			Subjects: subjects,
		}); err != nil {
			logger.Error("Failed to create JetStream stream", slog.String("stream", name), slog.Any("error", err))
			return fmt.Errorf("failed to create stream %s: %w", name, err)
		}
		logger.Info("Created JetStream stream", slog.String("stream", name))
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to check stream: %w", err)
	}
	return nil
}
