package eventbus

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	nc "github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/nats-io/nkeys"
)

// Config describes how to reach NATS.
type Config struct {
	URL string
	// NKeySeed authenticates with a user nkey seed when set.
	NKeySeed string
	// JetStream publishes into a persisted stream instead of core NATS.
	JetStream bool
	Stream    string
	Subjects  []string
}

// EventBus owns the NATS connection and the watermill publisher on top of it.
type EventBus struct {
	publisher message.Publisher
	natsConn  *nc.Conn
	logger    *slog.Logger
}

// NewEventBus connects to NATS and builds a watermill publisher.
func NewEventBus(ctx context.Context, cfg Config, logger *slog.Logger) (*EventBus, error) {
	opts, err := connectOptions(cfg)
	if err != nil {
		return nil, err
	}

	natsConn, err := nc.Connect(cfg.URL, opts...)
	if err != nil {
		logger.Error("Failed to connect to NATS", slog.Any("error", err))
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	if cfg.JetStream {
		js, err := jetstream.New(natsConn)
		if err != nil {
			natsConn.Close()
			return nil, fmt.Errorf("failed to initialize JetStream: %w", err)
		}
		if err := EnsureStream(ctx, js, cfg.Stream, cfg.Subjects, logger); err != nil {
			natsConn.Close()
			return nil, err
		}
	}

	watermillLogger := watermill.NewSlogLogger(logger)

	publisher, err := nats.NewPublisherWithNatsConn(
		natsConn,
		nats.PublisherPublishConfig{
			Marshaler: &nats.NATSMarshaler{},
			JetStream: nats.JetStreamConfig{Disabled: !cfg.JetStream},
		},
		watermillLogger,
	)
	if err != nil {
		natsConn.Close()
		logger.Error("Failed to create Watermill publisher", slog.Any("error", err))
		return nil, fmt.Errorf("failed to create Watermill publisher: %w", err)
	}

	logger.InfoContext(ctx, "Connected to NATS",
		slog.String("url", cfg.URL),
		slog.Bool("jetstream", cfg.JetStream),
	)

	return &EventBus{
		publisher: publisher,
		natsConn:  natsConn,
		logger:    logger,
	}, nil
}

// connectOptions builds the nats.go options, adding nkey auth from a seed.
func connectOptions(cfg Config) ([]nc.Option, error) {
	opts := []nc.Option{
		nc.Name("dominions-bot"),
		nc.RetryOnFailedConnect(true),
		nc.MaxReconnects(-1),
		nc.ReconnectWait(2 * time.Second),
	}
	if cfg.NKeySeed == "" {
		return opts, nil
	}

	kp, err := nkeys.FromSeed([]byte(cfg.NKeySeed))
	if err != nil {
		return nil, fmt.Errorf("invalid NATS nkey seed: %w", err)
	}
	pub, err := kp.PublicKey()
	if err != nil {
		return nil, fmt.Errorf("failed to derive nkey public key: %w", err)
	}
	return append(opts, nc.Nkey(pub, kp.Sign)), nil
}

// Publisher returns the watermill publisher.
func (eb *EventBus) Publisher() message.Publisher {
	return eb.publisher
}

// HealthCheck reports whether the NATS connection is usable.
func (eb *EventBus) HealthCheck(_ context.Context) error {
	if eb.natsConn == nil || !eb.natsConn.IsConnected() {
		return fmt.Errorf("nats not connected")
	}
	return nil
}

// Close flushes the publisher and closes the NATS connection.
func (eb *EventBus) Close() error {
	var firstErr error
	if eb.publisher != nil {
		if err := eb.publisher.Close(); err != nil {
			firstErr = fmt.Errorf("failed to close publisher: %w", err)
		}
	}
	if eb.natsConn != nil {
		eb.natsConn.Close()
	}
	eb.logger.Info("Event bus closed")
	return firstErr
}
