package notifier

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	gameservice "github.com/grogbot/dominions-bot/app/modules/game/application"
)

// DefaultSubject is the NATS subject game notifications are published on.
const DefaultSubject = "dombot.notifications"

// Metadata keys set on published messages.
const (
	MetadataOutcome = "outcome"
	MetadataGame    = "game"
)

// PublisherSink publishes notifications as JSON watermill messages.
type PublisherSink struct {
	publisher message.Publisher
	subject   string
}

// NewPublisherSink creates a sink publishing on subject through publisher.
func NewPublisherSink(publisher message.Publisher, subject string) *PublisherSink {
	if subject == "" {
		subject = DefaultSubject
	}
	return &PublisherSink{publisher: publisher, subject: subject}
}

func (s *PublisherSink) Send(ctx context.Context, n gameservice.Notification) error {
	payload, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.SetContext(ctx)
	msg.Metadata.Set(MetadataOutcome, n.Outcome.String())
	msg.Metadata.Set(MetadataGame, n.Game)

	if err := s.publisher.Publish(s.subject, msg); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", s.subject, err)
	}
	return nil
}

func (s *PublisherSink) Destination() string {
	return "nats:" + s.subject
}

var _ gameservice.Sink = (*PublisherSink)(nil)
