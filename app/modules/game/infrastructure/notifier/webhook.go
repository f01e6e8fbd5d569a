package notifier

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/slack-go/slack"

	gameservice "github.com/grogbot/dominions-bot/app/modules/game/application"
)

const defaultWebhookTimeout = 10 * time.Second

// WebhookSink posts notifications to a Slack incoming webhook.
type WebhookSink struct {
	url    string
	client *http.Client
}

// NewWebhookSink creates a sink for the given incoming webhook URL.
func NewWebhookSink(url string, timeout time.Duration) *WebhookSink {
	if timeout <= 0 {
		timeout = defaultWebhookTimeout
	}
	return &WebhookSink{url: url, client: &http.Client{Timeout: timeout}}
}

func (s *WebhookSink) Send(ctx context.Context, n gameservice.Notification) error {
	msg := &slack.WebhookMessage{Text: n.Text}
	if err := slack.PostWebhookCustomHTTPContext(ctx, s.url, s.client, msg); err != nil {
		return fmt.Errorf("webhook post for %s: %w", n.Game, err)
	}
	return nil
}

func (s *WebhookSink) Destination() string {
	return "webhook"
}

var _ gameservice.Sink = (*WebhookSink)(nil)
