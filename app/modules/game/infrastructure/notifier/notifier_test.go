package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	gameservice "github.com/grogbot/dominions-bot/app/modules/game/application"
	gamedomain "github.com/grogbot/dominions-bot/app/modules/game/domain"
	"github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleNotification() gameservice.Notification {
	return gameservice.Notification{
		Outcome:  gamedomain.OutcomeTurnAdvanced,
		Game:     "grog",
		Display:  "Grog Wars",
		Turn:     7,
		TimeLeft: "2 days left",
		Text:     "Turn 7 has started in Grog Wars",
	}
}

func TestPublisherSink_Send(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	t.Cleanup(func() { _ = pubSub.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	messages, err := pubSub.Subscribe(ctx, DefaultSubject)
	require.NoError(t, err)

	sink := NewPublisherSink(pubSub, "")
	assert.Equal(t, "nats:"+DefaultSubject, sink.Destination())
	require.NoError(t, sink.Send(ctx, sampleNotification()))

	select {
	case msg := <-messages:
		msg.Ack()
		assert.Equal(t, "turn_advanced", msg.Metadata.Get(MetadataOutcome))
		assert.Equal(t, "grog", msg.Metadata.Get(MetadataGame))

		var got gameservice.Notification
		require.NoError(t, json.Unmarshal(msg.Payload, &got))
		assert.Equal(t, sampleNotification(), got)
	case <-ctx.Done():
		t.Fatal("timed out waiting for published notification")
	}
}

func TestPublisherSink_ClosedPublisher(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	require.NoError(t, pubSub.Close())

	err := NewPublisherSink(pubSub, "custom.subject").Send(context.Background(), sampleNotification())
	assert.Error(t, err)
}

func TestWebhookSink_Send(t *testing.T) {
	var received slack.WebhookMessage
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &received)
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	sink := NewWebhookSink(srv.URL, time.Second)
	require.NoError(t, sink.Send(context.Background(), sampleNotification()))
	assert.Equal(t, "Turn 7 has started in Grog Wars", received.Text)
}

func TestWebhookSink_Non2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid_token", http.StatusForbidden)
	}))
	defer srv.Close()

	err := NewWebhookSink(srv.URL, time.Second).Send(context.Background(), sampleNotification())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
	assert.Contains(t, err.Error(), "grog")
}

func TestLogSink_Send(t *testing.T) {
	var buf bytes.Buffer
	sink := NewLogSink(slog.New(slog.NewJSONHandler(&buf, nil)))

	require.NoError(t, sink.Send(context.Background(), sampleNotification()))
	assert.Contains(t, buf.String(), `"game":"grog"`)
	assert.Contains(t, buf.String(), `"outcome":"turn_advanced"`)
	assert.Equal(t, "log", sink.Destination())
}
