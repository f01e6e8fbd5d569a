package gamehandlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/slack-go/slack"
)

// Slash command names as registered with Slack.
const (
	slashDom   = "/dom"
	slashCheck = "/check"
	slashTurn  = "/turn"
)

const (
	responseInChannel = "in_channel"

	defaultReplyTimeout = time.Minute
)

// SlackHandlers serves Slack slash-command webhooks. Commands that arrive with
// a response_url are acknowledged at once and answered through that URL.
type SlackHandlers struct {
	commands     *Commands
	logger       *slog.Logger
	httpClient   *http.Client
	replyTimeout time.Duration
	wg           sync.WaitGroup
}

func NewSlackHandlers(commands *Commands, logger *slog.Logger) *SlackHandlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlackHandlers{
		commands:     commands,
		logger:       logger,
		httpClient:   &http.Client{Timeout: 10 * time.Second},
		replyTimeout: defaultReplyTimeout,
	}
}

// commandLine maps the slash command and its text to one command line.
func commandLine(slash, text string) (string, bool) {
	text = strings.TrimSpace(text)
	switch strings.ToLower(slash) {
	case slashDom:
		return text, true
	case slashCheck:
		return strings.TrimSpace(string(CommandCheck) + " " + text), true
	case slashTurn:
		return string(CommandTurn), true
	default:
		return "", false
	}
}

// HandleSlashCommand handles POST /slack/commands.
func (h *SlackHandlers) HandleSlashCommand(w http.ResponseWriter, r *http.Request) {
	cmd, err := slack.SlashCommandParse(r)
	if err != nil {
		http.Error(w, "invalid form body", http.StatusBadRequest)
		return
	}

	line, ok := commandLine(cmd.Command, cmd.Text)
	if !ok {
		h.logger.WarnContext(r.Context(), "Unsupported slash command", slog.String("command", cmd.Command))
		writeSlack(w, unknownCommandMessage)
		return
	}

	h.logger.InfoContext(r.Context(), "Slash command received",
		slog.String("command", cmd.Command),
		slog.String("user_id", cmd.UserID),
		slog.String("channel_id", cmd.ChannelID),
		slog.Bool("deferred", cmd.ResponseURL != ""),
	)

	if cmd.ResponseURL == "" {
		writeSlack(w, h.commands.Execute(r.Context(), line))
		return
	}

	h.wg.Add(1)
	go h.replyLater(context.WithoutCancel(r.Context()), cmd.ResponseURL, line)
	writeSlack(w, "")
}

// replyLater runs a command and posts its answer to the slash command's response_url.
func (h *SlackHandlers) replyLater(ctx context.Context, responseURL, line string) {
	defer h.wg.Done()

	ctx, cancel := context.WithTimeout(ctx, h.replyTimeout)
	defer cancel()

	msg := &slack.WebhookMessage{
		ResponseType: responseInChannel,
		Text:         h.commands.Execute(ctx, line),
	}
	if err := slack.PostWebhookCustomHTTPContext(ctx, responseURL, h.httpClient, msg); err != nil {
		h.logger.ErrorContext(ctx, "Failed to post slash command reply", slog.Any("error", err))
	}
}

// Wait blocks until every deferred reply has been posted.
func (h *SlackHandlers) Wait() {
	h.wg.Wait()
}

// writeSlack replies in channel; an empty text only acknowledges the command.
func writeSlack(w http.ResponseWriter, text string) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(&slack.WebhookMessage{ResponseType: responseInChannel, Text: text})
}
