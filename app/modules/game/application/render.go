package gameservice

import (
	"fmt"
	"strings"
	"time"

	gamedomain "github.com/grogbot/dominions-bot/app/modules/game/domain"
	gamedb "github.com/grogbot/dominions-bot/app/modules/game/infrastructure/repositories"
)

func turnMarker(state gamedomain.TurnState) string {
	switch state {
	case gamedomain.TurnPlayed:
		return ":white_check_mark:"
	case gamedomain.TurnUnfinished:
		return ":question:"
	case gamedomain.TurnNotSubmitted:
		return ":x:"
	default:
		return ":skull:"
	}
}

// RenderNotification is the broadcast text for a notifying outcome.
func RenderNotification(outcome gamedomain.Outcome, game *gamedb.Game, players []gamedb.Player) string {
	var b strings.Builder
	switch outcome {
	case gamedomain.OutcomeTurnAdvanced:
		fmt.Fprintf(&b, "Turn %d has started in %s\n", game.Turn, game.DisplayName())
	case gamedomain.OutcomeGameFinished:
		fmt.Fprintf(&b, "%s has finished\n", game.DisplayName())
	}
	b.WriteString(RenderSnapshot(game, players))
	return b.String()
}

// RenderSnapshot renders a stored game and its players.
func RenderSnapshot(game *gamedb.Game, players []gamedb.Player) string {
	var b strings.Builder
	b.WriteString("Dominions Times\n")
	fmt.Fprintf(&b, "%s Turn: %d\n", game.DisplayName(), game.Turn)
	if game.TimeLeft != nil {
		fmt.Fprintf(&b, "Time left: %s\n", *game.TimeLeft)
	}
	if game.DeadlineAt != nil {
		fmt.Fprintf(&b, "Deadline: %s\n", game.DeadlineAt.UTC().Format(time.RFC1123))
	}
	b.WriteString("Player list\n")
	for _, p := range players {
		state := gamedomain.TurnState(p.TurnState)
		line := fmt.Sprintf("%s %s", turnMarker(state), p.Nation)
		if p.PlayerName != nil && *p.PlayerName != "" {
			line += fmt.Sprintf(" (%s)", *p.PlayerName)
		}
		if state == gamedomain.TurnUnknown && p.StatusText != "" {
			line += " - " + p.StatusText
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

// RenderLobbyStatus renders a live status fetched by a check.
func RenderLobbyStatus(name string, status *gamedomain.LobbyStatus) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s Turn: %d\n", name, status.Turn)
	if status.TimeLeft != nil {
		fmt.Fprintf(&b, "Time left: %s\n", *status.TimeLeft)
	}
	b.WriteString("Player list\n")
	for _, p := range status.Players {
		line := fmt.Sprintf("%s %s", turnMarker(p.TurnState), p.DisplayName)
		if p.TurnState == gamedomain.TurnUnknown && p.StatusText != "" {
			line += " - " + p.StatusText
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

// RenderGameList renders the list command output.
func RenderGameList(games []gamedb.Game) string {
	if len(games) == 0 {
		return "No games are being tracked"
	}
	var b strings.Builder
	for _, g := range games {
		b.WriteString(g.Name)
		if g.Nickname != nil && *g.Nickname != "" {
			fmt.Fprintf(&b, " (%s)", *g.Nickname)
		}
		fmt.Fprintf(&b, " turn %d", g.Turn)
		if g.Primary {
			b.WriteString(" [primary]")
		}
		if !g.Active {
			b.WriteString(" [inactive]")
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
