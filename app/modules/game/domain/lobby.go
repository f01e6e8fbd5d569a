package gamedomain

import "strings"

// TurnState is the normalized per-player turn status shown on a lobby page.
type TurnState string

const (
	TurnPlayed       TurnState = "played"
	TurnUnfinished   TurnState = "unfinished"
	TurnNotSubmitted TurnState = "not_submitted"
	TurnUnknown      TurnState = "unknown"
)

// ParseTurnState maps the status column text to a TurnState.
// Unrecognized text (eliminated nations, AI rows) is TurnUnknown, never an error.
func ParseTurnState(text string) TurnState {
	switch strings.TrimSpace(text) {
	case "Turn played":
		return TurnPlayed
	case "Turn unfinished":
		return TurnUnfinished
	case "-":
		return TurnNotSubmitted
	default:
		return TurnUnknown
	}
}

// IsValid checks if the turn state is one of the known values.
func (s TurnState) IsValid() bool {
	switch s {
	case TurnPlayed, TurnUnfinished, TurnNotSubmitted, TurnUnknown:
		return true
	default:
		return false
	}
}

// String returns the string representation of the turn state.
func (s TurnState) String() string {
	return string(s)
}

// LobbyStatus is one parsed snapshot of a game's lobby status page.
type LobbyStatus struct {
	ServerInfo string
	Turn       int
	// TimeLeft is nil when the header carries no parenthesised timer text.
	TimeLeft *string
	Players  []PlayerStatus
}

// TimeLeftText returns the timer text or an empty string.
func (s *LobbyStatus) TimeLeftText() string {
	if s == nil || s.TimeLeft == nil {
		return ""
	}
	return *s.TimeLeft
}

// PlayerStatus is one nation row of a lobby status page.
type PlayerStatus struct {
	DisplayName string
	TurnState   TurnState
	// StatusText is the raw status column, kept for rendering Unknown rows.
	StatusText string
}

// ShortName returns the canonical key for the player row.
func (p PlayerStatus) ShortName() string {
	return ShortName(p.DisplayName)
}

// ShortName derives the per-game player key from a nation display name:
// the text before the first comma, trimmed and lower-cased.
func ShortName(displayName string) string {
	head, _, _ := strings.Cut(displayName, ",")
	return strings.ToLower(strings.TrimSpace(head))
}
