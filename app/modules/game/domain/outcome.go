package gamedomain

import "strings"

// Outcome is the result of reconciling a fetched status against stored state.
type Outcome string

const (
	OutcomeNoChange     Outcome = "no_change"
	OutcomeTurnAdvanced Outcome = "turn_advanced"
	OutcomeGameFinished Outcome = "game_finished"
)

// String returns the string representation of the outcome.
func (o Outcome) String() string {
	return string(o)
}

// Notifies reports whether the outcome should be announced.
func (o Outcome) Notifies() bool {
	return o == OutcomeTurnAdvanced || o == OutcomeGameFinished
}

// DefaultFinishedMarker is the timer text the game server shows for a concluded game.
const DefaultFinishedMarker = "finished"

// FinishPolicy decides whether a fetched status means the game has ended.
type FinishPolicy struct {
	// Marker is compared case-insensitively against the trimmed timer text.
	Marker string
	// MissingTimerFinishes treats an absent timer as a finished game.
	MissingTimerFinishes bool
}

// DefaultFinishPolicy matches the literal "finished" timer text only.
func DefaultFinishPolicy() FinishPolicy {
	return FinishPolicy{Marker: DefaultFinishedMarker}
}

// IsFinished applies the policy to a fetched status.
func (p FinishPolicy) IsFinished(status *LobbyStatus) bool {
	if status == nil {
		return false
	}
	if status.TimeLeft == nil {
		return p.MissingTimerFinishes
	}
	if p.Marker == "" {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(*status.TimeLeft), p.Marker)
}
