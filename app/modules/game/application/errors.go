package gameservice

import (
	"errors"
	"strings"
)

var (
	// ErrGameAlreadyTracked is returned when adding a game that is already active.
	ErrGameAlreadyTracked = errors.New("game is already tracked")

	// ErrGameInactive is returned when an operation needs an active game.
	ErrGameInactive = errors.New("game is not active")

	// ErrNoPrimaryGame is returned when no active game is marked primary.
	ErrNoPrimaryGame = errors.New("no primary game set")

	// ErrInvalidStatus is returned for a game status other than active or inactive.
	ErrInvalidStatus = errors.New("status must be active or inactive")

	// ErrEmptyName is returned when a required name argument is blank.
	ErrEmptyName = errors.New("name must not be empty")
)

// ParseActiveFlag maps "active"/"inactive" to a bool.
func ParseActiveFlag(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "active":
		return true, nil
	case "inactive":
		return false, nil
	default:
		return false, ErrInvalidStatus
	}
}
