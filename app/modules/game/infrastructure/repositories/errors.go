package gamedb

import "errors"

// Sentinel errors for the game repository layer.
// These describe row presence, not domain rules; the service layer decides
// how they surface to users.
var (
	// ErrNotFound indicates the requested game or player row does not exist.
	ErrNotFound = errors.New("game record not found")

	// ErrNoRowsAffected indicates an UPDATE matched zero rows.
	ErrNoRowsAffected = errors.New("no rows affected")
)
