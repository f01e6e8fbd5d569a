package gamedomain

import (
	"errors"
	"fmt"
)

// FetchError reports a failure reaching a game's status page.
type FetchError struct {
	Game       string
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch status page for %s: unexpected HTTP status %d", e.Game, e.StatusCode)
	}
	return fmt.Sprintf("fetch status page for %s: %v", e.Game, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ParseError reports a status page whose structure could not be understood.
type ParseError struct {
	Reason string
	Row    int
}

func (e *ParseError) Error() string {
	if e.Row > 0 {
		return fmt.Sprintf("parse status page: row %d: %s", e.Row, e.Reason)
	}
	return "parse status page: " + e.Reason
}

// NotFoundError reports a game or player name that is not stored.
type NotFoundError struct {
	Kind string
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.Name)
}

// NotificationError reports a failed delivery to the notification sink.
type NotificationError struct {
	Destination string
	Err         error
}

func (e *NotificationError) Error() string {
	return fmt.Sprintf("notify %s: %v", e.Destination, e.Err)
}

func (e *NotificationError) Unwrap() error { return e.Err }

// IsFetchError reports whether err wraps a *FetchError.
func IsFetchError(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe)
}

// IsParseError reports whether err wraps a *ParseError.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}
