package gamehandlers

import (
	"errors"
	"fmt"

	gameservice "github.com/grogbot/dominions-bot/app/modules/game/application"
	gamedomain "github.com/grogbot/dominions-bot/app/modules/game/domain"
)

const (
	unknownCommandMessage = "command not recognised"
	invalidCommandMessage = "command is invalid please check spelling or help command and try again"
	genericFailureMessage = "Something went wrong, please try again later"
)

// usageError reports a command called with missing arguments.
type usageError struct {
	command CommandName
}

func (e *usageError) Error() string {
	return fmt.Sprintf("invalid arguments for %s", e.command)
}

func usage(name CommandName) error {
	return &usageError{command: name}
}

// userMessage turns any command error into a plain sentence.
func userMessage(err error) string {
	var (
		ue *usageError
		nf *gamedomain.NotFoundError
		fe *gamedomain.FetchError
		pe *gamedomain.ParseError
	)

	switch {
	case errors.As(err, &ue):
		if text, ok := commandHelp[ue.command]; ok {
			return invalidCommandMessage + "\n" + text
		}
		return invalidCommandMessage
	case errors.As(err, &nf):
		return fmt.Sprintf("%s %s not found", nf.Kind, nf.Name)
	case errors.Is(err, gameservice.ErrGameAlreadyTracked):
		return "That game is already being tracked"
	case errors.Is(err, gameservice.ErrGameInactive):
		return "That game is not active. Re-add it or set its status to active first"
	case errors.Is(err, gameservice.ErrNoPrimaryGame):
		return "No primary game is set. Use /dom game primary [game_name]"
	case errors.Is(err, gameservice.ErrInvalidStatus):
		return "Status must be active or inactive"
	case errors.Is(err, gameservice.ErrEmptyName):
		return "A name is required"
	case errors.As(err, &fe):
		if fe.StatusCode != 0 {
			return fmt.Sprintf("The game server returned HTTP %d for %s. Check the game name", fe.StatusCode, fe.Game)
		}
		return fmt.Sprintf("Could not reach the status page for %s, try again later", fe.Game)
	case errors.As(err, &pe):
		return "The status page for that game could not be read"
	default:
		return genericFailureMessage
	}
}
