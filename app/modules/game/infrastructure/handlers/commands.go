package gamehandlers

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	gameservice "github.com/grogbot/dominions-bot/app/modules/game/application"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// CommandName identifies one chat command.
type CommandName string

const (
	CommandGameAdd      CommandName = "game add"
	CommandGameRemove   CommandName = "game remove"
	CommandGameNickname CommandName = "game nickname"
	CommandGameList     CommandName = "game list"
	CommandGamePrimary  CommandName = "game primary"
	CommandGameStatus   CommandName = "game status"
	CommandGameRefresh  CommandName = "game refresh"
	CommandPlayer       CommandName = "player"
	CommandCheck        CommandName = "check"
	CommandTurn         CommandName = "turn"
	CommandHelp         CommandName = "help"
)

// commandFunc handles the arguments that follow the command name.
type commandFunc func(ctx context.Context, args []string) (string, error)

// Commands executes chat commands against the game service.
type Commands struct {
	service gameservice.Service
	logger  *slog.Logger
	tracer  trace.Tracer
	table   map[CommandName]commandFunc
}

// NewCommands builds the command dispatch table.
func NewCommands(service gameservice.Service, logger *slog.Logger, tracer trace.Tracer) *Commands {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Commands{service: service, logger: logger, tracer: tracer}
	c.table = map[CommandName]commandFunc{
		CommandGameAdd:      c.gameAdd,
		CommandGameRemove:   c.gameRemove,
		CommandGameNickname: c.gameNickname,
		CommandGameList:     c.gameList,
		CommandGamePrimary:  c.gamePrimary,
		CommandGameStatus:   c.gameStatus,
		CommandGameRefresh:  c.gameRefresh,
		CommandPlayer:       c.player,
		CommandCheck:        c.check,
		CommandTurn:         c.turn,
		CommandHelp:         c.help,
	}
	return c
}

// resolve splits tokens into a command name and its arguments.
func resolve(tokens []string) (CommandName, []string) {
	if len(tokens) == 0 {
		return CommandHelp, nil
	}
	head := strings.ToLower(tokens[0])
	if head == "game" {
		if len(tokens) < 2 {
			return CommandName(head), nil
		}
		return CommandName(head + " " + strings.ToLower(tokens[1])), tokens[2:]
	}
	return CommandName(head), tokens[1:]
}

// Execute runs one tokenized command line and returns the reply text.
// Errors never escape; they are turned into plain sentences.
func (c *Commands) Execute(ctx context.Context, line string) string {
	tokens := strings.Fields(line)
	name, args := resolve(tokens)

	if c.tracer != nil {
		var span trace.Span
		ctx, span = c.tracer.Start(ctx, "Command", trace.WithAttributes(
			attribute.String("command", string(name)),
		))
		defer span.End()
	}

	fn, ok := c.table[name]
	if !ok {
		c.logger.InfoContext(ctx, "Unknown command", slog.String("command", string(name)))
		return unknownCommandMessage
	}

	reply, err := fn(ctx, args)
	if err != nil {
		c.logger.InfoContext(ctx, "Command failed",
			slog.String("command", string(name)),
			slog.Any("error", err),
		)
		return userMessage(err)
	}
	return reply
}

func (c *Commands) gameAdd(ctx context.Context, args []string) (string, error) {
	if len(args) < 1 {
		return "", usage(CommandGameAdd)
	}
	snap, err := c.service.AddGame(ctx, args[0])
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("game %s added at turn %d with %d nations", snap.Game.Name, snap.Game.Turn, len(snap.Players)), nil
}

func (c *Commands) gameRemove(ctx context.Context, args []string) (string, error) {
	if len(args) < 1 {
		return "", usage(CommandGameRemove)
	}
	if err := c.service.RemoveGame(ctx, args[0]); err != nil {
		return "", err
	}
	return fmt.Sprintf("game %s removed", args[0]), nil
}

func (c *Commands) gameNickname(ctx context.Context, args []string) (string, error) {
	if len(args) < 2 {
		return "", usage(CommandGameNickname)
	}
	nickname := strings.Join(args[1:], " ")
	if err := c.service.SetNickname(ctx, args[0], nickname); err != nil {
		return "", err
	}
	return fmt.Sprintf("game %s nickname %s", args[0], nickname), nil
}

func (c *Commands) gameList(ctx context.Context, args []string) (string, error) {
	includeInactive := len(args) > 0 && strings.EqualFold(args[0], "all")
	games, err := c.service.ListGames(ctx, includeInactive)
	if err != nil {
		return "", err
	}
	return gameservice.RenderGameList(games), nil
}

func (c *Commands) gamePrimary(ctx context.Context, args []string) (string, error) {
	if len(args) < 1 {
		return "", usage(CommandGamePrimary)
	}
	if err := c.service.SetPrimary(ctx, args[0]); err != nil {
		return "", err
	}
	return fmt.Sprintf("Game %s has been set as the primary game", args[0]), nil
}

func (c *Commands) gameStatus(ctx context.Context, args []string) (string, error) {
	if len(args) < 2 {
		return "", usage(CommandGameStatus)
	}
	active, err := gameservice.ParseActiveFlag(args[1])
	if err != nil {
		return "", err
	}
	if err := c.service.SetActive(ctx, args[0], active); err != nil {
		return "", err
	}
	return fmt.Sprintf("game %s is now %s", args[0], strings.ToLower(args[1])), nil
}

func (c *Commands) gameRefresh(ctx context.Context, args []string) (string, error) {
	if len(args) < 1 {
		return "", usage(CommandGameRefresh)
	}
	outcome, err := c.service.RefreshGame(ctx, args[0])
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("game %s refreshed: %s", args[0], strings.ReplaceAll(outcome.String(), "_", " ")), nil
}

func (c *Commands) player(ctx context.Context, args []string) (string, error) {
	if len(args) < 3 {
		return "", usage(CommandPlayer)
	}
	gameName, nation, playerName := args[0], args[1], strings.Join(args[2:], " ")
	if err := c.service.AssignPlayer(ctx, gameName, nation, playerName); err != nil {
		return "", err
	}
	return fmt.Sprintf("Updated %s with %s in %s", strings.ToLower(nation), playerName, gameName), nil
}

func (c *Commands) check(ctx context.Context, args []string) (string, error) {
	if len(args) < 1 {
		return "", usage(CommandCheck)
	}
	status, err := c.service.CheckGame(ctx, args[0])
	if err != nil {
		return "", err
	}
	return gameservice.RenderLobbyStatus(args[0], status), nil
}

func (c *Commands) turn(ctx context.Context, _ []string) (string, error) {
	snap, err := c.service.PrimarySnapshot(ctx)
	if err != nil {
		return "", err
	}
	return gameservice.RenderSnapshot(&snap.Game, snap.Players), nil
}

func (c *Commands) help(_ context.Context, args []string) (string, error) {
	if len(args) == 0 {
		return generalHelp, nil
	}
	name, _ := resolve(args)
	text, ok := commandHelp[name]
	if !ok {
		return fmt.Sprintf("No help for %q.\n\n%s", strings.Join(args, " "), generalHelp), nil
	}
	return text, nil
}
