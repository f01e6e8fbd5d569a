package gameservice

import (
	"context"
	"errors"
	"fmt"
	"strings"

	gamedomain "github.com/grogbot/dominions-bot/app/modules/game/domain"
	gamedb "github.com/grogbot/dominions-bot/app/modules/game/infrastructure/repositories"
	"github.com/uptrace/bun"
)

// AddGame starts tracking a game. The status page is fetched first so an
// unknown server name is rejected before anything is stored. A previously
// removed game is reactivated rather than duplicated.
func (s *GameService) AddGame(ctx context.Context, name string) (*GameSnapshot, error) {
	name = strings.TrimSpace(name)
	return withTelemetry(s, ctx, "AddGame", name, func(ctx context.Context) (*GameSnapshot, error) {
		if name == "" {
			return nil, ErrEmptyName
		}

		existing, err := s.repo.GetGameByName(ctx, nil, name)
		if err != nil && !errors.Is(err, gamedb.ErrNotFound) {
			return nil, fmt.Errorf("failed to look up game: %w", err)
		}
		if existing != nil && existing.Active {
			return nil, ErrGameAlreadyTracked
		}

		status, err := s.source.FetchStatus(ctx, name)
		if err != nil {
			return nil, err
		}

		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (*GameSnapshot, error) {
			return s.addGameLogic(ctx, db, name, existing, status)
		})
	})
}

func (s *GameService) addGameLogic(
	ctx context.Context,
	db bun.IDB,
	name string,
	existing *gamedb.Game,
	status *gamedomain.LobbyStatus,
) (*GameSnapshot, error) {
	deadline := gamedomain.EstimateDeadline(status.TimeLeft, s.now())

	var game *gamedb.Game
	if existing != nil {
		current, err := s.repo.GetGameForUpdate(ctx, db, existing.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to lock game: %w", err)
		}
		if current.Active {
			return nil, ErrGameAlreadyTracked
		}
		game = current
	}
	if game == nil {
		game = &gamedb.Game{
			Name:       name,
			Active:     true,
			Turn:       status.Turn,
			TimeLeft:   status.TimeLeft,
			DeadlineAt: deadline,
		}
		if err := s.repo.CreateGame(ctx, db, game); err != nil {
			return nil, fmt.Errorf("failed to create game: %w", err)
		}
	} else {
		active := true
		turn := max(game.Turn, status.Turn)
		timeLeft := status.TimeLeft
		if err := s.repo.UpdateGame(ctx, db, game.ID, &gamedb.GameUpdate{
			Active:     &active,
			Turn:       &turn,
			TimeLeft:   &timeLeft,
			DeadlineAt: &deadline,
		}); err != nil {
			return nil, fmt.Errorf("failed to reactivate game: %w", err)
		}
		game.Active = true
		game.Turn = turn
		game.TimeLeft = timeLeft
		game.DeadlineAt = deadline
	}

	players := make([]gamedb.Player, 0, len(status.Players))
	for _, p := range status.Players {
		player, err := s.repo.UpsertPlayer(ctx, db, game.ID, p.ShortName(), gamedb.PlayerUpsert{
			Nation:     p.DisplayName,
			TurnState:  p.TurnState.String(),
			StatusText: p.StatusText,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to store player %q: %w", p.ShortName(), err)
		}
		players = append(players, *player)
	}

	return &GameSnapshot{Game: *game, Players: players}, nil
}

// RemoveGame stops tracking a game. Its rows are kept so it can be re-added.
func (s *GameService) RemoveGame(ctx context.Context, name string) error {
	_, err := withTelemetry(s, ctx, "RemoveGame", name, func(ctx context.Context) (struct{}, error) {
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (struct{}, error) {
			game, err := s.findGame(ctx, db, name)
			if err != nil {
				return struct{}{}, err
			}
			inactive, notPrimary := false, false
			return struct{}{}, s.repo.UpdateGame(ctx, db, game.ID, &gamedb.GameUpdate{
				Active:  &inactive,
				Primary: &notPrimary,
			})
		})
	})
	return err
}

// SetNickname sets the display nickname of a stored game.
func (s *GameService) SetNickname(ctx context.Context, name, nickname string) error {
	_, err := withTelemetry(s, ctx, "SetNickname", name, func(ctx context.Context) (struct{}, error) {
		nickname = strings.TrimSpace(nickname)
		if nickname == "" {
			return struct{}{}, ErrEmptyName
		}
		game, err := s.findGame(ctx, nil, name)
		if err != nil {
			return struct{}{}, err
		}
		return struct{}{}, s.repo.UpdateGame(ctx, nil, game.ID, &gamedb.GameUpdate{Nickname: &nickname})
	})
	return err
}

// ListGames returns active games, or every stored game when includeInactive is set.
func (s *GameService) ListGames(ctx context.Context, includeInactive bool) ([]gamedb.Game, error) {
	return withTelemetry(s, ctx, "ListGames", "", func(ctx context.Context) ([]gamedb.Game, error) {
		if includeInactive {
			return s.repo.ListGames(ctx, nil)
		}
		return s.repo.ListActiveGames(ctx, nil)
	})
}

// SetPrimary makes the named active game the only primary game.
// Clearing and setting happen in one transaction.
func (s *GameService) SetPrimary(ctx context.Context, name string) error {
	_, err := withTelemetry(s, ctx, "SetPrimary", name, func(ctx context.Context) (struct{}, error) {
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (struct{}, error) {
			game, err := s.findGame(ctx, db, name)
			if err != nil {
				return struct{}{}, err
			}
			if !game.Active {
				return struct{}{}, ErrGameInactive
			}
			if err := s.repo.ClearPrimaryGames(ctx, db); err != nil {
				return struct{}{}, err
			}
			primary := true
			return struct{}{}, s.repo.UpdateGame(ctx, db, game.ID, &gamedb.GameUpdate{Primary: &primary})
		})
	})
	return err
}

// SetActive flips a game's active flag. Deactivating also drops primary.
func (s *GameService) SetActive(ctx context.Context, name string, active bool) error {
	_, err := withTelemetry(s, ctx, "SetActive", name, func(ctx context.Context) (struct{}, error) {
		game, err := s.findGame(ctx, nil, name)
		if err != nil {
			return struct{}{}, err
		}
		update := &gamedb.GameUpdate{Active: &active}
		if !active {
			notPrimary := false
			update.Primary = &notPrimary
		}
		return struct{}{}, s.repo.UpdateGame(ctx, nil, game.ID, update)
	})
	return err
}

// AssignPlayer records which person plays a nation in an active game.
// nation may be a short name or a full display name.
func (s *GameService) AssignPlayer(ctx context.Context, gameName, nation, playerName string) error {
	_, err := withTelemetry(s, ctx, "AssignPlayer", gameName, func(ctx context.Context) (struct{}, error) {
		playerName = strings.TrimSpace(playerName)
		if playerName == "" {
			return struct{}{}, ErrEmptyName
		}
		game, err := s.findGame(ctx, nil, gameName)
		if err != nil {
			return struct{}{}, err
		}
		if !game.Active {
			return struct{}{}, ErrGameInactive
		}

		shortName := gamedomain.ShortName(nation)
		err = s.repo.SetPlayerName(ctx, nil, game.ID, shortName, playerName)
		if errors.Is(err, gamedb.ErrNotFound) {
			return struct{}{}, &gamedomain.NotFoundError{Kind: "nation", Name: shortName}
		}
		return struct{}{}, err
	})
	return err
}

// PrimarySnapshot returns the primary game and its players as stored.
func (s *GameService) PrimarySnapshot(ctx context.Context) (*GameSnapshot, error) {
	return withTelemetry(s, ctx, "PrimarySnapshot", "", func(ctx context.Context) (*GameSnapshot, error) {
		game, err := s.repo.GetPrimaryGame(ctx, nil)
		if errors.Is(err, gamedb.ErrNotFound) {
			return nil, ErrNoPrimaryGame
		}
		if err != nil {
			return nil, err
		}
		players, err := s.repo.ListPlayers(ctx, nil, game.ID)
		if err != nil {
			return nil, err
		}
		return &GameSnapshot{Game: *game, Players: players}, nil
	})
}

// findGame loads a game by name, mapping a missing row to a NotFoundError.
func (s *GameService) findGame(ctx context.Context, db bun.IDB, name string) (*gamedb.Game, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	game, err := s.repo.GetGameByName(ctx, db, name)
	if errors.Is(err, gamedb.ErrNotFound) {
		return nil, &gamedomain.NotFoundError{Kind: "game", Name: name}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up game: %w", err)
	}
	return game, nil
}
