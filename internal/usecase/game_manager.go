package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rocketscienceinc/minesweeper-backend/internal/apperror"
	"github.com/rocketscienceinc/minesweeper-backend/internal/entity"
	"github.com/rocketscienceinc/minesweeper-backend/internal/pkg"
)

type playerRepo interface {
	CreateOrUpdate(ctx context.Context, player *entity.Player) error
	GetByID(ctx context.Context, id string) (*entity.Player, error)
}

type gameRepo interface {
	CreateOrUpdate(ctx context.Context, board *entity.Board) error
	GetByID(ctx context.Context, id string) (*entity.Board, error)
	DeleteByID(ctx context.Context, id string) error
}

type resultRepo interface {
	Save(ctx context.Context, result *entity.GameResult) error
}

// GameManager owns the game session lifecycle: it pairs players with
// boards in the session store and archives finished games.
type GameManager struct {
	logger     *slog.Logger
	playerRepo playerRepo
	gameRepo   gameRepo
	resultRepo resultRepo
}

func NewGameManager(logger *slog.Logger, playerRepo playerRepo, gameRepo gameRepo, resultRepo resultRepo) *GameManager {
	return &GameManager{
		logger: logger,

		playerRepo: playerRepo,
		gameRepo:   gameRepo,
		resultRepo: resultRepo,
	}
}

func (that *GameManager) GetOrCreatePlayer(ctx context.Context, id string) (*entity.Player, error) {
	if id == "" {
		player, err := that.createPlayer(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to create new player: %w", err)
		}

		return player, nil
	}

	player, err := that.playerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get player by id: %w", err)
	}

	return player, nil
}

// GetOrCreateGame returns the player's active board, creating and
// persisting a fresh one when the player has none.
func (that *GameManager) GetOrCreateGame(ctx context.Context, playerID string) (*entity.Board, error) {
	player, err := that.playerRepo.GetByID(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get player by id: %w", err)
	}

	if player.GameID == "" {
		board, err := that.createGame(ctx, player)
		if err != nil {
			return nil, fmt.Errorf("failed to create game: %w", err)
		}

		return board, nil
	}

	board, err := that.gameRepo.GetByID(ctx, player.GameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	return board, nil
}

func (that *GameManager) GetGameByPlayerID(ctx context.Context, playerID string) (*entity.Board, error) {
	player, err := that.playerRepo.GetByID(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get player by id: %w", err)
	}

	board, err := that.gameRepo.GetByID(ctx, player.GameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	return board, nil
}

// Reveal uncovers a cell on the player's board. A reveal that finishes the
// game archives the result and releases the session.
func (that *GameManager) Reveal(ctx context.Context, playerID string, row, col int) (*entity.Board, error) {
	player, board, err := that.activeGame(ctx, playerID)
	if err != nil {
		return nil, err
	}

	if _, _, err = board.Reveal(row, col); err != nil {
		return board, fmt.Errorf("failed to reveal cell: %w", err)
	}

	if board.IsFinished() {
		that.finishGame(ctx, player, board)

		return board, nil
	}

	if err = that.updateGame(ctx, board); err != nil {
		return nil, err
	}

	return board, nil
}

// ToggleFlag flips a flag on the player's board. Flags never finish a game.
func (that *GameManager) ToggleFlag(ctx context.Context, playerID string, row, col int) (*entity.Board, error) {
	_, board, err := that.activeGame(ctx, playerID)
	if err != nil {
		return nil, err
	}

	if _, err = board.ToggleFlag(row, col); err != nil {
		return board, fmt.Errorf("failed to toggle flag: %w", err)
	}

	if err = that.updateGame(ctx, board); err != nil {
		return nil, err
	}

	return board, nil
}

func (that *GameManager) activeGame(ctx context.Context, playerID string) (*entity.Player, *entity.Board, error) {
	player, err := that.playerRepo.GetByID(ctx, playerID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get player by id: %w", err)
	}

	board, err := that.gameRepo.GetByID(ctx, player.GameID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get game: %w", err)
	}

	if board.IsFinished() {
		return nil, nil, apperror.ErrGameFinished
	}

	return player, board, nil
}

func (that *GameManager) createGame(ctx context.Context, player *entity.Player) (*entity.Board, error) {
	board := entity.NewBoard(pkg.GenerateGameID())

	player.GameID = board.ID
	if err := that.playerRepo.CreateOrUpdate(ctx, player); err != nil {
		return nil, fmt.Errorf("failed to update player: %w", err)
	}

	if err := that.gameRepo.CreateOrUpdate(ctx, board); err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	return board, nil
}

func (that *GameManager) updateGame(ctx context.Context, board *entity.Board) error {
	if err := that.gameRepo.CreateOrUpdate(ctx, board); err != nil {
		return fmt.Errorf("failed to update game: %w", err)
	}

	return nil
}

// finishGame archives the result, drops the board from the session store
// and detaches the player. Failures here only get logged: the finished
// board is already on its way back to the caller.
func (that *GameManager) finishGame(ctx context.Context, player *entity.Player, board *entity.Board) {
	log := that.logger.With("method", "finishGame", "gameID", board.ID)

	result := &entity.GameResult{
		PlayerID:   player.ID,
		GameID:     board.ID,
		Status:     board.Status(),
		Revealed:   board.RevealedCount(),
		FinishedAt: time.Now(),
	}

	if err := that.resultRepo.Save(ctx, result); err != nil {
		log.Error("failed to save game result", "error", err)
	}

	if err := that.gameRepo.DeleteByID(ctx, board.ID); err != nil {
		log.Error("failed to delete game", "error", err)
	}

	player.GameID = ""
	if err := that.playerRepo.CreateOrUpdate(ctx, player); err != nil {
		log.Error("failed to update player", "error", err)
	}

	log.Info("game finished", "status", result.Status, "revealed", result.Revealed)
}

func (that *GameManager) createPlayer(ctx context.Context) (*entity.Player, error) {
	player := &entity.Player{
		ID: pkg.GenerateNewSessionID(),
	}

	if err := that.playerRepo.CreateOrUpdate(ctx, player); err != nil {
		return nil, fmt.Errorf("failed to create player: %w", err)
	}

	return player, nil
}
