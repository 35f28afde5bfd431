package usecase

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/minesweeper-backend/internal/apperror"
	"github.com/rocketscienceinc/minesweeper-backend/internal/entity"
)

var (
	errSomeError = errors.New("some error")
	errRedisDown = errors.New("redis down")
)

type mockPlayerRepo struct {
	mock.Mock
}

func (that *mockPlayerRepo) CreateOrUpdate(ctx context.Context, player *entity.Player) error {
	args := that.Called(ctx, player)
	return args.Error(0)
}

func (that *mockPlayerRepo) GetByID(ctx context.Context, id string) (*entity.Player, error) {
	args := that.Called(ctx, id)
	return args.Get(0).(*entity.Player), args.Error(1)
}

type mockGameRepo struct {
	mock.Mock
}

func (that *mockGameRepo) CreateOrUpdate(ctx context.Context, board *entity.Board) error {
	args := that.Called(ctx, board)
	return args.Error(0)
}

func (that *mockGameRepo) GetByID(ctx context.Context, id string) (*entity.Board, error) {
	args := that.Called(ctx, id)
	return args.Get(0).(*entity.Board), args.Error(1)
}

func (that *mockGameRepo) DeleteByID(ctx context.Context, id string) error {
	args := that.Called(ctx, id)
	return args.Error(0)
}

type mockResultRepo struct {
	mock.Mock
}

func (that *mockResultRepo) Save(ctx context.Context, result *entity.GameResult) error {
	args := that.Called(ctx, result)
	return args.Error(0)
}

func newTestManager(t *testing.T) (*GameManager, *mockPlayerRepo, *mockGameRepo, *mockResultRepo) {
	t.Helper()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	playerRepo := &mockPlayerRepo{}
	gameRepo := &mockGameRepo{}
	resultRepo := &mockResultRepo{}

	t.Cleanup(func() {
		playerRepo.AssertExpectations(t)
		gameRepo.AssertExpectations(t)
		resultRepo.AssertExpectations(t)
	})

	return NewGameManager(logger, playerRepo, gameRepo, resultRepo), playerRepo, gameRepo, resultRepo
}

// testMines is a fixed layout so the tests can steer reveals precisely.
var testMines = []entity.Coord{
	{Row: 0, Col: 0},
	{Row: 1, Col: 3},
	{Row: 5, Col: 6},
	{Row: 6, Col: 6},
	{Row: 4, Col: 2},
	{Row: 7, Col: 1},
	{Row: 0, Col: 7},
	{Row: 2, Col: 3},
	{Row: 7, Col: 0},
	{Row: 2, Col: 6},
}

func TestGameManager_GetOrCreatePlayer(t *testing.T) {
	ctx := context.Background()

	t.Run("Creates a new player when playerID is empty", func(t *testing.T) {
		// Given: a player repository that accepts the new player
		manager, playerRepo, _, _ := newTestManager(t)

		playerRepo.On("CreateOrUpdate", ctx, mock.AnythingOfType("*entity.Player")).
			Return(nil).
			Once()

		// When: calling GetOrCreatePlayer with an empty playerID
		player, err := manager.GetOrCreatePlayer(ctx, "")

		// Then: a new player with a session id should be created
		require.NoError(t, err)
		assert.NotEmpty(t, player.ID)
	})

	t.Run("Returns existing player when playerID is not empty", func(t *testing.T) {
		// Given: a player repository that knows the player
		manager, playerRepo, _, _ := newTestManager(t)

		existingPlayer := &entity.Player{ID: "player123"}
		playerRepo.On("GetByID", ctx, "player123").
			Return(existingPlayer, nil).
			Once()

		// When: calling GetOrCreatePlayer with a known playerID
		player, err := manager.GetOrCreatePlayer(ctx, "player123")

		// Then: the existing player should be returned
		require.NoError(t, err)
		assert.Equal(t, existingPlayer, player)
	})

	t.Run("Returns error when the lookup fails", func(t *testing.T) {
		// Given: a player repository that fails
		manager, playerRepo, _, _ := newTestManager(t)

		playerRepo.On("GetByID", ctx, "playerErr").
			Return((*entity.Player)(nil), errSomeError).
			Once()

		// When: calling GetOrCreatePlayer
		player, err := manager.GetOrCreatePlayer(ctx, "playerErr")

		// Then: the error should surface and no player is returned
		require.Error(t, err)
		assert.Nil(t, player)
	})
}

func TestGameManager_GetOrCreateGame(t *testing.T) {
	ctx := context.Background()

	t.Run("Creates a new board when the player has no game", func(t *testing.T) {
		// Given: a player without a game
		manager, playerRepo, gameRepo, _ := newTestManager(t)

		player := &entity.Player{ID: "p1"}
		playerRepo.On("GetByID", ctx, "p1").
			Return(player, nil).
			Once()
		playerRepo.On("CreateOrUpdate", ctx, player).
			Return(nil).
			Once()
		gameRepo.On("CreateOrUpdate", ctx, mock.AnythingOfType("*entity.Board")).
			Return(nil).
			Once()

		// When: calling GetOrCreateGame
		board, err := manager.GetOrCreateGame(ctx, "p1")

		// Then: a fresh board is created and bound to the player
		require.NoError(t, err)
		require.NotNil(t, board)
		assert.Equal(t, board.ID, player.GameID)
		assert.Equal(t, entity.StatusInProgress, board.Status())
	})

	t.Run("Returns the existing board when the player has one", func(t *testing.T) {
		// Given: a player already bound to a board
		manager, playerRepo, gameRepo, _ := newTestManager(t)

		existingBoard := entity.NewBoardWithMines("g1", testMines)
		playerRepo.On("GetByID", ctx, "p1").
			Return(&entity.Player{ID: "p1", GameID: "g1"}, nil).
			Once()
		gameRepo.On("GetByID", ctx, "g1").
			Return(existingBoard, nil).
			Once()

		// When: calling GetOrCreateGame
		board, err := manager.GetOrCreateGame(ctx, "p1")

		// Then: the stored board is returned unchanged
		require.NoError(t, err)
		assert.Equal(t, existingBoard, board)
	})

	t.Run("Returns error when storing the new board fails", func(t *testing.T) {
		// Given: a game repository that rejects the write
		manager, playerRepo, gameRepo, _ := newTestManager(t)

		player := &entity.Player{ID: "p1"}
		playerRepo.On("GetByID", ctx, "p1").
			Return(player, nil).
			Once()
		playerRepo.On("CreateOrUpdate", ctx, player).
			Return(nil).
			Once()
		gameRepo.On("CreateOrUpdate", ctx, mock.AnythingOfType("*entity.Board")).
			Return(errRedisDown).
			Once()

		// When: calling GetOrCreateGame
		board, err := manager.GetOrCreateGame(ctx, "p1")

		// Then: the error should surface
		require.Error(t, err)
		assert.Nil(t, board)
	})
}

func TestGameManager_Reveal(t *testing.T) {
	ctx := context.Background()

	t.Run("Reveals a safe cell and persists the board", func(t *testing.T) {
		// Given: a player with an in-progress board
		manager, playerRepo, gameRepo, _ := newTestManager(t)

		board := entity.NewBoardWithMines("g1", testMines)
		playerRepo.On("GetByID", ctx, "p1").
			Return(&entity.Player{ID: "p1", GameID: "g1"}, nil).
			Once()
		gameRepo.On("GetByID", ctx, "g1").
			Return(board, nil).
			Once()
		gameRepo.On("CreateOrUpdate", ctx, board).
			Return(nil).
			Once()

		// When: revealing a safe cell
		result, err := manager.Reveal(ctx, "p1", 0, 1)

		// Then: the board is updated and stays in progress
		require.NoError(t, err)
		assert.Equal(t, entity.VisibilityRevealed, result.Cells[0][1].Visibility)
		assert.Equal(t, entity.StatusInProgress, result.Status())
	})

	t.Run("Revealing a mine archives the result and releases the session", func(t *testing.T) {
		// Given: a player with an in-progress board
		manager, playerRepo, gameRepo, resultRepo := newTestManager(t)

		board := entity.NewBoardWithMines("g1", testMines)
		player := &entity.Player{ID: "p1", GameID: "g1"}
		playerRepo.On("GetByID", ctx, "p1").
			Return(player, nil).
			Once()
		gameRepo.On("GetByID", ctx, "g1").
			Return(board, nil).
			Once()
		resultRepo.On("Save", ctx, mock.AnythingOfType("*entity.GameResult")).
			Return(nil).
			Once()
		gameRepo.On("DeleteByID", ctx, "g1").
			Return(nil).
			Once()
		playerRepo.On("CreateOrUpdate", ctx, player).
			Return(nil).
			Once()

		// When: revealing the mine at (0,0)
		result, err := manager.Reveal(ctx, "p1", 0, 0)

		// Then: the lost board comes back and the player is detached
		require.NoError(t, err)
		assert.Equal(t, entity.StatusLost, result.Status())
		assert.Empty(t, player.GameID)
	})

	t.Run("Returns the board error for a flagged cell", func(t *testing.T) {
		// Given: a board with a flagged cell
		manager, playerRepo, gameRepo, _ := newTestManager(t)

		board := entity.NewBoardWithMines("g1", testMines)
		_, err := board.ToggleFlag(0, 1)
		require.NoError(t, err)

		playerRepo.On("GetByID", ctx, "p1").
			Return(&entity.Player{ID: "p1", GameID: "g1"}, nil).
			Once()
		gameRepo.On("GetByID", ctx, "g1").
			Return(board, nil).
			Once()

		// When: revealing the flagged cell
		result, err := manager.Reveal(ctx, "p1", 0, 1)

		// Then: ErrCellFlagged surfaces and nothing is persisted
		require.ErrorIs(t, err, apperror.ErrCellFlagged)
		assert.Equal(t, board, result)
	})

	t.Run("Rejects moves on a finished game", func(t *testing.T) {
		// Given: a stored board that is already lost
		manager, playerRepo, gameRepo, _ := newTestManager(t)

		board := entity.NewBoardWithMines("g1", testMines)
		_, _, err := board.Reveal(0, 0)
		require.NoError(t, err)

		playerRepo.On("GetByID", ctx, "p1").
			Return(&entity.Player{ID: "p1", GameID: "g1"}, nil).
			Once()
		gameRepo.On("GetByID", ctx, "g1").
			Return(board, nil).
			Once()

		// When: trying to reveal another cell
		_, err = manager.Reveal(ctx, "p1", 0, 1)

		// Then: ErrGameFinished should be returned
		require.ErrorIs(t, err, apperror.ErrGameFinished)
	})
}

func TestGameManager_ToggleFlag(t *testing.T) {
	ctx := context.Background()

	t.Run("Flags a cell and persists the board", func(t *testing.T) {
		// Given: a player with an in-progress board
		manager, playerRepo, gameRepo, _ := newTestManager(t)

		board := entity.NewBoardWithMines("g1", testMines)
		playerRepo.On("GetByID", ctx, "p1").
			Return(&entity.Player{ID: "p1", GameID: "g1"}, nil).
			Once()
		gameRepo.On("GetByID", ctx, "g1").
			Return(board, nil).
			Once()
		gameRepo.On("CreateOrUpdate", ctx, board).
			Return(nil).
			Once()

		// When: flagging a hidden cell
		result, err := manager.ToggleFlag(ctx, "p1", 3, 3)

		// Then: the flag is set and the game stays in progress
		require.NoError(t, err)
		assert.Equal(t, entity.VisibilityFlagged, result.Cells[3][3].Visibility)
		assert.Equal(t, entity.StatusInProgress, result.Status())
	})

	t.Run("Returns the board error for a revealed cell", func(t *testing.T) {
		// Given: a board with a revealed cell
		manager, playerRepo, gameRepo, _ := newTestManager(t)

		board := entity.NewBoardWithMines("g1", testMines)
		_, _, err := board.Reveal(0, 1)
		require.NoError(t, err)

		playerRepo.On("GetByID", ctx, "p1").
			Return(&entity.Player{ID: "p1", GameID: "g1"}, nil).
			Once()
		gameRepo.On("GetByID", ctx, "g1").
			Return(board, nil).
			Once()

		// When: flagging the revealed cell
		_, err = manager.ToggleFlag(ctx, "p1", 0, 1)

		// Then: ErrCellRevealed should be returned
		require.ErrorIs(t, err, apperror.ErrCellRevealed)
	})
}
