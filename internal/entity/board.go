package entity

import (
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"github.com/rocketscienceinc/minesweeper-backend/internal/apperror"
)

const (
	BoardRows = 8
	BoardCols = 8
	MineCount = 10

	// SafeCellCount is how many non-mine cells must be revealed to win.
	SafeCellCount = BoardRows*BoardCols - MineCount
)

// Visibility is the player-facing state of a single cell.
// A cell is never flagged and revealed at the same time.
type Visibility string

const (
	VisibilityHidden   Visibility = "hidden"
	VisibilityRevealed Visibility = "revealed"
	VisibilityFlagged  Visibility = "flagged"
)

// GameStatus is derived from the board: lost if any mine is revealed,
// won once every safe cell is revealed, in progress otherwise.
type GameStatus string

const (
	StatusInProgress GameStatus = "in_progress"
	StatusWon        GameStatus = "won"
	StatusLost       GameStatus = "lost"
)

// Cell views as rendered to adapters.
const (
	ViewBlank = " "
	ViewFlag  = "F"
	ViewMine  = "*"
)

// neighborOffsets covers the 8-neighborhood: orthogonal plus diagonal.
var neighborOffsets = [8][2]int{
	{-1, 0}, {1, 0}, {0, -1}, {0, 1},
	{-1, -1}, {-1, 1}, {1, -1}, {1, 1},
}

type Coord struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

type Cell struct {
	IsMine        bool       `json:"is_mine"`
	Visibility    Visibility `json:"visibility"`
	AdjacentMines int        `json:"adjacent_mines"`
}

type Board struct {
	ID    string                     `json:"id"`
	Cells [BoardRows][BoardCols]Cell `json:"cells"`
}

// NewBoard creates a board with a system-seeded random mine layout.
func NewBoard(id string) *Board {
	return NewBoardWithRand(id, rand.New(rand.NewSource(time.Now().UnixNano()))) //nolint: gosec // mine placement needs no crypto randomness
}

// NewBoardWithRand creates a board placing MineCount mines with the given
// random source, so callers can supply a fixed seed for a repeatable layout.
func NewBoardWithRand(id string, rng *rand.Rand) *Board {
	board := newEmptyBoard(id)

	for _, index := range rng.Perm(BoardRows * BoardCols)[:MineCount] {
		board.Cells[index/BoardCols][index%BoardCols].IsMine = true
	}

	board.computeAdjacentMines()

	return board
}

// NewBoardWithMines creates a board with a preset mine layout. Callers must
// supply exactly MineCount distinct coordinates.
func NewBoardWithMines(id string, mines []Coord) *Board {
	board := newEmptyBoard(id)

	for _, mine := range mines {
		board.Cells[mine.Row][mine.Col].IsMine = true
	}

	board.computeAdjacentMines()

	return board
}

func newEmptyBoard(id string) *Board {
	board := &Board{ID: id}

	for row := range board.Cells {
		for col := range board.Cells[row] {
			board.Cells[row][col].Visibility = VisibilityHidden
		}
	}

	return board
}

func (that *Board) computeAdjacentMines() {
	for row := range that.Cells {
		for col := range that.Cells[row] {
			that.Cells[row][col].AdjacentMines = that.countAdjacentMines(row, col)
		}
	}
}

func (that *Board) countAdjacentMines(row, col int) int {
	count := 0

	for _, offset := range neighborOffsets {
		neighborRow, neighborCol := row+offset[0], col+offset[1]
		if inBounds(neighborRow, neighborCol) && that.Cells[neighborRow][neighborCol].IsMine {
			count++
		}
	}

	return count
}

func inBounds(row, col int) bool {
	return row >= 0 && row < BoardRows && col >= 0 && col < BoardCols
}

// Reveal uncovers a cell and reports its view together with the resulting
// game status. Revealing an already revealed cell is a no-op. A failed call
// leaves the board untouched.
func (that *Board) Reveal(row, col int) (string, GameStatus, error) {
	if !inBounds(row, col) {
		return "", "", fmt.Errorf("%w: row %d, col %d", apperror.ErrOutOfBounds, row, col)
	}

	cell := &that.Cells[row][col]

	switch cell.Visibility {
	case VisibilityFlagged:
		return "", "", fmt.Errorf("%w: row %d, col %d", apperror.ErrCellFlagged, row, col)
	case VisibilityRevealed:
		// already uncovered, nothing changes
	case VisibilityHidden:
		cell.Visibility = VisibilityRevealed
	}

	return cellView(*cell), that.Status(), nil
}

// ToggleFlag flips a hidden cell to flagged and back. Flags are cosmetic
// only and never change the game status.
func (that *Board) ToggleFlag(row, col int) (string, error) {
	if !inBounds(row, col) {
		return "", fmt.Errorf("%w: row %d, col %d", apperror.ErrOutOfBounds, row, col)
	}

	cell := &that.Cells[row][col]

	switch cell.Visibility {
	case VisibilityRevealed:
		return "", fmt.Errorf("%w: row %d, col %d", apperror.ErrCellRevealed, row, col)
	case VisibilityHidden:
		cell.Visibility = VisibilityFlagged
	case VisibilityFlagged:
		cell.Visibility = VisibilityHidden
	}

	return cellView(*cell), nil
}

// Status recomputes the game status from the cells on every call.
func (that *Board) Status() GameStatus {
	revealedSafe := 0

	for row := range that.Cells {
		for col := range that.Cells[row] {
			cell := that.Cells[row][col]
			if cell.Visibility != VisibilityRevealed {
				continue
			}

			if cell.IsMine {
				return StatusLost
			}

			revealedSafe++
		}
	}

	if revealedSafe == SafeCellCount {
		return StatusWon
	}

	return StatusInProgress
}

func (that *Board) IsFinished() bool {
	return that.Status() != StatusInProgress
}

// CellView reports what should be displayed for a single cell.
func (that *Board) CellView(row, col int) (string, error) {
	if !inBounds(row, col) {
		return "", fmt.Errorf("%w: row %d, col %d", apperror.ErrOutOfBounds, row, col)
	}

	return cellView(that.Cells[row][col]), nil
}

// View renders the whole board from the player's perspective. Mines stay
// masked until their cell is revealed, so the view is safe to hand to any
// adapter.
func (that *Board) View() [BoardRows][BoardCols]string {
	var view [BoardRows][BoardCols]string

	for row := range that.Cells {
		for col := range that.Cells[row] {
			view[row][col] = cellView(that.Cells[row][col])
		}
	}

	return view
}

// RevealedCount reports how many safe cells have been uncovered so far.
func (that *Board) RevealedCount() int {
	count := 0

	for row := range that.Cells {
		for col := range that.Cells[row] {
			cell := that.Cells[row][col]
			if cell.Visibility == VisibilityRevealed && !cell.IsMine {
				count++
			}
		}
	}

	return count
}

func cellView(cell Cell) string {
	switch cell.Visibility {
	case VisibilityHidden:
		return ViewBlank
	case VisibilityFlagged:
		return ViewFlag
	case VisibilityRevealed:
		if cell.IsMine {
			return ViewMine
		}
		return strconv.Itoa(cell.AdjacentMines)
	default:
		return ViewBlank
	}
}
