package apperror

import "errors"

var (
	ErrOutOfBounds  = errors.New("cell is out of bounds")
	ErrCellFlagged  = errors.New("cell is flagged, unflag first")
	ErrCellRevealed = errors.New("cell is already revealed")
	ErrGameFinished = errors.New("game is already finished")
)
