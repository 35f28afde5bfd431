package tui

import (
	"github.com/rivo/tview"

	"github.com/rocketscienceinc/minesweeper-backend/internal/entity"
)

type Renderer struct {
	boardTable *tview.Table
}

func NewRenderer() *Renderer {
	return &Renderer{
		boardTable: tview.NewTable(),
	}
}

func (that *Renderer) DrawBoard(board *entity.Board) {
	view := board.View()

	for row := 0; row < entity.BoardRows; row++ {
		for col := 0; col < entity.BoardCols; col++ {
			that.boardTable.SetCell(row, col,
				tview.NewTableCell(view[row][col]).SetAlign(tview.AlignCenter))
		}
	}

	that.boardTable.SetSelectable(true, true)
	that.boardTable.SetFixed(entity.BoardRows, entity.BoardCols)
}

func (that *Renderer) RenderCell(board *entity.Board, row, col int) {
	cellText, err := board.CellView(row, col)
	if err != nil {
		return
	}

	that.boardTable.SetCell(row, col, tview.NewTableCell(cellText).SetAlign(tview.AlignCenter))
}
