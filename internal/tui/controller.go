// Package tui is a local presentation adapter for the board engine: it
// renders cell views and forwards key presses as reveal/flag calls. The
// engine itself knows nothing about the terminal.
package tui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/rocketscienceinc/minesweeper-backend/internal/entity"
)

type Controller struct {
	app      *tview.Application
	board    *entity.Board
	renderer *Renderer

	outcome string
}

func New(board *entity.Board) *Controller {
	return &Controller{
		app:      tview.NewApplication(),
		board:    board,
		renderer: NewRenderer(),
	}
}

func (that *Controller) Run() error {
	that.renderer.DrawBoard(that.board)
	that.handleInput()

	if err := that.app.SetRoot(that.renderer.boardTable, true).Run(); err != nil {
		return fmt.Errorf("failed to run terminal UI: %w", err)
	}

	if that.outcome != "" {
		fmt.Println(that.outcome)
	}

	return nil
}

func (that *Controller) handleInput() {
	that.renderer.boardTable.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		row, col := that.renderer.boardTable.GetSelection()

		switch event.Key() {
		case tcell.KeyEnter:
			that.revealCell(row, col)
		case tcell.KeyEscape:
			that.app.Stop()
		case tcell.KeyRune:
			switch event.Rune() {
			case 'f', 'F':
				that.flagCell(row, col)
			case 'q', 'Q':
				that.app.Stop()
			}
		}

		return event
	})
}

func (that *Controller) revealCell(row, col int) {
	_, status, err := that.board.Reveal(row, col)
	if err != nil {
		// a flagged cell stays put until the player unflags it
		return
	}

	that.renderer.RenderCell(that.board, row, col)

	switch status {
	case entity.StatusWon:
		that.outcome = "Congratulations! You won!"
		that.app.Stop()
	case entity.StatusLost:
		that.outcome = "BOOM! You hit a mine. Game over!"
		that.app.Stop()
	case entity.StatusInProgress:
	}
}

func (that *Controller) flagCell(row, col int) {
	if _, err := that.board.ToggleFlag(row, col); err != nil {
		return
	}

	that.renderer.RenderCell(that.board, row, col)
}
