package main

import (
	"fmt"
	"os"

	"github.com/rocketscienceinc/minesweeper-backend/internal/entity"
	"github.com/rocketscienceinc/minesweeper-backend/internal/pkg"
	"github.com/rocketscienceinc/minesweeper-backend/internal/tui"
)

// main - starts a local game against a fresh board: Enter reveals the
// selected cell, "f" toggles a flag, "q" quits.
func main() {
	board := entity.NewBoard(pkg.GenerateGameID())

	controller := tui.New(board)
	if err := controller.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "minesweeper-tui: %v\n", err)
		os.Exit(1)
	}
}
