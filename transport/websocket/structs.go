package websocket

import (
	"encoding/json"

	"github.com/rocketscienceinc/minesweeper-backend/internal/entity"
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Payload is the body exchanged with clients for every action.
type Payload struct {
	Player *entity.Player `json:"player,omitempty"`
	Game   *GameView      `json:"game,omitempty"`
	Cell   *CellRef       `json:"cell,omitempty"`
	Error  string         `json:"error,omitempty"`
}

// CellRef addresses a single cell in a request.
type CellRef struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// GameView is the masked board representation sent to clients. It carries
// only per-cell display values, never the mine layout.
type GameView struct {
	ID     string                                     `json:"id"`
	Board  [entity.BoardRows][entity.BoardCols]string `json:"board"`
	Status entity.GameStatus                          `json:"status"`
	Mines  int                                        `json:"mines"`
}

func newGameView(board *entity.Board) *GameView {
	return &GameView{
		ID:     board.ID,
		Board:  board.View(),
		Status: board.Status(),
		Mines:  entity.MineCount,
	}
}
