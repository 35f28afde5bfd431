package entity

import "time"

// GameResult is the history record written once a game ends.
type GameResult struct {
	PlayerID   string     `json:"player_id"`
	GameID     string     `json:"game_id"`
	Status     GameStatus `json:"status"`
	Revealed   int        `json:"revealed"`
	FinishedAt time.Time  `json:"finished_at"`
}
