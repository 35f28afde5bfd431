package repository

import (
	"context"
	"fmt"

	"github.com/rocketscienceinc/minesweeper-backend/internal/entity"
	"github.com/rocketscienceinc/minesweeper-backend/internal/repository/storage"
)

type ResultRepository interface {
	Save(ctx context.Context, result *entity.GameResult) error
	ListByPlayerID(ctx context.Context, playerID string) ([]entity.GameResult, error)
}

type dbResult struct {
	storage *storage.Storage
}

func NewResultRepository(storage *storage.Storage) ResultRepository {
	return &dbResult{
		storage: storage,
	}
}

func (that *dbResult) Save(ctx context.Context, result *entity.GameResult) error {
	query := `INSERT INTO results (player_id, game_id, status, revealed, finished_at) VALUES (?, ?, ?, ?, ?)`

	_, err := that.storage.Connection.ExecContext(ctx, query,
		result.PlayerID, result.GameID, string(result.Status), result.Revealed, result.FinishedAt)
	if err != nil {
		return fmt.Errorf("failed to save result: %w", err)
	}

	return nil
}

func (that *dbResult) ListByPlayerID(ctx context.Context, playerID string) ([]entity.GameResult, error) {
	query := `SELECT player_id, game_id, status, revealed, finished_at FROM results WHERE player_id = ? ORDER BY finished_at`

	rows, err := that.storage.Connection.QueryContext(ctx, query, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query results: %w", err)
	}
	defer rows.Close()

	var results []entity.GameResult
	for rows.Next() {
		var result entity.GameResult
		var status string

		if err = rows.Scan(&result.PlayerID, &result.GameID, &status, &result.Revealed, &result.FinishedAt); err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}

		result.Status = entity.GameStatus(status)
		results = append(results, result)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate results: %w", err)
	}

	return results, nil
}
