package websocket

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/minesweeper-backend/internal/apperror"
	"github.com/rocketscienceinc/minesweeper-backend/internal/entity"
)

func (that *Server) handleConnect(ctx context.Context, msg *Message, bufrw *bufio.ReadWriter) error {
	log := that.logger.With("method", "handleConnect")

	payloadReq, err := decodePayload(msg)
	if err != nil {
		return err
	}

	playerID := ""
	if payloadReq.Player != nil {
		playerID = payloadReq.Player.ID
	}

	player, err := that.uGame.GetOrCreatePlayer(ctx, playerID)
	if err != nil {
		log.Error("failed to create or get player", "error", err)

		return that.sendErrorResponse(bufrw, msg.Action, "failed to create a new player")
	}

	payloadResp := Payload{
		Player: player,
	}

	if player.GameID != "" {
		board, err := that.uGame.GetGameByPlayerID(ctx, player.ID)
		if err != nil {
			log.Error("failed to get game", "gameID", player.GameID, "error", err)

			return that.sendErrorResponse(bufrw, msg.Action, "failed to get the game")
		}

		payloadResp.Game = newGameView(board)
	}

	if err = that.sendMessage(bufrw, msg.Action, payloadResp); err != nil {
		return fmt.Errorf("failed to send response: %w", err)
	}

	log.Info("successfully connected player", "playerID", player.ID)

	return nil
}

func (that *Server) handleNewGame(ctx context.Context, msg *Message, bufrw *bufio.ReadWriter) error {
	log := that.logger.With("method", "handleNewGame")

	payloadReq, err := decodePayload(msg)
	if err != nil {
		return err
	}

	if payloadReq.Player == nil {
		log.Error("Player is missing in payload")
		return that.sendErrorResponse(bufrw, msg.Action, "Player is required")
	}

	board, err := that.uGame.GetOrCreateGame(ctx, payloadReq.Player.ID)
	if err != nil {
		log.Error("failed to create or get game", "error", err)

		return that.sendErrorResponse(bufrw, msg.Action, "failed to create a new game")
	}

	payloadResp := Payload{
		Player: payloadReq.Player,
		Game:   newGameView(board),
	}

	if err = that.sendMessage(bufrw, msg.Action, payloadResp); err != nil {
		return fmt.Errorf("failed to send response: %w", err)
	}

	log.Info("game ready", "gameID", board.ID)

	return nil
}

func (that *Server) handleReveal(ctx context.Context, msg *Message, bufrw *bufio.ReadWriter) error {
	log := that.logger.With("method", "handleReveal")

	payloadReq, err := decodePayload(msg)
	if err != nil {
		return err
	}

	if payloadReq.Player == nil || payloadReq.Cell == nil {
		log.Error("Player or Cell is missing in payload")
		return that.sendErrorResponse(bufrw, msg.Action, "Player and Cell are required")
	}

	board, err := that.uGame.Reveal(ctx, payloadReq.Player.ID, payloadReq.Cell.Row, payloadReq.Cell.Col)
	if err != nil {
		return that.sendMoveError(bufrw, msg.Action, board, err)
	}

	payloadResp := Payload{
		Player: payloadReq.Player,
		Game:   newGameView(board),
	}

	if err = that.sendMessage(bufrw, msg.Action, payloadResp); err != nil {
		return fmt.Errorf("failed to send response: %w", err)
	}

	return nil
}

func (that *Server) handleFlag(ctx context.Context, msg *Message, bufrw *bufio.ReadWriter) error {
	log := that.logger.With("method", "handleFlag")

	payloadReq, err := decodePayload(msg)
	if err != nil {
		return err
	}

	if payloadReq.Player == nil || payloadReq.Cell == nil {
		log.Error("Player or Cell is missing in payload")
		return that.sendErrorResponse(bufrw, msg.Action, "Player and Cell are required")
	}

	board, err := that.uGame.ToggleFlag(ctx, payloadReq.Player.ID, payloadReq.Cell.Row, payloadReq.Cell.Col)
	if err != nil {
		return that.sendMoveError(bufrw, msg.Action, board, err)
	}

	payloadResp := Payload{
		Player: payloadReq.Player,
		Game:   newGameView(board),
	}

	if err = that.sendMessage(bufrw, msg.Action, payloadResp); err != nil {
		return fmt.Errorf("failed to send response: %w", err)
	}

	return nil
}

func (that *Server) handleGameState(ctx context.Context, msg *Message, bufrw *bufio.ReadWriter) error {
	log := that.logger.With("method", "handleGameState")

	payloadReq, err := decodePayload(msg)
	if err != nil {
		return err
	}

	if payloadReq.Player == nil {
		log.Error("Player is missing in payload")
		return that.sendErrorResponse(bufrw, msg.Action, "Player is required")
	}

	board, err := that.uGame.GetGameByPlayerID(ctx, payloadReq.Player.ID)
	if err != nil {
		log.Error("failed to get game", "error", err)

		return that.sendErrorResponse(bufrw, msg.Action, "failed to get the game")
	}

	payloadResp := Payload{
		Player: payloadReq.Player,
		Game:   newGameView(board),
	}

	if err = that.sendMessage(bufrw, msg.Action, payloadResp); err != nil {
		return fmt.Errorf("failed to send response: %w", err)
	}

	return nil
}

// sendMoveError reports a rejected move back to the client. Expected game
// rule violations travel as error payloads with the current board attached
// when one is available.
func (that *Server) sendMoveError(bufrw *bufio.ReadWriter, action string, board *entity.Board, err error) error {
	payloadResp := Payload{
		Error: moveErrorMessage(err),
	}

	if board != nil {
		payloadResp.Game = newGameView(board)
	}

	if sendErr := that.sendMessage(bufrw, action, payloadResp); sendErr != nil {
		return fmt.Errorf("failed to send error response: %w", sendErr)
	}

	return nil
}

func moveErrorMessage(err error) string {
	switch {
	case errors.Is(err, apperror.ErrOutOfBounds):
		return "cell is out of bounds"
	case errors.Is(err, apperror.ErrCellFlagged):
		return "cell is flagged, unflag first"
	case errors.Is(err, apperror.ErrCellRevealed):
		return "cell is already revealed"
	case errors.Is(err, apperror.ErrGameFinished):
		return "game is already finished"
	default:
		return "failed to apply the move"
	}
}

func decodePayload(msg *Message) (*Payload, error) {
	var payload Payload

	if len(msg.Payload) == 0 {
		return &payload, nil
	}

	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return nil, fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	return &payload, nil
}

func (that *Server) sendErrorResponse(bufrw *bufio.ReadWriter, action, message string) error {
	payloadResp := Payload{
		Error: message,
	}

	if err := that.sendMessage(bufrw, action, payloadResp); err != nil {
		return fmt.Errorf("failed to send error response: %w", err)
	}

	return nil
}
