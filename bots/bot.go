// bot.go
package bots

import (
	"time"

	"github.com/notnil/chess"
)

// MoveRequest is what a bot is asked to answer: its own clock, the
// opponent's clock and a private copy of the position.
type MoveRequest struct {
	MyTime       time.Duration
	OpponentTime time.Duration
	Position     *chess.Position
}

// ChessBot интерфейс для всех ботов
type ChessBot interface {
	BestMove(req MoveRequest) *chess.Move
	Name() string
}

// PositionEvaluator defines the interface for position evaluation
type PositionEvaluator interface {
	Evaluate(pos *chess.Position) float64
}
