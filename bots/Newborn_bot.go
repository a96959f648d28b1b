package bots

import (
	"github.com/notnil/chess"

	"chessbots/rules"
)

// NewbornBot always plays the first legal move it is offered.
type NewbornBot struct{}

func NewNewbornBot() *NewbornBot {
	return &NewbornBot{}
}

func (b *NewbornBot) BestMove(req MoveRequest) *chess.Move {
	moves := rules.LegalMoves(req.Position)
	if len(moves) == 0 {
		panic(rules.ErrNoLegalMoves)
	}
	return moves[0]
}

func (b *NewbornBot) Name() string {
	return "Newborn"
}
