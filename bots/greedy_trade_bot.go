package bots

import (
	"github.com/notnil/chess"
	"github.com/rs/zerolog/log"

	"chessbots/rules"
)

// GreedyTradeBot looks two plies ahead. Each of its moves is scored by the
// lowest threat score any opponent reply leaves on the board, and the move
// with the lowest such score is played.
type GreedyTradeBot struct {
	Evaluator PositionEvaluator
	name      string
}

func NewGreedyTradeBot() *GreedyTradeBot {
	return &GreedyTradeBot{Evaluator: NewThreatEvaluator(), name: "Greedy Trade"}
}

// NewGreedyTradeBotWithAttacks scores with a different attack pattern, e.g.
// rules.PieceAttacks for the real movement of each piece.
func NewGreedyTradeBotWithAttacks(attacks rules.AttackFunc, name string) *GreedyTradeBot {
	return &GreedyTradeBot{Evaluator: ThreatEvaluator{Attacks: attacks}, name: name}
}

func (b *GreedyTradeBot) Name() string {
	return b.name
}

func (b *GreedyTradeBot) BestMove(req MoveRequest) *chess.Move {
	moves := rules.LegalMoves(req.Position)
	if len(moves) == 0 {
		panic(rules.ErrNoLegalMoves)
	}

	var best *chess.Move
	bestScore := 0.0
	for _, move := range moves {
		score := b.scoreMove(req.Position, move)
		if best == nil || score < bestScore {
			best, bestScore = move, score
		}
	}

	log.Debug().
		Str("bot", b.name).
		Str("move", best.String()).
		Float64("score", bestScore).
		Int("candidates", len(moves)).
		Msg("greedy trade choice")
	return best
}

// scoreMove plays move and returns the smallest threat score over all the
// opponent's replies, or NoReplyScore if there are none.
func (b *GreedyTradeBot) scoreMove(pos *chess.Position, move *chess.Move) float64 {
	second := pos.Update(move)
	score := NoReplyScore
	for _, reply := range rules.LegalMoves(second) {
		third := second.Update(reply)
		if s := b.Evaluator.Evaluate(third); s < score {
			score = s
		}
	}
	return score
}
