package bots

import (
	"github.com/notnil/chess"

	"chessbots/rules"
)

const (
	// CheckPenalty is added for every attack that lands on a king.
	CheckPenalty = 1000.0
	// TradeBaseline is subtracted from the value of every other attacked
	// piece, so only pieces worth more than a bishop add to the score.
	TradeBaseline = 3.0
	// NoReplyScore is larger than any threat score a position can produce:
	// at most 16 pieces each reaching 4 targets, all scored as checks.
	NoReplyScore = 16 * 4 * CheckPenalty * 2
)

// ThreatEvaluator scores how many of the opponent's pieces the side to move
// hits. Every piece of the side to move is given the attack set returned by
// Attacks, whatever its kind.
type ThreatEvaluator struct {
	Attacks rules.AttackFunc
}

// NewThreatEvaluator uses the diagonal sliding pattern for every piece.
func NewThreatEvaluator() ThreatEvaluator {
	return ThreatEvaluator{Attacks: rules.AttackSet}
}

func (e ThreatEvaluator) Evaluate(pos *chess.Position) float64 {
	board := pos.Board()
	us := pos.Turn()
	occupied := rules.Occupied(board, chess.NoColor)
	enemy := rules.Occupied(board, us.Other())

	var checks, attackers float64
	for sq := chess.A1; sq <= chess.H8; sq++ {
		piece := board.Piece(sq)
		if piece == chess.NoPiece || piece.Color() != us {
			continue
		}
		attacked := e.Attacks(piece, sq, occupied) & enemy
		for _, target := range attacked.Squares() {
			victim := board.Piece(target)
			if victim.Type() == chess.King {
				checks += CheckPenalty
			} else {
				attackers += e.pieceValue(victim.Type()) - TradeBaseline
			}
		}
	}
	return checks + attackers
}

func (e ThreatEvaluator) pieceValue(piece chess.PieceType) float64 {
	switch piece {
	case chess.Pawn:
		return 1
	case chess.Knight:
		return 5
	case chess.Bishop:
		return 3
	case chess.Rook:
		return 3
	case chess.Queen:
		return 9
	default:
		return 0
	}
}
