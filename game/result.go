package game

import (
	"fmt"

	"github.com/notnil/chess"
)

// Reason says how a match ended.
type Reason int

const (
	NoReason Reason = iota
	Checkmate
	Stalemate
	// Resignation is forced on a side whose bot answered with an illegal move.
	Resignation
	TimeForfeit
	// DrawClaim is a threefold repetition or fifty-move draw claimed by the match.
	DrawClaim
	// DrawRule is a draw the rules impose without a claim: fivefold
	// repetition, seventy-five moves, insufficient material.
	DrawRule
	// MoveLimit ends the match as a draw once the ply cap is reached.
	MoveLimit
)

func (r Reason) String() string {
	switch r {
	case Checkmate:
		return "checkmate"
	case Stalemate:
		return "stalemate"
	case Resignation:
		return "resignation"
	case TimeForfeit:
		return "time forfeit"
	case DrawClaim:
		return "draw claimed"
	case DrawRule:
		return "draw by rule"
	case MoveLimit:
		return "move limit"
	default:
		return "none"
	}
}

// Result is the final classification of a match.
type Result struct {
	Outcome chess.Outcome
	Reason  Reason
	// Method is the rules engine's own termination method.
	Method chess.Method
	// Side is the side that lost by checkmate, resignation or time;
	// chess.NoColor for draws.
	Side  chess.Color
	Plies int
}

// Winner returns the winning colour, or chess.NoColor for a draw.
func (r Result) Winner() chess.Color {
	switch r.Outcome {
	case chess.WhiteWon:
		return chess.White
	case chess.BlackWon:
		return chess.Black
	}
	return chess.NoColor
}

func (r Result) String() string {
	if r.Side != chess.NoColor {
		return fmt.Sprintf("%s (%s, %s) after %d plies", r.Outcome, r.Reason, r.Side.Name(), r.Plies)
	}
	return fmt.Sprintf("%s (%s) after %d plies", r.Outcome, r.Reason, r.Plies)
}

func lossFor(side chess.Color) chess.Outcome {
	if side == chess.White {
		return chess.BlackWon
	}
	return chess.WhiteWon
}

// resultFromEngine maps a result the rules engine recorded on its own.
// toMove is the side to move in the final position.
func resultFromEngine(outcome chess.Outcome, method chess.Method, toMove chess.Color) Result {
	res := Result{Outcome: outcome, Method: method}
	switch method {
	case chess.Checkmate:
		res.Reason = Checkmate
		res.Side = toMove
	case chess.Stalemate:
		res.Reason = Stalemate
	case chess.ThreefoldRepetition, chess.FiftyMoveRule:
		res.Reason = DrawClaim
	case chess.Resignation:
		res.Reason = Resignation
		if outcome == chess.WhiteWon {
			res.Side = chess.Black
		} else {
			res.Side = chess.White
		}
	default:
		res.Reason = DrawRule
	}
	return res
}
