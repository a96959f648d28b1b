// Package rules is the thin layer between the match code and
// github.com/notnil/chess. Everything that needs legal moves, results or
// draw claims goes through here so the orchestrator and the bots agree on
// what "legal" means.
package rules

import (
	"errors"
	"fmt"

	"github.com/notnil/chess"
	"github.com/samber/lo"
)

// ErrNoLegalMoves is raised when a move is requested for a terminal position.
var ErrNoLegalMoves = errors.New("rules: no legal moves")

// LegalMoves returns the legal moves of pos in the engine's enumeration order.
// The slice is empty iff the side to move is mated or stalemated.
func LegalMoves(pos *chess.Position) []*chess.Move {
	return pos.ValidMoves()
}

// SameMove reports whether a and b describe the same transition.
func SameMove(a, b *chess.Move) bool {
	if a == nil || b == nil {
		return false
	}
	return a.S1() == b.S1() && a.S2() == b.S2() && a.Promo() == b.Promo()
}

// FindLegal looks mv up in the legal moves of pos and returns the engine's
// own copy of it (with tags filled in).
func FindLegal(pos *chess.Position, mv *chess.Move) (*chess.Move, bool) {
	if mv == nil {
		return nil, false
	}
	return lo.Find(LegalMoves(pos), func(m *chess.Move) bool {
		return SameMove(m, mv)
	})
}

// Apply returns the position after mv. It panics when mv is not legal in pos;
// callers validate with FindLegal first.
func Apply(pos *chess.Position, mv *chess.Move) *chess.Position {
	legal, ok := FindLegal(pos, mv)
	if !ok {
		panic(fmt.Sprintf("rules: illegal move %v in %s", mv, pos))
	}
	return pos.Update(legal)
}

// Snapshot returns an independent copy of pos. notnil positions cache their
// move list lazily, so a value handed to another goroutine must not be shared.
func Snapshot(pos *chess.Position) *chess.Position {
	opt, err := chess.FEN(pos.String())
	if err != nil {
		panic(fmt.Sprintf("rules: engine produced unreadable FEN %q: %v", pos.String(), err))
	}
	return chess.NewGame(opt).Position()
}

// ParseFEN builds a position from a FEN string.
func ParseFEN(fen string) (*chess.Position, error) {
	opt, err := chess.FEN(fen)
	if err != nil {
		return nil, fmt.Errorf("parse fen %q: %w", fen, err)
	}
	return chess.NewGame(opt).Position(), nil
}

// SideToMove returns the colour whose turn it is in pos.
func SideToMove(pos *chess.Position) chess.Color {
	return pos.Turn()
}

// PieceAt returns the kind and colour of the piece on sq, if any.
func PieceAt(pos *chess.Position, sq chess.Square) (chess.PieceType, chess.Color, bool) {
	p := pos.Board().Piece(sq)
	if p == chess.NoPiece {
		return chess.NoPieceType, chess.NoColor, false
	}
	return p.Type(), p.Color(), true
}

// Outcome reports the result the engine has recorded for g, if any.
func Outcome(g *chess.Game) (chess.Outcome, chess.Method, bool) {
	if g.Outcome() == chess.NoOutcome {
		return chess.NoOutcome, chess.NoMethod, false
	}
	return g.Outcome(), g.Method(), true
}

// CanClaimDraw reports whether either side could claim a draw in g right now
// (threefold repetition or the fifty-move rule). A standing draw offer does
// not count.
func CanClaimDraw(g *chess.Game) (chess.Method, bool) {
	return lo.Find(g.EligibleDraws(), func(m chess.Method) bool {
		return m == chess.ThreefoldRepetition || m == chess.FiftyMoveRule
	})
}

// ClaimDraw ends g as a draw by method.
func ClaimDraw(g *chess.Game, method chess.Method) error {
	if err := g.Draw(method); err != nil {
		return fmt.Errorf("claim draw: %w", err)
	}
	return nil
}

// MethodName is a human readable name for a termination method.
func MethodName(m chess.Method) string {
	switch m {
	case chess.Checkmate:
		return "checkmate"
	case chess.Resignation:
		return "resignation"
	case chess.DrawOffer:
		return "draw agreed"
	case chess.Stalemate:
		return "stalemate"
	case chess.ThreefoldRepetition:
		return "threefold repetition"
	case chess.FivefoldRepetition:
		return "fivefold repetition"
	case chess.FiftyMoveRule:
		return "fifty-move rule"
	case chess.SeventyFiveMoveRule:
		return "seventy-five move rule"
	case chess.InsufficientMaterial:
		return "insufficient material"
	default:
		return "none"
	}
}
