package rules

import (
	"math/bits"

	"github.com/notnil/chess"
)

// SquareSet is a set of board squares, bit i standing for chess.Square(i).
type SquareSet uint64

// Add returns s with sq included.
func (s SquareSet) Add(sq chess.Square) SquareSet {
	return s | 1<<uint(sq)
}

// Has reports whether sq is in s.
func (s SquareSet) Has(sq chess.Square) bool {
	return s&(1<<uint(sq)) != 0
}

// Len is the number of squares in s.
func (s SquareSet) Len() int {
	return bits.OnesCount64(uint64(s))
}

// Squares lists the members of s from A1 to H8.
func (s SquareSet) Squares() []chess.Square {
	out := make([]chess.Square, 0, s.Len())
	for v := uint64(s); v != 0; v &= v - 1 {
		out = append(out, chess.Square(bits.TrailingZeros64(v)))
	}
	return out
}

// Occupied returns the squares holding a piece of colour c. chess.NoColor
// selects both sides.
func Occupied(board *chess.Board, c chess.Color) SquareSet {
	var s SquareSet
	for sq := chess.A1; sq <= chess.H8; sq++ {
		p := board.Piece(sq)
		if p == chess.NoPiece {
			continue
		}
		if c == chess.NoColor || p.Color() == c {
			s = s.Add(sq)
		}
	}
	return s
}

// AttackFunc computes the squares a piece on sq attacks given the occupied
// squares of both sides.
type AttackFunc func(p chess.Piece, sq chess.Square, occupied SquareSet) SquareSet

type step struct{ file, rank int }

var (
	diagonalSteps   = []step{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
	orthogonalSteps = []step{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	knightSteps     = []step{{1, 2}, {2, 1}, {2, -1}, {1, -2}, {-1, -2}, {-2, -1}, {-2, 1}, {-1, 2}}
	kingSteps       = []step{{1, 1}, {1, 0}, {1, -1}, {0, -1}, {-1, -1}, {-1, 0}, {-1, 1}, {0, 1}}
)

func offset(sq chess.Square, st step) (chess.Square, bool) {
	f := int(sq.File()) + st.file
	r := int(sq.Rank()) + st.rank
	if f < 0 || f > 7 || r < 0 || r > 7 {
		return chess.NoSquare, false
	}
	return chess.NewSquare(chess.File(f), chess.Rank(r)), true
}

func slide(sq chess.Square, occupied SquareSet, steps []step) SquareSet {
	var s SquareSet
	for _, st := range steps {
		cur := sq
		for {
			next, ok := offset(cur, st)
			if !ok {
				break
			}
			s = s.Add(next)
			if occupied.Has(next) {
				break
			}
			cur = next
		}
	}
	return s
}

func leap(sq chess.Square, steps []step) SquareSet {
	var s SquareSet
	for _, st := range steps {
		if next, ok := offset(sq, st); ok {
			s = s.Add(next)
		}
	}
	return s
}

// DiagonalAttacks is the bishop-style sliding attack set from sq: every
// square along the four diagonals up to and including the first occupied one.
func DiagonalAttacks(sq chess.Square, occupied SquareSet) SquareSet {
	return slide(sq, occupied, diagonalSteps)
}

// AttackSet applies the diagonal pattern to every piece kind. This is the
// pattern the greedy trade heuristic scores with.
func AttackSet(_ chess.Piece, sq chess.Square, occupied SquareSet) SquareSet {
	return DiagonalAttacks(sq, occupied)
}

// PieceAttacks is the real attack pattern of p.
func PieceAttacks(p chess.Piece, sq chess.Square, occupied SquareSet) SquareSet {
	switch p.Type() {
	case chess.King:
		return leap(sq, kingSteps)
	case chess.Queen:
		return slide(sq, occupied, diagonalSteps) | slide(sq, occupied, orthogonalSteps)
	case chess.Rook:
		return slide(sq, occupied, orthogonalSteps)
	case chess.Bishop:
		return slide(sq, occupied, diagonalSteps)
	case chess.Knight:
		return leap(sq, knightSteps)
	case chess.Pawn:
		if p.Color() == chess.White {
			return leap(sq, []step{{1, 1}, {-1, 1}})
		}
		return leap(sq, []step{{1, -1}, {-1, -1}})
	}
	return 0
}
