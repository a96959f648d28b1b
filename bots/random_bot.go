package bots

import (
	"github.com/notnil/chess"
	"lukechampine.com/frand"

	"chessbots/rules"
)

// RandomBot picks uniformly among the legal moves. It ignores the clock.
type RandomBot struct {
	rng *frand.RNG
}

func NewRandomBot() *RandomBot {
	return &RandomBot{rng: frand.New()}
}

// NewSeededRandomBot is reproducible: the same seed yields the same game
// against the same opponent. Only the first 32 bytes of seed are used.
func NewSeededRandomBot(seed []byte) *RandomBot {
	key := make([]byte, 32)
	copy(key, seed)
	return &RandomBot{rng: frand.NewCustom(key, 1024, 12)}
}

func (b *RandomBot) BestMove(req MoveRequest) *chess.Move {
	moves := rules.LegalMoves(req.Position)
	if len(moves) == 0 {
		panic(rules.ErrNoLegalMoves)
	}
	return moves[b.rng.Intn(len(moves))]
}

func (b *RandomBot) Name() string {
	return "Random Bot"
}
