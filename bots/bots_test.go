package bots

import (
	"errors"
	"testing"
	"time"

	"github.com/matryer/is"
	"github.com/notnil/chess"

	"chessbots/rules"
)

func mustFEN(t *testing.T, fen string) *chess.Position {
	t.Helper()
	pos, err := rules.ParseFEN(fen)
	if err != nil {
		t.Fatal(err)
	}
	return pos
}

func uciMove(t *testing.T, pos *chess.Position, uci string) *chess.Move {
	t.Helper()
	for _, m := range pos.ValidMoves() {
		if m.S1().String()+m.S2().String() == uci {
			return m
		}
	}
	t.Fatalf("move %s not legal in %s", uci, pos)
	return nil
}

func request(pos *chess.Position) MoveRequest {
	return MoveRequest{MyTime: time.Minute, OpponentTime: time.Minute, Position: pos}
}

func isLegal(pos *chess.Position, mv *chess.Move) bool {
	_, ok := rules.FindLegal(pos, mv)
	return ok
}

// playout walks a game forward with a seeded random bot and returns every
// non-terminal position it passed through.
func playout(t *testing.T, seed byte, plies int) []*chess.Position {
	t.Helper()
	walker := NewSeededRandomBot([]byte{seed})
	pos := chess.NewGame().Position()
	var out []*chess.Position
	for i := 0; i < plies && len(rules.LegalMoves(pos)) > 0; i++ {
		out = append(out, pos)
		pos = rules.Apply(pos, walker.BestMove(request(pos)))
	}
	return out
}

func TestRandomBotPlaysLegalMoves(t *testing.T) {
	is := is.New(t)
	bot := NewRandomBot()
	for seed := byte(1); seed <= 5; seed++ {
		for _, pos := range playout(t, seed, 120) {
			mv := bot.BestMove(request(pos))
			is.True(isLegal(pos, mv))
		}
	}
}

func TestSeededRandomBotIsReproducible(t *testing.T) {
	is := is.New(t)
	a := playout(t, 42, 40)
	b := playout(t, 42, 40)
	is.Equal(len(a), len(b))
	for i := range a {
		is.Equal(a[i].String(), b[i].String())
	}
}

func TestRandomBotCoversMoveSet(t *testing.T) {
	is := is.New(t)
	bot := NewSeededRandomBot([]byte("coverage"))
	pos := chess.NewGame().Position()
	seen := map[string]bool{}
	for i := 0; i < 2000; i++ {
		seen[bot.BestMove(request(pos)).String()] = true
	}
	is.Equal(len(seen), 20)
}

func TestNewbornBotPlaysFirstMove(t *testing.T) {
	is := is.New(t)
	pos := chess.NewGame().Position()
	mv := NewNewbornBot().BestMove(request(pos))
	is.True(rules.SameMove(mv, rules.LegalMoves(pos)[0]))
}

func TestBotsPanicWithoutLegalMoves(t *testing.T) {
	// Fool's mate: white is checkmated.
	mated := mustFEN(t, "rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3")
	for _, bot := range []ChessBot{NewRandomBot(), NewNewbornBot(), NewGreedyTradeBot()} {
		func() {
			defer func() {
				r := recover()
				if err, ok := r.(error); !ok || !errors.Is(err, rules.ErrNoLegalMoves) {
					t.Errorf("%s: recovered %v, want ErrNoLegalMoves", bot.Name(), r)
				}
			}()
			bot.BestMove(request(mated))
		}()
	}
}

func TestThreatEvaluator(t *testing.T) {
	is := is.New(t)
	e := NewThreatEvaluator()

	// Bishop b5 sees the king on e8 (check) and the pawn on a6 (1 - 3).
	pos := mustFEN(t, "4k3/8/p7/1B6/8/8/8/4K3 w - - 0 1")
	is.Equal(e.Evaluate(pos), 998.0)

	// Only the side to move is scored: black's king and pawn both see
	// the bishop, worth 3 - 3 each.
	pos = mustFEN(t, "4k3/8/p7/1B6/8/8/8/4K3 b - - 0 1")
	is.Equal(e.Evaluate(pos), 0.0)

	// The diagonal pattern is applied to a knight as well.
	pos = mustFEN(t, "4k3/8/p7/1N6/8/8/8/4K3 w - - 0 1")
	is.Equal(e.Evaluate(pos), 998.0)

	// A king on c8 looking down d7-e6 at a queen: 9 - 3.
	pos = mustFEN(t, "2K1k3/8/4q3/8/8/6b1/8/8 w - - 0 1")
	is.Equal(e.Evaluate(pos), 6.0)
}

func TestThreatEvaluatorWithPieceAttacks(t *testing.T) {
	is := is.New(t)
	e := ThreatEvaluator{Attacks: rules.PieceAttacks}

	pos := mustFEN(t, "4k3/8/p7/1N6/8/8/8/4K3 w - - 0 1")
	is.Equal(e.Evaluate(pos), 0.0)

	// Knight c7 forks king e8 and rook a8 (3 - 3).
	pos = mustFEN(t, "r3k3/2N5/8/8/8/8/8/4K3 w - - 0 1")
	is.Equal(e.Evaluate(pos), 1000.0)
}

func TestGreedyTradeBotSingleLegalMove(t *testing.T) {
	is := is.New(t)
	// Rb2 covers a2 and b1, so Kxb2 is the only move.
	pos := mustFEN(t, "k7/8/8/8/8/8/1r6/K7 w - - 0 1")
	is.Equal(len(rules.LegalMoves(pos)), 1)

	mv := NewGreedyTradeBot().BestMove(request(pos))
	is.Equal(mv.S1(), chess.A1)
	is.Equal(mv.S2(), chess.B2)
}

func TestGreedyTradeBotAvoidsExposingQueen(t *testing.T) {
	is := is.New(t)
	// White Kc8 is checked along g4-c8. The only answers are Kb7 and
	// Qe6, the latter blocking on a square the black queen hits.
	pos := mustFEN(t, "2K1k3/8/1Q6/8/6q1/6b1/8/8 w - - 0 1")
	is.Equal(len(rules.LegalMoves(pos)), 2)

	bot := NewGreedyTradeBot()
	kb7 := uciMove(t, pos, "c8b7")
	qe6 := uciMove(t, pos, "b6e6")

	// After Qe6+ black has Qxe6 (Kc8 then sees the queen on e6) and Kf8
	// (Qe6 sees the queen on g4). Either way 9 - 3.
	is.Equal(bot.scoreMove(pos, qe6), 6.0)
	// After Kb7 black can retreat e.g. Bh2 and nothing is on a white
	// diagonal; no black piece can make the score negative.
	is.Equal(bot.scoreMove(pos, kb7), 0.0)

	mv := bot.BestMove(request(pos))
	is.True(rules.SameMove(mv, kb7))
}

func TestGreedyTradeBotMateInOneScoresSentinel(t *testing.T) {
	is := is.New(t)
	// Qh5xf7 is mate; with no replies the move keeps the sentinel.
	pos := mustFEN(t, "r1bqkb1r/pppp1ppp/2n2n2/4p2Q/2B1P3/8/PPPP1PPP/RNB1K1NR w KQkq - 4 4")
	bot := NewGreedyTradeBot()
	is.Equal(bot.scoreMove(pos, uciMove(t, pos, "h5f7")), NoReplyScore)
}

func TestGreedyTradeBotPlaysLegalMoves(t *testing.T) {
	is := is.New(t)
	bots := []ChessBot{NewGreedyTradeBot(), NewGreedyTradeBotWithAttacks(rules.PieceAttacks, "true")}
	for _, pos := range playout(t, 9, 30) {
		for _, bot := range bots {
			is.True(isLegal(pos, bot.BestMove(request(pos))))
		}
	}
}

func TestRegistry(t *testing.T) {
	is := is.New(t)
	is.Equal(Names(), []string{"greedy-trade", "greedy-trade-true", "newborn", "random"})
	for _, name := range Names() {
		bot, err := New(name)
		is.NoErr(err)
		is.True(bot.Name() != "")
	}
	_, err := New("stockfish")
	is.True(errors.Is(err, ErrUnknownBot))
}
