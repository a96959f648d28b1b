package arena

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/matryer/is"
	"github.com/notnil/chess"

	"chessbots/bots"
	"chessbots/game"
	"chessbots/matchlog"
)

type memStore struct {
	recs []*matchlog.Record
}

func (s *memStore) InsertAll(recs []*matchlog.Record) error {
	s.recs = append(s.recs, recs...)
	return nil
}

func testConfig() Config {
	return Config{
		BotA:        "greedy-trade",
		BotB:        "random",
		Games:       4,
		Concurrency: 2,
		TimeControl: time.Minute,
		MaxPlies:    10,
		Seed:        []byte("arena"),
	}
}

func run(t *testing.T, cfg Config, store Store) (Tally, []Game) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	tally, games, err := Run(ctx, cfg, store)
	if err != nil {
		t.Fatal(err)
	}
	return tally, games
}

func TestRunSwapsColours(t *testing.T) {
	is := is.New(t)
	store := &memStore{}
	tally, games := run(t, testConfig(), store)

	is.Equal(len(games), 4)
	is.Equal(tally.Count(), 4)
	for i, g := range games {
		is.Equal(g.Index, i)
		is.Equal(g.AWhite, i%2 == 0)
		if g.AWhite {
			is.Equal(g.White, "greedy-trade")
		} else {
			is.Equal(g.White, "random")
		}
		is.True(g.Result.Plies <= 10)
		is.Equal(g.Record.White, g.White)
	}
	is.Equal(len(store.recs), 4)
}

func TestSeededRunIsReproducible(t *testing.T) {
	is := is.New(t)
	cfg := testConfig()
	cfg.BotA = "random"
	_, first := run(t, cfg, nil)
	_, second := run(t, cfg, nil)
	for i := range first {
		is.Equal(first[i].Record.PGN, second[i].Record.PGN)
	}
}

func TestRunRejectsUnknownBot(t *testing.T) {
	is := is.New(t)
	cfg := testConfig()
	cfg.BotB = "stockfish"
	_, _, err := Run(context.Background(), cfg, nil)
	is.True(errors.Is(err, bots.ErrUnknownBot))

	cfg = testConfig()
	cfg.Concurrency = 0
	_, _, err = Run(context.Background(), cfg, nil)
	is.True(err != nil)
}

func TestTallyAdd(t *testing.T) {
	is := is.New(t)
	var tally Tally
	// A wins as white, A wins as black, B wins as black, draw.
	tally.Add(Game{AWhite: true, Result: game.Result{Outcome: chess.WhiteWon, Reason: game.Checkmate}})
	tally.Add(Game{AWhite: false, Result: game.Result{Outcome: chess.BlackWon, Reason: game.TimeForfeit}})
	tally.Add(Game{AWhite: true, Result: game.Result{Outcome: chess.BlackWon, Reason: game.Checkmate}})
	tally.Add(Game{AWhite: false, Result: game.Result{Outcome: chess.Draw, Reason: game.MoveLimit}})

	is.Equal(tally.Players[0], Side{Wins: 2, WhiteWins: 1, BlackWins: 1})
	is.Equal(tally.Players[1], Side{Wins: 1, WhiteWins: 0, BlackWins: 1})
	is.Equal(tally.Draws, 1)
	is.Equal(tally.Count(), 4)
	is.Equal(tally.Reasons[game.Checkmate], 2)
}

func TestPValue(t *testing.T) {
	is := is.New(t)
	var tally Tally
	is.Equal(tally.PValue(), 1.0)

	// P(X >= 8) for X ~ B(10, 1/2) is 56/1024.
	tally.Players[0].Wins = 2
	tally.Players[1].Wins = 8
	is.True(math.Abs(tally.PValue()-56.0/1024) < 1e-9)

	tally.Players[0].Wins = 5
	tally.Players[1].Wins = 5
	is.True(math.Abs(tally.PValue()-638.0/1024) < 1e-9)
}
