// Package arena plays a series of matches between two bots, swapping
// colours every game, and tallies the results.
package arena

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/notnil/chess"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"lukechampine.com/frand"

	"chessbots/bots"
	"chessbots/game"
	"chessbots/matchlog"
)

type Config struct {
	// BotA plays white in even games, BotB in odd ones.
	BotA, BotB string

	Games       int
	Concurrency int

	TimeControl  time.Duration
	MaxPlies     int
	StartFEN     string
	TickInterval time.Duration

	// Seed makes random bots reproducible. Empty means fresh entropy.
	Seed []byte

	Verbose bool
}

// Store receives every finished match. *matchlog.Repository is one.
type Store interface {
	InsertAll(recs []*matchlog.Record) error
}

type Game struct {
	Index  int
	White  string
	Black  string
	AWhite bool
	Result game.Result
	Record matchlog.Record
}

type gameSpec struct {
	index  int
	aWhite bool
	seeds  [2][]byte
}

// Run plays cfg.Games matches, at most cfg.Concurrency at a time. Finished
// matches are handed to store, if any, once all have completed.
func Run(ctx context.Context, cfg Config, store Store) (Tally, []Game, error) {
	if cfg.Games <= 0 || cfg.Concurrency <= 0 {
		return Tally{}, nil, errors.New("games and concurrency must be positive")
	}
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = time.Millisecond
	}
	for _, name := range []string{cfg.BotA, cfg.BotB} {
		if _, err := bots.New(name); err != nil {
			return Tally{}, nil, err
		}
	}

	specs := plan(cfg)
	games := make([]Game, len(specs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Concurrency)
	for _, spec := range specs {
		spec := spec
		g.Go(func() error {
			played, err := playOne(ctx, cfg, spec)
			if err != nil {
				return fmt.Errorf("game %d: %w", spec.index, err)
			}
			games[spec.index] = played
			if cfg.Verbose {
				log.Info().
					Int("game", spec.index).
					Str("white", played.White).
					Str("black", played.Black).
					Stringer("result", played.Result).
					Msg("game finished")
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Tally{}, nil, err
	}

	var t Tally
	for _, gm := range games {
		t.Add(gm)
	}
	if store != nil {
		recs := make([]*matchlog.Record, len(games))
		for i := range games {
			recs[i] = &games[i].Record
		}
		if err := store.InsertAll(recs); err != nil {
			return t, games, fmt.Errorf("store results: %w", err)
		}
	}
	return t, games, nil
}

// plan lays out every game up front so seeds do not depend on scheduling.
func plan(cfg Config) []gameSpec {
	var rng *frand.RNG
	if len(cfg.Seed) > 0 {
		rng = frand.NewCustom(padSeed(cfg.Seed), 1024, 12)
	}
	specs := make([]gameSpec, cfg.Games)
	for i := range specs {
		specs[i] = gameSpec{index: i, aWhite: i%2 == 0}
		if rng != nil {
			specs[i].seeds = [2][]byte{rng.Bytes(32), rng.Bytes(32)}
		}
	}
	return specs
}

func padSeed(seed []byte) []byte {
	key := make([]byte, 32)
	copy(key, seed)
	return key
}

func newBot(name string, seed []byte) (bots.ChessBot, error) {
	if name == "random" && seed != nil {
		return bots.NewSeededRandomBot(seed), nil
	}
	return bots.New(name)
}

func playOne(ctx context.Context, cfg Config, spec gameSpec) (Game, error) {
	white, black := cfg.BotA, cfg.BotB
	if !spec.aWhite {
		white, black = black, white
	}
	wb, err := newBot(white, spec.seeds[0])
	if err != nil {
		return Game{}, err
	}
	bb, err := newBot(black, spec.seeds[1])
	if err != nil {
		return Game{}, err
	}

	m, err := game.NewMatch(bots.NewWorker(wb), bots.NewWorker(bb), game.Options{
		TimeControl: cfg.TimeControl,
		StartFEN:    cfg.StartFEN,
		MaxPlies:    cfg.MaxPlies,
	})
	if err != nil {
		return Game{}, err
	}
	defer m.Close()

	res, err := m.Run(ctx, cfg.TickInterval)
	if err != nil {
		return Game{}, err
	}
	rec, err := matchlog.NewRecord(white, black, m, time.Now())
	if err != nil {
		return Game{}, err
	}
	return Game{
		Index:  spec.index,
		White:  white,
		Black:  black,
		AWhite: spec.aWhite,
		Result: res,
		Record: rec,
	}, nil
}

// winnerIsA reports whether bot A won g; ok is false for a draw.
func (g Game) winnerIsA() (a bool, ok bool) {
	switch g.Result.Winner() {
	case chess.White:
		return g.AWhite, true
	case chess.Black:
		return !g.AWhite, true
	}
	return false, false
}
