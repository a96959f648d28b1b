package play

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/subcommands"
	"github.com/rs/zerolog/log"

	"chessbots/bots"
	"chessbots/cmd/internal/opt"
	"chessbots/game"
	"chessbots/matchlog"
)

type Command struct {
	opt opt.Settings
	out string
}

func (*Command) Name() string     { return "play" }
func (*Command) Synopsis() string { return "Play one bot-vs-bot match without a window" }
func (*Command) Usage() string {
	return `play [flags]

Plays a single match between two bots, prints the result and the PGN, and
records the match in the database.
`
}

func (c *Command) SetFlags(flags *flag.FlagSet) {
	c.opt.AddMatchFlags(flags)
	flags.StringVar(&c.out, "out", "", "write the PGN to this file")
}

func (c *Command) Execute(ctx context.Context, flag *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := c.opt.Load(flag)
	if err != nil {
		log.Error().Err(err).Msg("config")
		return subcommands.ExitUsageError
	}
	ms, err := cfg.Match()
	if err != nil {
		log.Error().Err(err).Msg("config")
		return subcommands.ExitUsageError
	}
	white, err := bots.New(ms.WhiteBot)
	if err != nil {
		log.Error().Err(err).Msg("white")
		return subcommands.ExitUsageError
	}
	black, err := bots.New(ms.BlackBot)
	if err != nil {
		log.Error().Err(err).Msg("black")
		return subcommands.ExitUsageError
	}

	m, err := game.NewMatch(bots.NewWorker(white), bots.NewWorker(black), game.Options{
		TimeControl: ms.TimeControl,
		StartFEN:    ms.StartFEN,
		MaxPlies:    ms.MaxPlies,
	})
	if err != nil {
		log.Error().Err(err).Msg("new match")
		return subcommands.ExitUsageError
	}
	defer m.Close()

	log.Info().Str("white", white.Name()).Str("black", black.Name()).Dur("time_control", ms.TimeControl).Msg("match started")
	res, err := m.Run(ctx, ms.TickInterval)
	if err != nil {
		log.Error().Err(err).Msg("match interrupted")
		return subcommands.ExitFailure
	}

	fmt.Printf("%s vs %s: %s\n\n%s\n", white.Name(), black.Name(), res, m.PGN())
	if c.out != "" {
		if err := os.WriteFile(c.out, []byte(m.PGN()), 0644); err != nil {
			log.Error().Err(err).Str("path", c.out).Msg("write pgn")
		}
	}

	if path := cfg.DBPath(); path != "" {
		if err := store(path, ms.WhiteBot, ms.BlackBot, m); err != nil {
			log.Error().Err(err).Str("db", path).Msg("store match")
			return subcommands.ExitFailure
		}
	}
	return subcommands.ExitSuccess
}

func store(path, white, black string, m *game.Match) error {
	repo, err := matchlog.Open(path)
	if err != nil {
		return err
	}
	defer repo.Close()
	rec, err := matchlog.NewRecord(white, black, m, time.Now())
	if err != nil {
		return err
	}
	return repo.Insert(&rec)
}
