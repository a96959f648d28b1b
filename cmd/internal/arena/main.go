package arena

import (
	"context"
	"flag"
	"os"

	"github.com/google/subcommands"
	"github.com/rs/zerolog/log"

	"chessbots/arena"
	"chessbots/cmd/internal/opt"
	"chessbots/config"
	"chessbots/matchlog"
)

type Command struct {
	opt     opt.Settings
	verbose bool
}

func (*Command) Name() string     { return "arena" }
func (*Command) Synopsis() string { return "Play a series of matches between two bots and report results" }
func (*Command) Usage() string {
	return `arena [flags]

Plays arena-games matches between white-bot and black-bot, swapping colours
every game, and prints a win table with a one-sided binomial p-value.
`
}

func (c *Command) SetFlags(flags *flag.FlagSet) {
	c.opt.AddMatchFlags(flags)
	flags.Int(config.KeyArenaGames, 20, "number of games to play")
	flags.Int(config.KeyArenaConcurrency, 4, "number of games played at once")
	flags.String(config.KeySeed, "", "seed for random bots (default: fresh entropy)")
	flags.BoolVar(&c.verbose, "v", false, "log every game")
}

func (c *Command) Execute(ctx context.Context, flag *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := c.opt.Load(flag)
	if err != nil {
		log.Error().Err(err).Msg("config")
		return subcommands.ExitUsageError
	}
	as, err := cfg.Arena()
	if err != nil {
		log.Error().Err(err).Msg("config")
		return subcommands.ExitUsageError
	}

	var store arena.Store
	if path := cfg.DBPath(); path != "" {
		repo, err := matchlog.Open(path)
		if err != nil {
			log.Error().Err(err).Str("db", path).Msg("open database")
			return subcommands.ExitFailure
		}
		defer repo.Close()
		store = repo
	}

	ac := arena.Config{
		BotA:         as.WhiteBot,
		BotB:         as.BlackBot,
		Games:        as.Games,
		Concurrency:  as.Concurrency,
		TimeControl:  as.TimeControl,
		MaxPlies:     as.MaxPlies,
		StartFEN:     as.StartFEN,
		TickInterval: as.TickInterval,
		Verbose:      c.verbose,
	}
	if as.Seed != "" {
		ac.Seed = []byte(as.Seed)
	}
	tally, _, err := arena.Run(ctx, ac, store)
	if err != nil {
		log.Error().Err(err).Msg("arena")
		return subcommands.ExitFailure
	}

	log.Info().
		Int("games", tally.Count()).
		Int("draws", tally.Draws).
		Interface("reasons", tally.Reasons).
		Float64("p", tally.PValue()).
		Msg("arena complete")
	if err := tally.Print(os.Stdout, as.WhiteBot, as.BlackBot); err != nil {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
