package history

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/google/subcommands"
	"github.com/rs/zerolog/log"

	"chessbots/cmd/internal/opt"
	"chessbots/matchlog"
)

type Command struct {
	opt       opt.Settings
	limit     int
	standings bool
	pgn       int64
}

func (*Command) Name() string     { return "history" }
func (*Command) Synopsis() string { return "List recorded matches" }
func (*Command) Usage() string {
	return `history [flags]

Lists the most recent matches in the database, or each bot's record with
-standings.
`
}

func (c *Command) SetFlags(flags *flag.FlagSet) {
	c.opt.AddFlags(flags)
	flags.IntVar(&c.limit, "n", 20, "number of matches to list")
	flags.BoolVar(&c.standings, "standings", false, "print win/loss/draw per bot")
	flags.Int64Var(&c.pgn, "pgn", 0, "print the PGN of the match with this id")
}

func (c *Command) Execute(ctx context.Context, flag *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := c.opt.Load(flag)
	if err != nil {
		log.Error().Err(err).Msg("config")
		return subcommands.ExitUsageError
	}
	repo, err := matchlog.Open(cfg.DBPath())
	if err != nil {
		log.Error().Err(err).Str("db", cfg.DBPath()).Msg("open database")
		return subcommands.ExitFailure
	}
	defer repo.Close()

	tw := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	defer tw.Flush()

	if c.standings {
		st, err := repo.Standings()
		if err != nil {
			log.Error().Err(err).Msg("standings")
			return subcommands.ExitFailure
		}
		fmt.Fprintf(tw, "bot\twins\tlosses\tdraws\n")
		for _, s := range st {
			fmt.Fprintf(tw, "%s\t%d\t%d\t%d\n", s.Bot, s.Wins, s.Losses, s.Draws)
		}
		return subcommands.ExitSuccess
	}

	limit := c.limit
	if c.pgn != 0 {
		limit = -1
	}
	recs, err := repo.Recent(limit)
	if err != nil {
		log.Error().Err(err).Msg("recent")
		return subcommands.ExitFailure
	}
	if c.pgn != 0 {
		for _, r := range recs {
			if r.ID == c.pgn {
				fmt.Fprintln(tw, r.PGN)
				return subcommands.ExitSuccess
			}
		}
		log.Error().Int64("id", c.pgn).Msg("no such match")
		return subcommands.ExitFailure
	}

	fmt.Fprintf(tw, "id\tplayed\twhite\tblack\tresult\treason\tplies\n")
	for _, r := range recs {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%d\n",
			r.ID, r.Played().Format("2006-01-02 15:04:05"), r.White, r.Black, r.Outcome, r.Reason, r.Plies)
	}
	return subcommands.ExitSuccess
}
