// Package opt holds the flags shared by every chessbots command.
package opt

import (
	"flag"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"chessbots/config"
)

type Settings struct {
	ConfigPath string
}

// AddMatchFlags registers the config file flag and one flag per match
// setting. Flags only override the config when given explicitly.
func (o *Settings) AddMatchFlags(flags *flag.FlagSet) {
	o.AddFlags(flags)
	flags.String(config.KeyWhiteBot, "greedy-trade", "bot playing white")
	flags.String(config.KeyBlackBot, "random", "bot playing black")
	flags.Duration(config.KeyTimeControl, time.Minute, "time budget for each side")
	flags.Int(config.KeyMaxPlies, 0, "draw the match after this many plies (0: no limit)")
	flags.Duration(config.KeyTickInterval, 10*time.Millisecond, "how often the match is advanced")
	flags.String(config.KeyStartFEN, "", "start from this FEN instead of the initial position")
}

// AddFlags registers the flags every command takes.
func (o *Settings) AddFlags(flags *flag.FlagSet) {
	flags.StringVar(&o.ConfigPath, "config", "", "config file (default $CHESSBOTS_CONFIG)")
	flags.String(config.KeyDBPath, "chessbots.db", "sqlite database of finished matches")
	flags.Bool(config.KeyDebug, false, "debug logging")
}

// Load reads the config and applies the command line on top. It also sets
// the global log level.
func (o *Settings) Load(flags *flag.FlagSet) (*config.Config, error) {
	cfg, err := config.Load(o.ConfigPath)
	if err != nil {
		return nil, err
	}
	cfg.ApplyFlags(flags)
	if cfg.Debug() {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	log.Debug().Interface("settings", cfg.AllSettings()).Msg("loaded config")
	return cfg, nil
}
