// Package config loads chessbots settings from defaults, an optional config
// file, CHESSBOTS_* environment variables and command-line flags, in
// increasing order of precedence.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	KeyWhiteBot         = "white-bot"
	KeyBlackBot         = "black-bot"
	KeyTimeControl      = "time-control"
	KeyMaxPlies         = "max-plies"
	KeyTickInterval     = "tick-interval"
	KeyStartFEN         = "start-fen"
	KeyDBPath           = "db-path"
	KeyDebug            = "debug"
	KeySeed             = "seed"
	KeyArenaGames       = "arena-games"
	KeyArenaConcurrency = "arena-concurrency"
)

const EnvPrefix = "CHESSBOTS"

type Config struct {
	*viper.Viper
}

// New returns a config holding only the defaults and the environment.
func New() *Config {
	v := viper.New()
	v.SetDefault(KeyWhiteBot, "greedy-trade")
	v.SetDefault(KeyBlackBot, "random")
	v.SetDefault(KeyTimeControl, time.Minute)
	v.SetDefault(KeyMaxPlies, 0)
	v.SetDefault(KeyTickInterval, 10*time.Millisecond)
	v.SetDefault(KeyStartFEN, "")
	v.SetDefault(KeyDBPath, "chessbots.db")
	v.SetDefault(KeyDebug, false)
	v.SetDefault(KeySeed, "")
	v.SetDefault(KeyArenaGames, 20)
	v.SetDefault(KeyArenaConcurrency, 4)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return &Config{Viper: v}
}

// Load builds a config and reads path into it. An empty path falls back
// to $CHESSBOTS_CONFIG; no file at all is fine.
func Load(path string) (*Config, error) {
	c := New()
	if path == "" {
		path = os.Getenv(EnvPrefix + "_CONFIG")
	}
	if path == "" {
		return c, nil
	}
	c.SetConfigFile(path)
	if err := c.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return c, nil
}

// ApplyFlags copies every flag that was set on the command line into the
// config, overriding the file and the environment.
func (c *Config) ApplyFlags(fs *flag.FlagSet) {
	fs.Visit(func(f *flag.Flag) {
		if c.isKey(f.Name) {
			c.Set(f.Name, f.Value.String())
		}
	})
}

func (c *Config) isKey(name string) bool {
	switch name {
	case KeyWhiteBot, KeyBlackBot, KeyTimeControl, KeyMaxPlies, KeyTickInterval,
		KeyStartFEN, KeyDBPath, KeyDebug, KeySeed, KeyArenaGames, KeyArenaConcurrency:
		return true
	}
	return false
}

// MatchSettings is everything needed to set up one match.
type MatchSettings struct {
	WhiteBot     string
	BlackBot     string
	TimeControl  time.Duration
	MaxPlies     int
	TickInterval time.Duration
	StartFEN     string
}

func (c *Config) Match() (MatchSettings, error) {
	s := MatchSettings{
		WhiteBot:     c.GetString(KeyWhiteBot),
		BlackBot:     c.GetString(KeyBlackBot),
		TimeControl:  c.GetDuration(KeyTimeControl),
		MaxPlies:     c.GetInt(KeyMaxPlies),
		TickInterval: c.GetDuration(KeyTickInterval),
		StartFEN:     c.GetString(KeyStartFEN),
	}
	switch {
	case s.WhiteBot == "" || s.BlackBot == "":
		return s, errors.New("both bots must be named")
	case s.TimeControl <= 0:
		return s, fmt.Errorf("%s must be positive, got %s", KeyTimeControl, s.TimeControl)
	case s.TickInterval <= 0:
		return s, fmt.Errorf("%s must be positive, got %s", KeyTickInterval, s.TickInterval)
	case s.MaxPlies < 0:
		return s, fmt.Errorf("%s must not be negative, got %d", KeyMaxPlies, s.MaxPlies)
	}
	return s, nil
}

type ArenaSettings struct {
	MatchSettings
	Games       int
	Concurrency int
	Seed        string
}

func (c *Config) Arena() (ArenaSettings, error) {
	m, err := c.Match()
	if err != nil {
		return ArenaSettings{}, err
	}
	s := ArenaSettings{
		MatchSettings: m,
		Games:         c.GetInt(KeyArenaGames),
		Concurrency:   c.GetInt(KeyArenaConcurrency),
		Seed:          c.GetString(KeySeed),
	}
	if s.Games <= 0 {
		return s, fmt.Errorf("%s must be positive, got %d", KeyArenaGames, s.Games)
	}
	if s.Concurrency <= 0 {
		return s, fmt.Errorf("%s must be positive, got %d", KeyArenaConcurrency, s.Concurrency)
	}
	return s, nil
}

func (c *Config) Debug() bool {
	return c.GetBool(KeyDebug)
}

func (c *Config) DBPath() string {
	return c.GetString(KeyDBPath)
}
