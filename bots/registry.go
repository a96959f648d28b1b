package bots

import (
	"errors"
	"fmt"
	"sort"

	"github.com/samber/lo"

	"chessbots/rules"
)

// ErrUnknownBot is returned by New for names not in the registry.
var ErrUnknownBot = errors.New("unknown bot")

var registry = map[string]func() ChessBot{
	"newborn":      func() ChessBot { return NewNewbornBot() },
	"random":       func() ChessBot { return NewRandomBot() },
	"greedy-trade": func() ChessBot { return NewGreedyTradeBot() },
	"greedy-trade-true": func() ChessBot {
		return NewGreedyTradeBotWithAttacks(rules.PieceAttacks, "Greedy Trade (true attacks)")
	},
}

// New builds a fresh bot by registry name.
func New(name string) (ChessBot, error) {
	create, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w %q (have %v)", ErrUnknownBot, name, Names())
	}
	return create(), nil
}

// Names lists the registered bot names in sorted order.
func Names() []string {
	names := lo.Keys(registry)
	sort.Strings(names)
	return names
}
