package policy

import (
	"fmt"
	"math/rand/v2"
	"slices"

	"github.com/lox/pokerengine/internal/game"
)

// Strategy names accepted by New.
const (
	StrategyCalling = "calling"
	StrategyRandom  = "random"
	StrategyEquity  = "equity"
	StrategyFold    = "fold"
)

var strategies = []string{StrategyCalling, StrategyRandom, StrategyEquity, StrategyFold}

// Strategies lists the known strategy names.
func Strategies() []string {
	return slices.Clone(strategies)
}

// Known reports whether name is a strategy New can build.
func Known(name string) bool {
	return slices.Contains(strategies, name)
}

// New builds the named strategy. Policies that need randomness draw from rng.
func New(name string, rng *rand.Rand) (game.Policy, error) {
	switch name {
	case StrategyCalling:
		return CallingStation{}, nil
	case StrategyRandom:
		return NewRandom(rng), nil
	case StrategyEquity:
		return NewEquityAware(rng, 0), nil
	case StrategyFold:
		return Folder{}, nil
	default:
		return nil, fmt.Errorf("unknown strategy %q (want one of %v)", name, strategies)
	}
}
