package policy

import (
	"context"
	"math/rand/v2"
	"sync"

	"github.com/lox/pokerengine/internal/game"
)

// CallingStation always checks or calls and never raises.
type CallingStation struct{}

// Decide checks when free, otherwise calls, otherwise folds.
func (CallingStation) Decide(_ context.Context, view game.View) (game.Decision, error) {
	switch {
	case view.Legal.Check:
		return game.Decision{Action: game.Check}, nil
	case view.Legal.CallAmount > 0:
		return game.Decision{Action: game.Call}, nil
	case view.Legal.AllIn:
		// Facing a bet with a stack no bigger than the call.
		return game.Decision{Action: game.AllIn}, nil
	default:
		return game.Decision{Action: game.Fold}, nil
	}
}

// Probabilities used by Random.
const (
	randomRaiseChance = 0.15
	randomAllInChance = 0.02
	randomCallChance  = 0.20
)

// Random is a loose, mostly passive rule set:
//
//   - raise the minimum (at least a big blind) 15% of the time when allowed
//   - shove 2% of the time
//   - check when free
//   - call anything up to a big blind, and bigger bets 20% of the time
//   - fold the rest
type Random struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandom creates the rule-based policy over rng.
func NewRandom(rng *rand.Rand) *Random {
	if rng == nil {
		panic("rng is required")
	}
	return &Random{rng: rng}
}

func (r *Random) roll() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.Float64()
}

// Decide applies the rules to the legal actions in view.
func (r *Random) Decide(_ context.Context, view game.View) (game.Decision, error) {
	legal := view.Legal

	if legal.Raise != nil && r.roll() < randomRaiseChance {
		amount := min(max(legal.Raise.Min, view.BigBlind), legal.Raise.Max)
		return game.Decision{Action: game.Raise, Amount: amount, Reason: "random raise"}, nil
	}
	if legal.AllIn && r.roll() < randomAllInChance {
		return game.Decision{Action: game.AllIn, Reason: "random shove"}, nil
	}
	if legal.Check {
		return game.Decision{Action: game.Check}, nil
	}
	if legal.CallAmount > 0 {
		if legal.CallAmount <= view.BigBlind || r.roll() < randomCallChance {
			return game.Decision{Action: game.Call}, nil
		}
	}
	return game.Decision{Action: game.Fold}, nil
}

// Folder gives up every hand it can.
type Folder struct{}

// Decide checks when free and folds otherwise.
func (Folder) Decide(_ context.Context, view game.View) (game.Decision, error) {
	if view.Legal.Check {
		return game.Decision{Action: game.Check}, nil
	}
	return game.Decision{Action: game.Fold}, nil
}

var (
	_ game.Policy = CallingStation{}
	_ game.Policy = (*Random)(nil)
	_ game.Policy = Folder{}
)
