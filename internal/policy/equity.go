package policy

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/lox/pokerengine/internal/equity"
	"github.com/lox/pokerengine/internal/game"
	"github.com/lox/pokerengine/internal/randutil"
	"github.com/lox/pokerengine/poker"
)

// Thresholds used by EquityAware.
const (
	valueRaiseEquity = 0.65
	shoveEquity      = 0.60
	shoveSPR         = 2.0
)

// EquityAware estimates its win probability against the players still in the
// hand and compares it with the price it is offered. Strong hands raise about
// half the pot and short stacks with the best of it shove. Trash starting
// hands give up preflop against a raise without running an estimate.
type EquityAware struct {
	iterations int

	mu  sync.Mutex
	rng *rand.Rand
}

// NewEquityAware creates the policy. iterations <= 0 uses equity.DefaultIterations.
func NewEquityAware(rng *rand.Rand, iterations int) *EquityAware {
	if rng == nil {
		panic("rng is required")
	}
	return &EquityAware{rng: rng, iterations: iterations}
}

// Decide runs an equity estimate for the viewer's hand and acts on it.
func (e *EquityAware) Decide(ctx context.Context, view game.View) (game.Decision, error) {
	me, ok := view.Viewer()
	if !ok || len(me.Hand) != 2 {
		return game.Decision{}, fmt.Errorf("viewer %q has no visible hand", view.ViewerID)
	}

	legal := view.Legal
	if view.Stage == game.Preflop && legal.CallAmount > view.BigBlind &&
		poker.ClassifyHoleCards(me.Hand) == poker.TierTrash {
		return game.Decision{Action: game.Fold, Reason: "trash preflop"}, nil
	}

	e.mu.Lock()
	rng := randutil.Child(e.rng)
	e.mu.Unlock()

	res, err := equity.Estimate(ctx, me.Hand, view.Board, view.ActivePlayers(),
		equity.Options{Iterations: e.iterations, Workers: 1, RNG: rng})
	if err != nil {
		return game.Decision{}, fmt.Errorf("estimate equity: %w", err)
	}
	eq := res.Equity
	toCall := legal.CallAmount
	reason := fmt.Sprintf("equity %.2f", eq)

	pot := view.Pot
	if legal.AllIn && pot > 0 && float64(me.Chips) < shoveSPR*float64(pot) && eq > shoveEquity {
		return game.Decision{Action: game.AllIn, Reason: reason}, nil
	}
	if legal.Raise != nil && eq >= valueRaiseEquity {
		amount := min(max(legal.Raise.Min, (pot+toCall)/2), legal.Raise.Max)
		return game.Decision{Action: game.Raise, Amount: amount, Reason: reason}, nil
	}
	if legal.Check {
		return game.Decision{Action: game.Check, Reason: reason}, nil
	}
	if toCall > 0 && eq >= potOdds(pot, toCall) {
		return game.Decision{Action: game.Call, Reason: reason}, nil
	}
	return game.Decision{Action: game.Fold, Reason: reason}, nil
}

// potOdds is the share of the final pot a call pays for.
func potOdds(pot, toCall int) float64 {
	if toCall <= 0 {
		return 0
	}
	return float64(toCall) / float64(pot+toCall)
}

var _ game.Policy = (*EquityAware)(nil)
