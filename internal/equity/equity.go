// Package equity estimates how often a hand wins with Monte Carlo runouts.
//
// The estimates are advisory: policies and tools consume them, the betting
// engine never does.
package equity

import (
	"context"
	"fmt"
	"math/rand/v2"
	"runtime"

	"github.com/lox/pokerengine/internal/randutil"
	"github.com/lox/pokerengine/poker"
	"golang.org/x/sync/errgroup"
)

// DefaultIterations is the number of simulated deals used when none is given.
const DefaultIterations = 500

// maxWorkers caps parallelism; returns diminish quickly past it.
const maxWorkers = 8

// Options tune a simulation. The zero value is usable.
type Options struct {
	Iterations int        // simulated deals, DefaultIterations when <= 0
	Workers    int        // parallel workers, min(NumCPU, 8) when <= 0
	RNG        *rand.Rand // parent random source, time-seeded when nil
}

func (o Options) withDefaults() Options {
	if o.Iterations <= 0 {
		o.Iterations = DefaultIterations
	}
	if o.Workers <= 0 {
		o.Workers = min(runtime.NumCPU(), maxWorkers)
	}
	o.Workers = max(1, min(o.Workers, o.Iterations))
	if o.RNG == nil {
		o.RNG, _ = randutil.NewTimeSeeded()
	}
	return o
}

// split divides the iterations between workers and derives an independent
// random source for each, in worker order so results replay from a seed.
func (o Options) split() ([]int, []*rand.Rand) {
	counts := make([]int, o.Workers)
	rngs := make([]*rand.Rand, o.Workers)
	for w := range counts {
		counts[w] = o.Iterations / o.Workers
		if w < o.Iterations%o.Workers {
			counts[w]++
		}
		rngs[w] = randutil.Child(o.RNG)
	}
	return counts, rngs
}

// Result summarises an estimate for one hand.
type Result struct {
	Equity  float64 `json:"equity"` // wins plus split shares, over samples
	Wins    int     `json:"wins"`
	Ties    int     `json:"ties"`
	Samples int     `json:"samples"`
}

// Estimate returns the probability that hole beats activePlayers-1 random
// opponent hands once the board is completed. Tied deals credit an even share
// of the pot. With fewer than two active players the hand has already won.
func Estimate(ctx context.Context, hole, board []poker.Card, activePlayers int, opts Options) (Result, error) {
	if len(hole) != 2 {
		return Result{}, fmt.Errorf("%w: need 2 hole cards, got %d", poker.ErrInvalidInput, len(hole))
	}
	if len(board) > 5 {
		return Result{}, fmt.Errorf("%w: board has %d cards", poker.ErrInvalidInput, len(board))
	}
	known, err := newCardSet(hole, board)
	if err != nil {
		return Result{}, err
	}
	if activePlayers < 2 {
		return Result{Equity: 1}, nil
	}

	available := known.complement()
	needed := (activePlayers-1)*2 + 5 - len(board)
	if needed > len(available) {
		return Result{}, fmt.Errorf("%w: %d players need %d unseen cards, only %d left",
			poker.ErrInvalidInput, activePlayers, needed, len(available))
	}

	opts = opts.withDefaults()
	counts, rngs := opts.split()
	tallies := make([]tally, opts.Workers)

	g, ctx := errgroup.WithContext(ctx)
	for w := range counts {
		g.Go(func() error {
			t, err := estimateWorker(ctx, hole, board, available, activePlayers-1, counts[w], rngs[w])
			tallies[w] = t
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	var total tally
	for _, t := range tallies {
		total.add(t)
	}
	return total.result(), nil
}

type tally struct {
	wins, ties, samples int
	share               float64
}

func (t *tally) add(o tally) {
	t.wins += o.wins
	t.ties += o.ties
	t.samples += o.samples
	t.share += o.share
}

func (t tally) result() Result {
	r := Result{Wins: t.wins, Ties: t.ties, Samples: t.samples}
	if t.samples > 0 {
		r.Equity = t.share / float64(t.samples)
	}
	return r
}

// checkEvery bounds how many samples run between context checks.
const checkEvery = 64

func estimateWorker(ctx context.Context, hole, board, available []poker.Card, opponents, samples int, rng *rand.Rand) (tally, error) {
	var t tally
	scratch := make([]poker.Card, len(available))
	boardNeeded := 5 - len(board)
	needed := opponents*2 + boardNeeded

	hero := make([]poker.Card, 0, 7)
	villain := make([]poker.Card, 0, 7)
	fullBoard := make([]poker.Card, 5)
	copy(fullBoard, board)

	for i := 0; i < samples; i++ {
		if i%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return t, err
			}
		}
		copy(scratch, available)
		drawn := sample(scratch, needed, rng)
		copy(fullBoard[len(board):], drawn[opponents*2:])

		hero = append(append(hero[:0], hole...), fullBoard...)
		mine := poker.MustEvaluate(hero)

		best, tied := poker.Score(0), 0
		for o := 0; o < opponents; o++ {
			villain = append(append(villain[:0], drawn[o*2:o*2+2]...), fullBoard...)
			s := poker.MustEvaluate(villain)
			switch {
			case s > best:
				best, tied = s, 1
			case s == best:
				tied++
			}
		}

		switch {
		case mine > best:
			t.wins++
			t.share++
		case mine == best:
			t.ties++
			t.share += 1 / float64(tied+1)
		}
		t.samples++
	}
	return t, nil
}

// sample moves n random cards to the front of cards with a partial
// Fisher-Yates shuffle and returns them.
func sample(cards []poker.Card, n int, rng *rand.Rand) []poker.Card {
	for k := 0; k < n; k++ {
		j := k + rng.IntN(len(cards)-k)
		cards[k], cards[j] = cards[j], cards[k]
	}
	return cards[:n]
}
