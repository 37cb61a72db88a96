package equity

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/lox/pokerengine/poker"
	"golang.org/x/sync/errgroup"
)

// HandOdds is one known hand's share of a matchup.
type HandOdds struct {
	Hand       []poker.Card           `json:"hand"`
	Result                            // wins, ties and equity over the runouts
	Categories map[poker.Category]int `json:"categories"` // final hand class per runout
}

// Matchup runs the board out for two or more known hands and reports how
// often each wins, ties and makes each hand class.
func Matchup(ctx context.Context, hands [][]poker.Card, board []poker.Card, opts Options) ([]HandOdds, error) {
	if len(hands) < 2 {
		return nil, fmt.Errorf("%w: matchup needs at least 2 hands, got %d", poker.ErrInvalidInput, len(hands))
	}
	if len(board) > 5 {
		return nil, fmt.Errorf("%w: board has %d cards", poker.ErrInvalidInput, len(board))
	}
	for i, h := range hands {
		if len(h) != 2 {
			return nil, fmt.Errorf("%w: hand %d has %d cards", poker.ErrInvalidInput, i+1, len(h))
		}
	}
	known, err := newCardSet(append([][]poker.Card{board}, hands...)...)
	if err != nil {
		return nil, err
	}
	available := known.complement()

	opts = opts.withDefaults()
	counts, rngs := opts.split()
	perWorker := make([][]HandOdds, opts.Workers)

	g, ctx := errgroup.WithContext(ctx)
	for w := range counts {
		g.Go(func() error {
			odds, err := matchupWorker(ctx, hands, board, available, counts[w], rngs[w])
			perWorker[w] = odds
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := newOdds(hands)
	shares := make([]float64, len(hands))
	for _, odds := range perWorker {
		for i, o := range odds {
			out[i].Wins += o.Wins
			out[i].Ties += o.Ties
			out[i].Samples += o.Samples
			shares[i] += o.Equity
			for cat, n := range o.Categories {
				out[i].Categories[cat] += n
			}
		}
	}
	for i := range out {
		if out[i].Samples > 0 {
			out[i].Equity = shares[i] / float64(out[i].Samples)
		}
	}
	return out, nil
}

func newOdds(hands [][]poker.Card) []HandOdds {
	out := make([]HandOdds, len(hands))
	for i, h := range hands {
		out[i] = HandOdds{Hand: h, Categories: make(map[poker.Category]int)}
	}
	return out
}

// matchupWorker accumulates raw pot shares in Equity; Matchup divides them.
func matchupWorker(ctx context.Context, hands [][]poker.Card, board, available []poker.Card, samples int, rng *rand.Rand) ([]HandOdds, error) {
	odds := newOdds(hands)
	scratch := make([]poker.Card, len(available))
	boardNeeded := 5 - len(board)
	fullBoard := make([]poker.Card, 5)
	copy(fullBoard, board)
	seven := make([]poker.Card, 0, 7)
	scores := make([]poker.Score, len(hands))

	for i := 0; i < samples; i++ {
		if i%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		copy(scratch, available)
		copy(fullBoard[len(board):], sample(scratch, boardNeeded, rng))

		best, winners := poker.Score(0), 0
		for h, hole := range hands {
			seven = append(append(seven[:0], hole...), fullBoard...)
			scores[h] = poker.MustEvaluate(seven)
			odds[h].Categories[scores[h].Category()]++
			switch {
			case scores[h] > best:
				best, winners = scores[h], 1
			case scores[h] == best:
				winners++
			}
		}
		for h := range hands {
			odds[h].Samples++
			if scores[h] != best {
				continue
			}
			if winners == 1 {
				odds[h].Wins++
			} else {
				odds[h].Ties++
			}
			odds[h].Equity += 1 / float64(winners)
		}
	}
	return odds, nil
}
