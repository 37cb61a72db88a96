package equity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/pokerengine/internal/randutil"
	"github.com/lox/pokerengine/poker"
)

func hands(ss ...string) [][]poker.Card {
	out := make([][]poker.Card, len(ss))
	for i, s := range ss {
		out[i] = poker.MustParseCards(s)
	}
	return out
}

func TestMatchupRejectsBadInput(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		hands [][]poker.Card
		board string
	}{
		{"single hand", hands("AsKs"), ""},
		{"three card hand", hands("AsKsQs", "2c2d"), ""},
		{"shared card", hands("AsKs", "AsQd"), ""},
		{"card on board", hands("AsKs", "QdQc"), "Qd2c3c"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Matchup(context.Background(), tt.hands, poker.MustParseCards(tt.board), Options{Iterations: 10})
			require.ErrorIs(t, err, poker.ErrInvalidInput)
		})
	}
}

func TestMatchupCompleteBoard(t *testing.T) {
	t.Parallel()
	// The board is complete, so every runout is the same deal.
	odds, err := Matchup(context.Background(), hands("AsAd", "KcKd"),
		poker.MustParseCards("2h7c9sJd3h"), Options{Iterations: 50, RNG: randutil.New(1)})
	require.NoError(t, err)
	require.Len(t, odds, 2)

	assert.Equal(t, 50, odds[0].Wins)
	assert.Equal(t, 1.0, odds[0].Equity)
	assert.Equal(t, 50, odds[0].Categories[poker.Pair])
	assert.Zero(t, odds[1].Wins)
	assert.Zero(t, odds[1].Equity)
}

func TestMatchupSplitShares(t *testing.T) {
	t.Parallel()
	odds, err := Matchup(context.Background(), hands("2c3d", "4c5d", "6h8d"),
		poker.MustParseCards("AsKsQsJsTs"), Options{Iterations: 30, RNG: randutil.New(1)})
	require.NoError(t, err)
	for _, o := range odds {
		assert.Equal(t, 30, o.Ties)
		assert.InDelta(t, 1.0/3.0, o.Equity, 1e-9)
	}
}

func TestMatchupEquitiesSumToOne(t *testing.T) {
	t.Parallel()
	odds, err := Matchup(context.Background(), hands("AhKh", "QsQd", "7c6c"), nil,
		Options{Iterations: 3000, Workers: 3, RNG: randutil.New(21)})
	require.NoError(t, err)

	total := 0.0
	for _, o := range odds {
		assert.Equal(t, 3000, o.Samples)
		total += o.Equity
	}
	assert.InDelta(t, 1.0, total, 1e-9)
	assert.Greater(t, odds[1].Equity, odds[2].Equity)
}
