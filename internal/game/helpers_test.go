package game

import (
	"testing"

	"github.com/lox/pokerengine/internal/randutil"
	"github.com/lox/pokerengine/poker"
	"github.com/stretchr/testify/require"
)

// newTestEngine seats one player per chip count, named after their seat
// ("p0", "p1", ...) and using that name as the id.
func newTestEngine(t *testing.T, chips []int, opts ...Option) *Engine {
	t.Helper()
	opts = append([]Option{WithRNG(randutil.New(42))}, opts...)
	e := NewEngine(NewTable(TableConfig{SmallBlind: 5, BigBlind: 10, MaxSeats: 9}), opts...)
	for i, c := range chips {
		id := seatName(i)
		_, err := e.SeatPlayer(Player{ID: id, Name: id, Chips: c, Ready: true})
		require.NoError(t, err)
	}
	return e
}

func seatName(i int) string {
	return "p" + string(rune('0'+i))
}

// stackedDeck arranges a deck for a hand where every seat is dealt in.
// holes[i] are seat i's two cards; dealing starts left of the dealer.
func stackedDeck(t *testing.T, dealer int, holes []string, board string) *poker.Deck {
	t.Helper()
	n := len(holes)
	parsed := make([][]poker.Card, n)
	for i, h := range holes {
		parsed[i] = poker.MustParseCards(h)
		require.Len(t, parsed[i], 2)
	}

	var order []poker.Card
	for pass := 0; pass < 2; pass++ {
		for k := 1; k <= n; k++ {
			order = append(order, parsed[(dealer+k)%n][pass])
		}
	}
	order = append(order, poker.MustParseCards(board)...)

	used := make(map[poker.Card]bool, len(order))
	for _, c := range order {
		used[c] = true
	}
	for _, c := range poker.FullDeck() {
		if !used[c] {
			order = append(order, c)
		}
	}

	deck, err := poker.NewStackedDeck(order)
	require.NoError(t, err)
	return deck
}

func mustAct(t *testing.T, e *Engine, id string, action Action, amount int) {
	t.Helper()
	require.NoError(t, e.ProcessAction(id, action, amount), "%s %s %d", id, action, amount)
}

func requireReason(t *testing.T, err error, reason Reason) {
	t.Helper()
	require.Error(t, err)
	require.ErrorIs(t, err, &ActionError{Reason: reason})
}

// requireConsistent checks the accounting invariants that must hold after
// every call.
func requireConsistent(t *testing.T, e *Engine, total int) {
	t.Helper()
	e.mu.Lock()
	defer e.mu.Unlock()

	tb := e.table
	require.Equal(t, tb.totalBets(), tb.pot, "pot must equal the sum of total bets")

	chips := tb.pot
	held := 0
	for _, p := range tb.players {
		require.GreaterOrEqual(t, p.Chips, 0)
		chips += p.Chips
		held += len(p.Hand)
		if p.Status == StatusPlaying {
			require.Positive(t, p.Chips, "%s is playing with no chips", p.ID)
		}
	}
	require.Equal(t, total, chips, "chips must be conserved")

	if tb.inHand {
		require.Equal(t, 52, e.deck.Remaining()+held+len(tb.board))
	}
}
