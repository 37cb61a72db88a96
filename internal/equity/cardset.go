package equity

import (
	"fmt"

	"github.com/lox/pokerengine/poker"
)

// cardSet is a bitset of cards, one bit per card at (rank-2)*4 + suit.
type cardSet uint64

func cardIndex(c poker.Card) uint {
	return uint(c.Rank-poker.Two)*4 + uint(c.Suit)
}

func (cs *cardSet) add(c poker.Card) {
	*cs |= 1 << cardIndex(c)
}

func (cs cardSet) contains(c poker.Card) bool {
	return cs&(1<<cardIndex(c)) != 0
}

// newCardSet builds a set from the given groups, rejecting invalid or
// repeated cards.
func newCardSet(groups ...[]poker.Card) (cardSet, error) {
	var cs cardSet
	for _, group := range groups {
		for _, c := range group {
			if !c.Valid() {
				return 0, fmt.Errorf("%w: invalid card %d/%d", poker.ErrInvalidInput, c.Rank, c.Suit)
			}
			if cs.contains(c) {
				return 0, fmt.Errorf("%w: duplicate card %s", poker.ErrInvalidInput, c)
			}
			cs.add(c)
		}
	}
	return cs, nil
}

// complement lists every card not in the set, in deck order.
func (cs cardSet) complement() []poker.Card {
	out := make([]poker.Card, 0, 52)
	for _, c := range poker.FullDeck() {
		if !cs.contains(c) {
			out = append(out, c)
		}
	}
	return out
}
