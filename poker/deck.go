package poker

import (
	"fmt"
	"math/rand/v2"
)

// Deck is an ordered pile of unique cards. Dealt cards leave the deck, so a
// card can never be in play twice.
type Deck struct {
	cards []Card
	rng   *rand.Rand // Random source for deterministic shuffling
}

// NewDeck creates a full 52-card deck shuffled with the given RNG
func NewDeck(rng *rand.Rand) *Deck {
	if rng == nil {
		panic("rng is required for deck creation")
	}
	d := &Deck{rng: rng}
	d.Reset()
	return d
}

// NewStackedDeck creates a deck that deals the given cards in order.
// It never shuffles; Reset restores the original order.
func NewStackedDeck(cards []Card) (*Deck, error) {
	seen := make(map[Card]bool, len(cards))
	for _, c := range cards {
		if !c.Valid() {
			return nil, fmt.Errorf("%w: invalid card in stacked deck", ErrInvalidInput)
		}
		if seen[c] {
			return nil, fmt.Errorf("%w: duplicate card %s in stacked deck", ErrInvalidInput, c)
		}
		seen[c] = true
	}
	d := &Deck{cards: append([]Card(nil), cards...)}
	return d, nil
}

// FullDeck returns the 52 cards in a fixed order (suit-major).
func FullDeck() []Card {
	cards := make([]Card, 0, 52)
	for _, suit := range Suits {
		for rank := Two; rank <= Ace; rank++ {
			cards = append(cards, NewCard(rank, suit))
		}
	}
	return cards
}

// Reset rebuilds the full deck and reshuffles it. Stacked decks are left as-is.
func (d *Deck) Reset() {
	if d.rng == nil {
		return
	}
	d.cards = append(d.cards[:0], FullDeck()...)
	d.Shuffle()
}

// Shuffle shuffles the remaining cards using Fisher-Yates
func (d *Deck) Shuffle() {
	if d.rng == nil {
		return
	}
	for i := len(d.cards) - 1; i > 0; i-- {
		j := d.rng.IntN(i + 1)
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

// Draw removes n cards from the top of the deck. It returns false and leaves
// the deck untouched when fewer than n cards remain.
func (d *Deck) Draw(n int) ([]Card, bool) {
	if n < 0 || n > len(d.cards) {
		return nil, false
	}
	out := make([]Card, n)
	copy(out, d.cards[:n])
	d.cards = d.cards[n:]
	return out, true
}

// DrawOne removes the top card
func (d *Deck) DrawOne() (Card, bool) {
	cards, ok := d.Draw(1)
	if !ok {
		return Card{}, false
	}
	return cards[0], true
}

// Remaining returns the number of cards left in the deck
func (d *Deck) Remaining() int {
	return len(d.cards)
}

// Contains reports whether the card is still in the deck
func (d *Deck) Contains(c Card) bool {
	for _, dc := range d.cards {
		if dc == c {
			return true
		}
	}
	return false
}
