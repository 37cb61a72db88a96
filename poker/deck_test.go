package poker

import (
	"testing"

	"github.com/lox/pokerengine/internal/randutil"
)

func TestNewDeckHas52UniqueCards(t *testing.T) {
	t.Parallel()

	d := NewDeck(randutil.New(1))
	if d.Remaining() != 52 {
		t.Fatalf("expected 52 cards, got %d", d.Remaining())
	}

	cards, ok := d.Draw(52)
	if !ok {
		t.Fatal("drawing the full deck should succeed")
	}
	seen := make(map[Card]bool)
	for _, c := range cards {
		if seen[c] {
			t.Fatalf("duplicate card %s", c)
		}
		seen[c] = true
	}
	if d.Remaining() != 0 {
		t.Errorf("deck should be empty, has %d", d.Remaining())
	}
}

func TestDeckDrawMovesCards(t *testing.T) {
	t.Parallel()

	d := NewDeck(randutil.New(7))
	hole, ok := d.Draw(2)
	if !ok {
		t.Fatal("draw failed")
	}
	for _, c := range hole {
		if d.Contains(c) {
			t.Errorf("drawn card %s still in deck", c)
		}
	}
	if d.Remaining() != 50 {
		t.Errorf("expected 50 remaining, got %d", d.Remaining())
	}

	if _, ok := d.Draw(51); ok {
		t.Error("over-draw should fail")
	}
	if d.Remaining() != 50 {
		t.Errorf("failed draw must not consume cards, got %d", d.Remaining())
	}
}

func TestDeckDeterministicWithSeed(t *testing.T) {
	t.Parallel()

	a, _ := NewDeck(randutil.New(42)).Draw(10)
	b, _ := NewDeck(randutil.New(42)).Draw(10)
	c, _ := NewDeck(randutil.New(43)).Draw(10)

	if FormatCards(a) != FormatCards(b) {
		t.Errorf("same seed should deal the same cards: %s vs %s", FormatCards(a), FormatCards(b))
	}
	if FormatCards(a) == FormatCards(c) {
		t.Errorf("different seeds dealt identical cards: %s", FormatCards(a))
	}
}

func TestStackedDeck(t *testing.T) {
	t.Parallel()

	d, err := NewStackedDeck(MustParseCards("AsKsQs"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	first, _ := d.DrawOne()
	if first != NewCard(Ace, Spades) {
		t.Errorf("expected As first, got %s", first)
	}

	if _, err := NewStackedDeck(MustParseCards("AsAs")); err == nil {
		t.Error("duplicate cards should be rejected")
	}
}
