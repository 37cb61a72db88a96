package poker

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestCardCreation(t *testing.T) {
	t.Parallel()

	aceSpades := NewCard(Ace, Spades)
	if aceSpades.String() != "As" {
		t.Errorf("Expected 'As', got %s", aceSpades.String())
	}
	if aceSpades.Pretty() != "A♠" {
		t.Errorf("Expected 'A♠', got %s", aceSpades.Pretty())
	}

	twoClubs := NewCard(Two, Clubs)
	if twoClubs.String() != "2c" {
		t.Errorf("Expected '2c', got %s", twoClubs.String())
	}
	if !NewCard(Ten, Hearts).Suit.IsRed() {
		t.Error("hearts should be red")
	}
}

func TestParseCard(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		wantCard Card
		wantErr  bool
	}{
		{name: "ace of spades", input: "As", wantCard: NewCard(Ace, Spades)},
		{name: "two of hearts", input: "2h", wantCard: NewCard(Two, Hearts)},
		{name: "ten with T notation", input: "Tc", wantCard: NewCard(Ten, Clubs)},
		{name: "ten with 10 notation", input: "10d", wantCard: NewCard(Ten, Diamonds)},
		{name: "lowercase rank", input: "ks", wantCard: NewCard(King, Spades)},
		{name: "uppercase suit", input: "QH", wantCard: NewCard(Queen, Hearts)},
		{name: "invalid rank", input: "Xs", wantErr: true},
		{name: "invalid suit", input: "Ax", wantErr: true},
		{name: "empty string", input: "", wantErr: true},
		{name: "too long", input: "Asd", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			card, err := ParseCard(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidInput) {
					t.Fatalf("ParseCard(%q) error = %v, want ErrInvalidInput", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseCard(%q) unexpected error: %v", tt.input, err)
			}
			if card != tt.wantCard {
				t.Errorf("ParseCard(%q) = %v, want %v", tt.input, card, tt.wantCard)
			}
		})
	}
}

func TestParseCards(t *testing.T) {
	t.Parallel()

	cards, err := ParseCards("As Kd 7c")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if FormatCards(cards) != "As Kd 7c" {
		t.Errorf("round trip mismatch: %s", FormatCards(cards))
	}

	if _, err := ParseCards("AsK"); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("odd length should fail with ErrInvalidInput, got %v", err)
	}
}

func TestAll52CardsRoundTrip(t *testing.T) {
	t.Parallel()

	seen := make(map[string]bool)
	for _, card := range FullDeck() {
		str := card.String()
		if seen[str] {
			t.Errorf("Duplicate card: %s", str)
		}
		seen[str] = true

		parsed, err := ParseCard(str)
		if err != nil {
			t.Fatalf("Failed to parse %s: %v", str, err)
		}
		if parsed != card {
			t.Errorf("Round-trip failed for %s", str)
		}
	}

	if len(seen) != 52 {
		t.Errorf("Expected 52 unique cards, got %d", len(seen))
	}
}

func TestCardJSON(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal([]Card{NewCard(Ace, Spades), NewCard(Nine, Diamonds)})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `["As","9d"]` {
		t.Errorf("unexpected JSON %s", data)
	}

	var back []Card
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(back) != 2 || back[0] != NewCard(Ace, Spades) || back[1] != NewCard(Nine, Diamonds) {
		t.Errorf("unexpected cards %v", back)
	}
}
