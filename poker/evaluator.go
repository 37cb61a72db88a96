package poker

import (
	"fmt"
	"math/bits"
)

// Category enumerates poker hand classes ordered from weakest to strongest.
type Category uint8

const (
	HighCard Category = iota
	Pair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
)

// String returns a human-readable category name.
func (c Category) String() string {
	switch c {
	case HighCard:
		return "High Card"
	case Pair:
		return "Pair"
	case TwoPair:
		return "Two Pair"
	case ThreeOfAKind:
		return "Three of a Kind"
	case Straight:
		return "Straight"
	case Flush:
		return "Flush"
	case FullHouse:
		return "Full House"
	case FourOfAKind:
		return "Four of a Kind"
	case StraightFlush:
		return "Straight Flush"
	default:
		return "Unknown"
	}
}

// Score is the strength of a best five-card hand. A greater score always beats
// a lesser one and equal scores are exact ties.
//
// Layout: the category sits in bits 20-23 and up to five tie-break ranks fill
// the lower 20 bits, four bits each, most significant first.
type Score uint32

const categoryShift = 20

// Category returns the hand class encoded in the score
func (s Score) Category() Category {
	return Category(s >> categoryShift)
}

// Ranks returns the tie-break ranks in order of significance. Unused slots are omitted.
func (s Score) Ranks() []Rank {
	ranks := make([]Rank, 0, 5)
	for i := 4; i >= 0; i-- {
		r := Rank((s >> (uint(i) * 4)) & 0xF)
		if r == 0 {
			break
		}
		ranks = append(ranks, r)
	}
	return ranks
}

// String describes the score, e.g. "Full House (K, 7)"
func (s Score) String() string {
	ranks := s.Ranks()
	if len(ranks) == 0 {
		return s.Category().String()
	}
	out := s.Category().String() + " ("
	for i, r := range ranks {
		if i > 0 {
			out += ", "
		}
		out += r.String()
	}
	return out + ")"
}

// Compare returns 1 if a wins, -1 if b wins, 0 for a tie
func Compare(a, b Score) int {
	switch {
	case a > b:
		return 1
	case a < b:
		return -1
	default:
		return 0
	}
}

func makeScore(cat Category, ranks ...Rank) Score {
	s := Score(cat) << categoryShift
	for i, r := range ranks {
		if i >= 5 {
			break
		}
		s |= Score(r) << (uint(4-i) * 4)
	}
	return s
}

// rankBit maps a rank to its bit in a 15-bit rank mask (bit 14 is the ace).
func rankBit(r Rank) uint16 { return 1 << r }

// Evaluate scores the best five-card hand among 5 to 7 distinct cards.
func Evaluate(cards []Card) (Score, error) {
	if len(cards) < 5 || len(cards) > 7 {
		return 0, fmt.Errorf("%w: evaluate needs 5-7 cards, got %d", ErrInvalidInput, len(cards))
	}

	var (
		suitMasks  [4]uint16
		rankCounts [Ace + 1]uint8
		rankMask   uint16
	)
	for _, c := range cards {
		if !c.Valid() {
			return 0, fmt.Errorf("%w: invalid card %d/%d", ErrInvalidInput, c.Rank, c.Suit)
		}
		bit := rankBit(c.Rank)
		if suitMasks[c.Suit]&bit != 0 {
			return 0, fmt.Errorf("%w: duplicate card %s", ErrInvalidInput, c)
		}
		suitMasks[c.Suit] |= bit
		rankCounts[c.Rank]++
		rankMask |= bit
	}

	// With at most 7 cards only one suit can hold five or more.
	flushMask := uint16(0)
	for _, m := range suitMasks {
		if bits.OnesCount16(m) >= 5 {
			flushMask = m
			break
		}
	}

	if flushMask != 0 {
		if high := straightHigh(flushMask); high != 0 {
			return makeScore(StraightFlush, high), nil
		}
	}

	var quads, trips, pairs []Rank
	for r := Ace; r >= Two; r-- {
		switch rankCounts[r] {
		case 4:
			quads = append(quads, r)
		case 3:
			trips = append(trips, r)
		case 2:
			pairs = append(pairs, r)
		}
	}

	if len(quads) > 0 {
		q := quads[0]
		return makeScore(FourOfAKind, q, topRanks(rankMask&^rankBit(q), 1)...), nil
	}

	if len(trips) > 0 {
		t := trips[0]
		// The pair role may be filled by a second set of trips.
		var pairRank Rank
		if len(trips) > 1 {
			pairRank = trips[1]
		}
		if len(pairs) > 0 && pairs[0] > pairRank {
			pairRank = pairs[0]
		}
		if pairRank != 0 {
			return makeScore(FullHouse, t, pairRank), nil
		}
	}

	if flushMask != 0 {
		return makeScore(Flush, topRanks(flushMask, 5)...), nil
	}

	if high := straightHigh(rankMask); high != 0 {
		return makeScore(Straight, high), nil
	}

	if len(trips) > 0 {
		t := trips[0]
		return makeScore(ThreeOfAKind, append([]Rank{t}, topRanks(rankMask&^rankBit(t), 2)...)...), nil
	}

	if len(pairs) >= 2 {
		hi, lo := pairs[0], pairs[1]
		kicker := topRanks(rankMask&^rankBit(hi)&^rankBit(lo), 1)
		return makeScore(TwoPair, append([]Rank{hi, lo}, kicker...)...), nil
	}

	if len(pairs) == 1 {
		p := pairs[0]
		return makeScore(Pair, append([]Rank{p}, topRanks(rankMask&^rankBit(p), 3)...)...), nil
	}

	return makeScore(HighCard, topRanks(rankMask, 5)...), nil
}

// MustEvaluate is Evaluate for callers that already guarantee a valid card set.
func MustEvaluate(cards []Card) Score {
	s, err := Evaluate(cards)
	if err != nil {
		panic(err)
	}
	return s
}

// straightHigh returns the high card of the best straight in a rank mask, or 0.
// The wheel (A-2-3-4-5) counts as a five-high straight.
func straightHigh(mask uint16) Rank {
	for high := Ace; high >= Six; high-- {
		run := uint16(0x1F) << (high - 4)
		if mask&run == run {
			return high
		}
	}
	const wheel = 1<<Ace | 1<<Two | 1<<Three | 1<<Four | 1<<Five
	if mask&wheel == wheel {
		return Five
	}
	return 0
}

// topRanks returns the n highest ranks present in the mask, highest first.
func topRanks(mask uint16, n int) []Rank {
	out := make([]Rank, 0, n)
	for len(out) < n && mask != 0 {
		top := Rank(bits.Len16(mask) - 1)
		out = append(out, top)
		mask &^= rankBit(top)
	}
	return out
}
