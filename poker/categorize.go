package poker

// HoleCardTier is a coarse preflop strength bucket for two hole cards.
type HoleCardTier string

const (
	TierPremium HoleCardTier = "Premium"
	TierStrong  HoleCardTier = "Strong"
	TierMedium  HoleCardTier = "Medium"
	TierWeak    HoleCardTier = "Weak"
	TierTrash   HoleCardTier = "Trash"
	TierUnknown HoleCardTier = "Unknown"
)

// ClassifyHoleCards buckets a starting hand.
// Premium (JJ+, AK), Strong (TT, AQ, AJ), Medium (77-99, suited broadway),
// Weak (22-66, suited connectors and one-gappers), Trash (everything else).
func ClassifyHoleCards(hole []Card) HoleCardTier {
	if len(hole) != 2 || !hole[0].Valid() || !hole[1].Valid() || hole[0] == hole[1] {
		return TierUnknown
	}

	small, big := hole[0].Rank, hole[1].Rank
	if small > big {
		small, big = big, small
	}
	suited := hole[0].Suit == hole[1].Suit
	isPair := small == big

	switch {
	case isPair && small >= Jack, small == King && big == Ace:
		return TierPremium
	case isPair && small == Ten, big == Ace && (small == Queen || small == Jack):
		return TierStrong
	case isPair && small >= Seven, suited && small >= Ten:
		return TierMedium
	case isPair, suited && big-small <= 2:
		return TierWeak
	default:
		return TierTrash
	}
}
