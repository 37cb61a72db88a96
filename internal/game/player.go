package game

import "github.com/lox/pokerengine/poker"

// Player is a seated participant. Chips carry over between hands; the other
// fields describe the hand in progress.
type Player struct {
	ID       string       `json:"id"`
	Name     string       `json:"name"`
	Seat     int          `json:"seat"`
	Chips    int          `json:"chips"`     // not currently wagered
	Bet      int          `json:"bet"`       // this betting round
	TotalBet int          `json:"total_bet"` // this hand, for side pots
	Hand     []poker.Card `json:"hand,omitempty"`
	Status   Status       `json:"status"`
	HasActed bool         `json:"has_acted"`
	Ready    bool         `json:"ready"`
	Seated   bool         `json:"seated"`
}

// InHand reports whether the player can still win chips this hand.
func (p *Player) InHand() bool {
	return p.Status == StatusPlaying || p.Status == StatusAllIn
}

// CanAct reports whether the player may take betting actions.
func (p *Player) CanAct() bool {
	return p.Status == StatusPlaying
}

func (p *Player) eligibleToStart() bool {
	return p.Seated && p.Ready && p.Chips > 0
}

func (p *Player) clone() Player {
	c := *p
	c.Hand = append([]poker.Card(nil), p.Hand...)
	return c
}

// resetForHand clears everything that belongs to the previous hand.
func (p *Player) resetForHand() {
	p.Bet = 0
	p.TotalBet = 0
	p.Hand = nil
	p.HasActed = false
	switch {
	case p.eligibleToStart():
		p.Status = StatusPlaying
	case p.Chips == 0:
		p.Status = StatusOut
	default:
		p.Status = StatusWaiting
	}
}
