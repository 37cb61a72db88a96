package game

import "context"

// RaiseRange bounds the raise amount (above the call) a player may choose.
type RaiseRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// LegalActions lists what the acting player may do. It is the zero value when
// the player is not the one to act.
type LegalActions struct {
	Fold       bool        `json:"fold"`
	Check      bool        `json:"check"`
	CallAmount int         `json:"call_amount"`
	Raise      *RaiseRange `json:"raise,omitempty"`
	AllIn      bool        `json:"allin"`
}

// Any reports whether at least one action is available.
func (l LegalActions) Any() bool {
	return l.Fold || l.Check || l.CallAmount > 0 || l.Raise != nil || l.AllIn
}

// Allows reports whether the action and raise amount would be accepted.
func (l LegalActions) Allows(action Action, amount int) bool {
	switch action {
	case Fold:
		return l.Fold
	case Check:
		return l.Check
	case Call:
		return l.CallAmount > 0
	case Raise:
		return l.Raise != nil && amount >= l.Raise.Min && amount <= l.Raise.Max
	case AllIn:
		return l.AllIn
	default:
		return false
	}
}

func legalActions(t *Table, p *Player) LegalActions {
	if !t.inHand || p == nil || !p.CanAct() || t.actor != p.Seat {
		return LegalActions{}
	}
	toCall := max(0, t.currentBet-p.Bet)
	l := LegalActions{
		Fold:  true,
		Check: toCall == 0,
	}
	if toCall > 0 {
		l.CallAmount = min(toCall, p.Chips)
	}
	minRaise, maxRaise := t.minRaise(), p.Chips-toCall
	if !p.HasActed && maxRaise >= minRaise {
		l.Raise = &RaiseRange{Min: minRaise, Max: maxRaise}
	}
	// Shoving for more than the call is a raise, which a player who has
	// already acted may not make unless the action was re-opened.
	l.AllIn = p.Chips > 0 && (!p.HasActed || p.Chips <= toCall)
	return l
}

// Decision is one (action, amount) choice made by a player or policy.
type Decision struct {
	Action Action `json:"action"`
	Amount int    `json:"amount,omitempty"`
	Reason string `json:"reason,omitempty"`
}

// FallbackDecision is the action substituted for a missing or illegal
// decision: check when free, otherwise call, otherwise fold.
func FallbackDecision(legal LegalActions) Decision {
	switch {
	case legal.Check:
		return Decision{Action: Check, Reason: "fallback"}
	case legal.CallAmount > 0:
		return Decision{Action: Call, Reason: "fallback"}
	default:
		return Decision{Action: Fold, Reason: "fallback"}
	}
}

// Policy chooses actions for a seat. Implementations receive the same
// redacted View a player would and must not call back into the engine.
type Policy interface {
	Decide(ctx context.Context, view View) (Decision, error)
}

// PolicyFunc adapts a function to the Policy interface.
type PolicyFunc func(ctx context.Context, view View) (Decision, error)

// Decide calls f.
func (f PolicyFunc) Decide(ctx context.Context, view View) (Decision, error) {
	return f(ctx, view)
}
