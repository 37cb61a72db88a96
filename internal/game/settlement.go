package game

import (
	"github.com/lox/pokerengine/poker"
)

// LabelUncontested is the result label when everyone else folded.
const LabelUncontested = "uncontested"

// PotLayer is one tier of the pot: chips that only the listed players could win.
type PotLayer struct {
	Amount   int      `json:"amount"`
	Eligible []string `json:"eligible"` // contributors who had not folded, in seat order
	Winners  []string `json:"winners"`  // in seat order
}

// HandResult describes how a hand was settled.
type HandResult struct {
	HandID      string                 `json:"hand_id"`
	Uncontested bool                   `json:"uncontested"`
	Label       string                 `json:"label"`
	Pot         int                    `json:"pot"`
	Board       []poker.Card           `json:"board"`
	Layers      []PotLayer             `json:"layers"`
	Payouts     map[string]int         `json:"payouts"`
	Scores      map[string]poker.Score `json:"scores,omitempty"`
}

// Won returns how many chips the player received.
func (r HandResult) Won(playerID string) int {
	return r.Payouts[playerID]
}

func (r HandResult) clone() HandResult {
	c := r
	c.Board = append([]poker.Card(nil), r.Board...)
	c.Layers = make([]PotLayer, len(r.Layers))
	for i, l := range r.Layers {
		c.Layers[i] = PotLayer{
			Amount:   l.Amount,
			Eligible: append([]string(nil), l.Eligible...),
			Winners:  append([]string(nil), l.Winners...),
		}
	}
	c.Payouts = make(map[string]int, len(r.Payouts))
	for k, v := range r.Payouts {
		c.Payouts[k] = v
	}
	if r.Scores != nil {
		c.Scores = make(map[string]poker.Score, len(r.Scores))
		for k, v := range r.Scores {
			c.Scores[k] = v
		}
	}
	return c
}

// potLayers partitions every player's total contribution into layers. Each
// layer is the next-smallest outstanding contribution times the number of
// players still contributing. A layer nobody eligible paid into is folded
// into the layer below it.
func potLayers(players []*Player) []PotLayer {
	remaining := make([]int, len(players))
	for i, p := range players {
		remaining[i] = p.TotalBet
	}

	var (
		layers []PotLayer
		carry  int
	)
	for {
		level := 0
		for _, r := range remaining {
			if r > 0 && (level == 0 || r < level) {
				level = r
			}
		}
		if level == 0 {
			break
		}

		layer := PotLayer{}
		for i, p := range players {
			if remaining[i] == 0 {
				continue
			}
			layer.Amount += level
			remaining[i] -= level
			if p.InHand() {
				layer.Eligible = append(layer.Eligible, p.ID)
			}
		}

		if len(layer.Eligible) == 0 {
			if len(layers) > 0 {
				layers[len(layers)-1].Amount += layer.Amount
			} else {
				carry += layer.Amount
			}
			continue
		}
		layer.Amount += carry
		carry = 0
		layers = append(layers, layer)
	}
	return layers
}

// splitLayer divides a layer between tied winners. Remainder chips go one at a
// time to the winners in seat order, which is the order they are listed in.
func splitLayer(amount int, winners []string, payouts map[string]int) {
	share := amount / len(winners)
	remainder := amount % len(winners)
	for i, id := range winners {
		payouts[id] += share
		if i < remainder {
			payouts[id]++
		}
	}
}

// settle pays out the pot and ends the hand. Called with the engine lock held.
func (e *Engine) settle() error {
	t := e.table
	result := HandResult{
		HandID:  e.handID,
		Pot:     t.pot,
		Board:   append([]poker.Card(nil), t.board...),
		Payouts: make(map[string]int),
	}

	if t.pot != t.totalBets() {
		return invariant("settle", "pot %d does not match contributions %d", t.pot, t.totalBets())
	}

	contenders := make([]*Player, 0, len(t.players))
	for _, p := range t.players {
		if p.InHand() {
			contenders = append(contenders, p)
		}
	}

	switch len(contenders) {
	case 0:
		return invariant("settle", "no player left to award a pot of %d", t.pot)
	case 1:
		winner := contenders[0]
		result.Uncontested = true
		result.Label = LabelUncontested
		result.Layers = []PotLayer{{
			Amount:   t.pot,
			Eligible: []string{winner.ID},
			Winners:  []string{winner.ID},
		}}
		result.Payouts[winner.ID] = t.pot
	default:
		if len(t.board) != 5 {
			return invariant("settle", "showdown with %d board cards", len(t.board))
		}
		result.Scores = make(map[string]poker.Score, len(contenders))
		for _, p := range contenders {
			cards := make([]poker.Card, 0, 7)
			cards = append(cards, p.Hand...)
			cards = append(cards, t.board...)
			score, err := poker.Evaluate(cards)
			if err != nil {
				return invariant("settle", "evaluating %s: %v", p.ID, err)
			}
			result.Scores[p.ID] = score
			e.revealed[p.ID] = true
		}

		result.Layers = potLayers(t.players)
		if len(result.Layers) == 0 {
			return invariant("settle", "no pot layers for a pot of %d", t.pot)
		}
		for i := range result.Layers {
			layer := &result.Layers[i]
			var best poker.Score
			for _, id := range layer.Eligible {
				if s := result.Scores[id]; s > best {
					best = s
				}
			}
			for _, id := range layer.Eligible {
				if result.Scores[id] == best {
					layer.Winners = append(layer.Winners, id)
				}
			}
			splitLayer(layer.Amount, layer.Winners, result.Payouts)
			e.logger.Debug("Settled pot layer",
				"handID", e.handID,
				"layer", i,
				"amount", layer.Amount,
				"eligible", len(layer.Eligible),
				"winners", layer.Winners,
				"hand", best)
		}
		result.Label = result.Scores[result.Layers[0].Winners[0]].Category().String()
	}

	paid := 0
	for _, amount := range result.Payouts {
		paid += amount
	}
	if paid != t.pot {
		return invariant("settle", "paid %d from a pot of %d", paid, t.pot)
	}

	for _, p := range t.players {
		p.Chips += result.Payouts[p.ID]
		p.Bet = 0
		p.TotalBet = 0
		if p.Chips == 0 {
			p.Status = StatusOut
		}
	}
	t.pot = 0
	t.currentBet = 0
	t.stage = Showdown
	t.inHand = false
	t.actor = -1

	e.result = &result
	e.logger.Debug("Hand settled",
		"handID", e.handID,
		"pot", result.Pot,
		"label", result.Label,
		"layers", len(result.Layers))
	e.publish(StageChangeEvent{HandID: e.handID, Stage: Showdown, Board: result.Board, timestamp: e.clock.Now()})
	e.publish(HandEndEvent{HandID: e.handID, Result: result.clone(), timestamp: e.clock.Now()})
	return nil
}
