package game

import "github.com/lox/pokerengine/poker"

// PlayerView is one seat as seen by a particular viewer.
type PlayerView struct {
	ID       string       `json:"id"`
	Name     string       `json:"name"`
	Seat     int          `json:"seat"`
	Chips    int          `json:"chips"`
	Bet      int          `json:"bet"`
	TotalBet int          `json:"total_bet"`
	Status   Status       `json:"status"`
	HasActed bool         `json:"has_acted"`
	Ready    bool         `json:"ready"`
	Cards    int          `json:"cards"`          // number of hole cards held
	Hand     []poker.Card `json:"hand,omitempty"` // nil when hidden from the viewer
}

// View is a serializable, viewer-specific snapshot of the table.
type View struct {
	HandID     string       `json:"hand_id,omitempty"`
	ViewerID   string       `json:"viewer_id,omitempty"`
	InProgress bool         `json:"in_progress"`
	Stage      Stage        `json:"stage"`
	Board      []poker.Card `json:"board"`
	Pot        int          `json:"pot"`
	SmallBlind int          `json:"small_blind"`
	BigBlind   int          `json:"big_blind"`
	CurrentBet int          `json:"current_bet"`
	LastRaise  int          `json:"last_raise_size"`
	MinRaise   int          `json:"min_raise"`
	DealerSeat int          `json:"dealer_seat"`
	ActorSeat  int          `json:"actor_seat"`
	ActorID    string       `json:"actor_id,omitempty"`
	Players    []PlayerView `json:"players"`
	Legal      LegalActions `json:"legal"`
}

// Viewer returns the viewing player's own seat, if seated.
func (v View) Viewer() (PlayerView, bool) {
	for _, p := range v.Players {
		if p.ID == v.ViewerID {
			return p, true
		}
	}
	return PlayerView{}, false
}

// ActivePlayers counts players still contesting the pot.
func (v View) ActivePlayers() int {
	n := 0
	for _, p := range v.Players {
		if p.Status == StatusPlaying || p.Status == StatusAllIn {
			n++
		}
	}
	return n
}

// ToCall is what the viewer must add to stay in.
func (v View) ToCall() int {
	me, ok := v.Viewer()
	if !ok {
		return 0
	}
	return max(0, v.CurrentBet-me.Bet)
}

// snapshot builds a view. revealed lists players whose cards were shown at
// showdown; everyone else's cards are visible only to themselves.
func snapshot(t *Table, handID, viewerID string, revealed map[string]bool) View {
	v := View{
		HandID:     handID,
		ViewerID:   viewerID,
		InProgress: t.inHand,
		Stage:      t.stage,
		Board:      append([]poker.Card{}, t.board...),
		Pot:        t.pot,
		SmallBlind: t.cfg.SmallBlind,
		BigBlind:   t.cfg.BigBlind,
		CurrentBet: t.currentBet,
		LastRaise:  t.lastRaise,
		MinRaise:   t.minRaise(),
		DealerSeat: t.dealer,
		ActorSeat:  -1,
		Players:    make([]PlayerView, 0, len(t.players)),
	}
	if t.inHand && t.actor >= 0 && t.actor < len(t.players) {
		v.ActorSeat = t.actor
		v.ActorID = t.players[t.actor].ID
	}
	for _, p := range t.players {
		pv := PlayerView{
			ID:       p.ID,
			Name:     p.Name,
			Seat:     p.Seat,
			Chips:    p.Chips,
			Bet:      p.Bet,
			TotalBet: p.TotalBet,
			Status:   p.Status,
			HasActed: p.HasActed,
			Ready:    p.Ready,
			Cards:    len(p.Hand),
		}
		if len(p.Hand) > 0 && (p.ID == viewerID || (t.stage == Showdown && revealed[p.ID])) {
			pv.Hand = append([]poker.Card(nil), p.Hand...)
		}
		v.Players = append(v.Players, pv)
		if p.ID == viewerID {
			v.Legal = legalActions(t, p)
		}
	}
	return v
}
