package game

import (
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/google/uuid"
	"github.com/lox/pokerengine/internal/handid"
	"github.com/lox/pokerengine/internal/randutil"
	"github.com/lox/pokerengine/poker"
)

// Engine drives hands on one Table. Every exported method holds the engine
// lock for its full duration, so transitions are atomic.
type Engine struct {
	mu sync.Mutex

	table    *Table
	rng      *rand.Rand
	decks    []*poker.Deck
	deck     *poker.Deck
	logger   *log.Logger
	bus      EventBus
	clock    quartz.Clock
	ids      *handid.Generator
	handID   string
	hands    int
	result   *HandResult
	revealed map[string]bool
}

// NewEngine creates an engine that owns table.
func NewEngine(table *Table, opts ...Option) *Engine {
	if table == nil {
		panic("table is required for engine creation")
	}
	e := &Engine{
		table:    table,
		revealed: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = log.New(io.Discard)
	}
	if e.rng == nil {
		var seed int64
		e.rng, seed = randutil.NewTimeSeeded()
		e.logger.Debug("Seeded engine from clock", "seed", seed)
	}
	if e.bus == nil {
		e.bus = NewEventBus()
	}
	if e.clock == nil {
		e.clock = quartz.NewReal()
	}
	if e.ids == nil {
		e.ids = handid.NewGenerator(nil)
	}
	return e
}

// Events returns the bus hand events are published on.
func (e *Engine) Events() EventBus {
	return e.bus
}

// Config returns the table parameters.
func (e *Engine) Config() TableConfig {
	return e.table.Config()
}

// Seat adds a ready player with a generated id and returns the id.
func (e *Engine) Seat(name string, chips int) (string, error) {
	return e.SeatPlayer(Player{Name: name, Chips: chips, Ready: true})
}

// SeatPlayer adds a player to the next free seat. An empty ID is replaced
// with a generated one. Players joining mid-hand wait for the next hand.
func (e *Engine) SeatPlayer(p Player) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.Name == "" {
		p.Name = p.ID
	}
	p.Bet, p.TotalBet, p.Hand, p.HasActed = 0, 0, nil, false
	np := p
	if err := e.table.seat(&np); err != nil {
		return "", err
	}
	e.logger.Debug("Player seated", "player", np.Name, "id", np.ID, "seat", np.Seat, "chips", np.Chips)
	return np.ID, nil
}

// RemovePlayer takes a player off the table between hands.
func (e *Engine) RemovePlayer(id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.table.remove(id); err != nil {
		return err
	}
	e.logger.Debug("Player removed", "id", id)
	return nil
}

// SetReady marks whether a player wants to be dealt into the next hand.
func (e *Engine) SetReady(id string, ready bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	p := e.table.find(id)
	if p == nil {
		return fmt.Errorf("%w: %s", ErrPlayerNotFound, id)
	}
	p.Ready = ready
	return nil
}

// Player returns a copy of a seated player.
func (e *Engine) Player(id string) (Player, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	p := e.table.find(id)
	if p == nil {
		return Player{}, false
	}
	return p.clone(), true
}

// Players returns copies of every seated player in seat order.
func (e *Engine) Players() []Player {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Player, len(e.table.players))
	for i, p := range e.table.players {
		out[i] = p.clone()
	}
	return out
}

// TotalChips is every chip on the table, in stacks or in the pot.
func (e *Engine) TotalChips() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	total := e.table.pot
	for _, p := range e.table.players {
		total += p.Chips
	}
	return total
}

// HandInProgress reports whether a hand has started and not yet settled.
func (e *Engine) HandInProgress() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.table.inHand
}

// HandID returns the id of the current or most recent hand.
func (e *Engine) HandID() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.handID
}

// Actor returns the id of the player whose turn it is.
func (e *Engine) Actor() (string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	t := e.table
	if !t.inHand || t.actor < 0 {
		return "", false
	}
	return t.players[t.actor].ID, true
}

// Result returns the settlement of the most recent finished hand.
func (e *Engine) Result() (HandResult, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.result == nil {
		return HandResult{}, false
	}
	return e.result.clone(), true
}

// LegalActions lists what the player may do now. It is empty unless it is
// that player's turn.
func (e *Engine) LegalActions(id string) LegalActions {
	e.mu.Lock()
	defer e.mu.Unlock()
	return legalActions(e.table, e.table.find(id))
}

// Snapshot returns the table as seen by viewerID. Opponents' hole cards are
// hidden except for hands shown down at showdown.
func (e *Engine) Snapshot(viewerID string) View {
	e.mu.Lock()
	defer e.mu.Unlock()
	return snapshot(e.table, e.handID, viewerID, e.revealed)
}

// StartHand shuffles, moves the button, posts blinds and deals. It fails with
// ErrNotEnoughPlayers, leaving the table untouched, unless at least two
// seated, ready players have chips.
func (e *Engine) StartHand() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	t := e.table

	if t.inHand {
		return ErrHandInProgress
	}
	eligible := 0
	for _, p := range t.players {
		if p.eligibleToStart() {
			eligible++
		}
	}
	if eligible < 2 {
		return fmt.Errorf("%w: %d eligible", ErrNotEnoughPlayers, eligible)
	}

	for _, p := range t.players {
		p.resetForHand()
	}
	t.board = nil
	t.pot = 0
	t.stage = Preflop
	t.inHand = true
	e.result = nil
	e.revealed = make(map[string]bool)
	e.handID = e.ids.Generate()
	e.hands++

	if len(e.decks) > 0 {
		e.deck, e.decks = e.decks[0], e.decks[1:]
	} else {
		e.deck = poker.NewDeck(e.rng)
	}

	t.dealer = t.nextSeat(t.dealer, isPlaying)
	if eligible == 2 {
		t.sbSeat = t.dealer
	} else {
		t.sbSeat = t.nextSeat(t.dealer, isPlaying)
	}
	t.bbSeat = t.nextSeat(t.sbSeat, isPlaying)

	sb, bb := t.players[t.sbSeat], t.players[t.bbSeat]
	t.commit(sb, min(sb.Chips, t.cfg.SmallBlind))
	t.commit(bb, min(bb.Chips, t.cfg.BigBlind))
	t.currentBet = t.cfg.BigBlind
	t.lastRaise = t.cfg.BigBlind

	if err := e.dealHoleCards(); err != nil {
		return err
	}

	e.logger.Debug("Hand started",
		"handID", e.handID,
		"hand", e.hands,
		"players", eligible,
		"dealer", t.players[t.dealer].Name,
		"smallBlind", sb.Name,
		"bigBlind", bb.Name)

	players := snapshot(t, e.handID, "", nil).Players
	e.publish(HandStartEvent{
		HandID:         e.handID,
		DealerSeat:     t.dealer,
		SmallBlindSeat: t.sbSeat,
		BigBlindSeat:   t.bbSeat,
		SmallBlind:     t.cfg.SmallBlind,
		BigBlind:       t.cfg.BigBlind,
		Players:        players,
		Pot:            t.pot,
		timestamp:      e.clock.Now(),
	})

	t.actor = t.bbSeat
	return e.progress()
}

// dealHoleCards deals two cards to everyone in the hand, one per pass,
// starting left of the button.
func (e *Engine) dealHoleCards() error {
	t := e.table
	start := t.nextSeat(t.dealer, isInHand)
	for pass := 0; pass < 2; pass++ {
		for i := 0; i < len(t.players); i++ {
			p := t.players[(start+i)%len(t.players)]
			if !p.InHand() {
				continue
			}
			card, ok := e.deck.DrawOne()
			if !ok {
				return invariant("deal", "deck ran out dealing hole cards")
			}
			p.Hand = append(p.Hand, card)
		}
	}
	return nil
}

// ProcessAction validates and applies one action. Any *ActionError leaves
// the table exactly as it was.
func (e *Engine) ProcessAction(id string, action Action, amount int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	p, err := e.lookup(id, action)
	if err != nil {
		return err
	}
	return e.apply(p, Decision{Action: action, Amount: amount}, false)
}

// ApplyDecision applies a policy's decision. An illegal decision is replaced
// by FallbackDecision and logged; the decision actually applied is returned.
// Errors that no substitute could fix (wrong player, no hand) are returned.
func (e *Engine) ApplyDecision(id string, d Decision) (Decision, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	p, err := e.lookup(id, d.Action)
	if err != nil {
		return Decision{}, err
	}
	err = e.apply(p, d, false)
	if err == nil {
		return d, nil
	}

	var ae *ActionError
	if !errors.As(err, &ae) {
		return Decision{}, err
	}
	switch ae.Reason {
	case ReasonNotYourTurn, ReasonCannotAct, ReasonHandNotInProgress, ReasonUnknownPlayer:
		return Decision{}, err
	}

	fb := FallbackDecision(legalActions(e.table, p))
	e.logger.Warn("Illegal decision, applying fallback",
		"handID", e.handID,
		"player", p.Name,
		"action", d.Action,
		"amount", d.Amount,
		"reason", ae.Reason,
		"fallback", fb.Action)
	if err := e.apply(p, fb, true); err != nil {
		return Decision{}, err
	}
	return fb, nil
}

func (e *Engine) lookup(id string, action Action) (*Player, error) {
	t := e.table
	if !t.inHand {
		return nil, &ActionError{Reason: ReasonHandNotInProgress, PlayerID: id, Action: action, Context: t.context(nil)}
	}
	p := t.find(id)
	if p == nil {
		return nil, &ActionError{Reason: ReasonUnknownPlayer, PlayerID: id, Action: action, Context: t.context(nil)}
	}
	return p, nil
}

// apply validates d for p and, only if it is legal, mutates the table and
// runs whatever follows: the next turn, a stage advance or settlement.
func (e *Engine) apply(p *Player, d Decision, fallback bool) error {
	t := e.table
	reject := func(reason Reason, format string, args ...any) error {
		return &ActionError{
			Reason:   reason,
			PlayerID: p.ID,
			Action:   d.Action,
			Amount:   d.Amount,
			Detail:   fmt.Sprintf(format, args...),
			Context:  t.context(p),
		}
	}

	if !p.CanAct() {
		return reject(ReasonCannotAct, "%s is %s", p.Name, p.Status)
	}
	if t.actor != p.Seat {
		return reject(ReasonNotYourTurn, "waiting for seat %d", t.actor)
	}

	toCall := max(0, t.currentBet-p.Bet)
	minRaise := t.minRaise()
	committed := 0

	switch d.Action {
	case Fold:
		p.Status = StatusFolded

	case Check:
		if p.Bet != t.currentBet {
			return reject(ReasonCannotCheck, "facing %d to call", toCall)
		}

	case Call:
		if toCall == 0 {
			return reject(ReasonNothingToCall, "no bet to call")
		}
		committed = min(toCall, p.Chips)
		t.commit(p, committed)

	case Raise:
		if p.HasActed {
			return reject(ReasonRaiseNotReopened, "betting was not re-opened")
		}
		if d.Amount < minRaise {
			return reject(ReasonRaiseBelowMinimum, "raise of %d is below the minimum %d", d.Amount, minRaise)
		}
		if toCall+d.Amount > p.Chips {
			return reject(ReasonInsufficientChips, "raise needs %d, have %d", toCall+d.Amount, p.Chips)
		}
		committed = toCall + d.Amount
		t.commit(p, committed)
		t.currentBet = p.Bet
		t.lastRaise = d.Amount
		t.reopen(p)

	case AllIn:
		if p.Chips == 0 {
			return reject(ReasonNoChips, "no chips left")
		}
		if p.HasActed && p.Chips > toCall {
			return reject(ReasonRaiseNotReopened, "betting was not re-opened")
		}
		committed = p.Chips
		t.commit(p, committed)
		if p.Bet > t.currentBet {
			raise := p.Bet - t.currentBet
			if raise >= minRaise {
				t.lastRaise = raise
				t.reopen(p)
			}
			t.currentBet = p.Bet
		}

	default:
		return reject(ReasonUnknownAction, "unknown action %d", int(d.Action))
	}

	p.HasActed = true

	e.logger.Debug("Player action",
		"handID", e.handID,
		"player", p.Name,
		"stage", t.stage,
		"action", d.Action,
		"committed", committed,
		"pot", t.pot,
		"fallback", fallback)

	e.publish(PlayerActionEvent{
		HandID:    e.handID,
		PlayerID:  p.ID,
		Name:      p.Name,
		Seat:      p.Seat,
		Stage:     t.stage,
		Action:    d.Action,
		Amount:    committed,
		Reason:    d.Reason,
		Fallback:  fallback,
		PotAfter:  t.pot,
		timestamp: e.clock.Now(),
	})

	if t.pot != t.totalBets() {
		return invariant("apply", "pot %d does not match contributions %d", t.pot, t.totalBets())
	}
	return e.progress()
}

// progress decides what happens after the table changes: an uncontested
// award, an all-in runout, a stage advance or the next player's turn.
func (e *Engine) progress() error {
	t := e.table

	if t.count(isInHand) <= 1 {
		return e.settle()
	}

	playing := t.count(isPlaying)
	if playing == 0 {
		return e.runOut()
	}
	if playing == 1 {
		lone := t.players[t.nextSeat(-1, isPlaying)]
		if lone.Bet >= t.currentBet {
			// Nobody is left to bet against and there is nothing to call.
			return e.runOut()
		}
	}

	if t.roundComplete() {
		return e.advanceStage()
	}

	next := t.nextSeat(t.actor, isPlaying)
	if next < 0 {
		return invariant("progress", "no player can act in an unfinished round")
	}
	t.actor = next
	return nil
}

// advanceStage moves to the next street, or to settlement after the river.
func (e *Engine) advanceStage() error {
	t := e.table
	if t.stage == River {
		return e.settle()
	}
	if err := e.dealStreet(); err != nil {
		return err
	}
	if t.count(isPlaying) <= 1 {
		return e.runOut()
	}
	t.actor = t.nextSeat(t.dealer, isPlaying)
	return nil
}

// runOut deals the rest of the board and settles.
func (e *Engine) runOut() error {
	for e.table.stage < River {
		if err := e.dealStreet(); err != nil {
			return err
		}
	}
	return e.settle()
}

// dealStreet deals the next street's community cards and opens a new
// betting round. Burn cards are not drawn.
func (e *Engine) dealStreet() error {
	t := e.table
	var n int
	switch t.stage {
	case Preflop:
		n = 3
	case Flop, Turn:
		n = 1
	default:
		return invariant("deal", "cannot deal a street after the %s", t.stage)
	}
	cards, ok := e.deck.Draw(n)
	if !ok {
		return invariant("deal", "deck ran out dealing the %s", t.stage+1)
	}
	t.board = append(t.board, cards...)
	t.stage++
	t.resetRound()

	e.logger.Debug("Dealt street", "handID", e.handID, "stage", t.stage, "board", poker.FormatCards(t.board))
	e.publish(StageChangeEvent{
		HandID:    e.handID,
		Stage:     t.stage,
		Board:     append([]poker.Card(nil), t.board...),
		Pot:       t.pot,
		timestamp: e.clock.Now(),
	})
	return nil
}

func (e *Engine) publish(event GameEvent) {
	e.bus.Publish(event)
}
