package game

import (
	"fmt"

	"github.com/lox/pokerengine/poker"
)

// TableConfig holds the fixed parameters of a table.
type TableConfig struct {
	SmallBlind int
	BigBlind   int
	MaxSeats   int
}

// Table is the mutable aggregate a hand is played on. It is not safe for
// concurrent use; all access goes through the Engine that owns it.
type Table struct {
	cfg        TableConfig
	players    []*Player
	board      []poker.Card
	pot        int
	dealer     int
	actor      int
	sbSeat     int
	bbSeat     int
	currentBet int
	lastRaise  int
	stage      Stage
	inHand     bool
}

// NewTable creates an empty table. The button is unset until the first hand.
func NewTable(cfg TableConfig) *Table {
	if cfg.SmallBlind <= 0 || cfg.BigBlind < cfg.SmallBlind {
		panic(fmt.Sprintf("invalid blinds %d/%d", cfg.SmallBlind, cfg.BigBlind))
	}
	if cfg.MaxSeats == 0 {
		cfg.MaxSeats = 10
	}
	if cfg.MaxSeats < 2 {
		panic("a table needs at least 2 seats")
	}
	return &Table{
		cfg:    cfg,
		dealer: -1,
		actor:  -1,
		sbSeat: -1,
		bbSeat: -1,
		stage:  Showdown,
	}
}

// Config returns the table's fixed parameters
func (t *Table) Config() TableConfig {
	return t.cfg
}

func (t *Table) minRaise() int {
	return max(t.cfg.BigBlind, t.lastRaise)
}

func (t *Table) find(id string) *Player {
	for _, p := range t.players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (t *Table) seat(p *Player) error {
	if len(t.players) >= t.cfg.MaxSeats {
		return ErrTableFull
	}
	if t.find(p.ID) != nil {
		return fmt.Errorf("%w: %s", ErrPlayerExists, p.ID)
	}
	if p.Chips < 0 {
		return ErrInvalidChips
	}
	p.Seat = len(t.players)
	p.Seated = true
	p.Status = StatusWaiting
	if p.Chips == 0 {
		p.Status = StatusOut
	}
	t.players = append(t.players, p)
	return nil
}

func (t *Table) remove(id string) error {
	if t.inHand {
		return ErrHandInProgress
	}
	idx := -1
	for i, p := range t.players {
		if p.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrPlayerNotFound, id)
	}
	t.players = append(t.players[:idx], t.players[idx+1:]...)
	for i, p := range t.players {
		p.Seat = i
	}
	// Keep the button on the seat before the gap so it advances to the
	// player who took the removed seat's turn.
	if idx <= t.dealer {
		t.dealer--
	}
	return nil
}

// nextSeat returns the first seat after from (wrapping, and ending on from
// itself) whose player satisfies pred, or -1.
func (t *Table) nextSeat(from int, pred func(*Player) bool) int {
	n := len(t.players)
	if n == 0 {
		return -1
	}
	for i := 1; i <= n; i++ {
		idx := ((from+i)%n + n) % n
		if pred(t.players[idx]) {
			return idx
		}
	}
	return -1
}

func (t *Table) count(pred func(*Player) bool) int {
	n := 0
	for _, p := range t.players {
		if pred(p) {
			n++
		}
	}
	return n
}

func (t *Table) totalBets() int {
	sum := 0
	for _, p := range t.players {
		sum += p.TotalBet
	}
	return sum
}

// commit moves chips from a player's stack into the pot. A player left with
// no chips is all-in.
func (t *Table) commit(p *Player, amount int) {
	p.Chips -= amount
	p.Bet += amount
	p.TotalBet += amount
	t.pot += amount
	if p.Chips == 0 && p.Status == StatusPlaying {
		p.Status = StatusAllIn
	}
}

// resetRound starts a fresh betting round.
func (t *Table) resetRound() {
	t.currentBet = 0
	t.lastRaise = t.cfg.BigBlind
	for _, p := range t.players {
		p.Bet = 0
		p.HasActed = false
	}
}

// roundComplete reports whether every player who can act has acted and
// matched the current bet.
func (t *Table) roundComplete() bool {
	for _, p := range t.players {
		if p.CanAct() && (!p.HasActed || p.Bet != t.currentBet) {
			return false
		}
	}
	return true
}

// reopen gives every other player who can still act another turn.
func (t *Table) reopen(raiser *Player) {
	for _, p := range t.players {
		if p != raiser && p.CanAct() {
			p.HasActed = false
		}
	}
}

func (t *Table) context(p *Player) ActionContext {
	ctx := ActionContext{
		Stage:      t.stage,
		CurrentBet: t.currentBet,
		MinRaise:   t.minRaise(),
	}
	if p != nil {
		ctx.PlayerBet = p.Bet
		ctx.Chips = p.Chips
		ctx.ToCall = max(0, t.currentBet-p.Bet)
		ctx.MaxRaise = max(0, p.Chips-ctx.ToCall)
	}
	return ctx
}

func isPlaying(p *Player) bool { return p.CanAct() }
func isInHand(p *Player) bool  { return p.InHand() }
