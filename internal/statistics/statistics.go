// Package statistics aggregates per-player results over many simulated hands.
package statistics

import (
	"fmt"
	"math"
	"slices"
	"sort"
)

// HandResult is one player's outcome in one hand.
type HandResult struct {
	HandID         string
	PlayerID       string
	Seat           int
	NetChips       int    // stack after the hand minus stack before it
	WentToShowdown bool   // the hand was decided by comparing cards
	Won            bool   // received chips from the pot
	PotChips       int    // total pot of the hand
	StageReached   string // last street dealt before settlement
}

// SeatStats accumulates results for one seat.
type SeatStats struct {
	Hands  int
	SumBB  float64
	SumBB2 float64
}

// Statistics tracks one player's results measured in big blinds.
type Statistics struct {
	BigBlind int

	Hands  int
	SumBB  float64
	SumBB2 float64   // sum of squares for the variance
	Values []float64 // every result, for median and percentiles

	ShowdownWins    int
	NonShowdownWins int
	ShowdownBB      float64 // net from hands that went to showdown, wins and losses
	NonShowdownBB   float64
	AllBB           float64

	Seats map[int]*SeatStats

	MaxPotChips int
	BigPots     int // pots of at least 50 big blinds
	BigPotsBB   float64

	Streets map[string]int // hands by furthest street
}

// New creates empty statistics for a table with the given big blind.
func New(bigBlind int) *Statistics {
	if bigBlind <= 0 {
		panic("big blind must be positive")
	}
	return &Statistics{
		BigBlind: bigBlind,
		Seats:    make(map[int]*SeatStats),
		Streets:  make(map[string]int),
	}
}

// Mean returns the average result in big blinds per hand
func (s *Statistics) Mean() float64 {
	if s.Hands == 0 {
		return 0
	}
	return s.SumBB / float64(s.Hands)
}

// Variance returns the sample variance of all results
func (s *Statistics) Variance() float64 {
	if s.Hands < 2 {
		return 0
	}
	mean := s.Mean()
	return (s.SumBB2 - float64(s.Hands)*mean*mean) / float64(s.Hands-1)
}

// StdDev returns the sample standard deviation of all results
func (s *Statistics) StdDev() float64 {
	return math.Sqrt(s.Variance())
}

// StdError returns the standard error of the mean
func (s *Statistics) StdError() float64 {
	if s.Hands == 0 {
		return 0
	}
	return s.StdDev() / math.Sqrt(float64(s.Hands))
}

// ConfidenceInterval95 returns the 95% confidence interval for the mean
func (s *Statistics) ConfidenceInterval95() (float64, float64) {
	mean := s.Mean()
	margin := 1.96 * s.StdError()
	return mean - margin, mean + margin
}

// BBPer100 is the win rate in big blinds per hundred hands.
func (s *Statistics) BBPer100() float64 {
	return s.Mean() * 100
}

// Add incorporates one hand result.
func (s *Statistics) Add(result HandResult) {
	netBB := float64(result.NetChips) / float64(s.BigBlind)
	s.Hands++
	s.SumBB += netBB
	s.SumBB2 += netBB * netBB
	s.Values = append(s.Values, netBB)

	if result.Won {
		if result.WentToShowdown {
			s.ShowdownWins++
		} else {
			s.NonShowdownWins++
		}
	}
	if result.WentToShowdown {
		s.ShowdownBB += netBB
	} else {
		s.NonShowdownBB += netBB
	}
	s.AllBB += netBB

	seat := s.Seats[result.Seat]
	if seat == nil {
		seat = &SeatStats{}
		s.Seats[result.Seat] = seat
	}
	seat.Hands++
	seat.SumBB += netBB
	seat.SumBB2 += netBB * netBB

	s.MaxPotChips = max(s.MaxPotChips, result.PotChips)
	if result.PotChips >= 50*s.BigBlind {
		s.BigPots++
		s.BigPotsBB += netBB
	}
	if result.StageReached != "" {
		s.Streets[result.StageReached]++
	}
}

// Median returns the median value of all results
func (s *Statistics) Median() float64 {
	return s.Percentile(0.5)
}

// Percentile returns the value at the given percentile (0.0 to 1.0)
func (s *Statistics) Percentile(p float64) float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := slices.Clone(s.Values)
	sort.Float64s(sorted)

	index := p * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1
	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}

	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// SeatMean returns the mean result from one seat.
func (s *Statistics) SeatMean(seat int) float64 {
	ss := s.Seats[seat]
	if ss == nil || ss.Hands == 0 {
		return 0
	}
	return ss.SumBB / float64(ss.Hands)
}

// IsLedgerBalanced checks the showdown split adds up to the total.
func (s *Statistics) IsLedgerBalanced() bool {
	return math.Abs(s.AllBB-s.ShowdownBB-s.NonShowdownBB) <= 1e-6
}

// Validate checks the aggregates are internally consistent.
func (s *Statistics) Validate() error {
	if !s.IsLedgerBalanced() {
		return fmt.Errorf("ledger mismatch: AllBB=%.6f, ShowdownBB=%.6f, NonShowdownBB=%.6f",
			s.AllBB, s.ShowdownBB, s.NonShowdownBB)
	}
	if len(s.Values) != s.Hands {
		return fmt.Errorf("values array length (%d) does not match hands count (%d)", len(s.Values), s.Hands)
	}
	if wins := s.ShowdownWins + s.NonShowdownWins; wins > s.Hands {
		return fmt.Errorf("total wins (%d) exceeds total hands (%d)", wins, s.Hands)
	}
	seatHands := 0
	for _, ss := range s.Seats {
		seatHands += ss.Hands
	}
	if seatHands != s.Hands {
		return fmt.Errorf("seat hands total (%d) does not match total hands (%d)", seatHands, s.Hands)
	}
	return nil
}

// Collector keeps Statistics for every player at a table.
type Collector struct {
	bigBlind int
	players  map[string]*Statistics
	order    []string
}

// NewCollector creates a collector for a table with the given big blind.
func NewCollector(bigBlind int) *Collector {
	return &Collector{bigBlind: bigBlind, players: make(map[string]*Statistics)}
}

// Add records a result under its player.
func (c *Collector) Add(result HandResult) {
	s, ok := c.players[result.PlayerID]
	if !ok {
		s = New(c.bigBlind)
		c.players[result.PlayerID] = s
		c.order = append(c.order, result.PlayerID)
	}
	s.Add(result)
}

// Player returns the statistics for one player.
func (c *Collector) Player(id string) (*Statistics, bool) {
	s, ok := c.players[id]
	return s, ok
}

// Players lists player ids in the order they first appeared.
func (c *Collector) Players() []string {
	return slices.Clone(c.order)
}

// NetChips sums every player's chip result; a closed table nets to zero.
func (c *Collector) NetChips() int {
	total := 0.0
	for _, s := range c.players {
		total += s.AllBB
	}
	return int(math.Round(total * float64(c.bigBlind)))
}

// Validate validates every player's statistics.
func (c *Collector) Validate() error {
	for _, id := range c.order {
		if err := c.players[id].Validate(); err != nil {
			return fmt.Errorf("player %s: %w", id, err)
		}
	}
	return nil
}
