// Package simulator plays hands headlessly between policies and checks the
// table's books after every hand.
package simulator

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/pokerengine/internal/config"
	"github.com/lox/pokerengine/internal/game"
	"github.com/lox/pokerengine/internal/handid"
	"github.com/lox/pokerengine/internal/policy"
	"github.com/lox/pokerengine/internal/randutil"
	"github.com/lox/pokerengine/internal/statistics"
)

// maxActionsPerHand stops a hand that fails to terminate.
const maxActionsPerHand = 1000

// Seat is one simulated player.
type Seat struct {
	Name   string
	Chips  int
	Policy game.Policy
}

// Config holds configuration for running simulations
type Config struct {
	Hands  int
	Seed   int64
	Table  game.TableConfig
	Seats  []Seat
	Clock  quartz.Clock
	Logger *log.Logger
	Bus    game.EventBus // optional observer of every engine event
}

// PlayerReport is one player's standing at the end of a run.
type PlayerReport struct {
	ID         string                 `json:"id"`
	Name       string                 `json:"name"`
	StartChips int                    `json:"start_chips"`
	EndChips   int                    `json:"end_chips"`
	HandsWon   int                    `json:"hands_won"`
	Stats      *statistics.Statistics `json:"stats"`
}

// Net is the player's chip result over the run.
func (p PlayerReport) Net() int {
	return p.EndChips - p.StartChips
}

// Report summarises a run.
type Report struct {
	Seed         int64          `json:"seed"`
	HandsPlayed  int            `json:"hands_played"`
	Actions      int            `json:"actions"`
	Fallbacks    int            `json:"fallbacks"` // decisions the engine had to replace
	StoppedEarly bool           `json:"stopped_early"`
	TotalChips   int            `json:"total_chips"`
	Players      []PlayerReport `json:"players"`
	Labels       map[string]int `json:"labels"` // hands by result label
}

// Run plays up to cfg.Hands hands. It stops early, without error, once fewer
// than two players have chips.
func Run(ctx context.Context, cfg Config) (*Report, error) {
	if len(cfg.Seats) < 2 {
		return nil, fmt.Errorf("%w: %d seats configured", game.ErrNotEnoughPlayers, len(cfg.Seats))
	}
	if cfg.Logger == nil {
		cfg.Logger = log.New(io.Discard)
	}
	if cfg.Clock == nil {
		cfg.Clock = quartz.NewReal()
	}
	if cfg.Bus == nil {
		cfg.Bus = game.NewEventBus()
	}

	rng := randutil.New(cfg.Seed)
	engine := game.NewEngine(game.NewTable(cfg.Table),
		game.WithRNG(randutil.Child(rng)),
		game.WithHandIDs(handid.NewGenerator(randutil.Reader(randutil.Child(rng)))),
		game.WithLogger(cfg.Logger),
		game.WithClock(cfg.Clock),
		game.WithEventBus(cfg.Bus))

	s := &run{
		engine:   engine,
		policies: make(map[string]game.Policy, len(cfg.Seats)),
		names:    make(map[string]string, len(cfg.Seats)),
		stats:    statistics.NewCollector(cfg.Table.BigBlind),
		report:   &Report{Seed: cfg.Seed, Labels: make(map[string]int)},
	}
	for _, seat := range cfg.Seats {
		id, err := engine.Seat(seat.Name, seat.Chips)
		if err != nil {
			return nil, fmt.Errorf("seat %s: %w", seat.Name, err)
		}
		s.policies[id] = seat.Policy
		s.names[id] = seat.Name
		s.order = append(s.order, id)
	}
	s.report.TotalChips = engine.TotalChips()
	start := s.stacks()

	var stage string
	cfg.Bus.Subscribe(game.SubscriberFunc(func(event game.GameEvent) {
		switch e := event.(type) {
		case game.StageChangeEvent:
			if e.Stage != game.Showdown {
				stage = e.Stage.String()
			}
		case game.PlayerActionEvent:
			s.report.Actions++
			if e.Fallback {
				s.report.Fallbacks++
			}
		}
	}))

	for hand := 0; hand < cfg.Hands; hand++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		before := s.stacks()
		stage = game.Preflop.String()

		if err := engine.StartHand(); err != nil {
			if errors.Is(err, game.ErrNotEnoughPlayers) {
				s.report.StoppedEarly = true
				cfg.Logger.Info("Stopping, not enough players with chips", "hand", hand+1)
				break
			}
			return nil, fmt.Errorf("start hand %d: %w", hand+1, err)
		}
		if err := s.playHand(ctx); err != nil {
			return nil, fmt.Errorf("hand %d (%s): %w", hand+1, engine.HandID(), err)
		}

		if got := engine.TotalChips(); got != s.report.TotalChips {
			return nil, fmt.Errorf("hand %d (%s): chips not conserved: %d != %d",
				hand+1, engine.HandID(), got, s.report.TotalChips)
		}
		s.record(before, stage)
		s.report.HandsPlayed++
	}

	if err := s.stats.Validate(); err != nil {
		return nil, fmt.Errorf("statistics validation failed: %w", err)
	}

	end := s.stacks()
	for _, id := range s.order {
		stats, ok := s.stats.Player(id)
		if !ok {
			stats = statistics.New(cfg.Table.BigBlind)
		}
		won := stats.ShowdownWins + stats.NonShowdownWins
		s.report.Players = append(s.report.Players, PlayerReport{
			ID:         id,
			Name:       s.names[id],
			StartChips: start[id],
			EndChips:   end[id],
			HandsWon:   won,
			Stats:      stats,
		})
	}
	return s.report, nil
}

type run struct {
	engine   *game.Engine
	policies map[string]game.Policy
	names    map[string]string
	order    []string
	stats    *statistics.Collector
	report   *Report
}

func (s *run) stacks() map[string]int {
	out := make(map[string]int, len(s.order))
	for _, p := range s.engine.Players() {
		out[p.ID] = p.Chips
	}
	return out
}

// playHand asks each actor's policy in turn until the hand settles.
func (s *run) playHand(ctx context.Context) error {
	for n := 0; s.engine.HandInProgress(); n++ {
		if n >= maxActionsPerHand {
			return fmt.Errorf("no result after %d actions", n)
		}
		id, ok := s.engine.Actor()
		if !ok {
			return errors.New("hand in progress with nobody to act")
		}
		view := s.engine.Snapshot(id)
		decision, err := s.policies[id].Decide(ctx, view)
		if err != nil {
			return fmt.Errorf("policy for %s: %w", s.names[id], err)
		}
		if _, err := s.engine.ApplyDecision(id, decision); err != nil {
			return err
		}
	}
	return nil
}

func (s *run) record(before map[string]int, stage string) {
	result, ok := s.engine.Result()
	if !ok {
		return
	}
	s.report.Labels[result.Label]++

	after := s.stacks()
	for _, p := range s.engine.Players() {
		if before[p.ID] == 0 || len(p.Hand) == 0 {
			continue // sat this hand out
		}
		s.stats.Add(statistics.HandResult{
			HandID:         result.HandID,
			PlayerID:       p.ID,
			Seat:           p.Seat,
			NetChips:       after[p.ID] - before[p.ID],
			WentToShowdown: !result.Uncontested,
			Won:            result.Won(p.ID) > 0,
			PotChips:       result.Pot,
			StageReached:   stage,
		})
	}
}

// FromConfig builds a run configuration from a loaded file. Each player's
// policy is wrapped in a policy.Guard with the configured timeout.
func FromConfig(cfg *config.Config, hands int, logger *log.Logger, clock quartz.Clock) (Config, error) {
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if clock == nil {
		clock = quartz.NewReal()
	}

	seed := cfg.Table.Seed
	if seed == 0 {
		_, seed = randutil.NewTimeSeeded()
	}
	policyRNG := randutil.New(seed ^ 0x5eed)

	out := Config{
		Hands: hands,
		Seed:  seed,
		Table: game.TableConfig{
			SmallBlind: cfg.Table.SmallBlind,
			BigBlind:   cfg.Table.BigBlind,
			MaxSeats:   cfg.Table.MaxSeats,
		},
		Clock:  clock,
		Logger: logger,
	}
	for _, p := range cfg.Players {
		inner, err := policy.New(p.Strategy, randutil.Child(policyRNG))
		if err != nil {
			return Config{}, fmt.Errorf("player %s: %w", p.Name, err)
		}
		guarded := policy.NewGuard(p.Name, inner,
			policy.WithTimeout(p.TimeoutDuration()),
			policy.WithClock(clock),
			policy.WithGuardLogger(logger.With("player", p.Name)))
		out.Seats = append(out.Seats, Seat{Name: p.Name, Chips: p.Chips, Policy: guarded})
	}
	return out, nil
}
