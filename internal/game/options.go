package game

import (
	"math/rand/v2"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/pokerengine/internal/handid"
	"github.com/lox/pokerengine/poker"
)

// Option configures an Engine during creation.
type Option func(*Engine)

// WithRNG sets the random source used to shuffle each hand's deck.
func WithRNG(rng *rand.Rand) Option {
	return func(e *Engine) {
		e.rng = rng
	}
}

// WithDeck queues pre-arranged decks. Each StartHand consumes the next one;
// once the queue is empty, hands use freshly shuffled decks again.
func WithDeck(decks ...*poker.Deck) Option {
	return func(e *Engine) {
		e.decks = append(e.decks, decks...)
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *log.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithEventBus publishes hand events to bus instead of a private one.
func WithEventBus(bus EventBus) Option {
	return func(e *Engine) {
		e.bus = bus
	}
}

// WithClock sets the clock used to timestamp events.
func WithClock(clock quartz.Clock) Option {
	return func(e *Engine) {
		e.clock = clock
	}
}

// WithHandIDs sets the generator used to name hands.
func WithHandIDs(gen *handid.Generator) Option {
	return func(e *Engine) {
		e.ids = gen
	}
}
