package game

import (
	"sync"
	"time"

	"github.com/lox/pokerengine/poker"
)

// EventType represents a game event type with type safety
type EventType string

const (
	EventTypeHandStart    EventType = "hand_start"
	EventTypeHandEnd      EventType = "hand_end"
	EventTypeStageChange  EventType = "stage_change"
	EventTypePlayerAction EventType = "player_action"
)

// String returns the string representation of the event type
func (et EventType) String() string {
	return string(et)
}

// GameEvent represents any event that occurs during a hand
type GameEvent interface {
	EventType() EventType
	Timestamp() time.Time
}

// HandStartEvent is published once blinds are posted and cards dealt
type HandStartEvent struct {
	HandID         string
	DealerSeat     int
	SmallBlindSeat int
	BigBlindSeat   int
	SmallBlind     int
	BigBlind       int
	Players        []PlayerView // hole cards omitted
	Pot            int
	timestamp      time.Time
}

func (e HandStartEvent) EventType() EventType { return EventTypeHandStart }
func (e HandStartEvent) Timestamp() time.Time { return e.timestamp }

// PlayerActionEvent is published after an action is applied
type PlayerActionEvent struct {
	HandID    string
	PlayerID  string
	Name      string
	Seat      int
	Stage     Stage
	Action    Action
	Amount    int // chips committed by this action
	Reason    string
	Fallback  bool // substituted for an illegal decision
	PotAfter  int
	timestamp time.Time
}

func (e PlayerActionEvent) EventType() EventType { return EventTypePlayerAction }
func (e PlayerActionEvent) Timestamp() time.Time { return e.timestamp }

// StageChangeEvent is published when community cards are dealt or the hand
// reaches showdown
type StageChangeEvent struct {
	HandID    string
	Stage     Stage
	Board     []poker.Card
	Pot       int
	timestamp time.Time
}

func (e StageChangeEvent) EventType() EventType { return EventTypeStageChange }
func (e StageChangeEvent) Timestamp() time.Time { return e.timestamp }

// HandEndEvent is published after settlement
type HandEndEvent struct {
	HandID    string
	Result    HandResult
	timestamp time.Time
}

func (e HandEndEvent) EventType() EventType { return EventTypeHandEnd }
func (e HandEndEvent) Timestamp() time.Time { return e.timestamp }

// EventSubscriber can subscribe to game events. OnEvent runs while the engine
// holds its lock, so it must not call back into the engine.
type EventSubscriber interface {
	OnEvent(event GameEvent)
}

// SubscriberFunc adapts a function to EventSubscriber.
type SubscriberFunc func(GameEvent)

// OnEvent calls f.
func (f SubscriberFunc) OnEvent(event GameEvent) { f(event) }

// EventBus manages event publishing and subscription
type EventBus interface {
	Subscribe(subscriber EventSubscriber)
	Unsubscribe(subscriber EventSubscriber)
	Publish(event GameEvent)
}

// SimpleEventBus is a synchronous in-memory event bus. Subscribers are called
// in subscription order.
type SimpleEventBus struct {
	mu          sync.RWMutex
	subscribers []EventSubscriber
}

// NewEventBus creates a new event bus
func NewEventBus() *SimpleEventBus {
	return &SimpleEventBus{}
}

// Subscribe adds a subscriber to receive events
func (bus *SimpleEventBus) Subscribe(subscriber EventSubscriber) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	bus.subscribers = append(bus.subscribers, subscriber)
}

// Unsubscribe removes a subscriber. Function subscribers cannot be compared
// and are never removed.
func (bus *SimpleEventBus) Unsubscribe(subscriber EventSubscriber) {
	if _, ok := subscriber.(SubscriberFunc); ok {
		return
	}
	bus.mu.Lock()
	defer bus.mu.Unlock()
	for i, sub := range bus.subscribers {
		if _, ok := sub.(SubscriberFunc); ok {
			continue
		}
		if sub == subscriber {
			bus.subscribers = append(bus.subscribers[:i], bus.subscribers[i+1:]...)
			return
		}
	}
}

// Publish sends an event to all subscribers
func (bus *SimpleEventBus) Publish(event GameEvent) {
	bus.mu.RLock()
	subs := append([]EventSubscriber(nil), bus.subscribers...)
	bus.mu.RUnlock()
	for _, subscriber := range subs {
		subscriber.OnEvent(event)
	}
}

// EventLog is a subscriber that keeps every event it sees, for tests and
// hand summaries.
type EventLog struct {
	mu     sync.Mutex
	events []GameEvent
}

// OnEvent records the event
func (l *EventLog) OnEvent(event GameEvent) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, event)
}

// Events returns a copy of the recorded events
func (l *EventLog) Events() []GameEvent {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]GameEvent(nil), l.events...)
}

// Actions returns the recorded player actions in order
func (l *EventLog) Actions() []PlayerActionEvent {
	var out []PlayerActionEvent
	for _, e := range l.Events() {
		if a, ok := e.(PlayerActionEvent); ok {
			out = append(out, a)
		}
	}
	return out
}

// Reset forgets every recorded event
func (l *EventLog) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = nil
}
