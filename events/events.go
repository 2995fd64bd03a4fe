package events

import (
	"context"
	"sync"

	log "github.com/sirupsen/logrus"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeBalanceChange EventType = "balance_change"
	EventTypeLevelUp       EventType = "level_up"
	EventTypeGamePlayed    EventType = "game_played"
	EventTypeDailyClaimed  EventType = "daily_claimed"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// BalanceChangeEvent represents a wallet or bank balance change
type BalanceChangeEvent struct {
	UserID       string
	Wallet       int64
	Bank         int64
	ChangeAmount int64 // positive for credits, negative for debits
	Reason       string
}

func (e BalanceChangeEvent) Type() EventType {
	return EventTypeBalanceChange
}

// LevelUpEvent represents an account crossing one or more level thresholds
type LevelUpEvent struct {
	UserID       string
	OldLevel     int
	NewLevel     int
	BonusPctGain float64
}

func (e LevelUpEvent) Type() EventType {
	return EventTypeLevelUp
}

// GamePlayedEvent represents a resolved casino round
type GamePlayedEvent struct {
	UserID    string
	Game      string
	BetAmount int64
	Outcome   string
	Payout    int64
	Forced    bool
}

func (e GamePlayedEvent) Type() EventType {
	return EventTypeGamePlayed
}

// DailyClaimedEvent represents a successful daily reward claim
type DailyClaimedEvent struct {
	UserID string
	Amount int64
	Streak int
}

func (e DailyClaimedEvent) Type() EventType {
	return EventTypeDailyClaimed
}

// Handler is a function that handles events
type Handler func(ctx context.Context, event Event)

// Bus manages event subscriptions and dispatching
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
}

// NewBus creates a new event bus
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[EventType][]Handler),
	}
}

// Subscribe adds a handler for a specific event type
func (b *Bus) Subscribe(eventType EventType, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)

	log.WithFields(log.Fields{
		"eventType":    eventType,
		"handlerCount": len(b.handlers[eventType]),
	}).Debug("Subscribed handler to event type")
}

// Emit publishes an event to all registered handlers
func (b *Bus) Emit(ctx context.Context, event Event) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers[event.Type()]))
	copy(handlers, b.handlers[event.Type()])
	b.mu.RUnlock()

	// Call handlers asynchronously to avoid blocking the mutator that
	// emitted the event.
	for i, handler := range handlers {
		go func(h Handler, handlerIndex int) {
			defer func() {
				if r := recover(); r != nil {
					log.WithFields(log.Fields{
						"eventType":    event.Type(),
						"handlerIndex": handlerIndex,
						"panic":        r,
					}).Error("Event handler panicked")
				}
			}()
			h(ctx, event)
		}(handler, i)
	}
}
