package events

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBus_EmitReachesSubscribers(t *testing.T) {
	bus := NewBus()
	received := make(chan Event, 1)

	bus.Subscribe(EventTypeBalanceChange, func(ctx context.Context, event Event) {
		received <- event
	})

	bus.Emit(context.Background(), BalanceChangeEvent{UserID: "123", ChangeAmount: 50})

	select {
	case event := <-received:
		e, ok := event.(BalanceChangeEvent)
		assert.True(t, ok)
		assert.Equal(t, "123", e.UserID)
		assert.Equal(t, int64(50), e.ChangeAmount)
	case <-time.After(time.Second):
		t.Fatal("handler was not invoked")
	}
}

func TestBus_EmitOnlyMatchingType(t *testing.T) {
	bus := NewBus()
	received := make(chan Event, 1)

	bus.Subscribe(EventTypeLevelUp, func(ctx context.Context, event Event) {
		received <- event
	})

	bus.Emit(context.Background(), DailyClaimedEvent{UserID: "123"})

	select {
	case <-received:
		t.Fatal("handler for a different event type was invoked")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestBus_PanickingHandlerDoesNotStopOthers(t *testing.T) {
	bus := NewBus()
	received := make(chan struct{}, 1)

	bus.Subscribe(EventTypeGamePlayed, func(ctx context.Context, event Event) {
		panic("boom")
	})
	bus.Subscribe(EventTypeGamePlayed, func(ctx context.Context, event Event) {
		received <- struct{}{}
	})

	bus.Emit(context.Background(), GamePlayedEvent{UserID: "123", Game: "slots"})

	select {
	case <-received:
	case <-time.After(time.Second):
		t.Fatal("second handler was not invoked")
	}
}
