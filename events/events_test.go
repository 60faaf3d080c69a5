package events

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTransactionalBus_FlushDeliversToSubscribers(t *testing.T) {
	mainBus := NewBus()
	transactionalBus := NewTransactionalBus(mainBus)

	received := make(chan LevelUpEvent, 1)
	mainBus.Subscribe(EventTypeLevelUp, func(ctx context.Context, event Event) {
		if levelUp, ok := event.(LevelUpEvent); ok {
			received <- levelUp
		} else {
			t.Errorf("Expected LevelUpEvent, got %T", event)
		}
	})

	testEvent := LevelUpEvent{
		GuildID:  100,
		UserID:   200,
		OldLevel: 1,
		NewLevel: 3,
		XP:       100,
		MaxXP:    900,
	}

	transactionalBus.Publish(testEvent)

	// Nothing reaches the bus before the flush
	select {
	case <-received:
		t.Fatal("Event delivered before flush")
	case <-time.After(50 * time.Millisecond):
	}

	transactionalBus.Flush(context.Background())

	select {
	case got := <-received:
		assert.Equal(t, testEvent, got)
	case <-time.After(2 * time.Second):
		t.Fatal("Event was not received within timeout")
	}
}

func TestTransactionalBus_DiscardDropsPendingEvents(t *testing.T) {
	mainBus := NewBus()
	transactionalBus := NewTransactionalBus(mainBus)

	received := make(chan Event, 1)
	mainBus.Subscribe(EventTypeLevelUp, func(ctx context.Context, event Event) {
		received <- event
	})

	transactionalBus.Publish(LevelUpEvent{GuildID: 100, UserID: 200})
	transactionalBus.Discard()
	transactionalBus.Flush(context.Background())

	select {
	case <-received:
		t.Fatal("Discarded event was delivered")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestBus_PanickingHandlerDoesNotStopOthers(t *testing.T) {
	bus := NewBus()

	received := make(chan Event, 1)
	bus.Subscribe(EventTypeNewVideo, func(ctx context.Context, event Event) {
		panic("handler bug")
	})
	bus.Subscribe(EventTypeNewVideo, func(ctx context.Context, event Event) {
		received <- event
	})

	bus.Emit(context.Background(), NewVideoEvent{GuildID: 100, VideoID: "abc"})

	select {
	case event := <-received:
		assert.Equal(t, "abc", event.(NewVideoEvent).VideoID)
	case <-time.After(2 * time.Second):
		t.Fatal("Second handler did not run")
	}
}
