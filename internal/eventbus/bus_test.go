package eventbus_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/geohub/geod/internal/eventbus"
)

func TestPublishDeliversToMatchingSubscriber(t *testing.T) {
	bus := eventbus.New()
	ch, cancel := bus.Subscribe(eventbus.ForParticipant("alice"))
	defer cancel()

	bus.Publish(eventbus.Event{
		Type:         eventbus.PaymentCommitted,
		Equivalent:   "USD",
		Participants: []string{"alice", "bob"},
		Timestamp:    time.Unix(0, 0),
	})

	select {
	case ev := <-ch:
		require.Equal(t, eventbus.PaymentCommitted, ev.Type)
	case <-time.After(time.Second):
		t.Fatal("expected event, got none")
	}
}

func TestPublishSkipsNonMatchingSubscriber(t *testing.T) {
	bus := eventbus.New()
	ch, cancel := bus.Subscribe(eventbus.ForParticipant("carol"))
	defer cancel()

	bus.Publish(eventbus.Event{
		Type:         eventbus.PaymentCommitted,
		Equivalent:   "USD",
		Participants: []string{"alice", "bob"},
		Timestamp:    time.Unix(0, 0),
	})

	select {
	case ev := <-ch:
		t.Fatalf("unexpected event delivered: %+v", ev)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestPublishFiltersByType(t *testing.T) {
	bus := eventbus.New()
	ch, cancel := bus.Subscribe(eventbus.ForTypes(eventbus.ClearingCommitted))
	defer cancel()

	bus.Publish(eventbus.Event{Type: eventbus.PaymentCommitted, Equivalent: "USD", Timestamp: time.Unix(0, 0)})
	bus.Publish(eventbus.Event{Type: eventbus.ClearingCommitted, Equivalent: "USD", Timestamp: time.Unix(0, 0)})

	select {
	case ev := <-ch:
		require.Equal(t, eventbus.ClearingCommitted, ev.Type)
	case <-time.After(time.Second):
		t.Fatal("expected clearing event, got none")
	}
}

func TestCancelRemovesSubscriber(t *testing.T) {
	bus := eventbus.New()
	_, cancel := bus.Subscribe(nil)
	require.Equal(t, 1, bus.SubscriberCount())
	cancel()
	require.Equal(t, 0, bus.SubscriberCount())
}

func TestPublishDropsOnFullSubscriberChannel(t *testing.T) {
	bus := eventbus.New()
	ch, cancel := bus.Subscribe(nil)
	defer cancel()

	// Flood well past the subscriber buffer without draining; Publish
	// must not block even though nothing is reading ch.
	done := make(chan struct{})
	go func() {
		for i := 0; i < 1000; i++ {
			bus.Publish(eventbus.Event{Type: eventbus.PaymentCommitted, Timestamp: time.Unix(0, 0)})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Publish blocked on a full subscriber channel")
	}
	<-ch
}
