package eventbus

import (
	"log"
	"sync"
)

// subscriberBuffer bounds each subscriber's outgoing channel, matching
// the teacher's per-connection SendChannel sizing.
const subscriberBuffer = 256

// Filter decides whether a subscriber wants ev. A nil Filter matches
// everything.
type Filter func(ev Event) bool

// ForParticipant returns a Filter matching events that involve pid.
func ForParticipant(pid string) Filter {
	return func(ev Event) bool { return ev.Involves(pid) }
}

// ForTypes returns a Filter matching events of any of the given types.
func ForTypes(types ...Type) Filter {
	set := make(map[Type]bool, len(types))
	for _, t := range types {
		set[t] = true
	}
	return func(ev Event) bool { return set[ev.Type] }
}

type subscriber struct {
	id     uint64
	ch     chan Event
	filter Filter
	closed chan struct{}
}

// Bus is the in-process event fan-out at the center of the network's
// event-emission seam. Payment and clearing call Publish; the gRPC
// server (and anything else in-process) calls Subscribe. Each
// subscriber gets its own buffered channel, written to by whichever
// goroutine calls Publish — a single logical writer per subscriber,
// same as the teacher's per-connection SendChannel.
type Bus struct {
	mu     sync.RWMutex
	subs   map[uint64]*subscriber
	nextID uint64
}

func New() *Bus {
	return &Bus{subs: make(map[uint64]*subscriber)}
}

// Subscribe registers a new subscriber matching filter (nil for
// everything) and returns a receive channel and a cancel func. The
// caller must keep draining the channel or call cancel; a full channel
// causes the bus to drop events for that subscriber rather than block
// publishers.
func (b *Bus) Subscribe(filter Filter) (<-chan Event, func()) {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	sub := &subscriber{
		id:     id,
		ch:     make(chan Event, subscriberBuffer),
		filter: filter,
		closed: make(chan struct{}),
	}
	b.subs[id] = sub
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		if _, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(sub.closed)
		}
		b.mu.Unlock()
	}
	return sub.ch, cancel
}

// Publish fans ev out to every subscriber whose filter matches. A
// subscriber whose channel is full is skipped for this event rather
// than blocking the publisher.
func (b *Bus) Publish(ev Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, sub := range b.subs {
		if sub.filter != nil && !sub.filter(ev) {
			continue
		}
		select {
		case sub.ch <- ev:
		case <-sub.closed:
		default:
			log.Printf("eventbus: dropping %s for slow subscriber %d", ev.Type, sub.id)
		}
	}
}

// SubscriberCount returns the number of active subscribers, for
// operational visibility.
func (b *Bus) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
