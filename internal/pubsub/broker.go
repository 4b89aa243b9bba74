package pubsub

import (
	"context"
	"sync"
	"time"
)

// Snapshot events are small and redraws coalesce naturally, so a modest
// buffer absorbs bursts from rapid staging/search activity.
const subscriberBuffer = 64

// Broker delivers published events to every active subscriber. Delivery is
// best effort: a subscriber that cannot keep up loses events rather than
// stalling the publisher, which is safe here because every snapshot event
// carries the complete state.
type Broker[T any] struct {
	mu      sync.RWMutex
	subs    map[chan Event[T]]struct{}
	closed  bool
	bufSize int
}

// NewBroker creates a broker with the standard subscriber buffer.
func NewBroker[T any]() *Broker[T] {
	return newBrokerWithBuffer[T](subscriberBuffer)
}

func newBrokerWithBuffer[T any](size int) *Broker[T] {
	return &Broker[T]{
		subs:    make(map[chan Event[T]]struct{}),
		bufSize: size,
	}
}

// Subscribe registers a new subscriber and returns its event channel. The
// channel closes when ctx is cancelled or the broker shuts down. Subscribing
// to a closed broker yields an already-closed channel.
func (b *Broker[T]) Subscribe(ctx context.Context) <-chan Event[T] {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		ch := make(chan Event[T])
		close(ch)
		return ch
	}

	sub := make(chan Event[T], b.bufSize)
	b.subs[sub] = struct{}{}

	go func() {
		<-ctx.Done()
		b.mu.Lock()
		defer b.mu.Unlock()

		// Close already tore the subscription down.
		if b.closed {
			return
		}
		delete(b.subs, sub)
		close(sub)
	}()

	return sub
}

// Publish sends an event to every subscriber without blocking; subscribers
// with a full buffer skip this event. Publishing to a closed broker is a
// no-op.
func (b *Broker[T]) Publish(eventType EventType, payload T) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return
	}

	event := Event[T]{
		Type:      eventType,
		Payload:   payload,
		Timestamp: time.Now(),
	}

	for sub := range b.subs {
		select {
		case sub <- event:
		default:
		}
	}
}

// Close shuts the broker down and closes every subscriber channel. Safe to
// call more than once; the quit path and the program teardown both reach it.
func (b *Broker[T]) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true
	for sub := range b.subs {
		close(sub)
	}
	b.subs = nil
}

// SubscriberCount returns the number of active subscribers.
func (b *Broker[T]) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
