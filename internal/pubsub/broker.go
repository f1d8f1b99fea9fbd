// Package pubsub relays events to any number of subscribers.
package pubsub

import (
	"context"
	"sync"

	"github.com/leg100/hutch/internal/resource"
)

// bufferSize is the number of events a subscriber may fall behind by before
// it is dropped.
const bufferSize = 1024

type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Broker publishes events of type T to subscribers.
type Broker[T any] struct {
	mu     sync.Mutex
	subs   map[chan resource.Event[T]]struct{}
	logger Logger
}

// NewBroker constructs a broker. The logger may be nil.
func NewBroker[T any](logger Logger) *Broker[T] {
	return &Broker[T]{
		subs:   make(map[chan resource.Event[T]]struct{}),
		logger: logger,
	}
}

// Subscribe returns a channel of events. The channel is closed once ctx is
// canceled, or if the subscriber falls too far behind.
func (b *Broker[T]) Subscribe(ctx context.Context) <-chan resource.Event[T] {
	ch := make(chan resource.Event[T], bufferSize)

	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.drop(ch)
	}()
	return ch
}

// Publish sends an event to every subscriber without blocking. Subscribers
// whose buffer is full are dropped.
func (b *Broker[T]) Publish(t resource.EventType, payload T) {
	event := resource.NewEvent(t, payload)

	var lagging []chan resource.Event[T]
	b.mu.Lock()
	for ch := range b.subs {
		select {
		case ch <- event:
		default:
			lagging = append(lagging, ch)
		}
	}
	b.mu.Unlock()

	for _, ch := range lagging {
		if b.logger != nil {
			b.logger.Error("dropping lagging subscriber", "event", t, "buffer_size", bufferSize)
		}
		b.drop(ch)
	}
}

// drop closes and removes a subscription. Dropping an already dropped
// subscription is a no-op.
func (b *Broker[T]) drop(ch chan resource.Event[T]) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.subs[ch]; ok {
		delete(b.subs, ch)
		close(ch)
	}
}
