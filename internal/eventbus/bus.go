// Package eventbus provides the in-process pub/sub channel that decouples
// command handlers from background consumers such as risk recomputation.
package eventbus

import (
	"context"
	"log"
	"sync"

	"github.com/matthewbaird/compliance/internal/event"
)

const defaultBufferSize = 256

// Handler consumes one event. Handlers run on the bus goroutine; slow
// handlers delay everything behind them.
type Handler func(ctx context.Context, ev event.DomainEvent)

type subscriber struct {
	name    string
	handler Handler
}

// Bus is a single-goroutine fan-out bus. Publish never blocks the caller:
// when the buffer is full the event is dropped and logged.
type Bus struct {
	mu     sync.Mutex
	subs   []subscriber
	ch     chan event.DomainEvent
	done   chan struct{}
	closed bool
}

func New() *Bus {
	return &Bus{
		ch:   make(chan event.DomainEvent, defaultBufferSize),
		done: make(chan struct{}),
	}
}

// Subscribe registers a named handler. Must be called before Start.
func (b *Bus) Subscribe(name string, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs = append(b.subs, subscriber{name: name, handler: h})
}

// Publish enqueues an event for delivery. Safe for concurrent use.
func (b *Bus) Publish(ev event.DomainEvent) {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.mu.Unlock()
	select {
	case b.ch <- ev:
	default:
		log.Printf("eventbus: buffer full, dropping %s (%s)", ev.EventType, ev.ID)
	}
}

// Start runs the delivery loop until ctx is cancelled, then drains any
// buffered events before returning.
func (b *Bus) Start(ctx context.Context) {
	go func() {
		defer close(b.done)
		for {
			select {
			case ev := <-b.ch:
				b.deliver(ctx, ev)
			case <-ctx.Done():
				b.mu.Lock()
				b.closed = true
				b.mu.Unlock()
				for {
					select {
					case ev := <-b.ch:
						b.deliver(context.Background(), ev)
					default:
						return
					}
				}
			}
		}
	}()
}

// Wait blocks until the delivery loop has exited.
func (b *Bus) Wait() {
	<-b.done
}

func (b *Bus) deliver(ctx context.Context, ev event.DomainEvent) {
	b.mu.Lock()
	subs := make([]subscriber, len(b.subs))
	copy(subs, b.subs)
	b.mu.Unlock()

	for _, s := range subs {
		func() {
			defer func() {
				if r := recover(); r != nil {
					log.Printf("eventbus: subscriber %s panicked on %s: %v", s.name, ev.EventType, r)
				}
			}()
			s.handler(ctx, ev)
		}()
	}
}
