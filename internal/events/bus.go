package events

import (
	"context"
	"sync"

	"github.com/kcjpm/kcjpm/internal/domain"
)

// Listener receives events synchronously, in emission order, from whichever
// goroutine called Bus.Publish.
type Listener func(Event)

// Bus is a single-producer, multi-consumer dispatcher: one build emits
// events from one pipeline goroutine at a time, and every registered
// listener observes the full stream in order. Registration is expected to
// happen before Start and is not safe to call concurrently with Publish,
// matching how the teacher wires up logging/metrics observers once at
// startup rather than dynamically during a run.
type Bus struct {
	mu        sync.Mutex
	listeners []Listener
	log       domain.Logger
	started   bool
}

// NewBus returns an empty event bus. log is used to report a listener panic
// without letting it crash the build.
func NewBus(log domain.Logger) *Bus {
	return &Bus{log: log}
}

// Subscribe registers a listener. Panics if called after Start to keep the
// listener set stable for the life of a build.
func (b *Bus) Subscribe(l Listener) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.started {
		panic("events: Subscribe called after Start")
	}
	b.listeners = append(b.listeners, l)
}

// Start freezes the listener set. Subsequent Subscribe calls panic.
func (b *Bus) Start() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.started = true
}

// Publish dispatches ev to every listener in registration order. A listener
// panic is recovered and logged at warn rather than propagated, so one
// misbehaving observer (e.g. a broken progress renderer) never aborts the
// build itself.
func (b *Bus) Publish(ctx context.Context, ev Event) {
	b.mu.Lock()
	listeners := b.listeners
	b.mu.Unlock()

	for _, l := range listeners {
		b.dispatchOne(ctx, l, ev)
	}
}

func (b *Bus) dispatchOne(ctx context.Context, l Listener, ev Event) {
	defer func() {
		if r := recover(); r != nil {
			if b.log != nil {
				b.log.Warn(ctx, "event listener panicked", "recovered", r, "event_kind", ev.Kind)
			}
		}
	}()
	l(ev)
}
