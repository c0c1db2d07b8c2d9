package eventbus

import "sync"

// hookList is a concurrency-safe list of observer callbacks.
type hookList[F any] struct {
	mu  sync.RWMutex
	fns []F
}

func (h *hookList[F]) add(fn F) {
	h.mu.Lock()
	h.fns = append(h.fns, fn)
	h.mu.Unlock()
}

func (h *hookList[F]) snapshot() []F {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return append([]F(nil), h.fns...)
}

// hooks observes the bus itself rather than individual events.
type hooks struct {
	published hookList[func(Event, any)]
	dropped   hookList[func(Event, any)]
	panicked  hookList[func(Event, any, any)]
}

// OnPublish registers fn to run after an event is queued for dispatch.
func (bus *EventBus) OnPublish(fn func(event Event, payload any)) { bus.hooks.published.add(fn) }

// OnDrop registers fn to run when an event is discarded because the buffer
// is full.
func (bus *EventBus) OnDrop(fn func(event Event, payload any)) { bus.hooks.dropped.add(fn) }

// OnPanic registers fn to run when a subscriber panics. A panicking hook is
// ignored.
func (bus *EventBus) OnPanic(fn func(event Event, payload, recovered any)) {
	bus.hooks.panicked.add(fn)
}

// send queues an event without blocking.
func (bus *EventBus) send(event Event, payload any) {
	observers := bus.hooks.dropped.snapshot
	select {
	case bus.ch <- envelope{event: event, payload: payload}:
		observers = bus.hooks.published.snapshot
	default:
	}

	for _, fn := range observers() {
		fn(event, payload)
	}
}

func (bus *EventBus) notifyPanic(event Event, payload, recovered any) {
	for _, fn := range bus.hooks.panicked.snapshot() {
		func() {
			defer func() { _ = recover() }()
			fn(event, payload, recovered)
		}()
	}
}
