package eventbus

import (
	"context"
	"sync"
)

type envelope struct {
	event   Event
	payload any
}

// EventBus delivers published events to subscribers on a single dispatch
// goroutine started by Start. Publishing never blocks; events published while
// the buffer is full are dropped.
type EventBus struct {
	ch    chan envelope
	hooks hooks

	mu   sync.RWMutex
	subs map[Event][]func(any)
}

// New creates a bus with the given buffer size.
func New(buffer int) *EventBus {
	return &EventBus{
		ch:   make(chan envelope, buffer),
		subs: map[Event][]func(any){},
	}
}

// Start dispatches events until ctx is done.
func (bus *EventBus) Start(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case env := <-bus.ch:
			bus.dispatch(env)
		}
	}
}

func (bus *EventBus) dispatch(env envelope) {
	bus.mu.RLock()
	subs := make([]func(any), len(bus.subs[env.event]))
	copy(subs, bus.subs[env.event])
	bus.mu.RUnlock()

	for _, fn := range subs {
		func() {
			defer func() {
				if r := recover(); r != nil {
					bus.notifyPanic(env.event, env.payload, r)
				}
			}()
			fn(env.payload)
		}()
	}
}

func (bus *EventBus) subscribe(event Event, fn func(any)) {
	bus.mu.Lock()
	bus.subs[event] = append(bus.subs[event], fn)
	bus.mu.Unlock()
}

// subscribeTyped adapts a typed handler to the untyped subscriber list.
func subscribeTyped[P any](bus *EventBus, event Event, fn func(P)) {
	bus.subscribe(event, func(payload any) {
		if p, ok := payload.(P); ok {
			fn(p)
		}
	})
}

func (bus *EventBus) PublishTaskCreated(p TaskCreatedPayload) { bus.send(EventTaskCreated, p) }

func (bus *EventBus) PublishTaskUpdated(p TaskUpdatedPayload) { bus.send(EventTaskUpdated, p) }

func (bus *EventBus) PublishTaskDeleted(p TaskDeletedPayload) { bus.send(EventTaskDeleted, p) }

func (bus *EventBus) PublishItemRated(p ItemRatedPayload) { bus.send(EventItemRated, p) }

func (bus *EventBus) SubscribeTaskCreated(fn func(TaskCreatedPayload)) {
	subscribeTyped(bus, EventTaskCreated, fn)
}

func (bus *EventBus) SubscribeTaskUpdated(fn func(TaskUpdatedPayload)) {
	subscribeTyped(bus, EventTaskUpdated, fn)
}

func (bus *EventBus) SubscribeTaskDeleted(fn func(TaskDeletedPayload)) {
	subscribeTyped(bus, EventTaskDeleted, fn)
}

func (bus *EventBus) SubscribeItemRated(fn func(ItemRatedPayload)) {
	subscribeTyped(bus, EventItemRated, fn)
}
