// Package testbus runs a real EventBus in tests and records what it
// delivers.
package testbus

import (
	"context"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/colonyops/assess/internal/core/eventbus"
)

// Delivery is one event as seen by a subscriber.
type Delivery struct {
	Event   eventbus.Event
	Payload any
}

// Bus embeds the bus under test so callers publish on it directly.
type Bus struct {
	*eventbus.EventBus

	mu   sync.Mutex
	seen []Delivery
}

// New starts a bus subscribed to every event type. It stops at test cleanup.
func New(t *testing.T) *Bus {
	t.Helper()

	tb := &Bus{EventBus: eventbus.New(64)}
	record(tb, eventbus.EventTaskCreated, tb.SubscribeTaskCreated)
	record(tb, eventbus.EventTaskUpdated, tb.SubscribeTaskUpdated)
	record(tb, eventbus.EventTaskDeleted, tb.SubscribeTaskDeleted)
	record(tb, eventbus.EventItemRated, tb.SubscribeItemRated)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go tb.Start(ctx)

	return tb
}

func record[P any](tb *Bus, event eventbus.Event, subscribe func(func(P))) {
	subscribe(func(p P) {
		tb.mu.Lock()
		tb.seen = append(tb.seen, Delivery{Event: event, Payload: p})
		tb.mu.Unlock()
	})
}

// Events returns the deliveries so far, oldest first.
func (tb *Bus) Events() []Delivery {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	return slices.Clone(tb.seen)
}

func (tb *Bus) delivered(event eventbus.Event) bool {
	return slices.ContainsFunc(tb.Events(), func(d Delivery) bool { return d.Event == event })
}

// AssertPublished fails t unless event is delivered within half a second.
func (tb *Bus) AssertPublished(t *testing.T, event eventbus.Event) {
	t.Helper()
	assert.Eventually(t, func() bool { return tb.delivered(event) }, 500*time.Millisecond, 5*time.Millisecond,
		"event %q was not published", event)
}

// AssertNotPublished fails t if event is delivered within wait.
func (tb *Bus) AssertNotPublished(t *testing.T, event eventbus.Event, wait time.Duration) {
	t.Helper()
	assert.Never(t, func() bool { return tb.delivered(event) }, wait, 5*time.Millisecond,
		"event %q was published", event)
}
