// Package eventbus implements a minimal synchronous publish/subscribe
// bus: handlers run on the publisher's goroutine, in registration order,
// for every matching topic.
package eventbus

import (
	"sync"

	"github.com/google/uuid"
)

// Event is one published notification: a topic name plus an opaque,
// topic-specific payload.
type Event struct {
	Topic   string
	Payload any
}

// Handler receives published events.
type Handler func(Event)

// Subscription identifies a registered handler for Unsubscribe.
type Subscription string

type registration struct {
	id    Subscription
	topic string
	fn    Handler
}

// Bus is one event bus instance. The zero value is not usable; use New.
type Bus struct {
	mu   sync.Mutex
	regs []registration
}

// New builds an empty Bus.
func New() *Bus { return &Bus{} }

// Subscribe registers fn for topic, returning a Subscription handle for
// Unsubscribe. An empty topic subscribes to every event.
func (b *Bus) Subscribe(topic string, fn Handler) Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := Subscription(uuid.NewString())
	b.regs = append(b.regs, registration{id: id, topic: topic, fn: fn})
	return id
}

// Unsubscribe removes a previously registered handler. It is a no-op if
// id is unknown.
func (b *Bus) Unsubscribe(id Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, r := range b.regs {
		if r.id == id {
			b.regs = append(b.regs[:i], b.regs[i+1:]...)
			return
		}
	}
}

// Publish delivers ev to every subscriber whose topic matches (or who
// subscribed with an empty topic), in registration order, synchronously
// on the calling goroutine.
func (b *Bus) Publish(ev Event) {
	b.mu.Lock()
	matched := make([]Handler, 0, len(b.regs))
	for _, r := range b.regs {
		if r.topic == "" || r.topic == ev.Topic {
			matched = append(matched, r.fn)
		}
	}
	b.mu.Unlock()

	for _, fn := range matched {
		fn(ev)
	}
}
