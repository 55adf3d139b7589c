package event

import (
	"sync"
	"sync/atomic"
	"time"
)

// Handler receives published events for one topic.
type Handler func(Event)

// Subscription identifies a handler for Unsubscribe.
type Subscription struct {
	topic Topic
	id    uint64
}

type subscriber struct {
	id uint64
	fn Handler
}

// Stats is a snapshot of bus counters.
type Stats struct {
	Published     uint64
	Delivered     uint64
	HandlerPanics uint64
}

// Bus delivers events synchronously to per-topic subscribers.
type Bus struct {
	mu     sync.RWMutex
	subs   map[Topic][]subscriber
	nextID uint64

	published     atomic.Uint64
	delivered     atomic.Uint64
	handlerPanics atomic.Uint64

	// panicHandler, if set, is told about recovered handler panics.
	panicHandler func(e Event, recovered any)
}

// Option configures a Bus.
type Option func(*Bus)

// WithPanicHandler reports recovered handler panics to fn.
func WithPanicHandler(fn func(e Event, recovered any)) Option {
	return func(b *Bus) { b.panicHandler = fn }
}

// NewBus creates an empty bus.
func NewBus(opts ...Option) *Bus {
	b := &Bus{subs: make(map[Topic][]subscriber)}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Subscribe registers fn for a topic and returns the subscription used to
// remove it.
func (b *Bus) Subscribe(topic Topic, fn Handler) (Subscription, error) {
	if fn == nil {
		return Subscription{}, ErrNilHandler
	}
	if topic == "" {
		return Subscription{}, ErrInvalidTopic
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	b.subs[topic] = append(b.subs[topic], subscriber{id: b.nextID, fn: fn})
	return Subscription{topic: topic, id: b.nextID}, nil
}

// Unsubscribe removes a subscription. Unknown subscriptions are a no-op.
func (b *Bus) Unsubscribe(sub Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()

	list := b.subs[sub.topic]
	for i, s := range list {
		if s.id == sub.id {
			b.subs[sub.topic] = append(list[:i], list[i+1:]...)
			return
		}
	}
}

// Publish delivers data to every subscriber of the topic on the calling
// goroutine. A panicking handler is recovered and counted; the remaining
// handlers still run.
func (b *Bus) Publish(topic Topic, data any) {
	b.mu.RLock()
	list := make([]subscriber, len(b.subs[topic]))
	copy(list, b.subs[topic])
	b.mu.RUnlock()

	b.published.Add(1)
	if len(list) == 0 {
		return
	}

	e := Event{
		ID:    generateID(),
		Topic: topic,
		Time:  time.Now(),
		Data:  data,
	}
	for _, s := range list {
		b.deliver(e, s.fn)
	}
}

func (b *Bus) deliver(e Event, fn Handler) {
	defer func() {
		if r := recover(); r != nil {
			b.handlerPanics.Add(1)
			if b.panicHandler != nil {
				b.panicHandler(e, r)
			}
		}
	}()
	fn(e)
	b.delivered.Add(1)
}

// Stats returns the current counters.
func (b *Bus) Stats() Stats {
	return Stats{
		Published:     b.published.Load(),
		Delivered:     b.delivered.Load(),
		HandlerPanics: b.handlerPanics.Load(),
	}
}
