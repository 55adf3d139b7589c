package source

import (
	"sync"
	"time"

	"github.com/dshills/keyscope/internal/hotkey/key"
)

// Replay is a scripted event source. Events are delivered synchronously
// from the goroutine calling Press, Release, and friends, which makes
// test ordering deterministic. It is also the delivery path for events
// injected over the control socket.
type Replay struct {
	mu      sync.Mutex
	handler func(key.Event)
}

// NewReplay creates a replay source.
func NewReplay() *Replay {
	return &Replay{}
}

// Attach stores the handler. No events are delivered until the first
// Press or Release call.
func (r *Replay) Attach(handler func(key.Event)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.handler != nil {
		return ErrAlreadyAttached
	}
	r.handler = handler
	return nil
}

// Detach clears the handler. Subsequent presses are dropped.
func (r *Replay) Detach() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handler = nil
	return nil
}

// Attached reports whether a handler is attached.
func (r *Replay) Attached() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.handler != nil
}

// Press delivers a key-down for the named key.
func (r *Replay) Press(name string) {
	r.deliver(key.Down(name))
}

// Release delivers a key-up for the named key.
func (r *Replay) Release(name string) {
	r.deliver(key.Up(name))
}

// Hold delivers an auto-repeat key-down for the named key.
func (r *Replay) Hold(name string) {
	r.deliver(key.Event{Name: name, Kind: key.KeyDown, Repeat: true, When: time.Now()})
}

// Tap presses and releases each named key in order.
func (r *Replay) Tap(names ...string) {
	for _, name := range names {
		r.Press(name)
		r.Release(name)
	}
}

// Chord presses all named keys in order, then releases them in
// reverse, the way a human plays a combo.
func (r *Replay) Chord(names ...string) {
	for _, name := range names {
		r.Press(name)
	}
	for i := len(names) - 1; i >= 0; i-- {
		r.Release(names[i])
	}
}

// Deliver delivers a fully specified event.
func (r *Replay) Deliver(ev key.Event) {
	r.deliver(ev)
}

func (r *Replay) deliver(ev key.Event) {
	r.mu.Lock()
	handler := r.handler
	r.mu.Unlock()

	if handler != nil {
		handler(ev)
	}
}
