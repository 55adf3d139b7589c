package key

import (
	"fmt"
	"time"
)

// EventKind distinguishes key presses from key releases.
type EventKind uint8

const (
	// KeyDown is a key press (or auto-repeat while held, see Event.Repeat).
	KeyDown EventKind = iota

	// KeyUp is a key release.
	KeyUp
)

// String returns a human-readable name for the event kind.
func (k EventKind) String() string {
	switch k {
	case KeyDown:
		return "down"
	case KeyUp:
		return "up"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Event is one raw keyboard transition delivered by an event source.
type Event struct {
	// Name is the key name as reported by the source, not yet normalized.
	Name string

	// Kind is the transition direction.
	Kind EventKind

	// Repeat marks an auto-repeat key-down generated while the key is held.
	Repeat bool

	// When is the time the source observed the transition.
	When time.Time
}

// Down creates a key-down event with the current timestamp.
func Down(name string) Event {
	return Event{Name: name, Kind: KeyDown, When: time.Now()}
}

// Up creates a key-up event with the current timestamp.
func Up(name string) Event {
	return Event{Name: name, Kind: KeyUp, When: time.Now()}
}

// Token returns the canonical token for the event's key name.
func (e Event) Token() string {
	return Normalize(e.Name)
}

// String returns a compact description for logs.
func (e Event) String() string {
	if e.Repeat {
		return fmt.Sprintf("%s %s (repeat)", e.Token(), e.Kind)
	}
	return fmt.Sprintf("%s %s", e.Token(), e.Kind)
}
