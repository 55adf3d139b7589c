package hotkey

import (
	"sort"

	"github.com/dshills/keyscope/internal/hotkey/key"
)

// HookPriority orders hook execution. Lower values run first.
type HookPriority int

const (
	// HookPriorityHigh runs early in the chain.
	HookPriorityHigh HookPriority = -100
	// HookPriorityNormal is the default.
	HookPriorityNormal HookPriority = 0
	// HookPriorityLow runs late in the chain.
	HookPriorityLow HookPriority = 100
)

// HookID identifies a registered hook for removal.
type HookID uint64

// Hook observes raw key events before they reach the state machine.
// Returning true consumes the event: later hooks and matching are skipped.
// Hooks run while the dispatcher lock is held and must not call back into
// the dispatcher.
type Hook interface {
	OnKeyEvent(event key.Event) bool
}

// HookFunc adapts a function to the Hook interface.
type HookFunc func(event key.Event) bool

// OnKeyEvent calls f.
func (f HookFunc) OnKeyEvent(event key.Event) bool {
	return f(event)
}

type hookEntry struct {
	id       HookID
	hook     Hook
	priority HookPriority
}

// AddHook registers a hook at the given priority. Equal priorities run in
// registration order.
func (d *Dispatcher) AddHook(hook Hook, priority HookPriority) HookID {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.nextHookID++
	id := d.nextHookID
	d.hooks = append(d.hooks, hookEntry{id: id, hook: hook, priority: priority})
	sort.SliceStable(d.hooks, func(i, j int) bool {
		return d.hooks[i].priority < d.hooks[j].priority
	})
	return id
}

// RemoveHook unregisters the hook with the given id.
func (d *Dispatcher) RemoveHook(id HookID) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for i, entry := range d.hooks {
		if entry.id == id {
			d.hooks = append(d.hooks[:i], d.hooks[i+1:]...)
			return
		}
	}
}

// runHooksLocked returns true when a hook consumed the event.
func (d *Dispatcher) runHooksLocked(event key.Event) bool {
	for _, entry := range d.hooks {
		if entry.hook.OnKeyEvent(event) {
			d.metrics.RecordHookConsumed()
			return true
		}
	}
	return false
}
