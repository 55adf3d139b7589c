package hotkey

import "github.com/dshills/keyscope/internal/hotkey/pattern"

// Binding is the handle returned by Register. It owns the compiled pattern,
// its scope name, and the callback, and can take the binding in and out of
// the trie without re-registering. Bind and Unbind are idempotent: binding
// a live handle and unbinding an inert one are no-ops.
type Binding struct {
	dispatcher *Dispatcher
	pattern    pattern.Pattern
	scope      string
	fn         Callback

	// bound is guarded by dispatcher.mu.
	bound bool
}

// Pattern returns the canonical spelling of the compiled pattern.
func (b *Binding) Pattern() string {
	return b.pattern.String()
}

// Scope returns the scope name the binding lives in.
func (b *Binding) Scope() string {
	return b.scope
}

// Bound reports whether the binding is currently in its scope's trie.
func (b *Binding) Bound() bool {
	b.dispatcher.mu.Lock()
	defer b.dispatcher.mu.Unlock()
	return b.bound
}

// Bind re-inserts the binding after an Unbind. The 0→1 live transition
// re-attaches the dispatcher's event source.
func (b *Binding) Bind() error {
	b.dispatcher.mu.Lock()
	defer b.dispatcher.mu.Unlock()

	if b.dispatcher.closed {
		return ErrClosed
	}
	return b.dispatcher.bindLocked(b)
}

// Unbind removes the pattern from its scope's trie, pruning nodes no other
// binding needs. Removing the last live binding detaches the event source.
// Unbinding a handle that is already unbound is a no-op.
func (b *Binding) Unbind() error {
	b.dispatcher.mu.Lock()
	defer b.dispatcher.mu.Unlock()

	if b.dispatcher.closed {
		// Close already tore the source down; just mark the handle.
		b.bound = false
		return nil
	}
	return b.dispatcher.unbindLocked(b)
}
