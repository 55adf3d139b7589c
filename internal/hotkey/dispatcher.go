package hotkey

import (
	"fmt"
	"sync"
	"time"

	"github.com/dshills/keyscope/internal/hotkey/key"
	"github.com/dshills/keyscope/internal/hotkey/pattern"
	"github.com/dshills/keyscope/internal/hotkey/scope"
)

// DefaultIdleTimeout is how long a partial sequence may wait for its next
// key-down before being abandoned.
const DefaultIdleTimeout = 1500 * time.Millisecond

// Callback is invoked with the key-down event that completed its pattern.
type Callback func(event key.Event)

// Source feeds key events to the dispatcher. Attach must not deliver
// events synchronously; delivery starts on the source's own goroutine
// after Attach returns. Detach requests that delivery stop and returns
// promptly without waiting for an in-flight handler call.
type Source interface {
	Attach(handler func(key.Event)) error
	Detach() error
}

// Config configures a Dispatcher.
type Config struct {
	// IdleTimeout bounds the pause between sequence steps. Zero means
	// DefaultIdleTimeout; negative disables the timer.
	IdleTimeout time.Duration

	// InitialScope is the active scope at startup (default "global").
	InitialScope string

	// Source supplies key events while bindings are live. Nil is allowed
	// for dispatchers driven directly through HandleEvent.
	Source Source

	// OnCallbackPanic is told about recovered callback panics. Nil drops
	// them after counting.
	OnCallbackPanic func(recovered any)
}

// Dispatcher is the matching engine: it owns the scope registry, the key
// buffer, the idle timer, and the event-source attachment.
type Dispatcher struct {
	mu sync.Mutex

	config   Config
	registry *scope.Registry

	// buffer holds the canonical tokens of keys physically down.
	buffer map[string]struct{}

	// idleTimer abandons a partial sequence; restarted on every key-down.
	idleTimer *time.Timer

	// live counts bound bindings; the 0→1 and 1→0 transitions attach and
	// detach the source.
	attached bool
	live     int

	hooks      []hookEntry
	nextHookID HookID

	metrics *Metrics
	closed  bool
}

// New creates a dispatcher. No goroutines start and no source is touched
// until the first binding goes live.
func New(config Config) *Dispatcher {
	if config.IdleTimeout == 0 {
		config.IdleTimeout = DefaultIdleTimeout
	}
	return &Dispatcher{
		config:   config,
		registry: scope.NewRegistry(config.InitialScope),
		buffer:   make(map[string]struct{}),
		metrics:  NewMetrics(),
	}
}

// RegisterOption adjusts the dispatcher at registration time.
type RegisterOption func(*Dispatcher)

// WithIdleTimeout retunes the dispatcher's idle timer. The timer is shared
// by all bindings, so the most recent registration that sets it wins.
func WithIdleTimeout(timeout time.Duration) RegisterOption {
	return func(d *Dispatcher) {
		if timeout > 0 {
			d.config.IdleTimeout = timeout
		}
	}
}

// Register compiles the pattern, binds fn in the named scope (created on
// demand, "" means the default scope), and returns the binding handle. The
// first live binding attaches the dispatcher to its event source.
// Registering a pattern already bound in the scope replaces its callback.
// A rejected pattern mutates nothing and unwraps to ErrInvalidPattern.
func (d *Dispatcher) Register(spec, scopeName string, fn Callback, opts ...RegisterOption) (*Binding, error) {
	pat, err := pattern.Compile(spec)
	if err != nil {
		return nil, fmt.Errorf("register %q: %w", spec, err)
	}
	if fn == nil {
		return nil, fmt.Errorf("register %q: %w", spec, ErrNilCallback)
	}
	if scopeName == "" {
		scopeName = scope.DefaultScope
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil, ErrClosed
	}
	for _, opt := range opts {
		opt(d)
	}

	b := &Binding{dispatcher: d, pattern: pat, scope: scopeName, fn: fn}
	if err := d.bindLocked(b); err != nil {
		return nil, err
	}
	return b, nil
}

// bindLocked inserts the binding and attaches the source on the 0→1
// transition. Attach runs first so a failure leaves nothing bound.
func (d *Dispatcher) bindLocked(b *Binding) error {
	if b.bound {
		return nil
	}
	if d.live == 0 && d.config.Source != nil && !d.attached {
		if err := d.config.Source.Attach(d.HandleEvent); err != nil {
			return fmt.Errorf("attach event source: %w", err)
		}
		d.attached = true
	}
	d.registry.Get(b.scope).Insert(b.pattern, b.fn)
	b.bound = true
	d.live++
	return nil
}

// unbindLocked removes the binding and detaches the source on the 1→0
// transition.
func (d *Dispatcher) unbindLocked(b *Binding) error {
	if !b.bound {
		return nil
	}
	if sc, ok := d.registry.Lookup(b.scope); ok {
		sc.Remove(b.pattern)
	}
	b.bound = false
	d.live--
	if d.live == 0 && d.attached {
		d.attached = false
		if err := d.config.Source.Detach(); err != nil {
			return fmt.Errorf("detach event source: %w", err)
		}
	}
	return nil
}

// HandleEvent feeds one key event through hooks and the state machine.
// Safe to call from any goroutine; terminal-match callbacks run on the
// calling goroutine outside the dispatcher lock.
func (d *Dispatcher) HandleEvent(event key.Event) {
	d.mu.Lock()

	if d.closed {
		d.mu.Unlock()
		return
	}
	if d.runHooksLocked(event) {
		d.mu.Unlock()
		return
	}

	var fire Callback
	switch event.Kind {
	case key.KeyDown:
		fire = d.handleKeyDownLocked(event)
	case key.KeyUp:
		d.handleKeyUpLocked(event)
	}
	d.mu.Unlock()

	if fire != nil {
		d.invoke(fire, event)
	}
}

// handleKeyDownLocked runs one state-machine transition and returns the
// callback of a terminal match, if any. Auto-repeat is dropped outright: a
// held key neither re-triggers matching nor holds the idle timer open.
func (d *Dispatcher) handleKeyDownLocked(event key.Event) Callback {
	if event.Repeat {
		d.metrics.RecordRepeatIgnored()
		return nil
	}
	token := event.Token()
	if token == "" {
		return nil
	}

	d.buffer[token] = struct{}{}
	d.resetIdleTimerLocked()
	d.metrics.RecordKeyDown()

	sc, ok := d.registry.ActiveScope()
	if !ok {
		// Active scope was never bound in; nothing can match.
		return nil
	}

	fn, outcome := sc.Advance(d.stepKeyLocked())
	switch outcome {
	case scope.OutcomeMatch:
		d.metrics.RecordMatch()
	case scope.OutcomePartial:
		d.metrics.RecordPartial()
	case scope.OutcomeNone:
		d.metrics.RecordMiss()
	}
	return fn
}

// handleKeyUpLocked releases a held token. An emptied buffer delimits the
// current step; sequence progress survives the release and is abandoned
// only by the idle timer.
func (d *Dispatcher) handleKeyUpLocked(event key.Event) {
	token := event.Token()
	if token == "" {
		return
	}
	delete(d.buffer, token)
	d.metrics.RecordKeyUp()
}

// stepKeyLocked assembles the step key for the currently held tokens.
func (d *Dispatcher) stepKeyLocked() string {
	tokens := make([]string, 0, len(d.buffer))
	for token := range d.buffer {
		tokens = append(tokens, token)
	}
	return pattern.StepKey(tokens)
}

// invoke runs a matched callback, isolating panics so a failing callback
// cannot break later matching. The cursor was already reset by Advance.
func (d *Dispatcher) invoke(fn Callback, event key.Event) {
	defer func() {
		if r := recover(); r != nil {
			d.metrics.RecordCallbackPanic()
			if h := d.config.OnCallbackPanic; h != nil {
				h(r)
			}
		}
	}()
	fn(event)
}

// resetIdleTimerLocked restarts the idle timer: a new key-down always
// supersedes a pending timeout.
func (d *Dispatcher) resetIdleTimerLocked() {
	d.stopIdleTimerLocked()
	if d.config.IdleTimeout > 0 {
		d.idleTimer = time.AfterFunc(d.config.IdleTimeout, d.handleIdleTimeout)
	}
}

func (d *Dispatcher) stopIdleTimerLocked() {
	if d.idleTimer != nil {
		d.idleTimer.Stop()
		d.idleTimer = nil
	}
}

// handleIdleTimeout abandons a partial sequence after a pause. The key
// buffer is untouched: it mirrors physically held keys, not progress.
func (d *Dispatcher) handleIdleTimeout() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return
	}
	d.idleTimer = nil
	if sc, ok := d.registry.ActiveScope(); ok && sc.Pending() {
		sc.Reset()
		d.metrics.RecordIdleReset()
	}
}

// SetActiveScope switches which scope the state machine consults. Leaving
// a scope abandons its partial match so a stale cursor cannot fire after
// switching back.
func (d *Dispatcher) SetActiveScope(name string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if name == d.registry.Active() {
		return
	}
	if prev, ok := d.registry.ActiveScope(); ok {
		prev.Reset()
	}
	d.registry.SetActive(name)
}

// ActiveScope returns the active scope name.
func (d *Dispatcher) ActiveScope() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.registry.Active()
}

// Scopes returns the names of all scopes anything was ever bound in.
func (d *Dispatcher) Scopes() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.registry.Names()
}

// HeldKeys returns the canonical tokens currently held, as a step key:
// sorted and joined with "+". Empty when no keys are down.
func (d *Dispatcher) HeldKeys() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.stepKeyLocked()
}

// Pending reports whether the active scope is mid-sequence.
func (d *Dispatcher) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	sc, ok := d.registry.ActiveScope()
	return ok && sc.Pending()
}

// BindingCount returns the number of live bindings.
func (d *Dispatcher) BindingCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.live
}

// IdleTimeout returns the current idle duration.
func (d *Dispatcher) IdleTimeout() time.Duration {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.config.IdleTimeout
}

// Metrics returns a snapshot of dispatcher counters.
func (d *Dispatcher) Metrics() MetricsSnapshot {
	return d.metrics.Snapshot()
}

// Close stops the timer, detaches the source, and rejects further events
// and registrations. Existing handles become inert.
func (d *Dispatcher) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil
	}
	d.closed = true
	d.stopIdleTimerLocked()

	if d.attached {
		d.attached = false
		if err := d.config.Source.Detach(); err != nil {
			return fmt.Errorf("detach event source: %w", err)
		}
	}
	return nil
}
