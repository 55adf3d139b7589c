package hotkey

import (
	"sync/atomic"
	"time"
)

// Metrics tracks dispatcher activity with lock-free counters.
type Metrics struct {
	keyDowns       atomic.Uint64
	keyUps         atomic.Uint64
	repeatsIgnored atomic.Uint64
	matches        atomic.Uint64
	partials       atomic.Uint64
	misses         atomic.Uint64
	idleResets     atomic.Uint64
	callbackPanics atomic.Uint64
	hookConsumed   atomic.Uint64

	startTime time.Time
}

// NewMetrics creates a metrics tracker.
func NewMetrics() *Metrics {
	return &Metrics{startTime: time.Now()}
}

// RecordKeyDown counts a processed key-down.
func (m *Metrics) RecordKeyDown() { m.keyDowns.Add(1) }

// RecordKeyUp counts a processed key-up.
func (m *Metrics) RecordKeyUp() { m.keyUps.Add(1) }

// RecordRepeatIgnored counts an auto-repeat key-down dropped before matching.
func (m *Metrics) RecordRepeatIgnored() { m.repeatsIgnored.Add(1) }

// RecordMatch counts a terminal match.
func (m *Metrics) RecordMatch() { m.matches.Add(1) }

// RecordPartial counts a cursor advance into a longer pattern.
func (m *Metrics) RecordPartial() { m.partials.Add(1) }

// RecordMiss counts a key-down whose step key had no trie edge.
func (m *Metrics) RecordMiss() { m.misses.Add(1) }

// RecordIdleReset counts a partial sequence abandoned by the idle timer.
func (m *Metrics) RecordIdleReset() { m.idleResets.Add(1) }

// RecordCallbackPanic counts a recovered callback panic.
func (m *Metrics) RecordCallbackPanic() { m.callbackPanics.Add(1) }

// RecordHookConsumed counts an event consumed by a hook before matching.
func (m *Metrics) RecordHookConsumed() { m.hookConsumed.Add(1) }

// MetricsSnapshot is a point-in-time view of the counters.
type MetricsSnapshot struct {
	KeyDowns       uint64
	KeyUps         uint64
	RepeatsIgnored uint64
	Matches        uint64
	Partials       uint64
	Misses         uint64
	IdleResets     uint64
	CallbackPanics uint64
	HookConsumed   uint64
	Uptime         time.Duration
}

// Snapshot returns the current counter values.
func (m *Metrics) Snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		KeyDowns:       m.keyDowns.Load(),
		KeyUps:         m.keyUps.Load(),
		RepeatsIgnored: m.repeatsIgnored.Load(),
		Matches:        m.matches.Load(),
		Partials:       m.partials.Load(),
		Misses:         m.misses.Load(),
		IdleResets:     m.idleResets.Load(),
		CallbackPanics: m.callbackPanics.Load(),
		HookConsumed:   m.hookConsumed.Load(),
		Uptime:         time.Since(m.startTime),
	}
}

// Reset zeroes all counters and restarts the uptime clock.
func (m *Metrics) Reset() {
	m.keyDowns.Store(0)
	m.keyUps.Store(0)
	m.repeatsIgnored.Store(0)
	m.matches.Store(0)
	m.partials.Store(0)
	m.misses.Store(0)
	m.idleResets.Store(0)
	m.callbackPanics.Store(0)
	m.hookConsumed.Store(0)
	m.startTime = time.Now()
}
