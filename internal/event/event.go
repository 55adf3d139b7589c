package event

import (
	"crypto/rand"
	"encoding/hex"
	"time"
)

// Topic routes an event to its subscribers.
type Topic string

const (
	// TopicMatchFired: a binding's pattern was satisfied. Data: MatchFired.
	TopicMatchFired Topic = "match.fired"

	// TopicScopeChanged: the active scope switched. Data: ScopeChanged.
	TopicScopeChanged Topic = "scope.changed"

	// TopicConfigReloaded: bindings were rebuilt from disk. Data: ConfigReloaded.
	TopicConfigReloaded Topic = "config.reloaded"

	// TopicUserEmit: an emit: action fired. Data: UserEmit.
	TopicUserEmit Topic = "user.emit"
)

// Event is one published occurrence.
type Event struct {
	ID    string
	Topic Topic
	Time  time.Time
	Data  any
}

// MatchFired reports a completed pattern.
type MatchFired struct {
	Scope   string
	Pattern string
	Key     string
}

// ScopeChanged reports an active-scope switch.
type ScopeChanged struct {
	From string
	To   string
}

// ConfigReloaded reports a successful binding rebuild.
type ConfigReloaded struct {
	Path     string
	Bindings int
}

// UserEmit carries the text of an emit: action.
type UserEmit struct {
	Text string
}

func generateID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		// Fallback to timestamp-based ID if crypto/rand fails
		return hex.EncodeToString([]byte(time.Now().String()))
	}
	return hex.EncodeToString(b)
}
