package scope

import (
	"fmt"

	"github.com/dshills/keyscope/internal/hotkey/key"
)

// Outcome is the result of advancing a scope's cursor by one step key.
type Outcome int

const (
	// OutcomeNone: no child for the step key; the cursor did not move.
	OutcomeNone Outcome = iota

	// OutcomePartial: the cursor advanced into a longer pattern.
	OutcomePartial

	// OutcomeMatch: a pattern terminated; the cursor is back at the root.
	OutcomeMatch
)

// String returns a short name for logs.
func (o Outcome) String() string {
	switch o {
	case OutcomeNone:
		return "none"
	case OutcomePartial:
		return "partial"
	case OutcomeMatch:
		return "match"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Scope is an independent namespace of bindings with its own trie and
// cursor.
type Scope struct {
	name   string
	root   *node
	cursor *node
}

func newScope(name string) *Scope {
	s := &Scope{name: name, root: newNode()}
	s.cursor = s.root
	return s
}

// Name returns the scope's registry name.
func (s *Scope) Name() string {
	return s.name
}

// Insert binds fn at the end of the step-key path, creating nodes as
// needed. Inserting a path twice replaces the earlier callback: last
// registration wins.
func (s *Scope) Insert(steps []string, fn func(key.Event)) {
	if len(steps) == 0 {
		return
	}
	s.root.insert(steps, fn)
}

// Remove unbinds the step-key path. Paths never bound are a no-op. Nodes
// still serving other bindings survive; if the cursor sat on a pruned node
// it returns to the root.
func (s *Scope) Remove(steps []string) {
	for _, gone := range s.root.remove(steps) {
		if gone == s.cursor {
			s.cursor = s.root
			break
		}
	}
}

// Contains reports whether the exact step-key path is currently bound.
func (s *Scope) Contains(steps []string) bool {
	return s.root.contains(steps)
}

// Advance looks up stepKey among the cursor's children and moves the
// cursor: to the root on a terminal match (returning the callback to
// fire), to the child on a partial match, or nowhere when no child
// matches. A terminal node fires even when longer patterns extend it; a
// shorter pattern never waits for its extension.
func (s *Scope) Advance(stepKey string) (func(key.Event), Outcome) {
	child, ok := s.cursor.children[stepKey]
	if !ok {
		return nil, OutcomeNone
	}
	if child.callback != nil {
		s.cursor = s.root
		return child.callback, OutcomeMatch
	}
	s.cursor = child
	return nil, OutcomePartial
}

// Reset abandons any partial match, returning the cursor to the root.
func (s *Scope) Reset() {
	s.cursor = s.root
}

// Pending reports whether a sequence is partially matched.
func (s *Scope) Pending() bool {
	return s.cursor != s.root
}

// Size returns the number of trie nodes below the root, a rough measure of
// how much is bound in the scope.
func (s *Scope) Size() int {
	return s.root.size()
}
