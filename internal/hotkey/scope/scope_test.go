package scope

import (
	"testing"

	"github.com/dshills/keyscope/internal/hotkey/key"
)

func testScope() *Scope {
	return newScope("test")
}

func noop(key.Event) {}

func TestAdvanceOutcomes(t *testing.T) {
	s := testScope()
	s.Insert([]string{"a", "b"}, noop)

	if _, out := s.Advance("x"); out != OutcomeNone {
		t.Errorf("Advance(x) outcome = %v, want %v", out, OutcomeNone)
	}
	if s.Pending() {
		t.Error("cursor moved on a no-match step")
	}

	if _, out := s.Advance("a"); out != OutcomePartial {
		t.Errorf("Advance(a) outcome = %v, want %v", out, OutcomePartial)
	}
	if !s.Pending() {
		t.Error("cursor did not advance on a partial match")
	}

	fn, out := s.Advance("b")
	if out != OutcomeMatch {
		t.Errorf("Advance(b) outcome = %v, want %v", out, OutcomeMatch)
	}
	if fn == nil {
		t.Error("terminal match returned no callback")
	}
	if s.Pending() {
		t.Error("cursor not reset after terminal match")
	}
}

func TestShorterPatternFiresImmediately(t *testing.T) {
	s := testScope()
	fired := ""
	s.Insert([]string{"a"}, func(key.Event) { fired = "a" })
	s.Insert([]string{"a", "b"}, func(key.Event) { fired = "a b" })

	fn, out := s.Advance("a")
	if out != OutcomeMatch {
		t.Fatalf("Advance(a) outcome = %v, want %v", out, OutcomeMatch)
	}
	fn(key.Event{})
	if fired != "a" {
		t.Errorf("fired = %q, want %q", fired, "a")
	}
	if s.Pending() {
		t.Error("cursor should be at root after the short pattern fired")
	}
}

func TestLastRegistrationWins(t *testing.T) {
	s := testScope()
	fired := 0
	s.Insert([]string{"x"}, func(key.Event) { fired = 1 })
	s.Insert([]string{"x"}, func(key.Event) { fired = 2 })

	fn, out := s.Advance("x")
	if out != OutcomeMatch {
		t.Fatalf("Advance(x) outcome = %v, want %v", out, OutcomeMatch)
	}
	fn(key.Event{})
	if fired != 2 {
		t.Errorf("fired = %d, want 2 (replacement callback)", fired)
	}
}

func TestRemovePreservesSharedPrefix(t *testing.T) {
	s := testScope()
	fired := ""
	s.Insert([]string{"a"}, func(key.Event) { fired = "a" })
	s.Insert([]string{"a", "b"}, func(key.Event) { fired = "a b" })

	s.Remove([]string{"a"})

	// "a" alone no longer fires, but its node must survive as the prefix
	// of "a b".
	if _, out := s.Advance("a"); out != OutcomePartial {
		t.Fatalf("Advance(a) after removing short pattern = %v, want %v", out, OutcomePartial)
	}
	fn, out := s.Advance("b")
	if out != OutcomeMatch {
		t.Fatalf("Advance(b) outcome = %v, want %v", out, OutcomeMatch)
	}
	fn(key.Event{})
	if fired != "a b" {
		t.Errorf("fired = %q, want %q", fired, "a b")
	}
}

func TestRemovePrunesOnlyTrailingChain(t *testing.T) {
	s := testScope()
	s.Insert([]string{"a"}, noop)
	s.Insert([]string{"a", "b", "c"}, noop)

	s.Remove([]string{"a", "b", "c"})

	// The b and c nodes are gone, the a node keeps its own binding.
	if s.Size() != 1 {
		t.Errorf("Size() = %d, want 1", s.Size())
	}
	if !s.Contains([]string{"a"}) {
		t.Error("short pattern lost by removing its extension")
	}
	if s.Contains([]string{"a", "b", "c"}) {
		t.Error("removed pattern still bound")
	}
}

func TestRemoveUnknownIsNoop(t *testing.T) {
	s := testScope()
	s.Insert([]string{"a", "b"}, noop)

	s.Remove([]string{"q"})
	s.Remove([]string{"a", "b", "c"})
	s.Remove(nil)

	if s.Size() != 2 {
		t.Errorf("Size() = %d after no-op removals, want 2", s.Size())
	}
	if !s.Contains([]string{"a", "b"}) {
		t.Error("existing binding disturbed by no-op removal")
	}
}

func TestRemoveRepairsCursor(t *testing.T) {
	s := testScope()
	s.Insert([]string{"a", "b", "c"}, noop)

	s.Advance("a")
	s.Advance("b")
	if !s.Pending() {
		t.Fatal("cursor did not advance")
	}

	// The cursor sits on the b node, which pruning deletes.
	s.Remove([]string{"a", "b", "c"})
	if s.Pending() {
		t.Error("cursor left dangling on a pruned node")
	}
}

func TestRemoveKeepsCursorOnSurvivingNode(t *testing.T) {
	s := testScope()
	s.Insert([]string{"a", "b"}, noop)
	s.Insert([]string{"a", "c"}, noop)

	s.Advance("a")
	s.Remove([]string{"a", "b"})

	// The a node survives for "a c", so the partial match stays valid.
	if !s.Pending() {
		t.Fatal("cursor reset although its node survived")
	}
	if _, out := s.Advance("c"); out != OutcomeMatch {
		t.Errorf("Advance(c) outcome = %v, want %v", out, OutcomeMatch)
	}
}

func TestResetAbandonsPartialMatch(t *testing.T) {
	s := testScope()
	s.Insert([]string{"a", "b"}, noop)

	s.Advance("a")
	s.Reset()

	if s.Pending() {
		t.Error("Reset did not return cursor to root")
	}
	if _, out := s.Advance("b"); out != OutcomeNone {
		t.Errorf("Advance(b) from root = %v, want %v", out, OutcomeNone)
	}
}
