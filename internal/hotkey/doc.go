// Package hotkey matches streams of key events against registered shortcut
// patterns and fires their callbacks.
//
// The Dispatcher is the process-wide context object: it owns the scope
// registry, the key buffer of physically held keys, the idle timer, and the
// attachment to the event source. Patterns combine two composable forms:
//
//   - Sequence: "a b", steps pressed one after another
//   - Combination: "c+a", keys held together within one step
//   - Mixed: "ctrl+k d", a chord followed by a plain key
//
// # Matching
//
// Each non-repeat key-down adds its token to the key buffer and assembles
// the buffer's contents into a step key. The active scope's cursor advances
// along the trie edge for that step key: reaching a node where a pattern
// ends fires its callback and returns the cursor to the root, reaching an
// interior node parks the cursor there, and a step key with no edge leaves
// the cursor alone. Releasing keys empties the buffer and so delimits
// steps; it never abandons sequence progress. Progress is abandoned only by
// the idle timer, which restarts on every key-down and resets the cursor
// when the user pauses too long mid-sequence.
//
// # Usage
//
//	d := hotkey.New(hotkey.Config{Source: src})
//	defer d.Close()
//
//	save, err := d.Register("ctrl+s", "global", func(key.Event) {
//	    saveFile()
//	})
//	if err != nil {
//	    return err
//	}
//
//	// Later: save.Unbind(), save.Bind() to suspend and resume.
//
// The first live binding attaches the dispatcher to its event source; the
// last unbind detaches it. All dispatcher state is guarded by one mutex, so
// sources, timers, and registration may run on any goroutine. Callbacks run
// outside the lock and a panicking callback never corrupts match state.
package hotkey
