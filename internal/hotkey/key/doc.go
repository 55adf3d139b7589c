// Package key defines the canonical key vocabulary for the dispatcher.
//
// Raw key names arrive from several places (terminal escape decoding, evdev
// keycode tables, pattern strings typed by users) with inconsistent
// spellings. Normalize folds them all into one canonical vocabulary so a
// pattern token and a live event token compare equal by plain string
// comparison:
//
//   - Token: a canonical key name such as "a", "escape", "control"
//   - Event: one key-down or key-up carrying the raw name and a repeat flag
//
// # Normalization
//
// Normalize trims, NFKC-normalizes and case-folds the raw name, then maps
// recognized aliases ("esc", "ctrl", "option", ...) to their canonical
// spelling. Unknown names pass through folded but otherwise unchanged, so
// keys outside the alias table still match as long as the event source and
// the pattern agree on a spelling.
package key
