package source

import "github.com/dshills/keyscope/internal/hotkey"

// Compile-time checks that every source satisfies the dispatcher's
// attach contract.
var (
	_ hotkey.Source = (*Replay)(nil)
	_ hotkey.Source = (*Terminal)(nil)
	_ hotkey.Source = (*Evdev)(nil)
)
