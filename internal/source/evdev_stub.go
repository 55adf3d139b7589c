//go:build !linux

package source

import "github.com/dshills/keyscope/internal/hotkey/key"

// Evdev is only functional on Linux. On other platforms Attach fails
// with ErrEvdevUnsupported.
type Evdev struct {
	device string
}

// NewEvdev creates a stub evdev source.
func NewEvdev(device string) *Evdev {
	return &Evdev{device: device}
}

// Attach always fails on non-Linux platforms.
func (e *Evdev) Attach(handler func(key.Event)) error {
	return ErrEvdevUnsupported
}

// Detach is a no-op.
func (e *Evdev) Detach() error {
	return nil
}

// Close is a no-op.
func (e *Evdev) Close() error {
	return nil
}
