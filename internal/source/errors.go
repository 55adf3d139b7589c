package source

import "errors"

// Errors returned by event sources.
var (
	// ErrAlreadyAttached indicates Attach was called on an attached source.
	ErrAlreadyAttached = errors.New("source already attached")

	// ErrSourceClosed indicates the source has been closed.
	ErrSourceClosed = errors.New("source closed")

	// ErrNoKeyboard indicates no readable keyboard device was found.
	ErrNoKeyboard = errors.New("no keyboard device found")

	// ErrEvdevUnsupported indicates evdev input is not available on this platform.
	ErrEvdevUnsupported = errors.New("evdev input requires linux")
)
