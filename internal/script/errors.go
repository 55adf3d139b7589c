package script

import "errors"

// Errors returned by the script engine.
var (
	// ErrEngineClosed is returned when using a closed engine.
	ErrEngineClosed = errors.New("script engine closed")

	// ErrQueueFull is returned when the async queue cannot accept work.
	ErrQueueFull = errors.New("script queue full")

	// ErrNoSuchFunction is returned when a script file does not define
	// the requested entry function.
	ErrNoSuchFunction = errors.New("lua function not defined")
)
