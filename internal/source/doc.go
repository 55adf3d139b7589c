// Package source provides key event sources for the dispatcher.
//
// A source watches some input channel and delivers raw key transitions
// to an attached handler. Three implementations are provided:
//
//   - Replay: scripted playback for tests, demos, and event injection.
//   - Terminal: reads keys from the controlling terminal via tcell.
//     Terminals report complete keystrokes rather than transitions, so
//     each keystroke is expanded into a synthetic down/up sequence with
//     its modifiers held around it.
//   - Evdev: reads raw transitions from a Linux input device. This is
//     the only source that sees true key-up events and auto-repeat.
//
// Sources follow the dispatcher's attach contract: Attach never calls
// the handler on the caller's goroutine, and Detach returns without
// waiting for in-flight deliveries.
package source
