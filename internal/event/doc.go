// Package event is a small synchronous pub/sub bus decoupling the daemon's
// observers (status UI, IPC subscribers, logs) from the matching engine.
//
// Publishers fire-and-forget; handlers run on the publishing goroutine and
// a panicking handler is recovered and counted without disturbing the
// others. Topics are fixed strings, one payload type per topic.
package event
