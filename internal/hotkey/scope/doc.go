// Package scope stores pattern bindings in per-scope tries and tracks each
// scope's match cursor.
//
// A Scope owns one trie root and one cursor. The cursor is the trie node the
// current key stream has advanced to: it starts at the root, moves one edge
// per completed step, and returns to the root when a pattern fires or the
// dispatcher abandons the sequence. Sibling bindings share prefix nodes, and
// removing a binding prunes only the trailing nodes no other binding needs.
//
// The Registry maps scope names to lazily created Scopes and tracks the one
// active scope the dispatcher consults.
//
// Nothing in this package is safe for concurrent use. The dispatcher owns
// the single lock that serializes event handling, registration, and timer
// expiry; see the hotkey package.
package scope
