// Package pattern compiles human-readable shortcut patterns into the
// ordered step keys stored in a scope's trie.
//
// # Grammar
//
//	pattern := step (" " step)*
//	step    := token ("+" token)*
//
// Steps are separated by whitespace and matched in order (a sequence).
// Tokens inside a step are joined with "+" and must be held together (a
// combination). Token spelling is case-insensitive and alias-friendly, see
// the key package. Within a step token order is irrelevant: "ctrl+a" and
// "a+ctrl" compile to the same step key, and the same holds for the order
// keys are physically pressed at match time.
package pattern
