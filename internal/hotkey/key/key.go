package key

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// aliases maps alternate spellings (lowercase) to the canonical token.
// Canonical spellings are not listed; they pass through unchanged.
var aliases = map[string]string{
	"esc":      "escape",
	"ctrl":     "control",
	"option":   "alt",
	"opt":      "alt",
	"cmd":      "meta",
	"command":  "meta",
	"win":      "meta",
	"super":    "meta",
	"return":   "enter",
	"cr":       "enter",
	"spacebar": "space",
	"bs":       "backspace",
	"del":      "delete",
	"ins":      "insert",
	"pgup":     "pageup",
	"pgdn":     "pagedown",

	"arrowup":    "up",
	"arrowdown":  "down",
	"arrowleft":  "left",
	"arrowright": "right",
}

// modifiers is the set of canonical tokens that act as modifier keys.
var modifiers = map[string]bool{
	"control": true,
	"alt":     true,
	"shift":   true,
	"meta":    true,
}

// Normalize converts a raw key name into its canonical token. The name is
// trimmed, NFKC-normalized, case-folded, and alias-mapped. Unrecognized
// names are returned folded, never rejected, so sources can deliver keys
// the alias table has not heard of.
func Normalize(raw string) string {
	name := strings.TrimSpace(raw)
	if name == "" {
		return ""
	}
	name = cases.Fold().String(norm.NFKC.String(name))
	if canonical, ok := aliases[name]; ok {
		return canonical
	}
	return name
}

// IsModifier reports whether the canonical token is a modifier key.
func IsModifier(token string) bool {
	return modifiers[token]
}
