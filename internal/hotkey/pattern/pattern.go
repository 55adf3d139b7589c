package pattern

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dshills/keyscope/internal/hotkey/key"
)

// TokenSeparator joins the tokens of one step into its step key.
const TokenSeparator = "+"

// Pattern is a compiled pattern: the ordered step keys walked through a
// scope's trie, one trie edge per step.
type Pattern []string

// String returns the canonical spelling of the pattern.
func (p Pattern) String() string {
	return strings.Join(p, " ")
}

// Compile parses a pattern string into its ordered step keys. The pattern
// is split on whitespace into steps and each step on "+" into tokens;
// tokens are normalized and deduplicated, and each step key is the sorted
// "+"-join of its tokens. Compile fails before any binding state is touched,
// so a rejected pattern leaves the caller's trie untouched.
func Compile(spec string) (Pattern, error) {
	steps := strings.Fields(spec)
	if len(steps) == 0 {
		return nil, ErrEmptyPattern
	}

	pat := make(Pattern, 0, len(steps))
	for _, step := range steps {
		raw := strings.Split(step, TokenSeparator)
		tokens := make([]string, 0, len(raw))
		for _, r := range raw {
			tok := key.Normalize(r)
			if tok == "" {
				return nil, fmt.Errorf("%w: %q in %q", ErrEmptyStep, step, spec)
			}
			tokens = append(tokens, tok)
		}
		pat = append(pat, StepKey(tokens))
	}
	return pat, nil
}

// MustCompile is Compile for patterns known valid at build time; it panics
// on error.
func MustCompile(spec string) Pattern {
	p, err := Compile(spec)
	if err != nil {
		panic(fmt.Sprintf("pattern: MustCompile(%q): %v", spec, err))
	}
	return p
}

// StepKey builds the trie edge label for a set of simultaneously held
// canonical tokens: duplicates collapse, order is irrelevant, tokens are
// sorted and joined with "+". The state machine assembles live step keys
// from its key buffer with this same function, which is what makes a
// compiled step and a physical chord comparable as plain strings.
func StepKey(tokens []string) string {
	switch len(tokens) {
	case 0:
		return ""
	case 1:
		return tokens[0]
	}

	uniq := make([]string, 0, len(tokens))
	seen := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		uniq = append(uniq, t)
	}
	sort.Strings(uniq)
	return strings.Join(uniq, TokenSeparator)
}
