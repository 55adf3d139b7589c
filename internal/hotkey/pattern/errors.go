package pattern

import (
	"errors"
	"fmt"
)

// Compile errors. ErrEmptyPattern and ErrEmptyStep both unwrap to
// ErrInvalidPattern, so callers that only care about validity can test
// errors.Is(err, ErrInvalidPattern).
var (
	ErrInvalidPattern = errors.New("invalid pattern")
	ErrEmptyPattern   = fmt.Errorf("%w: empty pattern", ErrInvalidPattern)
	ErrEmptyStep      = fmt.Errorf("%w: empty step", ErrInvalidPattern)
)
