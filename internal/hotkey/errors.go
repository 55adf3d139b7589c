package hotkey

import (
	"errors"

	"github.com/dshills/keyscope/internal/hotkey/pattern"
)

var (
	// ErrClosed is returned by operations on a closed dispatcher.
	ErrClosed = errors.New("dispatcher closed")

	// ErrNilCallback is returned by Register when no callback is given.
	ErrNilCallback = errors.New("nil callback")

	// ErrInvalidPattern is the pattern package's sentinel re-exported so
	// callers of Register can test validity without importing pattern.
	ErrInvalidPattern = pattern.ErrInvalidPattern
)
