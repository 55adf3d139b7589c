package event

import "errors"

var (
	// ErrNilHandler is returned when Subscribe is given a nil handler.
	ErrNilHandler = errors.New("handler cannot be nil")

	// ErrInvalidTopic is returned when Subscribe is given an empty topic.
	ErrInvalidTopic = errors.New("invalid topic")
)
