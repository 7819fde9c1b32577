package session

import "errors"

// Validation errors raised at the point of invalid input. Everything else
// in this package (cache misses, duplicate additions) is a normal return.
var (
	ErrInvalidSegment  = errors.New("invalid segment")
	ErrInvalidPriority = errors.New("invalid priority")
)
