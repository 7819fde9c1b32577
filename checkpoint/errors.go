package checkpoint

import "errors"

// Sentinel errors for store operations.
var (
	ErrNotFound       = errors.New("thread not found")
	ErrUnknownBackend = errors.New("unknown checkpoint backend")
)
