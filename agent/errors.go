package agent

import "errors"

// Sentinel errors for agent construction.
var ErrUnknownProvider = errors.New("unknown agent provider")
