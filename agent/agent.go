// Package agent defines the external agent-invoke capability consumed by
// the advisory runtime. The language-model call itself happens behind the
// Agent interface; this package supplies the interface, its configuration,
// and a deterministic scripted implementation for demos and tests.
package agent

import (
	"context"

	"github.com/merchant-advisory/advisor/core/protocol"
)

// InvokeConfig carries per-invocation parameters. ThreadID correlates the
// call with the session's checkpoint and tracing records.
type InvokeConfig struct {
	ThreadID string
}

// Agent answers a conversation transcript with a single response message.
type Agent interface {
	Invoke(ctx context.Context, messages []protocol.Message, cfg InvokeConfig) (protocol.Message, error)
}
