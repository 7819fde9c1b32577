package agent

import (
	"context"
	"fmt"
	"sync"

	"github.com/merchant-advisory/advisor/core/protocol"
)

type scripted struct {
	mu        sync.Mutex
	responses []string
	next      int
}

// NewScripted creates an Agent that replays canned responses in order.
// Once the script is exhausted (or when none was given) it acknowledges
// the latest user message instead. Deterministic and offline.
func NewScripted(responses ...string) Agent {
	return &scripted{responses: responses}
}

func (s *scripted) Invoke(ctx context.Context, messages []protocol.Message, _ InvokeConfig) (protocol.Message, error) {
	if err := ctx.Err(); err != nil {
		return protocol.Message{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.next < len(s.responses) {
		content := s.responses[s.next]
		s.next++
		return protocol.NewMessage(protocol.RoleAssistant, content), nil
	}

	return protocol.NewMessage(protocol.RoleAssistant, s.acknowledge(messages)), nil
}

func (s *scripted) acknowledge(messages []protocol.Message) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == protocol.RoleUser {
			return fmt.Sprintf("Acknowledged: %s", messages[i].Content)
		}
	}
	return "Acknowledged."
}
