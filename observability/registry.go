package observability

import (
	"fmt"
	"log/slog"
	"sync"
)

var (
	observers = map[string]Observer{
		"noop": NoOpObserver{},
		"slog": NewSlogObserver(slog.Default()),
	}
	mu sync.RWMutex
)

// GetObserver returns a registered observer by name. "noop" and "slog"
// are pre-registered.
func GetObserver(name string) (Observer, error) {
	mu.RLock()
	defer mu.RUnlock()

	obs, exists := observers[name]
	if !exists {
		return nil, fmt.Errorf("unknown observer: %s", name)
	}
	return obs, nil
}

// RegisterObserver adds or replaces a named observer.
func RegisterObserver(name string, observer Observer) {
	mu.Lock()
	defer mu.Unlock()

	observers[name] = observer
}
