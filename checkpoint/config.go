package checkpoint

import (
	"fmt"
	"sync"
)

// Config holds checkpoint store initialization parameters.
type Config struct {
	Backend string `json:"backend,omitempty"` // "memory" or "sqlite"
	Path    string `json:"path,omitempty"`    // SQLite database file
}

// DefaultConfig returns the default checkpoint configuration (in-memory).
func DefaultConfig() Config {
	return Config{Backend: "memory"}
}

// Merge applies non-zero values from source into c.
func (c *Config) Merge(source *Config) {
	if source.Backend != "" {
		c.Backend = source.Backend
	}
	if source.Path != "" {
		c.Path = source.Path
	}
}

// Factory builds a Store from configuration.
type Factory func(cfg *Config) (Store, error)

var (
	backends = map[string]Factory{
		"memory": func(*Config) (Store, error) { return NewMemoryStore(), nil },
		"sqlite": func(cfg *Config) (Store, error) {
			path := cfg.Path
			if path == "" {
				path = "checkpoints.db"
			}
			return NewSQLiteStore(path)
		},
	}
	mu sync.RWMutex
)

// RegisterBackend adds or replaces a named store factory. Call before
// New for the name to take effect.
func RegisterBackend(name string, factory Factory) {
	mu.Lock()
	defer mu.Unlock()

	backends[name] = factory
}

// New creates a Store from configuration. "memory" and "sqlite" backends
// are pre-registered; an empty backend name selects "memory".
func New(cfg *Config) (Store, error) {
	name := cfg.Backend
	if name == "" {
		name = "memory"
	}

	mu.RLock()
	factory, exists := backends[name]
	mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrUnknownBackend, name)
	}
	return factory(cfg)
}
