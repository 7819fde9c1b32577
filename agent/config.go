package agent

import (
	"fmt"
	"sync"
)

// Config holds agent initialization parameters. Provider selects a
// registered factory; Responses feeds the scripted provider.
type Config struct {
	Provider  string   `json:"provider,omitempty"`
	Responses []string `json:"responses,omitempty"`
}

// DefaultConfig returns the default agent configuration (scripted).
func DefaultConfig() Config {
	return Config{Provider: "scripted"}
}

// Merge applies non-zero values from source into c.
func (c *Config) Merge(source *Config) {
	if source.Provider != "" {
		c.Provider = source.Provider
	}
	if len(source.Responses) > 0 {
		c.Responses = source.Responses
	}
}

// Factory builds an Agent from configuration.
type Factory func(cfg *Config) (Agent, error)

var (
	providers = map[string]Factory{
		"scripted": func(cfg *Config) (Agent, error) {
			return NewScripted(cfg.Responses...), nil
		},
	}
	mu sync.RWMutex
)

// RegisterProvider adds or replaces a named agent factory, letting hosts
// plug in a real LLM-backed agent without touching this package.
func RegisterProvider(name string, factory Factory) {
	mu.Lock()
	defer mu.Unlock()

	providers[name] = factory
}

// New creates an Agent from configuration. An empty provider name selects
// "scripted".
func New(cfg *Config) (Agent, error) {
	name := cfg.Provider
	if name == "" {
		name = "scripted"
	}

	mu.RLock()
	factory, exists := providers[name]
	mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, name)
	}
	return factory(cfg)
}
