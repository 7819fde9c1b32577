package advisor

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/merchant-advisory/advisor/agent"
	"github.com/merchant-advisory/advisor/checkpoint"
	"github.com/merchant-advisory/advisor/session"
)

// Config holds initialization parameters for all advisor subsystems.
// Each section delegates to that subsystem's config-driven constructor.
type Config struct {
	Agent        agent.Config      `json:"agent"`
	Checkpoint   checkpoint.Config `json:"checkpoint"`
	Cache        CacheSettings     `json:"cache"`
	Observer     string            `json:"observer,omitempty"`
	SystemPrompt string            `json:"system_prompt,omitempty"`
}

// CacheSettings is the file-facing cache section: TTLs in whole seconds,
// as the tuning files express them.
type CacheSettings struct {
	TTLSeconds        map[string]int `json:"ttl_seconds,omitempty"`
	DefaultTTLSeconds int            `json:"default_ttl_seconds,omitempty"`
}

// CacheConfig translates the settings into the session-layer TTL table,
// starting from the standard defaults.
func (cs CacheSettings) CacheConfig() session.CacheConfig {
	cfg := session.DefaultCacheConfig()
	for name, seconds := range cs.TTLSeconds {
		cfg.TTL[name] = time.Duration(seconds) * time.Second
	}
	if cs.DefaultTTLSeconds > 0 {
		cfg.DefaultTTL = time.Duration(cs.DefaultTTLSeconds) * time.Second
	}
	return cfg
}

// Merge applies non-zero values from source into cs.
func (cs *CacheSettings) Merge(source *CacheSettings) {
	if len(source.TTLSeconds) > 0 {
		if cs.TTLSeconds == nil {
			cs.TTLSeconds = make(map[string]int, len(source.TTLSeconds))
		}
		for name, seconds := range source.TTLSeconds {
			cs.TTLSeconds[name] = seconds
		}
	}
	if source.DefaultTTLSeconds > 0 {
		cs.DefaultTTLSeconds = source.DefaultTTLSeconds
	}
}

// DefaultConfig returns a Config with sensible defaults for all subsystems.
func DefaultConfig() Config {
	return Config{
		Agent:      agent.DefaultConfig(),
		Checkpoint: checkpoint.DefaultConfig(),
	}
}

// Merge applies non-zero values from source into c, delegating to each
// subsystem's Merge method.
func (c *Config) Merge(source *Config) {
	c.Agent.Merge(&source.Agent)
	c.Checkpoint.Merge(&source.Checkpoint)
	c.Cache.Merge(&source.Cache)

	if source.Observer != "" {
		c.Observer = source.Observer
	}
	if source.SystemPrompt != "" {
		c.SystemPrompt = source.SystemPrompt
	}
}

// LoadConfig reads a JSON config file and merges it over the defaults.
func LoadConfig(filename string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var loaded Config
	if err := json.Unmarshal(data, &loaded); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.Merge(&loaded)
	return &cfg, nil
}
