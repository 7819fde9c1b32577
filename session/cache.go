package session

import "time"

// Cache entry names with dedicated TTLs. Unrecognized names fall back to
// CacheConfig.DefaultTTL.
const (
	CacheProfile      = "profile"
	CacheMetrics      = "metrics"
	CacheTransactions = "transactions"
	CacheAlerts       = "alerts"
)

// CacheEntry pairs a cached payload with the timestamp it was written.
// Keeping both in one record makes the payload/timestamp lockstep
// invariant structural.
type CacheEntry struct {
	Payload   any       `json:"payload"`
	WrittenAt time.Time `json:"written_at"`
}

// CacheConfig maps cache-entry names to their time-to-live. Clock overrides
// the freshness clock for tests; nil means the real UTC clock.
type CacheConfig struct {
	TTL        map[string]time.Duration `json:"ttl,omitempty"`
	DefaultTTL time.Duration            `json:"default_ttl,omitempty"`
	Clock      func() time.Time         `json:"-"`
}

// DefaultCacheConfig returns the standard TTL table: profile 30m,
// metrics 5m, transactions 1m, alerts 30s, everything else 5m.
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{
		TTL: map[string]time.Duration{
			CacheProfile:      30 * time.Minute,
			CacheMetrics:      5 * time.Minute,
			CacheTransactions: time.Minute,
			CacheAlerts:       30 * time.Second,
		},
		DefaultTTL: 5 * time.Minute,
	}
}

// Merge applies non-zero values from source into c.
func (c *CacheConfig) Merge(source *CacheConfig) {
	if len(source.TTL) > 0 {
		if c.TTL == nil {
			c.TTL = make(map[string]time.Duration, len(source.TTL))
		}
		for name, ttl := range source.TTL {
			c.TTL[name] = ttl
		}
	}
	if source.DefaultTTL > 0 {
		c.DefaultTTL = source.DefaultTTL
	}
	if source.Clock != nil {
		c.Clock = source.Clock
	}
}

// TTLFor returns the TTL for a cache-entry name, falling back to DefaultTTL.
func (c CacheConfig) TTLFor(name string) time.Duration {
	if ttl, ok := c.TTL[name]; ok {
		return ttl
	}
	return c.DefaultTTL
}

func (c CacheConfig) now() time.Time {
	if c.Clock != nil {
		return c.Clock()
	}
	return time.Now().UTC()
}

// MissReason explains why a cache lookup returned nothing.
type MissReason string

const (
	MissNotFound MissReason = "not_found"
	MissExpired  MissReason = "expired"
)

// CacheResult describes the outcome of a cache lookup for callers that
// emit cache hit/miss events. Age and TTL are zero on a not-found miss.
type CacheResult struct {
	Hit    bool
	Reason MissReason
	Age    time.Duration
	TTL    time.Duration
}

// CacheData stores a payload under name, stamping the write time. Prior
// payloads are overwritten, never merged. Returns the updated state.
func (s State) CacheData(name string, payload any) State {
	next := s.Clone()
	if next.Cached == nil {
		next.Cached = make(map[string]CacheEntry)
	}
	next.Cached[name] = CacheEntry{
		Payload:   payload,
		WrittenAt: time.Now().UTC(),
	}
	return next
}

// GetCached returns the payload stored under name if it is still fresh
// per cfg. Expiry is a read-time judgment: a stale entry stays in the
// state untouched and every subsequent read repeats the check against the
// same stored timestamp. The returned payload is the cached reference
// itself; callers must not mutate it in place.
func (s State) GetCached(name string, cfg CacheConfig) (any, CacheResult) {
	entry, ok := s.Cached[name]
	if !ok {
		return nil, CacheResult{Reason: MissNotFound}
	}

	ttl := cfg.TTLFor(name)
	age := cfg.now().Sub(entry.WrittenAt)
	if age > ttl {
		return nil, CacheResult{Reason: MissExpired, Age: age, TTL: ttl}
	}

	return entry.Payload, CacheResult{Hit: true, Age: age, TTL: ttl}
}
