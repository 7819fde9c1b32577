package advisor

import "github.com/merchant-advisory/advisor/observability"

// Advisor event types emitted around the query loop.
const (
	EventSessionStart     observability.EventType = "advisor.session.start"
	EventQueryStart       observability.EventType = "advisor.query.start"
	EventQueryComplete    observability.EventType = "advisor.query.complete"
	EventSessionSnapshot  observability.EventType = "advisor.session.snapshot"
	EventCacheHit         observability.EventType = "advisor.cache.hit"
	EventCacheMiss        observability.EventType = "advisor.cache.miss"
	EventMerchantMismatch observability.EventType = "advisor.merchant.mismatch"
	EventError            observability.EventType = "advisor.error"
)
