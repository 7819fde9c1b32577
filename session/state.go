// Package session implements the conversation-memory layer for a
// single-merchant advisory session: the state value object, its
// copy-on-write mutators, the cache freshness policy, and read-only
// projections for inspection and export.
package session

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/merchant-advisory/advisor/core/protocol"
)

// Segment classifies the merchant bound to a session.
type Segment string

const (
	SegmentSmallBusiness Segment = "small_business"
	SegmentMidMarket     Segment = "mid_market"
	SegmentEnterprise    Segment = "enterprise"
)

// Valid reports whether the segment is one of the recognized tags.
func (s Segment) Valid() bool {
	switch s {
	case SegmentSmallBusiness, SegmentMidMarket, SegmentEnterprise:
		return true
	}
	return false
}

// Priority ranks a recommendation.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Valid reports whether the priority is one of the recognized levels.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Recommendation is an advisory action item recorded during a session.
type Recommendation struct {
	Type           string    `json:"type"`
	Priority       Priority  `json:"priority"`
	Description    string    `json:"description"`
	ExpectedImpact string    `json:"expected_impact,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// Note is a timestamped free-form advisor note.
type Note struct {
	Note      string    `json:"note"`
	Timestamp time.Time `json:"timestamp"`
}

// State is the complete memory of one advisory session. A session is
// permanently bound to exactly one merchant at construction.
//
// State is a value: mutators return a new State and never modify the
// receiver, so two callers holding independent State values cannot
// interfere. Serializing writes for a shared session identifier is the
// orchestrator's responsibility (last writer wins at that boundary).
type State struct {
	// Messages mirrors the transcript owned by the checkpoint store.
	Messages []protocol.Message `json:"messages"`

	AdvisorID      string    `json:"advisor_id"`
	StartedAt      time.Time `json:"started_at"`
	LastActivityAt time.Time `json:"last_activity_at"`

	// Merchant binding. MerchantID is normalized and immutable after
	// construction; name and segment change only via SetMerchantInfo.
	MerchantID   string  `json:"merchant_id"`
	MerchantName string  `json:"merchant_name,omitempty"`
	Segment      Segment `json:"segment,omitempty"`

	TotalQueries int `json:"total_queries"`

	// Cached holds per-name payloads with their write timestamps.
	// Freshness is judged on read against CacheConfig; stale entries
	// are never evicted.
	Cached map[string]CacheEntry `json:"cached,omitempty"`

	TopicsDiscussed  []string         `json:"topics_discussed,omitempty"`
	Recommendations  []Recommendation `json:"recommendations,omitempty"`
	PendingQuestions []string         `json:"pending_questions,omitempty"`
	AdvisorNotes     []Note           `json:"advisor_notes,omitempty"`

	// WorkingData is free-form scratch space with no integrity constraints.
	WorkingData map[string]any `json:"working_data,omitempty"`
}

// New creates the initial state for a merchant session. The raw merchant
// identifier is normalized to the mch_ form, counters start at zero, and
// StartedAt equals LastActivityAt. Returns ErrInvalidSegment when the
// segment tag is not one of the recognized values.
func New(advisorID, merchantID, merchantName string, segment Segment) (State, error) {
	if !segment.Valid() {
		return State{}, fmt.Errorf("%w: %q", ErrInvalidSegment, segment)
	}

	now := time.Now().UTC()
	return State{
		AdvisorID:      advisorID,
		StartedAt:      now,
		LastActivityAt: now,
		MerchantID:     NormalizeMerchantID(merchantID),
		MerchantName:   merchantName,
		Segment:        segment,
		Cached:         make(map[string]CacheEntry),
		WorkingData:    make(map[string]any),
	}, nil
}

// Clone creates an independent copy of the State. Collections are copied
// one level deep; cached payloads keep their original references, matching
// the read path's no-copy contract.
func (s State) Clone() State {
	clone := s
	clone.Messages = slices.Clone(s.Messages)
	clone.Cached = maps.Clone(s.Cached)
	clone.TopicsDiscussed = slices.Clone(s.TopicsDiscussed)
	clone.Recommendations = slices.Clone(s.Recommendations)
	clone.PendingQuestions = slices.Clone(s.PendingQuestions)
	clone.AdvisorNotes = slices.Clone(s.AdvisorNotes)
	clone.WorkingData = maps.Clone(s.WorkingData)
	return clone
}

// normalizeTopic lowers, trims, and collapses spaces to underscores so
// "Decline Rates " and "decline_rates" compare equal.
func normalizeTopic(topic string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(topic)), " ", "_")
}
