package session

import (
	"fmt"
	"slices"
	"time"

	"github.com/merchant-advisory/advisor/core/protocol"
)

// IncrementQueryCount bumps the query counter and advances the activity
// timestamp. LastActivityAt never moves backwards even if the wall clock
// does.
func (s State) IncrementQueryCount() State {
	next := s.Clone()
	next.TotalQueries++
	if now := time.Now().UTC(); now.After(next.LastActivityAt) {
		next.LastActivityAt = now
	}
	return next
}

// AddMessage appends a message to the mirrored transcript.
func (s State) AddMessage(msg protocol.Message) State {
	next := s.Clone()
	next.Messages = append(next.Messages, msg)
	return next
}

// AddTopic records a discussion topic. The topic is normalized (trimmed,
// lowercased, spaces collapsed to underscores) before comparison; adding a
// topic that is already present returns an equivalent state.
func (s State) AddTopic(topic string) State {
	normalized := normalizeTopic(topic)
	if slices.Contains(s.TopicsDiscussed, normalized) {
		return s.Clone()
	}

	next := s.Clone()
	next.TopicsDiscussed = append(next.TopicsDiscussed, normalized)
	return next
}

// AddRecommendation appends a recommendation stamped with the current
// time. Returns ErrInvalidPriority for a priority outside low/medium/high;
// the receiver is untouched on error.
func (s State) AddRecommendation(recType string, priority Priority, description, expectedImpact string) (State, error) {
	if !priority.Valid() {
		return State{}, fmt.Errorf("%w: %q", ErrInvalidPriority, priority)
	}

	next := s.Clone()
	next.Recommendations = append(next.Recommendations, Recommendation{
		Type:           recType,
		Priority:       priority,
		Description:    description,
		ExpectedImpact: expectedImpact,
		CreatedAt:      time.Now().UTC(),
	})
	return next, nil
}

// AddPendingQuestion appends a question, de-duplicated by exact match.
func (s State) AddPendingQuestion(question string) State {
	if slices.Contains(s.PendingQuestions, question) {
		return s.Clone()
	}

	next := s.Clone()
	next.PendingQuestions = append(next.PendingQuestions, question)
	return next
}

// AddAdvisorNote appends a timestamped note. Notes may repeat.
func (s State) AddAdvisorNote(note string) State {
	next := s.Clone()
	next.AdvisorNotes = append(next.AdvisorNotes, Note{
		Note:      note,
		Timestamp: time.Now().UTC(),
	})
	return next
}

// SetWorking stores a value in the free-form scratch map.
func (s State) SetWorking(key string, value any) State {
	next := s.Clone()
	if next.WorkingData == nil {
		next.WorkingData = make(map[string]any)
	}
	next.WorkingData[key] = value
	return next
}

// SetMerchantInfo updates the descriptive merchant fields. The merchant
// binding itself (MerchantID) is immutable; only name and segment change.
// Returns ErrInvalidSegment for an unrecognized segment tag.
func (s State) SetMerchantInfo(name string, segment Segment) (State, error) {
	if !segment.Valid() {
		return State{}, fmt.Errorf("%w: %q", ErrInvalidSegment, segment)
	}

	next := s.Clone()
	next.MerchantName = name
	next.Segment = segment
	return next, nil
}
