package session

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// TimestampFormat is the fixed serialization format for exported
// timestamps: ISO-8601 with UTC offset.
const TimestampFormat = time.RFC3339

// Summary holds read-only aggregates derived from a session state.
type Summary struct {
	AdvisorID             string
	MerchantID            string
	MerchantName          string
	Segment               Segment
	StartedAt             time.Time
	LastActivityAt        time.Time
	Duration              time.Duration
	TotalQueries          int
	TopicsCount           int
	Topics                []string
	RecommendationsCount  int
	PendingQuestionsCount int
	AdvisorNotesCount     int
	CachedTypes           []string
	CacheAges             map[string]time.Duration
}

// Summary derives aggregate counts and the elapsed session duration
// without mutating state. Cache ages are measured against the real clock.
func (s State) Summary() Summary {
	now := time.Now().UTC()
	ages := make(map[string]time.Duration, len(s.Cached))
	for name, entry := range s.Cached {
		ages[name] = now.Sub(entry.WrittenAt)
	}

	return Summary{
		AdvisorID:             s.AdvisorID,
		MerchantID:            s.MerchantID,
		MerchantName:          s.MerchantName,
		Segment:               s.Segment,
		StartedAt:             s.StartedAt,
		LastActivityAt:        s.LastActivityAt,
		Duration:              s.LastActivityAt.Sub(s.StartedAt),
		TotalQueries:          s.TotalQueries,
		TopicsCount:           len(s.TopicsDiscussed),
		Topics:                append([]string(nil), s.TopicsDiscussed...),
		RecommendationsCount:  len(s.Recommendations),
		PendingQuestionsCount: len(s.PendingQuestions),
		AdvisorNotesCount:     len(s.AdvisorNotes),
		CachedTypes:           s.cachedNames(),
		CacheAges:             ages,
	}
}

// Snapshot produces span-level attributes for the tracing sink: flat keys,
// JSON-serializable primitive values only. Attached by the orchestrator to
// its per-query span before and after mutation.
func (s State) Snapshot(threadID string) map[string]any {
	now := time.Now().UTC()
	duration := s.LastActivityAt.Sub(s.StartedAt)

	snapshot := map[string]any{
		"session.thread_id":               threadID,
		"session.advisor_id":              s.AdvisorID,
		"session.total_queries":           s.TotalQueries,
		"session.duration_seconds":        duration.Seconds(),
		"merchant.id":                     s.MerchantID,
		"merchant.name":                   s.MerchantName,
		"merchant.segment":                string(s.Segment),
		"session.topics_count":            len(s.TopicsDiscussed),
		"session.topics":                  strings.Join(s.TopicsDiscussed, ", "),
		"session.recommendations_count":   len(s.Recommendations),
		"session.pending_questions_count": len(s.PendingQuestions),
		"session.advisor_notes_count":     len(s.AdvisorNotes),
		"session.cached_data_types":       strings.Join(s.cachedNames(), ", "),
		"session.cached_types_count":      len(s.Cached),
	}

	for name, entry := range s.Cached {
		snapshot[fmt.Sprintf("cache_age_%s", name)] = now.Sub(entry.WrittenAt).Seconds()
	}

	return snapshot
}

// ExportedSession is the fully serializable projection of a session:
// timestamps as fixed-format strings, nested records as plain structs.
// Suitable for handing to an external logging or tracing sink, or for
// checkpoint persistence.
type ExportedSession struct {
	AdvisorID       string   `json:"advisor_id" yaml:"advisor_id"`
	StartedAt       string   `json:"started_at" yaml:"started_at"`
	LastActivityAt  string   `json:"last_activity_at" yaml:"last_activity_at"`
	EndedAt         string   `json:"ended_at" yaml:"ended_at"`
	DurationSeconds float64  `json:"duration_seconds" yaml:"duration_seconds"`
	MerchantID      string   `json:"merchant_id" yaml:"merchant_id"`
	MerchantName    string   `json:"merchant_name" yaml:"merchant_name"`
	Segment         string   `json:"segment" yaml:"segment"`
	TotalQueries    int      `json:"total_queries" yaml:"total_queries"`
	TopicsDiscussed []string `json:"topics_discussed" yaml:"topics_discussed"`
	TopicsCount     int      `json:"topics_count" yaml:"topics_count"`

	CachedDataTypes []string          `json:"cached_data_types" yaml:"cached_data_types"`
	CachedAt        map[string]string `json:"cached_at" yaml:"cached_at"`

	Recommendations      []ExportedRecommendation `json:"recommendations" yaml:"recommendations"`
	RecommendationsCount int                      `json:"recommendations_count" yaml:"recommendations_count"`

	PendingQuestions      []string `json:"pending_questions" yaml:"pending_questions"`
	PendingQuestionsCount int      `json:"pending_questions_count" yaml:"pending_questions_count"`

	AdvisorNotes      []ExportedNote `json:"advisor_notes" yaml:"advisor_notes"`
	AdvisorNotesCount int            `json:"advisor_notes_count" yaml:"advisor_notes_count"`

	WorkingData map[string]any `json:"working_data,omitempty" yaml:"working_data,omitempty"`
}

// ExportedRecommendation is a Recommendation with its timestamp formatted.
type ExportedRecommendation struct {
	Type           string `json:"type" yaml:"type"`
	Priority       string `json:"priority" yaml:"priority"`
	Description    string `json:"description" yaml:"description"`
	ExpectedImpact string `json:"expected_impact,omitempty" yaml:"expected_impact,omitempty"`
	CreatedAt      string `json:"created_at" yaml:"created_at"`
}

// ExportedNote is a Note with its timestamp formatted.
type ExportedNote struct {
	Note      string `json:"note" yaml:"note"`
	Timestamp string `json:"timestamp" yaml:"timestamp"`
}

// Export produces the serializable session projection. EndedAt is stamped
// at export time; cache payloads are represented by their names and write
// timestamps only.
func (s State) Export() ExportedSession {
	cachedAt := make(map[string]string, len(s.Cached))
	for name, entry := range s.Cached {
		cachedAt[name] = entry.WrittenAt.Format(TimestampFormat)
	}

	recs := make([]ExportedRecommendation, 0, len(s.Recommendations))
	for _, rec := range s.Recommendations {
		recs = append(recs, ExportedRecommendation{
			Type:           rec.Type,
			Priority:       string(rec.Priority),
			Description:    rec.Description,
			ExpectedImpact: rec.ExpectedImpact,
			CreatedAt:      rec.CreatedAt.Format(TimestampFormat),
		})
	}

	notes := make([]ExportedNote, 0, len(s.AdvisorNotes))
	for _, note := range s.AdvisorNotes {
		notes = append(notes, ExportedNote{
			Note:      note.Note,
			Timestamp: note.Timestamp.Format(TimestampFormat),
		})
	}

	return ExportedSession{
		AdvisorID:             s.AdvisorID,
		StartedAt:             s.StartedAt.Format(TimestampFormat),
		LastActivityAt:        s.LastActivityAt.Format(TimestampFormat),
		EndedAt:               time.Now().UTC().Format(TimestampFormat),
		DurationSeconds:       s.LastActivityAt.Sub(s.StartedAt).Seconds(),
		MerchantID:            s.MerchantID,
		MerchantName:          s.MerchantName,
		Segment:               string(s.Segment),
		TotalQueries:          s.TotalQueries,
		TopicsDiscussed:       append([]string(nil), s.TopicsDiscussed...),
		TopicsCount:           len(s.TopicsDiscussed),
		CachedDataTypes:       s.cachedNames(),
		CachedAt:              cachedAt,
		Recommendations:       recs,
		RecommendationsCount:  len(s.Recommendations),
		PendingQuestions:      append([]string(nil), s.PendingQuestions...),
		PendingQuestionsCount: len(s.PendingQuestions),
		AdvisorNotes:          notes,
		AdvisorNotesCount:     len(s.AdvisorNotes),
		WorkingData:           s.WorkingData,
	}
}

func (s State) cachedNames() []string {
	names := make([]string, 0, len(s.Cached))
	for name := range s.Cached {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
