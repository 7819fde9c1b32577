package session_test

import (
	"strings"
	"testing"
	"time"

	"github.com/merchant-advisory/advisor/session"
)

func buildSessionFixture(t *testing.T) session.State {
	t.Helper()

	s := newTestState(t)
	s = s.IncrementQueryCount()
	s = s.IncrementQueryCount()
	s = s.AddTopic("decline rates")
	s = s.AddTopic("fraud")
	s = s.AddPendingQuestion("What changed in March?")
	s = s.AddAdvisorNote("prefers morning calls")
	s = s.CacheData(session.CacheProfile, map[string]string{"industry": "retail"})

	s, err := s.AddRecommendation("fraud_prevention", session.PriorityHigh,
		"Enable 3DS", "Reduce chargebacks by 30%")
	if err != nil {
		t.Fatalf("AddRecommendation() error = %v", err)
	}
	return s
}

func TestState_Summary(t *testing.T) {
	s := buildSessionFixture(t)

	sum := s.Summary()
	if sum.AdvisorID != "adv_001" {
		t.Errorf("AdvisorID = %q, want %q", sum.AdvisorID, "adv_001")
	}
	if sum.MerchantID != "mch_789456" {
		t.Errorf("MerchantID = %q, want %q", sum.MerchantID, "mch_789456")
	}
	if sum.TotalQueries != 2 {
		t.Errorf("TotalQueries = %d, want 2", sum.TotalQueries)
	}
	if sum.TopicsCount != 2 {
		t.Errorf("TopicsCount = %d, want 2", sum.TopicsCount)
	}
	if sum.RecommendationsCount != 1 {
		t.Errorf("RecommendationsCount = %d, want 1", sum.RecommendationsCount)
	}
	if sum.PendingQuestionsCount != 1 {
		t.Errorf("PendingQuestionsCount = %d, want 1", sum.PendingQuestionsCount)
	}
	if sum.AdvisorNotesCount != 1 {
		t.Errorf("AdvisorNotesCount = %d, want 1", sum.AdvisorNotesCount)
	}
	if sum.Duration < 0 {
		t.Errorf("Duration = %v, want >= 0", sum.Duration)
	}
	if len(sum.CachedTypes) != 1 || sum.CachedTypes[0] != session.CacheProfile {
		t.Errorf("CachedTypes = %v, want [%s]", sum.CachedTypes, session.CacheProfile)
	}
	if age, ok := sum.CacheAges[session.CacheProfile]; !ok || age < 0 {
		t.Errorf("CacheAges[profile] = %v (present %v), want >= 0", age, ok)
	}
}

func TestState_Snapshot(t *testing.T) {
	s := buildSessionFixture(t)

	snap := s.Snapshot("merchant_mch_789456_20250314_092653")

	wantStrings := map[string]string{
		"session.thread_id":         "merchant_mch_789456_20250314_092653",
		"session.advisor_id":        "adv_001",
		"merchant.id":               "mch_789456",
		"merchant.name":             "TechRetail Inc",
		"merchant.segment":          "mid_market",
		"session.topics":            "decline_rates, fraud",
		"session.cached_data_types": "profile",
	}
	for key, want := range wantStrings {
		if got := snap[key]; got != want {
			t.Errorf("snapshot[%q] = %v, want %q", key, got, want)
		}
	}

	wantInts := map[string]int{
		"session.total_queries":           2,
		"session.topics_count":            2,
		"session.recommendations_count":   1,
		"session.pending_questions_count": 1,
		"session.advisor_notes_count":     1,
		"session.cached_types_count":      1,
	}
	for key, want := range wantInts {
		if got := snap[key]; got != want {
			t.Errorf("snapshot[%q] = %v, want %d", key, got, want)
		}
	}

	age, ok := snap["cache_age_profile"].(float64)
	if !ok {
		t.Fatalf("snapshot[cache_age_profile] = %T, want float64", snap["cache_age_profile"])
	}
	if age < 0 {
		t.Errorf("cache_age_profile = %v, want >= 0", age)
	}
}

func TestState_Export(t *testing.T) {
	s := buildSessionFixture(t)

	exported := s.Export()
	if exported.MerchantID != "mch_789456" {
		t.Errorf("MerchantID = %q, want %q", exported.MerchantID, "mch_789456")
	}
	if exported.TotalQueries != 2 {
		t.Errorf("TotalQueries = %d, want 2", exported.TotalQueries)
	}
	if exported.TopicsCount != 2 || len(exported.TopicsDiscussed) != 2 {
		t.Errorf("topics = %v (count %d), want 2 entries", exported.TopicsDiscussed, exported.TopicsCount)
	}

	for name, value := range map[string]string{
		"started_at":       exported.StartedAt,
		"last_activity_at": exported.LastActivityAt,
		"ended_at":         exported.EndedAt,
	} {
		if _, err := time.Parse(session.TimestampFormat, value); err != nil {
			t.Errorf("%s = %q does not parse as %s: %v", name, value, session.TimestampFormat, err)
		}
	}

	if len(exported.Recommendations) != 1 {
		t.Fatalf("got %d recommendations, want 1", len(exported.Recommendations))
	}
	rec := exported.Recommendations[0]
	if rec.Priority != "high" {
		t.Errorf("rec.Priority = %q, want %q", rec.Priority, "high")
	}
	if _, err := time.Parse(session.TimestampFormat, rec.CreatedAt); err != nil {
		t.Errorf("rec.CreatedAt = %q does not parse: %v", rec.CreatedAt, err)
	}

	if _, ok := exported.CachedAt[session.CacheProfile]; !ok {
		t.Errorf("CachedAt missing %q: %v", session.CacheProfile, exported.CachedAt)
	}
	if exported.DurationSeconds < 0 {
		t.Errorf("DurationSeconds = %v, want >= 0", exported.DurationSeconds)
	}
}

func TestState_Render(t *testing.T) {
	s := buildSessionFixture(t)

	var buf strings.Builder
	s.Render(&buf, false)
	out := buf.String()

	for _, want := range []string{
		"mch_789456",
		"TechRetail Inc",
		"mid_market",
		"decline_rates",
		"Total Queries",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Render output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Enable 3DS") {
		t.Error("compact Render should not include recommendation bodies")
	}

	buf.Reset()
	s.Render(&buf, true)
	if !strings.Contains(buf.String(), "Enable 3DS") {
		t.Error("detailed Render should include recommendation bodies")
	}
}
