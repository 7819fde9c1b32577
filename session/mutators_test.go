package session_test

import (
	"errors"
	"testing"
	"time"

	"github.com/merchant-advisory/advisor/core/protocol"
	"github.com/merchant-advisory/advisor/session"
)

func TestState_IncrementQueryCount(t *testing.T) {
	s := newTestState(t)
	started := s.StartedAt

	for i := 0; i < 3; i++ {
		s = s.IncrementQueryCount()
	}

	if s.TotalQueries != 3 {
		t.Errorf("TotalQueries = %d, want 3", s.TotalQueries)
	}
	if s.LastActivityAt.Before(started) {
		t.Errorf("LastActivityAt %v is before StartedAt %v", s.LastActivityAt, started)
	}
	if !s.StartedAt.Equal(started) {
		t.Errorf("StartedAt changed from %v to %v", started, s.StartedAt)
	}
}

func TestState_AddMessage(t *testing.T) {
	s := newTestState(t)

	s = s.AddMessage(protocol.NewMessage(protocol.RoleUser, "How are my decline rates?"))
	s = s.AddMessage(protocol.NewMessage(protocol.RoleAssistant, "They are up 2% this month."))

	if len(s.Messages) != 2 {
		t.Fatalf("got %d messages, want 2", len(s.Messages))
	}
	if s.Messages[0].Role != protocol.RoleUser {
		t.Errorf("messages[0].Role = %q, want %q", s.Messages[0].Role, protocol.RoleUser)
	}
	if s.Messages[1].Role != protocol.RoleAssistant {
		t.Errorf("messages[1].Role = %q, want %q", s.Messages[1].Role, protocol.RoleAssistant)
	}
}

func TestState_AddTopic_Normalizes(t *testing.T) {
	tests := []struct {
		name  string
		topic string
		want  string
	}{
		{"plain", "fraud", "fraud"},
		{"spaces to underscores", "decline rates", "decline_rates"},
		{"trimmed and lowered", "  Chargeback Trends ", "chargeback_trends"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestState(t).AddTopic(tt.topic)
			if len(s.TopicsDiscussed) != 1 {
				t.Fatalf("got %d topics, want 1", len(s.TopicsDiscussed))
			}
			if s.TopicsDiscussed[0] != tt.want {
				t.Errorf("topic = %q, want %q", s.TopicsDiscussed[0], tt.want)
			}
		})
	}
}

func TestState_AddTopic_Idempotent(t *testing.T) {
	s := newTestState(t)

	s = s.AddTopic("decline_rates")
	s = s.AddTopic("Decline Rates")
	s = s.AddTopic(" decline rates ")

	if len(s.TopicsDiscussed) != 1 {
		t.Fatalf("got %d topics, want 1: %v", len(s.TopicsDiscussed), s.TopicsDiscussed)
	}
	if s.TopicsDiscussed[0] != "decline_rates" {
		t.Errorf("topic = %q, want %q", s.TopicsDiscussed[0], "decline_rates")
	}
}

func TestState_AddRecommendation(t *testing.T) {
	s := newTestState(t)

	before := time.Now().UTC()
	s, err := s.AddRecommendation("fraud_prevention", session.PriorityHigh,
		"Enable 3DS for transactions over $500", "Reduce chargebacks by 30%")
	after := time.Now().UTC()
	if err != nil {
		t.Fatalf("AddRecommendation() error = %v", err)
	}

	if len(s.Recommendations) != 1 {
		t.Fatalf("got %d recommendations, want 1", len(s.Recommendations))
	}
	rec := s.Recommendations[0]
	if rec.Type != "fraud_prevention" {
		t.Errorf("Type = %q, want %q", rec.Type, "fraud_prevention")
	}
	if rec.Priority != session.PriorityHigh {
		t.Errorf("Priority = %q, want %q", rec.Priority, session.PriorityHigh)
	}
	if rec.Description != "Enable 3DS for transactions over $500" {
		t.Errorf("Description = %q", rec.Description)
	}
	if rec.ExpectedImpact != "Reduce chargebacks by 30%" {
		t.Errorf("ExpectedImpact = %q", rec.ExpectedImpact)
	}
	if rec.CreatedAt.Before(before) || rec.CreatedAt.After(after) {
		t.Errorf("CreatedAt %v outside [%v, %v]", rec.CreatedAt, before, after)
	}
}

func TestState_AddRecommendation_InvalidPriority(t *testing.T) {
	s := newTestState(t)

	_, err := s.AddRecommendation("growth", session.Priority("urgent"), "desc", "")
	if !errors.Is(err, session.ErrInvalidPriority) {
		t.Errorf("AddRecommendation() error = %v, want %v", err, session.ErrInvalidPriority)
	}
	if len(s.Recommendations) != 0 {
		t.Errorf("receiver gained %d recommendations, want 0", len(s.Recommendations))
	}
}

func TestState_AddPendingQuestion_Dedupe(t *testing.T) {
	s := newTestState(t)

	s = s.AddPendingQuestion("What caused the spike in refunds?")
	s = s.AddPendingQuestion("What caused the spike in refunds?")
	s = s.AddPendingQuestion("what caused the spike in refunds?")

	// Exact match only: the case-variant question is a distinct entry.
	if len(s.PendingQuestions) != 2 {
		t.Fatalf("got %d questions, want 2: %v", len(s.PendingQuestions), s.PendingQuestions)
	}
}

func TestState_AddAdvisorNote_Repeats(t *testing.T) {
	s := newTestState(t)

	s = s.AddAdvisorNote("merchant prefers email")
	s = s.AddAdvisorNote("merchant prefers email")

	if len(s.AdvisorNotes) != 2 {
		t.Fatalf("got %d notes, want 2", len(s.AdvisorNotes))
	}
	for i, note := range s.AdvisorNotes {
		if note.Note != "merchant prefers email" {
			t.Errorf("notes[%d].Note = %q", i, note.Note)
		}
		if note.Timestamp.IsZero() {
			t.Errorf("notes[%d].Timestamp is zero", i)
		}
	}
}

func TestState_SetWorking(t *testing.T) {
	s := newTestState(t)

	s = s.SetWorking("draft_analysis", map[string]int{"declines": 42})
	s = s.SetWorking("draft_analysis", "replaced")

	if got := s.WorkingData["draft_analysis"]; got != "replaced" {
		t.Errorf("WorkingData[%q] = %v, want %q", "draft_analysis", got, "replaced")
	}
}

func TestState_SetMerchantInfo(t *testing.T) {
	s := newTestState(t)

	s, err := s.SetMerchantInfo("TechRetail Global", session.SegmentEnterprise)
	if err != nil {
		t.Fatalf("SetMerchantInfo() error = %v", err)
	}
	if s.MerchantName != "TechRetail Global" {
		t.Errorf("MerchantName = %q, want %q", s.MerchantName, "TechRetail Global")
	}
	if s.Segment != session.SegmentEnterprise {
		t.Errorf("Segment = %q, want %q", s.Segment, session.SegmentEnterprise)
	}
	if s.MerchantID != "mch_789456" {
		t.Errorf("MerchantID = %q, want %q", s.MerchantID, "mch_789456")
	}
}

func TestState_SetMerchantInfo_InvalidSegment(t *testing.T) {
	s := newTestState(t)

	_, err := s.SetMerchantInfo("TechRetail", session.Segment("conglomerate"))
	if !errors.Is(err, session.ErrInvalidSegment) {
		t.Errorf("SetMerchantInfo() error = %v, want %v", err, session.ErrInvalidSegment)
	}
}
