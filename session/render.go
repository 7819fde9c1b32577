package session

import (
	"fmt"
	"io"
	"strings"
)

const renderWidth = 70

// Render writes a formatted text view of the session to w. With detailed
// set, full recommendation and note bodies are included; otherwise only
// counts. Formatting view over the same aggregates as Summary.
func (s State) Render(w io.Writer, detailed bool) {
	sum := s.Summary()

	rule := strings.Repeat("=", renderWidth)
	thin := strings.Repeat("-", renderWidth)

	fmt.Fprintf(w, "\n%s\nSESSION STATE\n%s\n", rule, rule)

	fmt.Fprintf(w, "\nAdvisor ID:      %s\n", sum.AdvisorID)
	merchant := sum.MerchantID
	if sum.MerchantName != "" {
		merchant += fmt.Sprintf(" (%s)", sum.MerchantName)
	}
	if sum.Segment != "" {
		merchant += fmt.Sprintf(" [%s]", sum.Segment)
	}
	fmt.Fprintf(w, "Merchant:        %s\n", merchant)
	fmt.Fprintf(w, "Started:         %s\n", sum.StartedAt.Format(TimestampFormat))
	fmt.Fprintf(w, "Last Activity:   %s\n", sum.LastActivityAt.Format(TimestampFormat))
	fmt.Fprintf(w, "Duration:        %.1f minutes (%.0fs)\n",
		sum.Duration.Minutes(), sum.Duration.Seconds())

	fmt.Fprintf(w, "\n%s\nMETRICS\n%s\n", thin, thin)
	fmt.Fprintf(w, "Total Queries:   %d\n", sum.TotalQueries)
	fmt.Fprintf(w, "Topics:          %d\n", sum.TopicsCount)
	if len(sum.Topics) > 0 {
		fmt.Fprintf(w, "  Topics list:   %s\n", strings.Join(sum.Topics, ", "))
	}

	fmt.Fprintf(w, "Cached Data:     %d types\n", len(sum.CachedTypes))
	if len(sum.CachedTypes) > 0 {
		fmt.Fprintf(w, "  Data types:    %s\n", strings.Join(sum.CachedTypes, ", "))
	}

	fmt.Fprintf(w, "Recommendations: %d\n", sum.RecommendationsCount)
	if detailed && len(s.Recommendations) > 0 {
		fmt.Fprintf(w, "\n%s\nRECOMMENDATIONS (DETAILED)\n%s\n", thin, thin)
		for i, rec := range s.Recommendations {
			fmt.Fprintf(w, "\n  %d. [%s] %s\n", i+1, strings.ToUpper(string(rec.Priority)), rec.Type)
			fmt.Fprintf(w, "     Description: %s\n", rec.Description)
			if rec.ExpectedImpact != "" {
				fmt.Fprintf(w, "     Impact:      %s\n", rec.ExpectedImpact)
			}
			fmt.Fprintf(w, "     Created:     %s\n", rec.CreatedAt.Format(TimestampFormat))
		}
	}

	fmt.Fprintf(w, "\nPending Questions: %d\n", sum.PendingQuestionsCount)
	for i, question := range s.PendingQuestions {
		fmt.Fprintf(w, "  %d. %s\n", i+1, question)
	}

	fmt.Fprintf(w, "\nAdvisor Notes:   %d\n", sum.AdvisorNotesCount)
	if detailed && len(s.AdvisorNotes) > 0 {
		fmt.Fprintf(w, "\n%s\nADVISOR NOTES (DETAILED)\n%s\n", thin, thin)
		for i, note := range s.AdvisorNotes {
			fmt.Fprintf(w, "\n  %d. %s\n", i+1, note.Timestamp.Format(TimestampFormat))
			fmt.Fprintf(w, "     %s\n", note.Note)
		}
	}

	fmt.Fprintf(w, "\n%s\n\n", rule)
}
