package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/merchant-advisory/advisor/session"
)

// MarkdownExporter writes the session summary as a Markdown report.
type MarkdownExporter struct{}

func (e *MarkdownExporter) Export(state session.State, w io.Writer) error {
	sum := state.Export()

	var b strings.Builder

	fmt.Fprintf(&b, "# Session Summary: %s\n\n", sum.MerchantID)

	fmt.Fprintf(&b, "## Session\n\n")
	fmt.Fprintf(&b, "- **Advisor:** %s\n", sum.AdvisorID)
	fmt.Fprintf(&b, "- **Merchant:** %s", sum.MerchantID)
	if sum.MerchantName != "" {
		fmt.Fprintf(&b, " (%s)", sum.MerchantName)
	}
	if sum.Segment != "" {
		fmt.Fprintf(&b, " [%s]", sum.Segment)
	}
	fmt.Fprintf(&b, "\n")
	fmt.Fprintf(&b, "- **Started:** %s\n", sum.StartedAt)
	fmt.Fprintf(&b, "- **Last activity:** %s\n", sum.LastActivityAt)
	fmt.Fprintf(&b, "- **Duration:** %.0fs\n", sum.DurationSeconds)
	fmt.Fprintf(&b, "- **Total queries:** %d\n\n", sum.TotalQueries)

	if len(sum.TopicsDiscussed) > 0 {
		fmt.Fprintf(&b, "## Topics (%d)\n\n", sum.TopicsCount)
		for _, topic := range sum.TopicsDiscussed {
			fmt.Fprintf(&b, "- %s\n", topic)
		}
		fmt.Fprintf(&b, "\n")
	}

	if len(sum.Recommendations) > 0 {
		fmt.Fprintf(&b, "## Recommendations (%d)\n\n", sum.RecommendationsCount)
		for i, rec := range sum.Recommendations {
			fmt.Fprintf(&b, "%d. **[%s]** %s: %s", i+1, strings.ToUpper(rec.Priority), rec.Type, rec.Description)
			if rec.ExpectedImpact != "" {
				fmt.Fprintf(&b, " (%s)", rec.ExpectedImpact)
			}
			fmt.Fprintf(&b, "\n")
		}
		fmt.Fprintf(&b, "\n")
	}

	if len(sum.PendingQuestions) > 0 {
		fmt.Fprintf(&b, "## Pending Questions (%d)\n\n", sum.PendingQuestionsCount)
		for _, question := range sum.PendingQuestions {
			fmt.Fprintf(&b, "- %s\n", question)
		}
		fmt.Fprintf(&b, "\n")
	}

	if len(sum.AdvisorNotes) > 0 {
		fmt.Fprintf(&b, "## Advisor Notes (%d)\n\n", sum.AdvisorNotesCount)
		for _, note := range sum.AdvisorNotes {
			fmt.Fprintf(&b, "- %s: %s\n", note.Timestamp, note.Note)
		}
		fmt.Fprintf(&b, "\n")
	}

	if len(sum.CachedDataTypes) > 0 {
		fmt.Fprintf(&b, "## Cached Data\n\n")
		for _, name := range sum.CachedDataTypes {
			fmt.Fprintf(&b, "- %s (written %s)\n", name, sum.CachedAt[name])
		}
		fmt.Fprintf(&b, "\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func (e *MarkdownExporter) Extension() string {
	return "md"
}
