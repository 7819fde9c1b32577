// Package export serializes session summaries for handoff: JSON for
// machine consumers, YAML for configuration-shaped archives, Markdown for
// human review.
package export

import (
	"fmt"
	"io"

	"github.com/merchant-advisory/advisor/session"
)

// Exporter writes a session's export projection in one format.
type Exporter interface {
	Export(state session.State, w io.Writer) error
	Extension() string
}

// NewExporter returns the exporter for a format name.
func NewExporter(format string) (Exporter, error) {
	switch format {
	case "json":
		return &JSONExporter{}, nil
	case "yaml", "yml":
		return &YAMLExporter{}, nil
	case "md", "markdown":
		return &MarkdownExporter{}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s (supported: json, yaml, md)", format)
	}
}
