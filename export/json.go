package export

import (
	"encoding/json"
	"io"

	"github.com/merchant-advisory/advisor/session"
)

// JSONExporter writes the session summary as indented JSON.
type JSONExporter struct{}

func (e *JSONExporter) Export(state session.State, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(state.Export())
}

func (e *JSONExporter) Extension() string {
	return "json"
}
