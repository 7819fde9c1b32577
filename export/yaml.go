package export

import (
	"io"

	"github.com/merchant-advisory/advisor/session"
	"gopkg.in/yaml.v3"
)

// YAMLExporter writes the session summary as YAML.
type YAMLExporter struct{}

func (e *YAMLExporter) Export(state session.State, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	defer func() { _ = enc.Close() }()

	return enc.Encode(state.Export())
}

func (e *YAMLExporter) Extension() string {
	return "yaml"
}
