package export

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/repolens/repolens/internal/analyzer"
)

func init() {
	Register(NewJSONFormatter())
}

// JSONEnvelope wraps the report with export metadata. The envelope shape
// is part of the public export contract.
type JSONEnvelope struct {
	ExportedAt string           `json:"exported_at"`
	Format     string           `json:"format"`
	Version    string           `json:"version"`
	Data       *analyzer.Report `json:"data"`
}

// exportVersion is the envelope schema version.
const exportVersion = "1.0"

// JSONFormatter writes the report as an indented JSON document.
type JSONFormatter struct {
	// nowFunc is used for testing to override the current time.
	nowFunc func() time.Time
}

// Compile-time interface check.
var _ Formatter = (*JSONFormatter)(nil)

func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

func (f *JSONFormatter) Name() string        { return "json" }
func (f *JSONFormatter) ContentType() string { return "application/json" }
func (f *JSONFormatter) Extension() string   { return "json" }

// Format writes the report wrapped in the export envelope.
func (f *JSONFormatter) Format(report *analyzer.Report, w io.Writer) error {
	envelope := JSONEnvelope{
		ExportedAt: f.now().UTC().Format(time.RFC3339),
		Format:     "json",
		Version:    exportVersion,
		Data:       report,
	}

	data, err := json.MarshalIndent(envelope, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json export: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write json export: %w", err)
	}
	if _, err := w.Write([]byte("\n")); err != nil {
		return fmt.Errorf("write json export trailing newline: %w", err)
	}
	return nil
}

func (f *JSONFormatter) now() time.Time {
	if f.nowFunc != nil {
		return f.nowFunc()
	}
	return time.Now()
}
