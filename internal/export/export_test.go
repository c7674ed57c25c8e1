package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/repolens/repolens/internal/analyzer"
	"github.com/repolens/repolens/internal/apperr"
	"github.com/repolens/repolens/internal/ghapi"
)

var fixedTime = time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)

func sampleReport(t *testing.T) *analyzer.Report {
	t.Helper()
	report, err := analyzer.Analyze(&ghapi.Facets{
		Languages: map[string]int{"Go": 7500, "Makefile": 2500},
		Readme:    "# Sample\n\nA sample repository.\n",
	}, "https://github.com/o/r")
	require.NoError(t, err)
	return report
}

func TestGet(t *testing.T) {
	for _, name := range []string{"json", "csv", "document"} {
		f, err := Get(name)
		require.NoError(t, err, name)
		assert.Equal(t, name, f.Name())
		assert.NotEmpty(t, f.ContentType())
		assert.NotEmpty(t, f.Extension())
	}
}

func TestGet_UnknownFormat(t *testing.T) {
	_, err := Get("pdf")
	require.Error(t, err)
	assert.Equal(t, apperr.InvalidInput, apperr.KindOf(err))
	assert.Contains(t, err.Error(), "available: csv, document, json")
}

func TestJSONFormat_Envelope(t *testing.T) {
	f := &JSONFormatter{nowFunc: func() time.Time { return fixedTime }}
	var buf bytes.Buffer
	require.NoError(t, f.Format(sampleReport(t), &buf))

	var envelope map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(buf.Bytes(), &envelope))
	assert.Contains(t, envelope, "exported_at")
	assert.Contains(t, envelope, "data")

	var format string
	require.NoError(t, json.Unmarshal(envelope["format"], &format))
	assert.Equal(t, "json", format)

	var version string
	require.NoError(t, json.Unmarshal(envelope["version"], &version))
	assert.Equal(t, "1.0", version)
}

func TestJSONFormat_RoundTrip(t *testing.T) {
	report := sampleReport(t)
	f := &JSONFormatter{nowFunc: func() time.Time { return fixedTime }}
	var buf bytes.Buffer
	require.NoError(t, f.Format(report, &buf))

	var envelope JSONEnvelope
	require.NoError(t, json.Unmarshal(buf.Bytes(), &envelope))
	assert.Equal(t, report, envelope.Data)
}

func TestJSONFormat_Deterministic(t *testing.T) {
	report := sampleReport(t)
	f := &JSONFormatter{nowFunc: func() time.Time { return fixedTime }}

	var a, b bytes.Buffer
	require.NoError(t, f.Format(report, &a))
	require.NoError(t, f.Format(report, &b))
	assert.Equal(t, a.Bytes(), b.Bytes())
}

func TestCSVFormat(t *testing.T) {
	f := &CSVFormatter{nowFunc: func() time.Time { return fixedTime }}
	var buf bytes.Buffer
	require.NoError(t, f.Format(sampleReport(t), &buf))

	r := csv.NewReader(&buf)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	require.NoError(t, err)
	assert.Equal(t, []string{"GitHub Repository Analysis Report"}, records[0])

	var sections []string
	for _, rec := range records {
		if len(rec) == 1 {
			sections = append(sections, rec[0])
		}
	}
	assert.Contains(t, sections, "Repository Metadata")
	assert.Contains(t, sections, "Architecture Synopsis")
	assert.Contains(t, sections, "Code Quality Metrics")
	assert.Contains(t, sections, "Development Activity")
	assert.Contains(t, sections, "Technical Debt Assessment")
}

func TestCSVFormat_RaggedRowsParse(t *testing.T) {
	f := &CSVFormatter{nowFunc: func() time.Time { return fixedTime }}
	var buf bytes.Buffer
	require.NoError(t, f.Format(sampleReport(t), &buf))

	r := csv.NewReader(&buf)
	r.FieldsPerRecord = -1
	_, err := r.ReadAll()
	assert.NoError(t, err)
}

func TestDocumentFormat(t *testing.T) {
	f := &DocumentFormatter{nowFunc: func() time.Time { return fixedTime }}
	var buf bytes.Buffer
	require.NoError(t, f.Format(sampleReport(t), &buf))

	out := buf.String()
	assert.Contains(t, out, "# GitHub Repository Analysis Report")
	assert.Contains(t, out, "Generated: 2026-03-01 09:30:00")
	assert.Contains(t, out, "## Repository Metadata")
	assert.Contains(t, out, "| Go | 75.0% |")
	assert.Contains(t, out, "## Technical Debt Assessment")
}

func TestDocumentFormat_Deterministic(t *testing.T) {
	report := sampleReport(t)
	f := &DocumentFormatter{nowFunc: func() time.Time { return fixedTime }}

	var a, b bytes.Buffer
	require.NoError(t, f.Format(report, &a))
	require.NoError(t, f.Format(report, &b))
	assert.Equal(t, a.String(), b.String())
}
