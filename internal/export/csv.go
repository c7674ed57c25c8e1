package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/repolens/repolens/internal/analyzer"
)

func init() {
	Register(NewCSVFormatter())
}

// CSVFormatter flattens each report section into field/value rows.
type CSVFormatter struct {
	// nowFunc is used for testing to override the current time.
	nowFunc func() time.Time
}

// Compile-time interface check.
var _ Formatter = (*CSVFormatter)(nil)

func NewCSVFormatter() *CSVFormatter {
	return &CSVFormatter{}
}

func (f *CSVFormatter) Name() string        { return "csv" }
func (f *CSVFormatter) ContentType() string { return "text/csv" }
func (f *CSVFormatter) Extension() string   { return "csv" }

func (f *CSVFormatter) Format(report *analyzer.Report, w io.Writer) error {
	cw := csv.NewWriter(w)

	rows := [][]string{
		{"GitHub Repository Analysis Report"},
		{"Exported at", f.now().UTC().Format(time.RFC3339)},
		{},
	}
	rows = append(rows, metadataRows(report.Metadata)...)
	rows = append(rows, architectureRows(report.Architecture)...)
	rows = append(rows, qualityRows(report.Quality)...)
	rows = append(rows, activityRows(report.Activity)...)
	rows = append(rows, debtRows(report.TechnicalDebt)...)

	for _, row := range rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv export: %w", err)
	}
	return nil
}

func (f *CSVFormatter) now() time.Time {
	if f.nowFunc != nil {
		return f.nowFunc()
	}
	return time.Now()
}

func metadataRows(meta analyzer.MetadataSection) [][]string {
	return [][]string{
		{"Repository Metadata"},
		{"Field", "Value"},
		{"Primary Language", meta.PrimaryStack},
		{"Stars", strconv.Itoa(meta.Stars)},
		{"Forks", strconv.Itoa(meta.Forks)},
		{"Contributors", strconv.Itoa(meta.ContributorCount)},
		{"Size (KB)", strconv.Itoa(meta.RepositorySizeKB)},
		{"License", meta.LicenseType},
		{"Latest Release", meta.LatestRelease},
		{},
	}
}

func architectureRows(arch analyzer.ArchitectureSection) [][]string {
	return [][]string{
		{"Architecture Synopsis"},
		{"Field", "Value"},
		{"Architecture Pattern", arch.Pattern},
		{"Build System", arch.BuildSystem},
		{"Directory Structure", arch.DirectoryStructure},
		{"Core Dependencies", strings.Join(arch.CoreDependencies, "; ")},
		{},
	}
}

func qualityRows(quality analyzer.QualitySection) [][]string {
	return [][]string{
		{"Code Quality Metrics"},
		{"Metric", "Value"},
		{"Test Coverage", quality.TestCoverage},
		{"CI/CD Pipeline", quality.CIPipelineStatus},
		{"Linting Standards", quality.LintingStandards},
		{"Automation", quality.AutomationScope},
		{},
	}
}

func activityRows(activity analyzer.ActivitySection) [][]string {
	return [][]string{
		{"Development Activity"},
		{"Metric", "Value"},
		{"Recent Commits", activity.RecentCommitPatterns},
		{"Commit Frequency", strconv.FormatFloat(activity.CommitFrequencyPerDay, 'f', -1, 64)},
		{"Development Consistency", activity.DevelopmentConsistency},
		{"Open Issues", strconv.Itoa(activity.OpenIssuesCount)},
		{"Open PRs", strconv.Itoa(activity.OpenPullRequests)},
		{},
	}
}

func debtRows(debt analyzer.TechnicalDebtSection) [][]string {
	rows := [][]string{
		{"Technical Debt Assessment"},
		{"Maintenance Burden", debt.MaintenanceBurden},
	}
	for _, indicator := range debt.DebtIndicators {
		rows = append(rows, []string{"Debt Indicator", indicator})
	}
	return rows
}
