package export

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/repolens/repolens/internal/analyzer"
)

func init() {
	Register(NewDocumentFormatter())
}

// DocumentFormatter renders a print-ready Markdown report.
type DocumentFormatter struct {
	// nowFunc is used for testing to override the current time.
	nowFunc func() time.Time
}

// Compile-time interface check.
var _ Formatter = (*DocumentFormatter)(nil)

func NewDocumentFormatter() *DocumentFormatter {
	return &DocumentFormatter{}
}

func (f *DocumentFormatter) Name() string        { return "document" }
func (f *DocumentFormatter) ContentType() string { return "text/markdown" }
func (f *DocumentFormatter) Extension() string   { return "md" }

func (f *DocumentFormatter) Format(report *analyzer.Report, w io.Writer) error {
	var b strings.Builder

	b.WriteString("# GitHub Repository Analysis Report\n\n")
	fmt.Fprintf(&b, "Generated: %s\n\n", f.now().UTC().Format("2006-01-02 15:04:05"))
	if report.RawData.RepoURL != "" {
		fmt.Fprintf(&b, "Repository: %s\n\n", report.RawData.RepoURL)
	}

	meta := report.Metadata
	b.WriteString("## Repository Metadata\n\n")
	writeField(&b, "Primary Language", meta.PrimaryStack)
	writeField(&b, "Stars", fmt.Sprintf("%d", meta.Stars))
	writeField(&b, "Forks", fmt.Sprintf("%d", meta.Forks))
	writeField(&b, "Contributors", fmt.Sprintf("%d", meta.ContributorCount))
	writeField(&b, "License", meta.LicenseType)
	writeField(&b, "Latest Release", meta.LatestRelease)
	if len(meta.LanguageComposition) > 0 {
		b.WriteString("\n| Language | Share |\n|---|---|\n")
		for _, lang := range sortedLanguageNames(meta.LanguageComposition) {
			fmt.Fprintf(&b, "| %s | %.1f%% |\n", lang, meta.LanguageComposition[lang])
		}
	}

	arch := report.Architecture
	b.WriteString("\n## Architecture Synopsis\n\n")
	writeField(&b, "Architecture Pattern", arch.Pattern)
	writeField(&b, "Build System", arch.BuildSystem)
	writeField(&b, "Directory Structure", arch.DirectoryStructure)
	writeField(&b, "Deployment Pipeline", arch.DeploymentPipeline)
	if len(arch.CoreDependencies) > 0 {
		writeField(&b, "Core Dependencies", strings.Join(arch.CoreDependencies, ", "))
	}

	quality := report.Quality
	b.WriteString("\n## Code Quality Metrics\n\n")
	writeField(&b, "Test Coverage", quality.TestCoverage)
	writeField(&b, "CI/CD Pipeline", quality.CIPipelineStatus)
	writeField(&b, "Linting Standards", quality.LintingStandards)
	writeField(&b, "Automation", quality.AutomationScope)

	docs := report.Documentation
	b.WriteString("\n## Documentation\n\n")
	writeField(&b, "README Summary", docs.ReadmeSummary)
	writeField(&b, "Installation", strings.Join(docs.InstallationRequirements, "; "))

	activity := report.Activity
	b.WriteString("\n## Development Activity\n\n")
	writeField(&b, "Recent Commits", activity.RecentCommitPatterns)
	writeField(&b, "Commit Frequency", fmt.Sprintf("%.2f per day", activity.CommitFrequencyPerDay))
	writeField(&b, "Development Consistency", activity.DevelopmentConsistency)
	writeField(&b, "Open Issues", fmt.Sprintf("%d", activity.OpenIssuesCount))
	writeField(&b, "Open Pull Requests", fmt.Sprintf("%d", activity.OpenPullRequests))
	writeField(&b, "Release Cadence", activity.ReleaseCadence)

	debt := report.TechnicalDebt
	b.WriteString("\n## Technical Debt Assessment\n\n")
	writeField(&b, "Maintenance Burden", debt.MaintenanceBurden)
	writeField(&b, "Outdated Dependencies", debt.OutdatedDependencies)
	if len(debt.DebtIndicators) > 0 {
		b.WriteString("\nDebt indicators:\n\n")
		for _, indicator := range debt.DebtIndicators {
			fmt.Fprintf(&b, "- %s\n", indicator)
		}
	}
	if len(debt.RefactoringOpportunities) > 0 {
		b.WriteString("\nRefactoring opportunities:\n\n")
		for _, opp := range debt.RefactoringOpportunities {
			fmt.Fprintf(&b, "- %s\n", opp)
		}
	}

	_, err := io.WriteString(w, b.String())
	if err != nil {
		return fmt.Errorf("write document export: %w", err)
	}
	return nil
}

func (f *DocumentFormatter) now() time.Time {
	if f.nowFunc != nil {
		return f.nowFunc()
	}
	return time.Now()
}

func writeField(b *strings.Builder, name, value string) {
	if value == "" {
		value = "N/A"
	}
	fmt.Fprintf(b, "- **%s:** %s\n", name, value)
}

// sortedLanguageNames orders languages by descending share, ties
// alphabetical, for deterministic output.
func sortedLanguageNames(langs map[string]float64) []string {
	names := make([]string, 0, len(langs))
	for name := range langs {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if langs[names[i]] != langs[names[j]] {
			return langs[names[i]] > langs[names[j]]
		}
		return names[i] < names[j]
	})
	return names
}
