package main

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"

	"github.com/repolens/repolens/internal/analyzer"
)

var (
	headingColor = color.New(color.FgCyan, color.Bold)
	labelColor   = color.New(color.FgWhite, color.Bold)
	warnColor    = color.New(color.FgYellow)
)

// renderReport writes a human-readable report to w.
func renderReport(w io.Writer, report *analyzer.Report) error {
	var b strings.Builder

	if report.RawData.RepoURL != "" {
		headingColor.Fprintf(&b, "%s\n", report.RawData.RepoURL)
		b.WriteString(strings.Repeat("=", len(report.RawData.RepoURL)) + "\n\n")
	}

	meta := report.Metadata
	headingColor.Fprintln(&b, "Repository Metadata")
	renderField(&b, "Primary Language", meta.PrimaryStack)
	renderField(&b, "Stars", fmt.Sprintf("%d", meta.Stars))
	renderField(&b, "Forks", fmt.Sprintf("%d", meta.Forks))
	renderField(&b, "Contributors", fmt.Sprintf("%d", meta.ContributorCount))
	renderField(&b, "License", meta.LicenseType)
	renderField(&b, "Latest Release", meta.LatestRelease)
	if len(meta.LanguageComposition) > 0 {
		renderField(&b, "Languages", languageLine(meta.LanguageComposition))
	}

	arch := report.Architecture
	headingColor.Fprintln(&b, "\nArchitecture")
	renderField(&b, "Pattern", arch.Pattern)
	renderField(&b, "Build System", arch.BuildSystem)
	renderField(&b, "Structure", arch.DirectoryStructure)
	renderField(&b, "Deployment", arch.DeploymentPipeline)

	quality := report.Quality
	headingColor.Fprintln(&b, "\nCode Quality")
	renderField(&b, "Test Coverage", quality.TestCoverage)
	renderField(&b, "CI/CD", quality.CIPipelineStatus)
	renderField(&b, "Linting", quality.LintingStandards)

	docs := report.Documentation
	headingColor.Fprintln(&b, "\nDocumentation")
	renderField(&b, "README", docs.ReadmeSummary)

	activity := report.Activity
	headingColor.Fprintln(&b, "\nDevelopment Activity")
	renderField(&b, "Recent Commits", activity.RecentCommitPatterns)
	renderField(&b, "Consistency", activity.DevelopmentConsistency)
	renderField(&b, "Open Issues", fmt.Sprintf("%d", activity.OpenIssuesCount))
	renderField(&b, "Open PRs", fmt.Sprintf("%d", activity.OpenPullRequests))

	debt := report.TechnicalDebt
	headingColor.Fprintln(&b, "\nTechnical Debt")
	renderField(&b, "Maintenance Burden", debt.MaintenanceBurden)
	for _, indicator := range debt.DebtIndicators {
		warnColor.Fprintf(&b, "  ! %s\n", indicator)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func renderField(b *strings.Builder, name, value string) {
	if value == "" {
		value = "N/A"
	}
	labelColor.Fprintf(b, "  %-18s", name+":")
	fmt.Fprintf(b, " %s\n", value)
}

func languageLine(langs map[string]float64) string {
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
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s %.1f%%", name, langs[name]))
	}
	return strings.Join(parts, ", ")
}
