package analyzer

import (
	"regexp"
	"strings"

	"github.com/repolens/repolens/internal/ghapi"
)

const (
	noReadmeMarker   = "No README found"
	maxSummaryLength = 500
	summaryScanLines = 20
	summaryMaxLines  = 3
)

var installSectionPattern = regexp.MustCompile(`(?is)##+ *install(?:ation)?[^\n]*\n(.*?)(?:\n##|\z)`)

// buildDocumentation summarizes the README. A missing README produces an
// explicit marker, never an empty string.
func buildDocumentation(facets *ghapi.Facets, stats *treeStats) DocumentationSection {
	section := DocumentationSection{
		ReadmeSummary:            noReadmeMarker,
		InstallationRequirements: []string{"Check README for installation instructions"},
		CompatibilityConstraints: "Language: Unknown",
		DocFileCount:             len(stats.docFiles),
	}

	if facets.Repository != nil && facets.Repository.GetLanguage() != "" {
		section.CompatibilityConstraints = "Language: " + facets.Repository.GetLanguage()
	}
	if facets.Readme == "" {
		return section
	}

	section.ReadmeSummary = readmeSummary(facets.Readme)
	if steps := installationSteps(facets.Readme); len(steps) > 0 {
		section.InstallationRequirements = steps
	}
	return section
}

// readmeSummary joins the first few non-header lines within the head of
// the README, truncated to a fixed length.
func readmeSummary(readme string) string {
	lines := strings.Split(readme, "\n")
	if len(lines) > summaryScanLines {
		lines = lines[:summaryScanLines]
	}

	var summary []string
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" && !strings.HasPrefix(line, "#") {
			summary = append(summary, line)
		}
		if len(summary) >= summaryMaxLines {
			break
		}
	}
	if len(summary) == 0 {
		return "README exists but no summary found"
	}

	joined := strings.Join(summary, " ")
	if len(joined) > maxSummaryLength {
		return joined[:maxSummaryLength] + "..."
	}
	return joined
}

// installationSteps extracts up to five lines from an "Installation"
// heading, if the README has one.
func installationSteps(readme string) []string {
	if !strings.Contains(strings.ToLower(readme), "install") {
		return nil
	}
	m := installSectionPattern.FindStringSubmatch(readme)
	if m == nil {
		return nil
	}

	var steps []string
	for _, line := range strings.Split(m[1], "\n") {
		if line = strings.TrimSpace(line); line != "" {
			steps = append(steps, line)
		}
		if len(steps) == 5 {
			break
		}
	}
	return steps
}
