package analyzer

import (
	"strings"
	"time"

	"github.com/repolens/repolens/internal/ghapi"
)

// buildQuality estimates test coverage from the test-file ratio and
// detects lint and CI tooling by filename.
func buildQuality(facets *ghapi.Facets, stats *treeStats) QualitySection {
	section := QualitySection{
		TestCoverage:     "Unknown",
		LintingStandards: "No linting config detected",
		CIPipelineStatus: "Not detected",
		AutomationScope:  "No automation detected",
	}

	if stats.totalFiles > 0 {
		ratio := round1(float64(len(stats.testFiles)) / float64(stats.totalFiles) * 100)
		section.TestFileRatio = ratio
		switch {
		case ratio > 30:
			section.TestCoverage = "High (>30% test files)"
		case ratio > 15:
			section.TestCoverage = "Medium (15-30% test files)"
		case ratio > 5:
			section.TestCoverage = "Low (5-15% test files)"
		default:
			section.TestCoverage = "Minimal (<5% test files)"
		}
		section.DocumentationCoverage = round1(float64(len(stats.docFiles)) / float64(stats.totalFiles) * 100)
	}

	if linters := detectLinters(stats); len(linters) > 0 {
		section.LintingStandards = strings.Join(linters, ", ")
	}

	if tools := detectCITools(stats); len(tools) > 0 {
		section.AutomationScope = strings.Join(tools, ", ")
	}
	if len(facets.WorkflowRuns) > 0 {
		section.CIPipelineStatus = "Active"
		section.RecentWorkflowResults = recentWorkflows(facets, 5)
	}

	return section
}

func detectLinters(stats *treeStats) []string {
	var found []string
	seen := make(map[string]bool)
	for _, name := range lintFileNames {
		if seen[name] {
			continue
		}
		for _, f := range stats.configFiles {
			if strings.HasSuffix(f, name) {
				found = append(found, name)
				seen[name] = true
				break
			}
		}
	}
	return found
}

func detectCITools(stats *treeStats) []string {
	var tools []string
	for _, f := range stats.configFiles {
		if strings.HasPrefix(f, ".github/workflows/") {
			tools = append(tools, "GitHub Actions")
			break
		}
	}
	if stats.anyConfigContains(".gitlab-ci") {
		tools = append(tools, "GitLab CI")
	}
	if stats.anyConfigContains("jenkinsfile") {
		tools = append(tools, "Jenkins")
	}
	if stats.anyConfigContains(".travis") {
		tools = append(tools, "Travis CI")
	}
	return tools
}

func recentWorkflows(facets *ghapi.Facets, n int) []WorkflowResult {
	var results []WorkflowResult
	for _, run := range facets.WorkflowRuns {
		if run.GetStatus() != "completed" {
			continue
		}
		result := WorkflowResult{
			Name:   run.GetName(),
			Status: run.GetConclusion(),
		}
		if result.Name == "" {
			result.Name = "Unknown"
		}
		if result.Status == "" {
			result.Status = "unknown"
		}
		if updated := run.GetUpdatedAt(); !updated.IsZero() {
			result.Date = updated.Format(time.RFC3339)
		}
		results = append(results, result)
		if len(results) == n {
			break
		}
	}
	return results
}
