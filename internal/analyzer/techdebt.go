package analyzer

import (
	"fmt"
	"strings"

	"github.com/repolens/repolens/internal/ghapi"
)

// buildTechnicalDebt accumulates free-text debt indicators from the
// structure, dependency, and quality facts. This is a fixed pattern set,
// not a live vulnerability feed.
func buildTechnicalDebt(facets *ghapi.Facets, stats *treeStats, deps *dependencyInfo, quality QualitySection) TechnicalDebtSection {
	section := TechnicalDebtSection{
		OutdatedDependencies: "All dependencies use fixed versioning",
		MaintenanceBurden:    "Repository age: unknown",
		ComplexityHotspots: fmt.Sprintf("Repository complexity: %d levels deep, %d files",
			stats.maxDepth, stats.totalFiles),
		PerformanceBottlenecks: "Repository size is manageable",
		ScalabilityConcerns:    "Dependency count is reasonable",
	}

	if len(deps.flexibleVersion) > 0 {
		joined := strings.Join(deps.flexibleVersion, ", ")
		if len(joined) > 200 {
			joined = joined[:200]
		}
		section.OutdatedDependencies = joined
	}

	var ageYears float64
	if facets.Repository != nil {
		if created := facets.Repository.GetCreatedAt(); !created.IsZero() {
			ageYears = nowFunc().UTC().Sub(created.Time).Hours() / 24 / 365.25
			section.MaintenanceBurden = fmt.Sprintf("Repository age: %.1f years", ageYears)
		}
		if sizeKB := facets.Repository.GetSize(); sizeKB > 50000 {
			section.PerformanceBottlenecks = fmt.Sprintf("Large repository size: %.1fMB", float64(sizeKB)/1024)
		}
	}
	if deps.totalCount > 30 {
		section.ScalabilityConcerns = fmt.Sprintf("Total dependencies: %d", deps.totalCount)
	}

	section.DebtIndicators = debtIndicators(stats, deps, quality, ageYears)
	section.RefactoringOpportunities = refactoringOpportunities(stats, quality)
	section.SecurityFeatures = securityFeatures(stats)

	return section
}

func debtIndicators(stats *treeStats, deps *dependencyInfo, quality QualitySection, ageYears float64) []string {
	var indicators []string

	if stats.maxDepth > 6 {
		indicators = append(indicators, "Deep nesting (>6 levels) indicates complex organization")
	}
	if stats.totalFiles > 500 {
		indicators = append(indicators, "Large codebase (>500 files) may need modularization")
	}
	if deps.totalCount > 50 {
		indicators = append(indicators,
			fmt.Sprintf("High dependency count (%d) increases maintenance burden", deps.totalCount))
	}
	if len(deps.flexibleVersion) > 5 {
		indicators = append(indicators, "Multiple dependencies using flexible versioning")
	}
	if quality.TestFileRatio < 10 {
		indicators = append(indicators, "Low test coverage (<10% test files)")
	}
	if quality.AutomationScope == "No automation detected" {
		indicators = append(indicators, "No CI/CD pipeline detected")
	}
	if quality.LintingStandards == "No linting config detected" {
		indicators = append(indicators, "No code linting configuration found")
	}
	if quality.DocumentationCoverage < 5 {
		indicators = append(indicators, "Minimal documentation coverage")
	}
	if ageYears > 3 {
		indicators = append(indicators, "Repository is over 3 years old, check for outdated dependencies")
	}

	if len(indicators) == 0 {
		return []string{"No significant technical debt indicators detected"}
	}
	return indicators
}

func refactoringOpportunities(stats *treeStats, quality QualitySection) []string {
	crowded := false
	for _, files := range stats.dirFiles {
		if len(files) > 20 {
			crowded = true
			break
		}
	}

	opportunities := make([]string, 0, 3)
	if crowded {
		opportunities = append(opportunities, "Consider breaking down directories with many files")
	} else {
		opportunities = append(opportunities, "File organization appears good")
	}
	if quality.TestFileRatio < 15 {
		opportunities = append(opportunities, "Add more tests to improve coverage")
	} else {
		opportunities = append(opportunities, "Test coverage appears adequate")
	}
	if quality.LintingStandards == "No linting config detected" {
		opportunities = append(opportunities, "Implement linting standards")
	} else {
		opportunities = append(opportunities, "Linting is configured")
	}
	return opportunities
}

func securityFeatures(stats *treeStats) []string {
	var features []string
	if stats.anyConfigContains("dependabot") {
		features = append(features, "Automated dependency updates")
	}
	if stats.anyConfigContains("security") || stats.anyConfigContains("codeql") {
		features = append(features, "Security scanning in CI/CD")
	}
	if len(features) == 0 {
		return []string{"Consider enabling security features"}
	}
	return features
}
