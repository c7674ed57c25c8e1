// Copyright 2026 The Repolens Authors
// SPDX-License-Identifier: MIT

package analyzer

import (
	"strings"
	"testing"
	"time"

	"github.com/google/go-github/v68/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/repolens/repolens/internal/apperr"
	"github.com/repolens/repolens/internal/ghapi"
)

func setNow(t *testing.T, now time.Time) {
	t.Helper()
	orig := nowFunc
	nowFunc = func() time.Time { return now }
	t.Cleanup(func() { nowFunc = orig })
}

func blob(path string) *github.TreeEntry {
	return &github.TreeEntry{Path: github.Ptr(path), Type: github.Ptr("blob")}
}

func dir(path string) *github.TreeEntry {
	return &github.TreeEntry{Path: github.Ptr(path), Type: github.Ptr("tree")}
}

func commitAt(ts time.Time, message string) *github.RepositoryCommit {
	return &github.RepositoryCommit{
		Commit: &github.Commit{
			Message: github.Ptr(message),
			Author: &github.CommitAuthor{
				Name: github.Ptr("alice"),
				Date: &github.Timestamp{Time: ts},
			},
		},
		Author: &github.User{Login: github.Ptr("alice")},
	}
}

func TestAnalyze_NilFacets(t *testing.T) {
	report, err := Analyze(nil, "https://github.com/o/r")
	require.Error(t, err)
	assert.Nil(t, report)
	assert.Equal(t, apperr.InvalidInput, apperr.KindOf(err))
}

func TestAnalyze_LanguagePercentages(t *testing.T) {
	facets := &ghapi.Facets{
		Languages: map[string]int{"Python": 8000, "JavaScript": 2000},
	}

	report, err := Analyze(facets, "https://github.com/o/r")
	require.NoError(t, err)

	assert.InDelta(t, 80.0, report.Metadata.LanguageComposition["Python"], 0.01)
	assert.InDelta(t, 20.0, report.Metadata.LanguageComposition["JavaScript"], 0.01)
	assert.Equal(t, "Python", report.Metadata.PrimaryStack)

	var sum float64
	for _, pct := range report.Metadata.LanguageComposition {
		sum += pct
	}
	assert.InDelta(t, 100.0, sum, 0.5)
}

func TestAnalyze_NoLanguages(t *testing.T) {
	report, err := Analyze(&ghapi.Facets{}, "https://github.com/o/r")
	require.NoError(t, err)

	assert.Empty(t, report.Metadata.LanguageComposition)
	assert.Equal(t, "Unknown", report.Metadata.PrimaryStack)
}

func TestAnalyze_EmptyFacetsRendersAllSections(t *testing.T) {
	report, err := Analyze(&ghapi.Facets{}, "https://github.com/o/empty")
	require.NoError(t, err)

	assert.Equal(t, "Unknown", report.Activity.DevelopmentConsistency)
	assert.Equal(t, "No README found", report.Documentation.ReadmeSummary)
	assert.Equal(t, "No License", report.Metadata.LicenseType)
	assert.Equal(t, "Unknown", report.Quality.TestCoverage)
	assert.NotEmpty(t, report.TechnicalDebt.DebtIndicators)
	assert.NotEmpty(t, report.Architecture.Pattern)
	assert.Equal(t, "https://github.com/o/empty", report.RawData.RepoURL)
}

func TestAnalyze_NoCommitsYieldsUnknownConsistency(t *testing.T) {
	facets := &ghapi.Facets{
		Repository: &github.Repository{FullName: github.Ptr("o/r")},
		Languages:  map[string]int{"Go": 100},
	}

	report, err := Analyze(facets, "https://github.com/o/r")
	require.NoError(t, err)
	assert.Equal(t, "Unknown", report.Activity.DevelopmentConsistency)
	assert.Zero(t, report.Activity.CommitFrequencyPerDay)
}

func TestAnalyze_ActiveRepository(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	setNow(t, now)

	var commits []*github.RepositoryCommit
	for i := 0; i < 20; i++ {
		commits = append(commits, commitAt(now.Add(-time.Duration(i)*6*time.Hour), "feat: change"))
	}

	report, err := Analyze(&ghapi.Facets{Commits: commits}, "https://github.com/o/r")
	require.NoError(t, err)

	// 20 commits over 4 days.
	assert.Equal(t, "Very active", report.Activity.DevelopmentConsistency)
	assert.Equal(t, "20 commits in last 30", report.Activity.RecentCommitPatterns)
	assert.NotEmpty(t, report.Activity.PeakHours)
	assert.NotEmpty(t, report.Activity.PeakDays)
	assert.Contains(t, report.Activity.TopContributors, "alice")
	assert.Equal(t, "1 active contributors", report.Activity.ContributorActivity)
}

func TestAnalyze_BreakingChanges(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	setNow(t, now)

	commits := []*github.RepositoryCommit{
		commitAt(now, "feat!: BREAKING change to the API\n\ndetails"),
		commitAt(now, "fix: small patch"),
	}

	report, err := Analyze(&ghapi.Facets{Commits: commits}, "https://github.com/o/r")
	require.NoError(t, err)
	require.Len(t, report.Activity.BreakingChanges, 1)
	assert.Contains(t, report.Activity.BreakingChanges[0], "BREAKING change")
}

func TestAnalyze_QualityBands(t *testing.T) {
	tests := []struct {
		name      string
		testFiles int
		srcFiles  int
		want      string
	}{
		{"high", 40, 60, "High (>30% test files)"},
		{"medium", 20, 80, "Medium (15-30% test files)"},
		{"low", 10, 90, "Low (5-15% test files)"},
		{"minimal", 1, 99, "Minimal (<5% test files)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var entries []*github.TreeEntry
			for i := 0; i < tt.testFiles; i++ {
				entries = append(entries, blob("pkg/thing_test"+string(rune('a'+i%26))+".go"))
			}
			for i := 0; i < tt.srcFiles; i++ {
				entries = append(entries, blob("pkg/file"+string(rune('a'+i%26))+".go"))
			}

			report, err := Analyze(&ghapi.Facets{Tree: entries}, "u")
			require.NoError(t, err)
			assert.Equal(t, tt.want, report.Quality.TestCoverage)
		})
	}
}

func TestAnalyze_CIDetection(t *testing.T) {
	facets := &ghapi.Facets{
		Tree: []*github.TreeEntry{
			blob(".github/workflows/ci.yml"),
			blob("main.go"),
		},
		WorkflowRuns: []*github.WorkflowRun{
			{
				Name:       github.Ptr("CI"),
				Status:     github.Ptr("completed"),
				Conclusion: github.Ptr("success"),
			},
		},
	}

	report, err := Analyze(facets, "u")
	require.NoError(t, err)
	assert.Equal(t, "Active", report.Quality.CIPipelineStatus)
	assert.Equal(t, "GitHub Actions", report.Quality.AutomationScope)
	require.Len(t, report.Quality.RecentWorkflowResults, 1)
	assert.Equal(t, "success", report.Quality.RecentWorkflowResults[0].Status)
}

func TestAnalyze_Readme(t *testing.T) {
	readme := "# Title\n\nFirst line of prose.\nSecond line.\n\nThird line.\n\n## Installation\n\nrun make install\nthen run make\n\n## Usage\n"

	report, err := Analyze(&ghapi.Facets{Readme: readme}, "u")
	require.NoError(t, err)

	assert.Equal(t, "First line of prose. Second line. Third line.", report.Documentation.ReadmeSummary)
	assert.Contains(t, report.Documentation.InstallationRequirements, "run make install")
}

func TestAnalyze_ReadmeTruncation(t *testing.T) {
	long := "# T\n" + strings.Repeat("0123456789", 60) + "\n"

	report, err := Analyze(&ghapi.Facets{Readme: long}, "u")
	require.NoError(t, err)
	assert.Len(t, report.Documentation.ReadmeSummary, maxSummaryLength+len("..."))
	assert.True(t, strings.HasSuffix(report.Documentation.ReadmeSummary, "..."))
}

func TestReport_CloneIsolation(t *testing.T) {
	report, err := Analyze(&ghapi.Facets{
		Languages: map[string]int{"Go": 100},
	}, "u")
	require.NoError(t, err)

	clone := report.Clone()
	clone.Metadata.LanguageComposition["Go"] = 1
	clone.TechnicalDebt.DebtIndicators[0] = "mutated"

	assert.InDelta(t, 100.0, report.Metadata.LanguageComposition["Go"], 0.01)
	assert.NotEqual(t, "mutated", report.TechnicalDebt.DebtIndicators[0])
}
