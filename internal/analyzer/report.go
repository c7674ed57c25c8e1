// Copyright 2026 The Repolens Authors
// SPDX-License-Identifier: MIT

// Package analyzer turns raw repository facets into a structured
// six-section report. Every builder is a pure function of its inputs;
// missing optional data renders explicit placeholders instead of
// failing, so every section key is always present in the output.
package analyzer

import (
	"maps"
	"slices"
	"time"
)

// Report is the aggregate analysis result. It is immutable once
// produced; the cache recomputes it wholesale on miss.
type Report struct {
	Metadata      MetadataSection      `json:"repository_metadata"`
	Architecture  ArchitectureSection  `json:"architecture_synopsis"`
	Quality       QualitySection       `json:"code_quality_metrics"`
	Documentation DocumentationSection `json:"documentation_extraction"`
	Activity      ActivitySection      `json:"development_activity"`
	TechnicalDebt TechnicalDebtSection `json:"technical_debt_assessment"`
	RawData       RawData              `json:"raw_data"`
}

// MetadataSection carries through repository-level facts plus the
// language mix as percentages of total reported bytes.
type MetadataSection struct {
	LanguageComposition map[string]float64 `json:"language_composition"`
	PrimaryStack        string             `json:"primary_stack"`
	RepositorySizeKB    int                `json:"repository_size_kb"`
	CommitFrequency     string             `json:"commit_frequency"`
	ContributorCount    int                `json:"contributor_count"`
	LicenseType         string             `json:"license_type"`
	DefaultBranch       string             `json:"default_branch"`
	LatestRelease       string             `json:"latest_release"`
	CreatedAt           string             `json:"created_date"`
	UpdatedAt           string             `json:"last_updated"`
	Stars               int                `json:"stars"`
	Forks               int                `json:"forks"`
	Watchers            int                `json:"watchers"`
}

type ArchitectureSection struct {
	Pattern             string   `json:"architecture_pattern"`
	EntryPoints         []string `json:"entry_points"`
	DirectoryStructure  string   `json:"directory_structure"`
	CoreDependencies    []string `json:"core_dependencies"`
	DevDependencies     []string `json:"dev_dependencies"`
	BuildSystem         string   `json:"build_system"`
	DeploymentPipeline  string   `json:"deployment_pipeline"`
	PrimaryTechnologies string   `json:"primary_technologies"`
	DataFlow            string   `json:"data_flow_analysis"`
	Scalability         string   `json:"scalability_assessment"`
	Performance         string   `json:"performance_considerations"`
}

type WorkflowResult struct {
	Name   string `json:"name"`
	Status string `json:"status"`
	Date   string `json:"date"`
}

type QualitySection struct {
	TestCoverage          string           `json:"test_coverage"`
	TestFileRatio         float64          `json:"test_file_ratio"`
	LintingStandards      string           `json:"linting_standards"`
	CIPipelineStatus      string           `json:"ci_cd_pipeline_status"`
	AutomationScope       string           `json:"automation_scope"`
	DocumentationCoverage float64          `json:"documentation_coverage"`
	RecentWorkflowResults []WorkflowResult `json:"recent_workflow_results"`
}

type DocumentationSection struct {
	ReadmeSummary            string   `json:"readme_summary"`
	InstallationRequirements []string `json:"installation_requirements"`
	CompatibilityConstraints string   `json:"compatibility_constraints"`
	DocFileCount             int      `json:"doc_file_count"`
}

type ActivitySection struct {
	RecentCommitPatterns   string            `json:"recent_commit_patterns"`
	CommitFrequencyPerDay  float64           `json:"commit_frequency_per_day"`
	DevelopmentConsistency string            `json:"development_consistency"`
	ReleaseCadence         string            `json:"release_cadence"`
	OpenIssuesCount        int               `json:"open_issues_count"`
	OpenPullRequests       int               `json:"open_pull_requests"`
	PullRequestVelocity    string            `json:"pull_request_velocity"`
	IssueResolutionTime    string            `json:"issue_resolution_time"`
	CommitMessageQuality   string            `json:"commit_message_quality"`
	PeakHours              []string          `json:"peak_development_hours"`
	PeakDays               []string          `json:"peak_development_days"`
	TopContributors        map[string]string `json:"top_contributors"`
	ContributorActivity    string            `json:"contributor_activity"`
	BreakingChanges        []string          `json:"breaking_changes"`
}

type TechnicalDebtSection struct {
	OutdatedDependencies     string   `json:"outdated_dependencies"`
	DebtIndicators           []string `json:"debt_indicators"`
	ComplexityHotspots       string   `json:"code_complexity_hotspots"`
	PerformanceBottlenecks   string   `json:"performance_bottlenecks"`
	ScalabilityConcerns      string   `json:"scalability_concerns"`
	MaintenanceBurden        string   `json:"maintenance_burden"`
	RefactoringOpportunities []string `json:"refactoring_opportunities"`
	SecurityFeatures         []string `json:"security_features"`
}

// RawData records provenance for the report.
type RawData struct {
	FetchedAt     time.Time `json:"fetched_at"`
	RepoURL       string    `json:"repo_url"`
	TreeTruncated bool      `json:"tree_truncated"`
}

// Clone returns a deep copy. The cache relies on this for value
// semantics: callers must never share live maps or slices.
func (r *Report) Clone() *Report {
	if r == nil {
		return nil
	}
	out := *r
	out.Metadata.LanguageComposition = maps.Clone(r.Metadata.LanguageComposition)
	out.Architecture.EntryPoints = slices.Clone(r.Architecture.EntryPoints)
	out.Architecture.CoreDependencies = slices.Clone(r.Architecture.CoreDependencies)
	out.Architecture.DevDependencies = slices.Clone(r.Architecture.DevDependencies)
	out.Quality.RecentWorkflowResults = slices.Clone(r.Quality.RecentWorkflowResults)
	out.Documentation.InstallationRequirements = slices.Clone(r.Documentation.InstallationRequirements)
	out.Activity.PeakHours = slices.Clone(r.Activity.PeakHours)
	out.Activity.PeakDays = slices.Clone(r.Activity.PeakDays)
	out.Activity.TopContributors = maps.Clone(r.Activity.TopContributors)
	out.Activity.BreakingChanges = slices.Clone(r.Activity.BreakingChanges)
	out.TechnicalDebt.DebtIndicators = slices.Clone(r.TechnicalDebt.DebtIndicators)
	out.TechnicalDebt.RefactoringOpportunities = slices.Clone(r.TechnicalDebt.RefactoringOpportunities)
	out.TechnicalDebt.SecurityFeatures = slices.Clone(r.TechnicalDebt.SecurityFeatures)
	return &out
}
