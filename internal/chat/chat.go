// Copyright 2026 The Repolens Authors
// SPDX-License-Identifier: MIT

// Package chat answers questions about an analysis report by forwarding
// a serialized context plus the question to an LLM provider.
package chat

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/repolens/repolens/internal/analyzer"
	"github.com/repolens/repolens/internal/apperr"
	"github.com/repolens/repolens/internal/llm"
)

const (
	answerMaxTokens     = 2048
	suggestionMaxTokens = 512
	suggestionCount     = 5
)

const answerSystemPrompt = "You are an expert software engineer and repository analyst. " +
	"Answer the user's question based on the repository analysis data provided. " +
	"Be specific and cite relevant information from the analysis. If the question " +
	"cannot be answered from the available data, explain what additional " +
	"information would be needed."

// fallbackQuestions is served when the provider fails or returns nothing
// usable.
var fallbackQuestions = []string{
	"What is the overall code quality of this repository?",
	"How active is the development on this project?",
	"What are the main dependencies and potential risks?",
	"How well is this repository documented?",
	"What would be the main challenges in maintaining this codebase?",
}

// Adapter forwards report-grounded prompts to an LLM provider. A nil
// provider means chat is not configured; both operations then fail with
// AIUnavailable.
type Adapter struct {
	provider llm.Provider
}

// NewAdapter creates a chat adapter. provider may be nil.
func NewAdapter(provider llm.Provider) *Adapter {
	return &Adapter{provider: provider}
}

// Configured reports whether an LLM provider is available.
func (a *Adapter) Configured() bool {
	return a.provider != nil
}

// Ask answers a question about the report. The raw model reply is
// returned uninterpreted apart from whitespace trimming.
func (a *Adapter) Ask(ctx context.Context, report *analyzer.Report, question string) (string, error) {
	if strings.TrimSpace(question) == "" {
		return "", apperr.New(apperr.InvalidInput, "question is required")
	}
	if report == nil {
		return "", apperr.New(apperr.InvalidInput, "analysis data is required")
	}
	if a.provider == nil {
		return "", apperr.New(apperr.AIUnavailable, "AI provider is not configured")
	}

	prompt := fmt.Sprintf("REPOSITORY ANALYSIS DATA:\n%s\n\nUSER QUESTION: %s",
		buildContext(report), question)

	resp, err := a.provider.Complete(ctx, llm.Request{
		Prompt:       prompt,
		SystemPrompt: answerSystemPrompt,
		MaxTokens:    answerMaxTokens,
	})
	if err != nil {
		return "", apperr.Wrap(apperr.AIUnavailable, "AI completion failed", err)
	}
	return strings.TrimSpace(resp.Content), nil
}

// Suggest produces up to five suggested questions about the report. A
// provider failure degrades to a fixed fallback list instead of erroring:
// suggestions are decorative, not load-bearing.
func (a *Adapter) Suggest(ctx context.Context, report *analyzer.Report) ([]string, error) {
	if report == nil {
		return nil, apperr.New(apperr.InvalidInput, "analysis data is required")
	}
	if a.provider == nil {
		return nil, apperr.New(apperr.AIUnavailable, "AI provider is not configured")
	}

	prompt := fmt.Sprintf("Based on this repository analysis data, suggest %d insightful "+
		"questions that a developer or stakeholder might ask about this repository. "+
		"Focus on practical questions about code quality, architecture, maintenance, "+
		"and development practices.\n\nREPOSITORY DATA:\n%s\n\n"+
		"Generate exactly %d questions, each on a new line, without numbering or bullets:",
		suggestionCount, buildContext(report), suggestionCount)

	resp, err := a.provider.Complete(ctx, llm.Request{
		Prompt:    prompt,
		MaxTokens: suggestionMaxTokens,
	})
	if err != nil {
		return append([]string(nil), fallbackQuestions...), nil
	}

	var questions []string
	for _, line := range strings.Split(resp.Content, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			questions = append(questions, line)
		}
		if len(questions) == suggestionCount {
			break
		}
	}
	if len(questions) == 0 {
		return append([]string(nil), fallbackQuestions...), nil
	}
	return questions, nil
}

// buildContext renders the report into a bounded textual summary. It
// deliberately serializes the digest fields rather than the whole JSON
// document to keep the prompt size predictable.
func buildContext(report *analyzer.Report) string {
	var b strings.Builder

	meta := report.Metadata
	fmt.Fprintf(&b, "REPOSITORY METADATA:\n")
	fmt.Fprintf(&b, "- Primary Language: %s\n", meta.PrimaryStack)
	fmt.Fprintf(&b, "- Stars: %d\n- Forks: %d\n- Contributors: %d\n", meta.Stars, meta.Forks, meta.ContributorCount)
	fmt.Fprintf(&b, "- Size: %d KB\n- License: %s\n", meta.RepositorySizeKB, meta.LicenseType)
	fmt.Fprintf(&b, "- Created: %s\n- Last Updated: %s\n", orNA(meta.CreatedAt), orNA(meta.UpdatedAt))

	if len(meta.LanguageComposition) > 0 {
		fmt.Fprintf(&b, "\nPROGRAMMING LANGUAGES:\n")
		for _, lang := range sortedLangs(meta.LanguageComposition) {
			fmt.Fprintf(&b, "- %s: %.1f%%\n", lang, meta.LanguageComposition[lang])
		}
	}

	arch := report.Architecture
	fmt.Fprintf(&b, "\nARCHITECTURE SYNOPSIS:\n")
	fmt.Fprintf(&b, "- Pattern: %s\n- Build System: %s\n", arch.Pattern, arch.BuildSystem)
	fmt.Fprintf(&b, "- Directory Structure: %s\n", arch.DirectoryStructure)
	fmt.Fprintf(&b, "- Core Dependencies: %s\n", orNA(strings.Join(arch.CoreDependencies, ", ")))

	quality := report.Quality
	fmt.Fprintf(&b, "\nCODE QUALITY METRICS:\n")
	fmt.Fprintf(&b, "- Test Coverage: %s\n- CI/CD Pipeline: %s\n", quality.TestCoverage, quality.CIPipelineStatus)
	fmt.Fprintf(&b, "- Linting Standards: %s\n- Automation: %s\n", quality.LintingStandards, quality.AutomationScope)

	docs := report.Documentation
	fmt.Fprintf(&b, "\nDOCUMENTATION:\n")
	fmt.Fprintf(&b, "- README Summary: %s\n", docs.ReadmeSummary)
	fmt.Fprintf(&b, "- Installation: %s\n", orNA(strings.Join(docs.InstallationRequirements, ", ")))

	activity := report.Activity
	fmt.Fprintf(&b, "\nDEVELOPMENT ACTIVITY:\n")
	fmt.Fprintf(&b, "- Consistency: %s\n- Recent Commits: %s\n", activity.DevelopmentConsistency, orNA(activity.RecentCommitPatterns))
	fmt.Fprintf(&b, "- Open Issues: %d\n- Open Pull Requests: %d\n", activity.OpenIssuesCount, activity.OpenPullRequests)
	fmt.Fprintf(&b, "- Active Contributors: %s\n", activity.ContributorActivity)

	debt := report.TechnicalDebt
	fmt.Fprintf(&b, "\nTECHNICAL DEBT ASSESSMENT:\n")
	fmt.Fprintf(&b, "- Maintenance Burden: %s\n", debt.MaintenanceBurden)
	fmt.Fprintf(&b, "- Debt Indicators: %s\n", orNA(strings.Join(debt.DebtIndicators, ", ")))
	fmt.Fprintf(&b, "- Refactoring Priorities: %s\n", orNA(strings.Join(debt.RefactoringOpportunities, ", ")))

	return b.String()
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

// sortedLangs orders language names by descending percentage, ties
// alphabetical, so prompts are deterministic.
func sortedLangs(langs map[string]float64) []string {
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
