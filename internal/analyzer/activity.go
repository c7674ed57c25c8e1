package analyzer

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/go-github/v68/github"

	"github.com/repolens/repolens/internal/ghapi"
)

const (
	recentCommitWindow  = 30
	messageSampleSize   = 50
	mergeTimeSampleSize = 20
	peakBuckets         = 3
	topContributorCount = 5
)

var conventionalPrefixes = []string{"fix:", "feat:", "docs:", "refactor:", "test:"}

var dayNames = [7]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// buildActivity buckets commit timestamps by hour and weekday to find
// peak activity and classifies velocity from commits per day. A
// repository with no commit history yields "Unknown" consistency.
func buildActivity(facets *ghapi.Facets) ActivitySection {
	section := ActivitySection{
		DevelopmentConsistency: "Unknown",
		ReleaseCadence:         "No releases",
		PullRequestVelocity:    "Unknown",
		IssueResolutionTime:    "Unknown",
		CommitMessageQuality:   "Unknown",
		ContributorActivity:    "0 active contributors",
		BreakingChanges:        []string{"No breaking changes detected in recent commits"},
	}

	if len(facets.Releases) > 0 {
		section.ReleaseCadence = fmt.Sprintf("%d releases total", len(facets.Releases))
	}
	section.OpenIssuesCount = countOpenIssues(facets.Issues)
	section.OpenPullRequests = countOpenPRs(facets.PullRequests)
	section.PullRequestVelocity = prMergeTime(facets.PullRequests)
	section.IssueResolutionTime = issueResolutionTime(facets.Issues)

	if len(facets.Commits) == 0 {
		section.RecentCommitPatterns = "No commits found"
		return section
	}

	recent := facets.Commits
	if len(recent) > recentCommitWindow {
		recent = recent[:recentCommitWindow]
	}
	section.RecentCommitPatterns = fmt.Sprintf("%d commits in last %d", len(recent), recentCommitWindow)

	perDay := commitsPerDay(recent)
	section.CommitFrequencyPerDay = perDay
	section.DevelopmentConsistency = classifyConsistency(perDay)
	section.CommitMessageQuality = classifyMessages(facets.Commits)

	hours, days, authors := bucketCommits(facets.Commits)
	section.PeakHours = peakHourLabels(hours)
	section.PeakDays = peakDayLabels(days)
	section.TopContributors = topContributors(authors)
	section.ContributorActivity = fmt.Sprintf("%d active contributors", countActiveAuthors(recent))

	if breaking := breakingChanges(recent); len(breaking) > 0 {
		section.BreakingChanges = breaking
	}

	return section
}

func commitDate(c *github.RepositoryCommit) (time.Time, bool) {
	if c.GetCommit() == nil || c.GetCommit().GetAuthor() == nil {
		return time.Time{}, false
	}
	d := c.GetCommit().GetAuthor().GetDate()
	if d.IsZero() {
		return time.Time{}, false
	}
	return d.Time.UTC(), true
}

// commitsPerDay divides the recent commit count by the age of the oldest
// recent commit, in days.
func commitsPerDay(commits []*github.RepositoryCommit) float64 {
	var oldest time.Time
	dated := 0
	for _, c := range commits {
		d, ok := commitDate(c)
		if !ok {
			continue
		}
		dated++
		if oldest.IsZero() || d.Before(oldest) {
			oldest = d
		}
	}
	if dated == 0 {
		return 0
	}

	days := int(nowFunc().UTC().Sub(oldest).Hours() / 24)
	if days < 1 {
		days = 1
	}
	return round2(float64(dated) / float64(days))
}

func classifyConsistency(perDay float64) string {
	switch {
	case perDay > 1:
		return "Very active"
	case perDay > 0.5:
		return "Active"
	case perDay > 0.1:
		return "Moderate"
	default:
		return "Low activity"
	}
}

// classifyMessages scores the first 50 commit messages: a good message
// has reasonable length and either a conventional prefix or a short
// subject line.
func classifyMessages(commits []*github.RepositoryCommit) string {
	sample := commits
	if len(sample) > messageSampleSize {
		sample = sample[:messageSampleSize]
	}

	good := 0
	for _, c := range sample {
		msg := c.GetCommit().GetMessage()
		if len(msg) <= 10 || len(msg) >= 200 {
			continue
		}
		lower := strings.ToLower(msg)
		conventional := false
		for _, prefix := range conventionalPrefixes {
			if strings.Contains(lower, prefix) {
				conventional = true
				break
			}
		}
		subject, _, _ := strings.Cut(msg, "\n")
		if conventional || len(subject) < 72 {
			good++
		}
	}

	switch {
	case good > 35:
		return "Excellent (follows conventions)"
	case good > 20:
		return "Good (mostly structured)"
	default:
		return "Needs improvement"
	}
}

func bucketCommits(commits []*github.RepositoryCommit) (hours map[int]int, days map[int]int, authors map[string]int) {
	hours = make(map[int]int)
	days = make(map[int]int)
	authors = make(map[string]int)
	for _, c := range commits {
		if d, ok := commitDate(c); ok {
			hours[d.Hour()]++
			days[int(d.Weekday())]++
		}
		name := "Unknown"
		if c.GetCommit() != nil && c.GetCommit().GetAuthor() != nil && c.GetCommit().GetAuthor().GetName() != "" {
			name = c.GetCommit().GetAuthor().GetName()
		}
		authors[name]++
	}
	return hours, days, authors
}

// topBuckets returns bucket keys ordered by descending count, ties by
// ascending key for deterministic output.
func topBuckets(buckets map[int]int, n int) []int {
	keys := make([]int, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if buckets[keys[i]] != buckets[keys[j]] {
			return buckets[keys[i]] > buckets[keys[j]]
		}
		return keys[i] < keys[j]
	})
	if len(keys) > n {
		keys = keys[:n]
	}
	return keys
}

func peakHourLabels(hours map[int]int) []string {
	var labels []string
	for _, h := range topBuckets(hours, peakBuckets) {
		labels = append(labels, fmt.Sprintf("%d:00-%d:00 UTC (%d commits)", h, h+1, hours[h]))
	}
	return labels
}

func peakDayLabels(days map[int]int) []string {
	var labels []string
	for _, d := range topBuckets(days, peakBuckets) {
		labels = append(labels, fmt.Sprintf("%s (%d commits)", dayNames[d], days[d]))
	}
	return labels
}

func topContributors(authors map[string]int) map[string]string {
	total := 0
	for _, n := range authors {
		total += n
	}
	if total == 0 {
		return nil
	}

	names := make([]string, 0, len(authors))
	for name := range authors {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if authors[names[i]] != authors[names[j]] {
			return authors[names[i]] > authors[names[j]]
		}
		return names[i] < names[j]
	})
	if len(names) > topContributorCount {
		names = names[:topContributorCount]
	}

	out := make(map[string]string, len(names))
	for _, name := range names {
		count := authors[name]
		out[name] = fmt.Sprintf("%d commits (%.1f%%)", count, round1(float64(count)/float64(total)*100))
	}
	return out
}

func countActiveAuthors(commits []*github.RepositoryCommit) int {
	seen := make(map[string]bool)
	for _, c := range commits {
		if c.GetAuthor() != nil && c.GetAuthor().GetLogin() != "" {
			seen[c.GetAuthor().GetLogin()] = true
		}
	}
	return len(seen)
}

func countOpenIssues(issues []*github.Issue) int {
	n := 0
	for _, i := range issues {
		if i.GetState() == "open" && !i.IsPullRequest() {
			n++
		}
	}
	return n
}

func countOpenPRs(prs []*github.PullRequest) int {
	n := 0
	for _, pr := range prs {
		if pr.GetState() == "open" {
			n++
		}
	}
	return n
}

// prMergeTime averages time-to-merge over the last 20 merged PRs.
func prMergeTime(prs []*github.PullRequest) string {
	sample := prs
	if len(sample) > mergeTimeSampleSize {
		sample = sample[:mergeTimeSampleSize]
	}

	var total time.Duration
	n := 0
	for _, pr := range sample {
		if pr.MergedAt == nil || pr.CreatedAt == nil {
			continue
		}
		total += pr.GetMergedAt().Sub(pr.GetCreatedAt().Time)
		n++
	}
	if n == 0 {
		return "Unknown"
	}

	avgHours := total.Hours() / float64(n)
	if avgHours < 24 {
		return fmt.Sprintf("%.1f hours", avgHours)
	}
	return fmt.Sprintf("%.1f days", avgHours/24)
}

// issueResolutionTime averages time-to-close over the last 20 closed
// issues, excluding pull requests.
func issueResolutionTime(issues []*github.Issue) string {
	var total time.Duration
	n := 0
	for _, i := range issues {
		if n == mergeTimeSampleSize {
			break
		}
		if i.IsPullRequest() || i.ClosedAt == nil || i.CreatedAt == nil {
			continue
		}
		total += i.GetClosedAt().Sub(i.GetCreatedAt().Time)
		n++
	}
	if n == 0 {
		return "Unknown"
	}

	avgHours := total.Hours() / float64(n)
	switch {
	case avgHours < 24:
		return fmt.Sprintf("%.1f hours", avgHours)
	case avgHours < 168:
		return fmt.Sprintf("%.1f days", avgHours/24)
	default:
		return fmt.Sprintf("%.1f weeks", avgHours/168)
	}
}

// breakingChanges collects subject lines mentioning breaking changes.
func breakingChanges(commits []*github.RepositoryCommit) []string {
	var found []string
	for _, c := range commits {
		msg := c.GetCommit().GetMessage()
		lower := strings.ToLower(msg)
		if !strings.Contains(lower, "breaking") && !strings.Contains(lower, "major") &&
			!strings.Contains(lower, "incompatible") {
			continue
		}
		subject, _, _ := strings.Cut(msg, "\n")
		if len(subject) > 100 {
			subject = subject[:100]
		}
		found = append(found, subject)
		if len(found) == 3 {
			break
		}
	}
	return found
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
