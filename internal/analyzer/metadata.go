package analyzer

import (
	"fmt"
	"math"
	"time"

	"github.com/repolens/repolens/internal/ghapi"
)

// buildMetadata copies repository-level facts through and computes the
// language mix as percentages of total reported bytes, rounded to one
// decimal place.
func buildMetadata(facets *ghapi.Facets) MetadataSection {
	section := MetadataSection{
		LanguageComposition: map[string]float64{},
		PrimaryStack:        "Unknown",
		LicenseType:         "No License",
		CommitFrequency:     "Unable to calculate",
		LatestRelease:       "No releases",
		ContributorCount:    len(facets.Contributors),
	}

	var totalBytes int
	for _, b := range facets.Languages {
		totalBytes += b
	}
	if totalBytes > 0 {
		var primary string
		var primaryPct float64
		for lang, b := range facets.Languages {
			pct := round1(float64(b) / float64(totalBytes) * 100)
			section.LanguageComposition[lang] = pct
			if pct > primaryPct || (pct == primaryPct && lang < primary) {
				primary, primaryPct = lang, pct
			}
		}
		section.PrimaryStack = primary
	}

	repo := facets.Repository
	if repo == nil {
		return section
	}

	section.RepositorySizeKB = repo.GetSize()
	section.DefaultBranch = repo.GetDefaultBranch()
	section.Stars = repo.GetStargazersCount()
	section.Forks = repo.GetForksCount()
	section.Watchers = repo.GetWatchersCount()

	if lic := repo.GetLicense(); lic != nil && lic.GetName() != "" {
		section.LicenseType = lic.GetName()
	}
	if created := repo.GetCreatedAt(); !created.IsZero() {
		section.CreatedAt = created.Format(time.RFC3339)
	}
	if updated := repo.GetUpdatedAt(); !updated.IsZero() {
		section.UpdatedAt = updated.Format(time.RFC3339)
	}
	if !repo.GetCreatedAt().IsZero() && !repo.GetUpdatedAt().IsZero() {
		days := int(repo.GetUpdatedAt().Sub(repo.GetCreatedAt().Time).Hours() / 24)
		if days > 0 {
			section.CommitFrequency = fmt.Sprintf("Active for %d days", days)
		}
	}
	if len(facets.Releases) > 0 && facets.Releases[0].GetTagName() != "" {
		section.LatestRelease = facets.Releases[0].GetTagName()
	}

	return section
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
