// Copyright 2026 The Repolens Authors
// SPDX-License-Identifier: MIT

package analyzer

import (
	"time"

	"github.com/repolens/repolens/internal/apperr"
	"github.com/repolens/repolens/internal/ghapi"
)

// nowFunc is used for testing to override the current time.
var nowFunc = time.Now

// Analyze builds the six-section report from raw facets. It is a pure
// function of its inputs: no network access and no side effects. A nil
// facets input is the only failure mode.
func Analyze(facets *ghapi.Facets, repoURL string) (*Report, error) {
	if facets == nil {
		return nil, apperr.New(apperr.InvalidInput, "no repository facets to analyze")
	}

	stats := summarizeTree(facets.Tree)
	deps := parseManifests(facets.Manifests)
	quality := buildQuality(facets, stats)
	activity := buildActivity(facets)

	return &Report{
		Metadata:      buildMetadata(facets),
		Architecture:  buildArchitecture(facets, stats, deps),
		Quality:       quality,
		Documentation: buildDocumentation(facets, stats),
		Activity:      activity,
		TechnicalDebt: buildTechnicalDebt(facets, stats, deps, quality),
		RawData: RawData{
			FetchedAt:     nowFunc().UTC(),
			RepoURL:       repoURL,
			TreeTruncated: facets.TreeTruncated,
		},
	}, nil
}
