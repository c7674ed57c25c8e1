// Copyright 2026 The Repolens Authors
// SPDX-License-Identifier: MIT

// Package ghapi fetches repository facets from the GitHub REST API.
package ghapi

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/repolens/repolens/internal/apperr"
)

// RepoRef identifies a repository by owner and name. It doubles as the
// canonical cache key via String.
type RepoRef struct {
	Owner string
	Name  string
}

func (r RepoRef) String() string { return r.Owner + "/" + r.Name }

// shorthandPattern matches the bare "owner/repo" form.
var shorthandPattern = regexp.MustCompile(`^[A-Za-z0-9](?:[A-Za-z0-9-]*[A-Za-z0-9])?/[A-Za-z0-9._-]+$`)

// ParseRepoURL extracts a RepoRef from a GitHub repository URL or an
// "owner/repo" shorthand. Anything else fails with InvalidInput.
func ParseRepoURL(raw string) (RepoRef, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return RepoRef{}, apperr.New(apperr.InvalidInput, "repository URL is required")
	}

	if strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://") {
		parsed, err := url.Parse(raw)
		if err != nil {
			return RepoRef{}, apperr.Newf(apperr.InvalidInput, "invalid repository URL %q", raw)
		}
		host := strings.TrimPrefix(parsed.Host, "www.")
		if host != "github.com" {
			return RepoRef{}, apperr.Newf(apperr.InvalidInput, "%q is not a GitHub URL", raw)
		}
		parts := strings.Split(strings.Trim(parsed.Path, "/"), "/")
		if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
			return RepoRef{}, apperr.Newf(apperr.InvalidInput, "cannot parse owner/repo from %q", raw)
		}
		return RepoRef{
			Owner: parts[0],
			Name:  strings.TrimSuffix(parts[1], ".git"),
		}, nil
	}

	if shorthandPattern.MatchString(raw) {
		parts := strings.SplitN(raw, "/", 2)
		return RepoRef{Owner: parts[0], Name: strings.TrimSuffix(parts[1], ".git")}, nil
	}

	return RepoRef{}, apperr.Newf(apperr.InvalidInput, "invalid GitHub repository URL %q", raw)
}
