// Copyright 2026 The Repolens Authors
// SPDX-License-Identifier: MIT

package ghapi

import (
	"context"
	"log/slog"
	"net/http"
	"sync"

	"github.com/google/go-github/v68/github"
	"golang.org/x/sync/errgroup"
)

// ManifestFiles are the dependency manifests fetched by content. Other
// manifest kinds are detected by path from the tree facet instead, which
// costs no extra requests.
var ManifestFiles = []string{"package.json", "requirements.txt", "go.mod", "Cargo.toml"}

// Facets bundles the raw API responses one analysis consumes. Optional
// content facets (Readme, Manifests) are empty rather than nil-poisoned
// when the underlying file does not exist.
type Facets struct {
	Repository    *github.Repository
	Languages     map[string]int
	Tree          []*github.TreeEntry
	TreeTruncated bool
	Commits       []*github.RepositoryCommit
	Contributors  []*github.Contributor
	Releases      []*github.RepositoryRelease
	Issues        []*github.Issue
	PullRequests  []*github.PullRequest
	WorkflowRuns  []*github.WorkflowRun
	Readme        string
	Manifests     map[string]string
}

// FetchFacets retrieves all facets for ref concurrently. The first failed
// required facet cancels the remaining fetches and aborts the call; no
// partial Facets value is ever returned. Missing optional files (README,
// manifests) are not failures.
func (c *Client) FetchFacets(ctx context.Context, ref RepoRef) (*Facets, error) {
	g, ctx := errgroup.WithContext(ctx)
	facets := &Facets{Manifests: make(map[string]string)}
	var manifestMu sync.Mutex

	g.Go(func() error {
		repo, err := once(ctx, func() (*github.Repository, error) {
			r, _, err := c.api.GetRepository(ctx, ref.Owner, ref.Name)
			return r, err
		})
		if err != nil {
			return classify(err, "metadata")
		}
		facets.Repository = repo
		return nil
	})

	g.Go(func() error {
		langs, err := once(ctx, func() (map[string]int, error) {
			l, _, err := c.api.ListLanguages(ctx, ref.Owner, ref.Name)
			return l, err
		})
		if err != nil {
			return classify(err, "languages")
		}
		facets.Languages = langs
		return nil
	})

	g.Go(func() error {
		tree, err := once(ctx, func() (*github.Tree, error) {
			t, _, err := c.api.GetTree(ctx, ref.Owner, ref.Name, "HEAD")
			return t, err
		})
		if err != nil {
			// An empty repository has no HEAD tree; treat that as no files.
			if notFound(err) {
				slog.Debug("repository has no tree", "repo", ref.String())
				return nil
			}
			return classify(err, "tree")
		}
		facets.Tree = tree.Entries
		facets.TreeTruncated = tree.GetTruncated()
		return nil
	})

	g.Go(func() error {
		commits, err := once(ctx, func() ([]*github.RepositoryCommit, error) {
			cs, _, err := c.api.ListCommits(ctx, ref.Owner, ref.Name, &github.CommitsListOptions{
				ListOptions: github.ListOptions{PerPage: maxCommits},
			})
			return cs, err
		})
		if err != nil {
			// GitHub answers 409 for repositories without commits.
			if notFound(err) || hasStatus(err, http.StatusConflict) {
				return nil
			}
			return classify(err, "commits")
		}
		facets.Commits = commits
		return nil
	})

	g.Go(func() error {
		contributors, err := once(ctx, func() ([]*github.Contributor, error) {
			cs, _, err := c.api.ListContributors(ctx, ref.Owner, ref.Name, &github.ListContributorsOptions{
				ListOptions: github.ListOptions{PerPage: maxContributors},
			})
			return cs, err
		})
		if err != nil {
			return classify(err, "contributors")
		}
		facets.Contributors = contributors
		return nil
	})

	g.Go(func() error {
		releases, err := once(ctx, func() ([]*github.RepositoryRelease, error) {
			rs, _, err := c.api.ListReleases(ctx, ref.Owner, ref.Name, &github.ListOptions{PerPage: maxReleases})
			return rs, err
		})
		if err != nil {
			return classify(err, "releases")
		}
		facets.Releases = releases
		return nil
	})

	g.Go(func() error {
		issues, err := once(ctx, func() ([]*github.Issue, error) {
			is, _, err := c.api.ListIssues(ctx, ref.Owner, ref.Name, &github.IssueListByRepoOptions{
				State:       "all",
				ListOptions: github.ListOptions{PerPage: maxIssues},
			})
			return is, err
		})
		if err != nil {
			return classify(err, "issues")
		}
		facets.Issues = issues
		return nil
	})

	g.Go(func() error {
		prs, err := once(ctx, func() ([]*github.PullRequest, error) {
			ps, _, err := c.api.ListPullRequests(ctx, ref.Owner, ref.Name, &github.PullRequestListOptions{
				State:       "all",
				ListOptions: github.ListOptions{PerPage: maxPullRequests},
			})
			return ps, err
		})
		if err != nil {
			return classify(err, "pulls")
		}
		facets.PullRequests = prs
		return nil
	})

	g.Go(func() error {
		runs, err := once(ctx, func() (*github.WorkflowRuns, error) {
			ws, _, err := c.api.ListWorkflowRuns(ctx, ref.Owner, ref.Name, &github.ListWorkflowRunsOptions{
				ListOptions: github.ListOptions{PerPage: maxWorkflowRuns},
			})
			return ws, err
		})
		if err != nil {
			if notFound(err) {
				return nil
			}
			return classify(err, "workflows")
		}
		facets.WorkflowRuns = runs.WorkflowRuns
		return nil
	})

	g.Go(func() error {
		readme, err := c.fetchReadme(ctx, ref)
		if err != nil {
			return err
		}
		facets.Readme = readme
		return nil
	})

	for _, name := range ManifestFiles {
		g.Go(func() error {
			content, err := c.fetchFileContent(ctx, ref, name)
			if err != nil {
				return err
			}
			if content != "" {
				manifestMu.Lock()
				facets.Manifests[name] = content
				manifestMu.Unlock()
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return facets, nil
}

// fetchReadme returns the decoded README content, or "" when the
// repository has none.
func (c *Client) fetchReadme(ctx context.Context, ref RepoRef) (string, error) {
	content, err := once(ctx, func() (*github.RepositoryContent, error) {
		rc, _, err := c.api.GetReadme(ctx, ref.Owner, ref.Name)
		return rc, err
	})
	if err != nil {
		if notFound(err) {
			return "", nil
		}
		return "", classify(err, "readme")
	}

	decoded, err := content.GetContent()
	if err != nil {
		return "", classify(err, "readme")
	}
	return decoded, nil
}

// fetchFileContent returns the decoded content of a single repository
// file, or "" when the file does not exist.
func (c *Client) fetchFileContent(ctx context.Context, ref RepoRef, path string) (string, error) {
	content, err := once(ctx, func() (*github.RepositoryContent, error) {
		rc, _, err := c.api.GetContents(ctx, ref.Owner, ref.Name, path)
		return rc, err
	})
	if err != nil {
		if notFound(err) {
			return "", nil
		}
		return "", classify(err, "contents:"+path)
	}
	if content == nil {
		return "", nil
	}

	decoded, err := content.GetContent()
	if err != nil {
		return "", classify(err, "contents:"+path)
	}
	return decoded, nil
}
