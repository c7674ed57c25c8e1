// Copyright 2026 The Repolens Authors
// SPDX-License-Identifier: MIT

package ghapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/google/go-github/v68/github"

	"github.com/repolens/repolens/internal/apperr"
)

// Fetch depths, mirroring the original service's per-facet page sizes.
const (
	maxCommits      = 100
	maxContributors = 100
	maxIssues       = 100
	maxPullRequests = 100
	maxReleases     = 10
	maxWorkflowRuns = 10
)

// API abstracts the subset of the GitHub REST API repolens uses, so tests
// can substitute a fake without network access.
type API interface {
	GetRepository(ctx context.Context, owner, repo string) (*github.Repository, *github.Response, error)
	ListLanguages(ctx context.Context, owner, repo string) (map[string]int, *github.Response, error)
	GetTree(ctx context.Context, owner, repo, ref string) (*github.Tree, *github.Response, error)
	ListCommits(ctx context.Context, owner, repo string, opts *github.CommitsListOptions) ([]*github.RepositoryCommit, *github.Response, error)
	ListContributors(ctx context.Context, owner, repo string, opts *github.ListContributorsOptions) ([]*github.Contributor, *github.Response, error)
	ListReleases(ctx context.Context, owner, repo string, opts *github.ListOptions) ([]*github.RepositoryRelease, *github.Response, error)
	ListIssues(ctx context.Context, owner, repo string, opts *github.IssueListByRepoOptions) ([]*github.Issue, *github.Response, error)
	ListPullRequests(ctx context.Context, owner, repo string, opts *github.PullRequestListOptions) ([]*github.PullRequest, *github.Response, error)
	ListWorkflowRuns(ctx context.Context, owner, repo string, opts *github.ListWorkflowRunsOptions) (*github.WorkflowRuns, *github.Response, error)
	GetReadme(ctx context.Context, owner, repo string) (*github.RepositoryContent, *github.Response, error)
	GetContents(ctx context.Context, owner, repo, path string) (*github.RepositoryContent, *github.Response, error)
}

// realAPI wraps the real go-github client to implement API.
type realAPI struct {
	client *github.Client
}

func (r *realAPI) GetRepository(ctx context.Context, owner, repo string) (*github.Repository, *github.Response, error) {
	return r.client.Repositories.Get(ctx, owner, repo)
}

func (r *realAPI) ListLanguages(ctx context.Context, owner, repo string) (map[string]int, *github.Response, error) {
	return r.client.Repositories.ListLanguages(ctx, owner, repo)
}

func (r *realAPI) GetTree(ctx context.Context, owner, repo, ref string) (*github.Tree, *github.Response, error) {
	return r.client.Git.GetTree(ctx, owner, repo, ref, true)
}

func (r *realAPI) ListCommits(ctx context.Context, owner, repo string, opts *github.CommitsListOptions) ([]*github.RepositoryCommit, *github.Response, error) {
	return r.client.Repositories.ListCommits(ctx, owner, repo, opts)
}

func (r *realAPI) ListContributors(ctx context.Context, owner, repo string, opts *github.ListContributorsOptions) ([]*github.Contributor, *github.Response, error) {
	return r.client.Repositories.ListContributors(ctx, owner, repo, opts)
}

func (r *realAPI) ListReleases(ctx context.Context, owner, repo string, opts *github.ListOptions) ([]*github.RepositoryRelease, *github.Response, error) {
	return r.client.Repositories.ListReleases(ctx, owner, repo, opts)
}

func (r *realAPI) ListIssues(ctx context.Context, owner, repo string, opts *github.IssueListByRepoOptions) ([]*github.Issue, *github.Response, error) {
	return r.client.Issues.ListByRepo(ctx, owner, repo, opts)
}

func (r *realAPI) ListPullRequests(ctx context.Context, owner, repo string, opts *github.PullRequestListOptions) ([]*github.PullRequest, *github.Response, error) {
	return r.client.PullRequests.List(ctx, owner, repo, opts)
}

func (r *realAPI) ListWorkflowRuns(ctx context.Context, owner, repo string, opts *github.ListWorkflowRunsOptions) (*github.WorkflowRuns, *github.Response, error) {
	return r.client.Actions.ListRepositoryWorkflowRuns(ctx, owner, repo, opts)
}

func (r *realAPI) GetReadme(ctx context.Context, owner, repo string) (*github.RepositoryContent, *github.Response, error) {
	return r.client.Repositories.GetReadme(ctx, owner, repo, nil)
}

func (r *realAPI) GetContents(ctx context.Context, owner, repo, path string) (*github.RepositoryContent, *github.Response, error) {
	file, _, resp, err := r.client.Repositories.GetContents(ctx, owner, repo, path, nil)
	return file, resp, err
}

// Client fetches repository facets. A zero token is allowed: GitHub serves
// anonymous requests with a lower quota.
type Client struct {
	api API
}

// Option configures a Client.
type Option func(*clientConfig)

type clientConfig struct {
	token   string
	timeout time.Duration
	api     API
}

// WithToken sets the bearer token used for authenticated requests.
func WithToken(token string) Option {
	return func(c *clientConfig) { c.token = token }
}

// WithTimeout bounds each outbound HTTP call.
func WithTimeout(d time.Duration) Option {
	return func(c *clientConfig) { c.timeout = d }
}

// WithAPI substitutes the API implementation. For tests.
func WithAPI(api API) Option {
	return func(c *clientConfig) { c.api = api }
}

// NewClient creates a GitHub facet client.
func NewClient(opts ...Option) *Client {
	cfg := clientConfig{timeout: 10 * time.Second}
	for _, o := range opts {
		o(&cfg)
	}

	api := cfg.api
	if api == nil {
		httpClient := &http.Client{Timeout: cfg.timeout}
		gh := github.NewClient(httpClient)
		if cfg.token != "" {
			gh = gh.WithAuthToken(cfg.token)
		}
		api = &realAPI{client: gh}
	}

	return &Client{api: api}
}

// classify maps a go-github error to the repolens error taxonomy.
func classify(err error, facet string) error {
	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) {
		ae := apperr.Wrap(apperr.RateLimited, "GitHub API rate limit exhausted", err)
		ae.RetryAfter = time.Until(rateErr.Rate.Reset.Time)
		return ae
	}

	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		ae := apperr.Wrap(apperr.RateLimited, "GitHub API secondary rate limit", err)
		if abuseErr.RetryAfter != nil {
			ae.RetryAfter = *abuseErr.RetryAfter
		}
		return ae
	}

	var ghErr *github.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil {
		switch ghErr.Response.StatusCode {
		case http.StatusNotFound:
			return apperr.Wrap(apperr.NotFound, "GitHub resource not found: "+facet, err)
		case http.StatusForbidden:
			// 403 without typed rate-limit error: treat as upstream refusal.
			return apperr.Wrap(apperr.UpstreamError, "GitHub request forbidden: "+facet, err)
		}
		return apperr.Wrap(apperr.UpstreamError, "GitHub request failed: "+facet, err)
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return apperr.Wrap(apperr.Timeout, "GitHub request timed out: "+facet, err)
	}

	return apperr.Wrap(apperr.UpstreamError, "GitHub request failed: "+facet, err)
}

// isTransient reports whether an error looks like a momentary network
// fault worth one immediate retry. Rate limits and HTTP-level errors are
// never transient.
func isTransient(err error) bool {
	var rateErr *github.RateLimitError
	var abuseErr *github.AbuseRateLimitError
	var ghErr *github.ErrorResponse
	if errors.As(err, &rateErr) || errors.As(err, &abuseErr) || errors.As(err, &ghErr) {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var urlErr *url.Error
	return errors.As(err, &urlErr)
}

// once retries fn a single time when the first attempt fails with a
// transient network fault. All other failures propagate immediately.
func once[T any](ctx context.Context, fn func() (T, error)) (T, error) {
	v, err := fn()
	if err == nil || !isTransient(err) {
		return v, err
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return v, ctxErr
	}
	return fn()
}

// notFound reports whether err is a GitHub 404.
func notFound(err error) bool {
	return hasStatus(err, http.StatusNotFound)
}

// hasStatus reports whether err is a GitHub error with the given HTTP status.
func hasStatus(err error, status int) bool {
	var ghErr *github.ErrorResponse
	return errors.As(err, &ghErr) && ghErr.Response != nil &&
		ghErr.Response.StatusCode == status
}
