package orchestrator

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-github/v68/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/repolens/repolens/internal/analyzer"
	"github.com/repolens/repolens/internal/apperr"
	"github.com/repolens/repolens/internal/cache"
	"github.com/repolens/repolens/internal/ghapi"
)

// countingAPI serves fixed fixtures and counts GetRepository calls, one
// per facet fetch set.
type countingAPI struct {
	fetches atomic.Int64
	repoErr error
	delay   time.Duration
}

var _ ghapi.API = (*countingAPI)(nil)

func (c *countingAPI) GetRepository(ctx context.Context, owner, repo string) (*github.Repository, *github.Response, error) {
	c.fetches.Add(1)
	if c.delay > 0 {
		select {
		case <-time.After(c.delay):
		case <-ctx.Done():
			return nil, nil, ctx.Err()
		}
	}
	if c.repoErr != nil {
		return nil, nil, c.repoErr
	}
	return &github.Repository{
		FullName:        github.Ptr(owner + "/" + repo),
		StargazersCount: github.Ptr(7),
	}, nil, nil
}

func (c *countingAPI) ListLanguages(ctx context.Context, owner, repo string) (map[string]int, *github.Response, error) {
	return map[string]int{"Go": 1000}, nil, nil
}

func (c *countingAPI) GetTree(ctx context.Context, owner, repo, ref string) (*github.Tree, *github.Response, error) {
	return &github.Tree{Entries: []*github.TreeEntry{
		{Path: github.Ptr("main.go"), Type: github.Ptr("blob")},
	}}, nil, nil
}

func (c *countingAPI) ListCommits(ctx context.Context, owner, repo string, opts *github.CommitsListOptions) ([]*github.RepositoryCommit, *github.Response, error) {
	return nil, nil, nil
}

func (c *countingAPI) ListContributors(ctx context.Context, owner, repo string, opts *github.ListContributorsOptions) ([]*github.Contributor, *github.Response, error) {
	return nil, nil, nil
}

func (c *countingAPI) ListReleases(ctx context.Context, owner, repo string, opts *github.ListOptions) ([]*github.RepositoryRelease, *github.Response, error) {
	return nil, nil, nil
}

func (c *countingAPI) ListIssues(ctx context.Context, owner, repo string, opts *github.IssueListByRepoOptions) ([]*github.Issue, *github.Response, error) {
	return nil, nil, nil
}

func (c *countingAPI) ListPullRequests(ctx context.Context, owner, repo string, opts *github.PullRequestListOptions) ([]*github.PullRequest, *github.Response, error) {
	return nil, nil, nil
}

func (c *countingAPI) ListWorkflowRuns(ctx context.Context, owner, repo string, opts *github.ListWorkflowRunsOptions) (*github.WorkflowRuns, *github.Response, error) {
	return &github.WorkflowRuns{}, nil, nil
}

func (c *countingAPI) GetReadme(ctx context.Context, owner, repo string) (*github.RepositoryContent, *github.Response, error) {
	return nil, nil, notFoundErr()
}

func (c *countingAPI) GetContents(ctx context.Context, owner, repo, path string) (*github.RepositoryContent, *github.Response, error) {
	return nil, nil, notFoundErr()
}

func notFoundErr() *github.ErrorResponse {
	return &github.ErrorResponse{
		Response: &http.Response{StatusCode: http.StatusNotFound, Request: &http.Request{}},
	}
}

func newTestOrchestrator(api ghapi.API, opts ...Option) *Orchestrator {
	client := ghapi.NewClient(ghapi.WithAPI(api))
	store := cache.New(100, 30*time.Minute, func(r *analyzer.Report) *analyzer.Report {
		return r.Clone()
	})
	return New(client, store, opts...)
}

func TestGetAnalysis_CachesWithinTTL(t *testing.T) {
	api := &countingAPI{}
	o := newTestOrchestrator(api)

	first, err := o.GetAnalysis(context.Background(), "https://github.com/golang/go")
	require.NoError(t, err)

	second, err := o.GetAnalysis(context.Background(), "golang/go")
	require.NoError(t, err)

	assert.Equal(t, first, second, "cached report must equal the original")
	assert.Equal(t, int64(1), api.fetches.Load(), "second call must not refetch")

	stats := o.CacheStats()
	assert.Equal(t, int64(1), stats.HitCount)
	assert.Equal(t, 1, stats.Size)
}

func TestGetAnalysis_InvalidURL(t *testing.T) {
	o := newTestOrchestrator(&countingAPI{})

	_, err := o.GetAnalysis(context.Background(), "not a url")
	assert.Equal(t, apperr.InvalidInput, apperr.KindOf(err))
	assert.Zero(t, o.CacheStats().Size)
}

func TestGetAnalysis_NotFoundNotCached(t *testing.T) {
	api := &countingAPI{repoErr: notFoundErr()}
	o := newTestOrchestrator(api)

	_, err := o.GetAnalysis(context.Background(), "nobody/ghost")
	require.Error(t, err)
	assert.Equal(t, apperr.NotFound, apperr.KindOf(err))
	assert.Zero(t, o.CacheStats().Size, "failures must not be cached")

	// A later call tries upstream again instead of serving the failure.
	_, err = o.GetAnalysis(context.Background(), "nobody/ghost")
	require.Error(t, err)
	assert.Equal(t, int64(2), api.fetches.Load())
}

func TestGetAnalysis_ConcurrentCallsShareOneFetch(t *testing.T) {
	api := &countingAPI{delay: 30 * time.Millisecond}
	o := newTestOrchestrator(api)

	const callers = 8
	var wg sync.WaitGroup
	reports := make([]*analyzer.Report, callers)
	errs := make([]error, callers)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			reports[i], errs[i] = o.GetAnalysis(context.Background(), "golang/go")
		}(i)
	}
	wg.Wait()

	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, reports[0], reports[i])
	}
	assert.Equal(t, int64(1), api.fetches.Load(), "concurrent callers must share one fetch set")
}

func TestGetAnalysis_Timeout(t *testing.T) {
	api := &countingAPI{delay: time.Second}
	o := newTestOrchestrator(api, WithTimeout(30*time.Millisecond))

	_, err := o.GetAnalysis(context.Background(), "golang/go")
	require.Error(t, err)
	assert.Equal(t, apperr.Timeout, apperr.KindOf(err))
	assert.Zero(t, o.CacheStats().Size)
}

func TestGetAnalysis_CallerCancellation(t *testing.T) {
	api := &countingAPI{delay: time.Second}
	o := newTestOrchestrator(api)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := o.GetAnalysis(ctx, "golang/go")
	require.Error(t, err)
	assert.Equal(t, apperr.Timeout, apperr.KindOf(err))
}

func TestClearCache(t *testing.T) {
	api := &countingAPI{}
	o := newTestOrchestrator(api)

	_, err := o.GetAnalysis(context.Background(), "golang/go")
	require.NoError(t, err)
	require.Equal(t, 1, o.CacheStats().Size)

	o.ClearCache()
	stats := o.CacheStats()
	assert.Zero(t, stats.Size)
	assert.Zero(t, stats.HitCount)
	assert.Zero(t, stats.MissCount)

	_, err = o.GetAnalysis(context.Background(), "golang/go")
	require.NoError(t, err)
	assert.Equal(t, int64(2), api.fetches.Load(), "cleared cache must refetch")
}
