package ghapi

import (
	"context"
	"encoding/base64"
	"net/http"
	"testing"

	"github.com/google/go-github/v68/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/repolens/repolens/internal/apperr"
)

// fakeAPI serves canned responses. Any method left nil serves a minimal
// happy-path fixture.
type fakeAPI struct {
	getRepository    func(ctx context.Context, owner, repo string) (*github.Repository, *github.Response, error)
	listLanguages    func(ctx context.Context, owner, repo string) (map[string]int, *github.Response, error)
	getTree          func(ctx context.Context, owner, repo, ref string) (*github.Tree, *github.Response, error)
	listCommits      func(ctx context.Context, owner, repo string, opts *github.CommitsListOptions) ([]*github.RepositoryCommit, *github.Response, error)
	listContributors func(ctx context.Context, owner, repo string, opts *github.ListContributorsOptions) ([]*github.Contributor, *github.Response, error)
	listReleases     func(ctx context.Context, owner, repo string, opts *github.ListOptions) ([]*github.RepositoryRelease, *github.Response, error)
	listIssues       func(ctx context.Context, owner, repo string, opts *github.IssueListByRepoOptions) ([]*github.Issue, *github.Response, error)
	listPullRequests func(ctx context.Context, owner, repo string, opts *github.PullRequestListOptions) ([]*github.PullRequest, *github.Response, error)
	listWorkflowRuns func(ctx context.Context, owner, repo string, opts *github.ListWorkflowRunsOptions) (*github.WorkflowRuns, *github.Response, error)
	getReadme        func(ctx context.Context, owner, repo string) (*github.RepositoryContent, *github.Response, error)
	getContents      func(ctx context.Context, owner, repo, path string) (*github.RepositoryContent, *github.Response, error)
}

var _ API = (*fakeAPI)(nil)

func base64Content(s string) *github.RepositoryContent {
	encoded := base64.StdEncoding.EncodeToString([]byte(s))
	return &github.RepositoryContent{
		Encoding: github.Ptr("base64"),
		Content:  github.Ptr(encoded),
	}
}

func (f *fakeAPI) GetRepository(ctx context.Context, owner, repo string) (*github.Repository, *github.Response, error) {
	if f.getRepository != nil {
		return f.getRepository(ctx, owner, repo)
	}
	return &github.Repository{
		FullName:        github.Ptr(owner + "/" + repo),
		StargazersCount: github.Ptr(42),
		DefaultBranch:   github.Ptr("main"),
	}, nil, nil
}

func (f *fakeAPI) ListLanguages(ctx context.Context, owner, repo string) (map[string]int, *github.Response, error) {
	if f.listLanguages != nil {
		return f.listLanguages(ctx, owner, repo)
	}
	return map[string]int{"Go": 8000, "Shell": 2000}, nil, nil
}

func (f *fakeAPI) GetTree(ctx context.Context, owner, repo, ref string) (*github.Tree, *github.Response, error) {
	if f.getTree != nil {
		return f.getTree(ctx, owner, repo, ref)
	}
	return &github.Tree{
		Entries: []*github.TreeEntry{
			{Path: github.Ptr("main.go"), Type: github.Ptr("blob")},
			{Path: github.Ptr("internal"), Type: github.Ptr("tree")},
			{Path: github.Ptr("internal/app/app.go"), Type: github.Ptr("blob")},
		},
	}, nil, nil
}

func (f *fakeAPI) ListCommits(ctx context.Context, owner, repo string, opts *github.CommitsListOptions) ([]*github.RepositoryCommit, *github.Response, error) {
	if f.listCommits != nil {
		return f.listCommits(ctx, owner, repo, opts)
	}
	return []*github.RepositoryCommit{{SHA: github.Ptr("abc123")}}, nil, nil
}

func (f *fakeAPI) ListContributors(ctx context.Context, owner, repo string, opts *github.ListContributorsOptions) ([]*github.Contributor, *github.Response, error) {
	if f.listContributors != nil {
		return f.listContributors(ctx, owner, repo, opts)
	}
	return []*github.Contributor{{Login: github.Ptr("alice"), Contributions: github.Ptr(10)}}, nil, nil
}

func (f *fakeAPI) ListReleases(ctx context.Context, owner, repo string, opts *github.ListOptions) ([]*github.RepositoryRelease, *github.Response, error) {
	if f.listReleases != nil {
		return f.listReleases(ctx, owner, repo, opts)
	}
	return []*github.RepositoryRelease{{TagName: github.Ptr("v1.0.0")}}, nil, nil
}

func (f *fakeAPI) ListIssues(ctx context.Context, owner, repo string, opts *github.IssueListByRepoOptions) ([]*github.Issue, *github.Response, error) {
	if f.listIssues != nil {
		return f.listIssues(ctx, owner, repo, opts)
	}
	return []*github.Issue{{Number: github.Ptr(1), State: github.Ptr("open")}}, nil, nil
}

func (f *fakeAPI) ListPullRequests(ctx context.Context, owner, repo string, opts *github.PullRequestListOptions) ([]*github.PullRequest, *github.Response, error) {
	if f.listPullRequests != nil {
		return f.listPullRequests(ctx, owner, repo, opts)
	}
	return []*github.PullRequest{{Number: github.Ptr(2), State: github.Ptr("closed")}}, nil, nil
}

func (f *fakeAPI) ListWorkflowRuns(ctx context.Context, owner, repo string, opts *github.ListWorkflowRunsOptions) (*github.WorkflowRuns, *github.Response, error) {
	if f.listWorkflowRuns != nil {
		return f.listWorkflowRuns(ctx, owner, repo, opts)
	}
	return &github.WorkflowRuns{
		WorkflowRuns: []*github.WorkflowRun{{Conclusion: github.Ptr("success")}},
	}, nil, nil
}

func (f *fakeAPI) GetReadme(ctx context.Context, owner, repo string) (*github.RepositoryContent, *github.Response, error) {
	if f.getReadme != nil {
		return f.getReadme(ctx, owner, repo)
	}
	return base64Content("# Project\n\nA sample project.\n"), nil, nil
}

func (f *fakeAPI) GetContents(ctx context.Context, owner, repo, path string) (*github.RepositoryContent, *github.Response, error) {
	if f.getContents != nil {
		return f.getContents(ctx, owner, repo, path)
	}
	if path == "go.mod" {
		return base64Content("module example.com/project\n\ngo 1.22\n"), nil, nil
	}
	return nil, nil, ghError(http.StatusNotFound)
}

func TestFetchFacets_HappyPath(t *testing.T) {
	c := NewClient(WithAPI(&fakeAPI{}))

	facets, err := c.FetchFacets(context.Background(), RepoRef{Owner: "golang", Name: "go"})
	require.NoError(t, err)

	assert.Equal(t, "golang/go", facets.Repository.GetFullName())
	assert.Equal(t, 8000, facets.Languages["Go"])
	assert.Len(t, facets.Tree, 3)
	assert.Len(t, facets.Commits, 1)
	assert.Len(t, facets.Contributors, 1)
	assert.Len(t, facets.Releases, 1)
	assert.Len(t, facets.Issues, 1)
	assert.Len(t, facets.PullRequests, 1)
	assert.Len(t, facets.WorkflowRuns, 1)
	assert.Contains(t, facets.Readme, "# Project")
	assert.Contains(t, facets.Manifests["go.mod"], "module example.com/project")
	assert.NotContains(t, facets.Manifests, "package.json")
}

func TestFetchFacets_RepositoryNotFound(t *testing.T) {
	api := &fakeAPI{
		getRepository: func(ctx context.Context, owner, repo string) (*github.Repository, *github.Response, error) {
			return nil, nil, ghError(http.StatusNotFound)
		},
	}
	c := NewClient(WithAPI(api))

	facets, err := c.FetchFacets(context.Background(), RepoRef{Owner: "nobody", Name: "ghost"})
	require.Error(t, err)
	assert.Nil(t, facets)
	assert.Equal(t, apperr.NotFound, apperr.KindOf(err))
}

func TestFetchFacets_MissingOptionalContent(t *testing.T) {
	api := &fakeAPI{
		getReadme: func(ctx context.Context, owner, repo string) (*github.RepositoryContent, *github.Response, error) {
			return nil, nil, ghError(http.StatusNotFound)
		},
		getContents: func(ctx context.Context, owner, repo, path string) (*github.RepositoryContent, *github.Response, error) {
			return nil, nil, ghError(http.StatusNotFound)
		},
	}
	c := NewClient(WithAPI(api))

	facets, err := c.FetchFacets(context.Background(), RepoRef{Owner: "o", Name: "r"})
	require.NoError(t, err)
	assert.Empty(t, facets.Readme)
	assert.Empty(t, facets.Manifests)
}

func TestFetchFacets_EmptyRepository(t *testing.T) {
	api := &fakeAPI{
		getTree: func(ctx context.Context, owner, repo, ref string) (*github.Tree, *github.Response, error) {
			return nil, nil, ghError(http.StatusNotFound)
		},
		listCommits: func(ctx context.Context, owner, repo string, opts *github.CommitsListOptions) ([]*github.RepositoryCommit, *github.Response, error) {
			return nil, nil, ghError(http.StatusConflict)
		},
	}
	c := NewClient(WithAPI(api))

	facets, err := c.FetchFacets(context.Background(), RepoRef{Owner: "o", Name: "empty"})
	require.NoError(t, err)
	assert.Empty(t, facets.Tree)
	assert.Empty(t, facets.Commits)
}

func TestFetchFacets_RateLimitAborts(t *testing.T) {
	api := &fakeAPI{
		listCommits: func(ctx context.Context, owner, repo string, opts *github.CommitsListOptions) ([]*github.RepositoryCommit, *github.Response, error) {
			return nil, nil, &github.RateLimitError{}
		},
	}
	c := NewClient(WithAPI(api))

	facets, err := c.FetchFacets(context.Background(), RepoRef{Owner: "o", Name: "r"})
	require.Error(t, err)
	assert.Nil(t, facets)
	assert.Equal(t, apperr.RateLimited, apperr.KindOf(err))
}
