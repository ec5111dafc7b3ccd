package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/naka-gawa/github-explorer/internal/domain"
	"github.com/naka-gawa/github-explorer/internal/gateway"
)

func newTestToolset(m *mockFetcher) *Toolset {
	ts := NewToolset(m, discardLogger)
	ts.now = func() time.Time { return time.Date(2024, 5, 8, 12, 0, 0, 0, time.UTC) }
	return ts
}

func invoke(t *testing.T, ts *Toolset, name, params string) (any, error) {
	t.Helper()
	tool, ok := ts.Registry()[name]
	require.True(t, ok, "tool %s is not registered", name)
	return tool.Invoke(context.Background(), json.RawMessage(params))
}

func TestToolset_Registry(t *testing.T) {
	registry := newTestToolset(new(mockFetcher)).Registry()

	expected := []string{
		"analyzeRepository", "check_build_status", "compare_repositories", "create_issue",
		"debug_build_failure", "draft_release_notes", "explore_directory", "getOrganizationIssues",
		"getOrganizationRepositories", "getRepository", "getRepositoryActivity", "getRepositoryContributors",
		"getRepositoryIssues", "getRepositoryLanguages", "getRepositoryPRs", "get_notifications",
		"propose_refactor", "read_code_file", "review_pull_request_changes", "search_code", "view_issue_board",
		"visualize_codebase",
	}
	assert.ElementsMatch(t, expected, ToolNames(registry))
	for name, tool := range registry {
		assert.NotEmpty(t, tool.Description, name)
		assert.NotNil(t, tool.Invoke, name)
	}
}

func TestToolset_ErrorsNameTheOperation(t *testing.T) {
	notFound := &gateway.Error{Kind: gateway.KindNotFound, Status: 404, Message: "repository ghost/ghost not found"}

	testCases := []struct {
		name        string
		tool        string
		params      string
		setup       func(m *mockFetcher)
		errContains string
		sentinel    error
	}{
		{
			name:   "gateway error is wrapped",
			tool:   "getRepository",
			params: `{"owner": "ghost", "repo": "ghost"}`,
			setup: func(m *mockFetcher) {
				m.On("GetRepository", mock.Anything, "ghost", "ghost").Return(nil, notFound)
			},
			errContains: "Failed to fetch repository details: repository ghost/ghost not found",
			sentinel:    gateway.ErrNotFound,
		},
		{
			name:        "malformed parameters",
			tool:        "getRepository",
			params:      `{"owner": 42}`,
			errContains: "Failed to fetch repository details: invalid parameters",
		},
		{
			name:        "missing required parameter",
			tool:        "read_code_file",
			params:      `{"owner": "octo", "repo": "repo"}`,
			errContains: "Failed to read file: path is required",
		},
		{
			name:        "missing run id",
			tool:        "debug_build_failure",
			params:      `{"owner": "octo", "repo": "repo"}`,
			errContains: "Failed to debug workflow run: run_id is required",
		},
		{
			name:   "analysis failure",
			tool:   "analyzeRepository",
			params: `{"owner": "octo", "repo": "repo"}`,
			setup: func(m *mockFetcher) {
				m.On("GetRepository", mock.Anything, "octo", "repo").Return(nil, notFound).Maybe()
				m.On("ListContributors", mock.Anything, "octo", "repo").Return([]*domain.Contributor{}, nil).Maybe()
				m.On("GetLanguages", mock.Anything, "octo", "repo").Return(domain.Languages{}, nil).Maybe()
				m.On("GetCommitActivity", mock.Anything, "octo", "repo").Return([]*domain.WeeklyCommitActivity{}, nil).Maybe()
				m.On("ListRepositoryIssues", mock.Anything, "octo", "repo", mock.Anything).Return([]*domain.Issue{}, nil).Maybe()
				m.On("ListRepositoryPRs", mock.Anything, "octo", "repo", mock.Anything).Return([]*domain.PullRequest{}, nil).Maybe()
			},
			errContains: "Failed to analyze repository: failed to analyze octo/repo",
			sentinel:    gateway.ErrNotFound,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			m := new(mockFetcher)
			if tc.setup != nil {
				tc.setup(m)
			}
			result, err := invoke(t, newTestToolset(m), tc.tool, tc.params)
			require.Error(t, err)
			assert.Nil(t, result)
			assert.Contains(t, err.Error(), tc.errContains)
			if tc.sentinel != nil {
				assert.True(t, errors.Is(err, tc.sentinel))
			}
		})
	}
}

func TestToolset_GetRepositoryIssues(t *testing.T) {
	m := new(mockFetcher)
	m.On("ListRepositoryIssues", mock.Anything, "octo", "repo", gateway.IssueListOptions{
		State:    "open",
		Labels:   []string{"bug", "help wanted"},
		Assignee: "alice",
		PerPage:  10,
	}).Return([]*domain.Issue{{Number: 1}}, nil)

	result, err := invoke(t, newTestToolset(m), "getRepositoryIssues",
		`{"owner": "octo", "repo": "repo", "state": "open", "labels": "bug, help wanted", "assignee": "alice", "per_page": 10}`)
	require.NoError(t, err)
	assert.Len(t, result, 1)
	m.AssertExpectations(t)
}

func TestToolset_ViewIssueBoard(t *testing.T) {
	m := new(mockFetcher)
	m.On("ListRepositoryIssues", mock.Anything, "octo", "repo", gateway.IssueListOptions{State: "all", PerPage: 50}).
		Return([]*domain.Issue{
			{Number: 1, State: "open"},
			{Number: 2, State: "closed"},
			{Number: 3, State: "open"},
		}, nil)

	board, err := newTestToolset(m).ViewIssueBoard(context.Background(), RepoParams{Owner: "octo", Repo: "repo"})
	require.NoError(t, err)
	assert.Equal(t, "octo/repo Board", board.Title)
	require.Len(t, board.Columns, 2)
	assert.Equal(t, "open", board.Columns[0].State)
	assert.Len(t, board.Columns[0].Issues, 2)
	assert.Equal(t, "closed", board.Columns[1].State)
	assert.Len(t, board.Columns[1].Issues, 1)
	assert.Len(t, board.Issues, 3)
}

func TestToolset_CompareRepositories(t *testing.T) {
	testCases := []struct {
		name        string
		secondErr   error
		expectError bool
	}{
		{name: "both found"},
		{name: "second missing", secondErr: &gateway.Error{Kind: gateway.KindNotFound}, expectError: true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			m := new(mockFetcher)
			m.On("GetRepository", mock.Anything, "octo", "one").Return(&domain.Repository{FullName: "octo/one"}, nil).Maybe()
			if tc.secondErr != nil {
				m.On("GetRepository", mock.Anything, "octo", "two").Return(nil, tc.secondErr)
			} else {
				m.On("GetRepository", mock.Anything, "octo", "two").Return(&domain.Repository{FullName: "octo/two"}, nil)
			}

			result, err := invoke(t, newTestToolset(m), "compare_repositories",
				`{"owner1": "octo", "repo1": "one", "owner2": "octo", "repo2": "two"}`)
			if tc.expectError {
				assert.ErrorIs(t, err, gateway.ErrNotFound)
				assert.Contains(t, err.Error(), "Failed to compare repositories")
				return
			}
			require.NoError(t, err)
			comparison := result.(*domain.RepositoryComparison)
			assert.Equal(t, "octo/one", comparison.First.FullName)
			assert.Equal(t, "octo/two", comparison.Second.FullName)
		})
	}
}

func TestToolset_DraftReleaseNotes(t *testing.T) {
	merged := time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC)
	testCases := []struct {
		name          string
		params        ReleaseNotesParams
		expectedSince time.Time
		prs           []*domain.PullRequest
		contains      []string
	}{
		{
			name:          "default window",
			params:        ReleaseNotesParams{RepoParams: RepoParams{Owner: "octo", Repo: "repo"}},
			expectedSince: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
			prs: []*domain.PullRequest{
				{Number: 12, Title: "Add caching", User: domain.User{Login: "alice"}, MergedAt: &merged},
				{Number: 9, Title: "Fix typo", MergedAt: &merged},
			},
			contains: []string{
				"## What's Changed",
				"- Add caching (#12) @alice\n",
				"- Fix typo (#9)\n",
				"https://github.com/octo/repo/pulls?q=",
			},
		},
		{
			name:          "nothing merged",
			params:        ReleaseNotesParams{RepoParams: RepoParams{Owner: "octo", Repo: "repo"}, Days: 30},
			expectedSince: time.Date(2024, 4, 8, 12, 0, 0, 0, time.UTC),
			prs:           []*domain.PullRequest{},
			contains:      []string{"No pull requests were merged in the last 30 days."},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			m := new(mockFetcher)
			m.On("ListMergedPullRequests", mock.Anything, "octo", "repo", tc.expectedSince).Return(tc.prs, nil)

			notes, err := newTestToolset(m).DraftReleaseNotes(context.Background(), tc.params)
			require.NoError(t, err)
			assert.Equal(t, tc.prs, notes.IncludedPRs)
			for _, s := range tc.contains {
				assert.Contains(t, notes.SuggestedBody, s)
			}
			m.AssertExpectations(t)
		})
	}
}

func TestToolset_ProposeRefactor(t *testing.T) {
	m := new(mockFetcher)
	m.On("GetFileContent", mock.Anything, "octo", "repo", "util.js").Return("function add(a, b) {\n  return a + b\n}\n", nil)

	result, err := invoke(t, newTestToolset(m), "propose_refactor",
		`{"owner": "octo", "repo": "repo", "path": "util.js", "instruction": "Use arrow functions", "new_code": "const add = (a, b) => {\n  return a + b\n}\n"}`)
	require.NoError(t, err)
	diff := result.(*domain.FileDiff)
	assert.Equal(t, "util.js", diff.FilePath)
	assert.Equal(t, 1, diff.Additions)
	assert.Equal(t, 1, diff.Deletions)
	assert.Equal(t, "Applied refactor: Use arrow functions", diff.Explanation)

	_, err = invoke(t, newTestToolset(m), "propose_refactor", `{"owner": "octo", "repo": "repo", "path": "util.js"}`)
	assert.ErrorContains(t, err, "new_code is required")
}

func TestToolset_DebugBuildFailure(t *testing.T) {
	failure, success := "failure", "success"
	m := new(mockFetcher)
	m.On("GetWorkflowRunJobs", mock.Anything, "octo", "repo", int64(11)).Return([]*domain.WorkflowJob{
		{Name: "lint", Steps: []*domain.WorkflowStep{{Name: "golangci-lint", Conclusion: &success, Number: 1}}},
		{Name: "test", Steps: []*domain.WorkflowStep{
			{Name: "checkout", Conclusion: &success, Number: 1},
			{Name: "go test", Conclusion: &failure, Number: 2},
		}},
	}, nil)

	result, err := invoke(t, newTestToolset(m), "debug_build_failure", `{"owner": "octo", "repo": "repo", "run_id": 11}`)
	require.NoError(t, err)
	diagnosis := result.(*domain.BuildDiagnosis)
	assert.Equal(t, int64(11), diagnosis.RunID)
	assert.Len(t, diagnosis.Jobs, 2)
	assert.Equal(t, []domain.FailedStep{{Job: "test", Step: "go test", Number: 2}}, diagnosis.FailedSteps)
}

func TestToolset_PassThroughTools(t *testing.T) {
	m := new(mockFetcher)
	m.On("SearchCode", mock.Anything, "TODO repo:octo/repo", 0).Return(&domain.CodeSearchResult{TotalCount: 3}, nil)
	m.On("ListWorkflowRuns", mock.Anything, "octo", "repo", 5).Return([]*domain.WorkflowRun{{ID: 1}}, nil)
	m.On("ListNotifications", mock.Anything, true, false).Return([]*domain.Notification{{ID: "n1"}}, nil)
	m.On("ListDirectory", mock.Anything, "octo", "repo", "").Return([]*domain.ContentEntry{{Name: "go.mod"}}, nil)
	m.On("ListPullRequestFiles", mock.Anything, "octo", "repo", 7).Return([]*domain.PullRequestFile{{Filename: "a.go"}}, nil)
	m.On("CreateIssue", mock.Anything, "octo", "repo", gateway.CreateIssueRequest{Title: "Bug", Labels: []string{"bug"}}).
		Return(&domain.Issue{Number: 5}, nil)
	m.On("ListOrganizationRepositories", mock.Anything, "octo", 0).Return([]*domain.Repository{{Name: "repo"}}, nil)
	m.On("ListOrganizationIssues", mock.Anything, "octo", gateway.IssueListOptions{State: "open"}).Return([]*domain.Issue{{Number: 8}}, nil)
	ts := newTestToolset(m)

	calls := []struct {
		tool   string
		params string
	}{
		{tool: "search_code", params: `{"q": "TODO repo:octo/repo"}`},
		{tool: "check_build_status", params: `{"owner": "octo", "repo": "repo", "per_page": 5}`},
		{tool: "get_notifications", params: `{"all": true}`},
		{tool: "explore_directory", params: `{"owner": "octo", "repo": "repo"}`},
		{tool: "review_pull_request_changes", params: `{"owner": "octo", "repo": "repo", "pull_number": 7}`},
		{tool: "create_issue", params: `{"owner": "octo", "repo": "repo", "title": "Bug", "labels": ["bug"]}`},
		{tool: "getOrganizationRepositories", params: `{"org": "octo"}`},
		{tool: "getOrganizationIssues", params: `{"org": "octo", "state": "open"}`},
	}
	for _, c := range calls {
		t.Run(c.tool, func(t *testing.T) {
			result, err := invoke(t, ts, c.tool, c.params)
			require.NoError(t, err)
			assert.NotNil(t, result)
		})
	}
	m.AssertExpectations(t)
}

func TestToolset_VisualizeCodebase(t *testing.T) {
	m := new(mockFetcher)
	m.On("ListDirectory", mock.Anything, "octo", "repo", "").Return([]*domain.ContentEntry{
		{Name: "cmd", Path: "cmd", Type: "dir"},
		{Name: "go.mod", Path: "go.mod", Type: "file"},
	}, nil)
	m.On("ListDirectory", mock.Anything, "octo", "repo", "cmd").Return([]*domain.ContentEntry{
		{Name: "root.go", Path: "cmd/root.go", Type: "file"},
		{Name: "internal", Path: "cmd/internal", Type: "dir"},
	}, nil)

	result, err := invoke(t, newTestToolset(m), "visualize_codebase", `{"owner":"octo","repo":"repo"}`)
	require.NoError(t, err)
	graph := result.(*domain.CodebaseGraph)

	assert.Equal(t, "octo/repo Architecture", graph.Title)
	assert.False(t, graph.Truncated)
	require.Len(t, graph.Nodes, 5)
	root := graph.Nodes[0]
	assert.Equal(t, "root", root.ID)
	assert.Equal(t, domain.NodeCollection, root.Type)
	assert.Equal(t, "repo", root.Name)
	assert.Equal(t, []string{"cmd", "go.mod"}, root.Connections)

	byID := map[string]*domain.CodebaseNode{}
	for _, n := range graph.Nodes {
		byID[n.ID] = n
	}
	assert.Equal(t, domain.NodeDirectory, byID["cmd"].Type)
	assert.Equal(t, "/cmd/root.go", byID["cmd/root.go"].Path)
	assert.Equal(t, []string{"cmd/root.go", "cmd/internal"}, byID["cmd"].Connections)
	// The default depth lists two levels, so cmd/internal is a leaf.
	assert.Empty(t, byID["cmd/internal"].Connections)
	assert.Contains(t, graph.Edges, domain.CodebaseEdge{Source: "cmd", Target: "cmd/internal"})
	assert.Len(t, graph.Edges, 4)
	m.AssertNotCalled(t, "ListDirectory", mock.Anything, "octo", "repo", "cmd/internal")
	m.AssertExpectations(t)
}

func TestToolset_VisualizeCodebase_Subtree(t *testing.T) {
	m := new(mockFetcher)
	m.On("ListDirectory", mock.Anything, "octo", "repo", "internal").Return([]*domain.ContentEntry{
		{Name: "gateway", Path: "internal/gateway", Type: "dir"},
	}, nil)

	result, err := invoke(t, newTestToolset(m), "visualize_codebase", `{"owner":"octo","repo":"repo","path":"/internal/","depth":1}`)
	require.NoError(t, err)
	graph := result.(*domain.CodebaseGraph)
	assert.Equal(t, "internal", graph.Nodes[0].Name)
	assert.Equal(t, "/internal", graph.Nodes[0].Path)
	require.Len(t, graph.Nodes, 2)
	m.AssertExpectations(t)
}

func TestToolset_VisualizeCodebase_Errors(t *testing.T) {
	m := new(mockFetcher)
	m.On("ListDirectory", mock.Anything, "octo", "repo", "").
		Return(nil, &gateway.Error{Kind: gateway.KindNotFound, Message: "repository octo/repo not found"})

	_, err := invoke(t, newTestToolset(m), "visualize_codebase", `{"owner":"octo","repo":"repo"}`)
	require.Error(t, err)
	assert.ErrorIs(t, err, gateway.ErrNotFound)
	assert.Contains(t, err.Error(), "Failed to visualize codebase")

	_, err = invoke(t, newTestToolset(new(mockFetcher)), "visualize_codebase", `{"owner":"octo"}`)
	assert.ErrorContains(t, err, "owner and repo are required")
}

func TestToolset_VisualizeCodebase_NodeLimit(t *testing.T) {
	entries := make([]*domain.ContentEntry, maxGraphNodes+10)
	for i := range entries {
		name := fmt.Sprintf("file%03d.go", i)
		entries[i] = &domain.ContentEntry{Name: name, Path: name, Type: "file"}
	}
	m := new(mockFetcher)
	m.On("ListDirectory", mock.Anything, "octo", "repo", "").Return(entries, nil)

	graph, err := newTestToolset(m).VisualizeCodebase(context.Background(), VisualizeParams{PathParams: PathParams{RepoParams: RepoParams{Owner: "octo", Repo: "repo"}}})
	require.NoError(t, err)
	assert.True(t, graph.Truncated)
	assert.Len(t, graph.Nodes, maxGraphNodes)
}
