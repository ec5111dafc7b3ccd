package usecase

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/naka-gawa/github-explorer/internal/domain"
	"github.com/naka-gawa/github-explorer/internal/gateway"
)

// mockFetcher is a mock implementation of the gateway.Fetcher interface.
// It allows us to simulate the behavior of the GitHub gateway without making real API calls.
type mockFetcher struct {
	mock.Mock
}

var _ gateway.Fetcher = (*mockFetcher)(nil)

func (m *mockFetcher) SetToken(token string) {
	m.Called(token)
}

func (m *mockFetcher) GetRepository(ctx context.Context, owner, repo string) (*domain.Repository, error) {
	args := m.Called(ctx, owner, repo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Repository), args.Error(1)
}

func (m *mockFetcher) ListOrganizationRepositories(ctx context.Context, org string, perPage int) ([]*domain.Repository, error) {
	args := m.Called(ctx, org, perPage)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Repository), args.Error(1)
}

func (m *mockFetcher) ListContributors(ctx context.Context, owner, repo string) ([]*domain.Contributor, error) {
	args := m.Called(ctx, owner, repo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Contributor), args.Error(1)
}

func (m *mockFetcher) GetLanguages(ctx context.Context, owner, repo string) (domain.Languages, error) {
	args := m.Called(ctx, owner, repo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.Languages), args.Error(1)
}

func (m *mockFetcher) GetCommitActivity(ctx context.Context, owner, repo string) ([]*domain.WeeklyCommitActivity, error) {
	args := m.Called(ctx, owner, repo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.WeeklyCommitActivity), args.Error(1)
}

func (m *mockFetcher) ListRepositoryIssues(ctx context.Context, owner, repo string, opts gateway.IssueListOptions) ([]*domain.Issue, error) {
	args := m.Called(ctx, owner, repo, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Issue), args.Error(1)
}

func (m *mockFetcher) ListOrganizationIssues(ctx context.Context, org string, opts gateway.IssueListOptions) ([]*domain.Issue, error) {
	args := m.Called(ctx, org, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Issue), args.Error(1)
}

func (m *mockFetcher) CreateIssue(ctx context.Context, owner, repo string, req gateway.CreateIssueRequest) (*domain.Issue, error) {
	args := m.Called(ctx, owner, repo, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Issue), args.Error(1)
}

func (m *mockFetcher) ListRepositoryPRs(ctx context.Context, owner, repo string, opts gateway.PRListOptions) ([]*domain.PullRequest, error) {
	args := m.Called(ctx, owner, repo, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.PullRequest), args.Error(1)
}

func (m *mockFetcher) ListPullRequestFiles(ctx context.Context, owner, repo string, number int) ([]*domain.PullRequestFile, error) {
	args := m.Called(ctx, owner, repo, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.PullRequestFile), args.Error(1)
}

func (m *mockFetcher) ListMergedPullRequests(ctx context.Context, owner, repo string, since time.Time) ([]*domain.PullRequest, error) {
	args := m.Called(ctx, owner, repo, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.PullRequest), args.Error(1)
}

func (m *mockFetcher) GetFileContent(ctx context.Context, owner, repo, path string) (string, error) {
	args := m.Called(ctx, owner, repo, path)
	return args.String(0), args.Error(1)
}

func (m *mockFetcher) ListDirectory(ctx context.Context, owner, repo, path string) ([]*domain.ContentEntry, error) {
	args := m.Called(ctx, owner, repo, path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ContentEntry), args.Error(1)
}

func (m *mockFetcher) SearchCode(ctx context.Context, query string, perPage int) (*domain.CodeSearchResult, error) {
	args := m.Called(ctx, query, perPage)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CodeSearchResult), args.Error(1)
}

func (m *mockFetcher) ListWorkflowRuns(ctx context.Context, owner, repo string, perPage int) ([]*domain.WorkflowRun, error) {
	args := m.Called(ctx, owner, repo, perPage)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.WorkflowRun), args.Error(1)
}

func (m *mockFetcher) GetWorkflowRunJobs(ctx context.Context, owner, repo string, runID int64) ([]*domain.WorkflowJob, error) {
	args := m.Called(ctx, owner, repo, runID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.WorkflowJob), args.Error(1)
}

func (m *mockFetcher) ListNotifications(ctx context.Context, all, participating bool) ([]*domain.Notification, error) {
	args := m.Called(ctx, all, participating)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Notification), args.Error(1)
}
