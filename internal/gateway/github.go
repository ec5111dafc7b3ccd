// Package gateway provides a gateway to the GitHub API,
// abstracting away the underlying REST and GraphQL clients.
package gateway

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/go-github/v62/github"
	"github.com/shurcooL/githubv4"
	"golang.org/x/oauth2"

	"github.com/gofri/go-github-ratelimit/github_ratelimit"

	"github.com/naka-gawa/github-explorer/internal/config"
	"github.com/naka-gawa/github-explorer/internal/domain"
)

const (
	userAgent = "github-explorer"

	defaultPerPage           = 30
	defaultCodeSearchPerPage = 10
	defaultWorkflowPerPage   = 5
	maxPerPage               = 100
	contributorsPerPage      = 10
)

// IssueListOptions narrows an issue listing.
type IssueListOptions struct {
	State    string
	Labels   []string
	Assignee string
	PerPage  int
	Page     int
}

// PRListOptions narrows a pull request listing.
type PRListOptions struct {
	State   string
	Base    string
	Head    string
	PerPage int
}

// CreateIssueRequest holds the fields of a new issue. Title is required.
type CreateIssueRequest struct {
	Title     string   `json:"title"`
	Body      string   `json:"body,omitempty"`
	Labels    []string `json:"labels,omitempty"`
	Assignees []string `json:"assignees,omitempty"`
}

// Fetcher defines the behavior of a gateway for fetching information from GitHub.
type Fetcher interface {
	SetToken(token string)

	GetRepository(ctx context.Context, owner, repo string) (*domain.Repository, error)
	ListOrganizationRepositories(ctx context.Context, org string, perPage int) ([]*domain.Repository, error)
	ListContributors(ctx context.Context, owner, repo string) ([]*domain.Contributor, error)
	GetLanguages(ctx context.Context, owner, repo string) (domain.Languages, error)
	GetCommitActivity(ctx context.Context, owner, repo string) ([]*domain.WeeklyCommitActivity, error)

	ListRepositoryIssues(ctx context.Context, owner, repo string, opts IssueListOptions) ([]*domain.Issue, error)
	ListOrganizationIssues(ctx context.Context, org string, opts IssueListOptions) ([]*domain.Issue, error)
	CreateIssue(ctx context.Context, owner, repo string, req CreateIssueRequest) (*domain.Issue, error)

	ListRepositoryPRs(ctx context.Context, owner, repo string, opts PRListOptions) ([]*domain.PullRequest, error)
	ListPullRequestFiles(ctx context.Context, owner, repo string, number int) ([]*domain.PullRequestFile, error)
	// ListMergedPullRequests returns pull requests merged at or after since.
	ListMergedPullRequests(ctx context.Context, owner, repo string, since time.Time) ([]*domain.PullRequest, error)

	GetFileContent(ctx context.Context, owner, repo, path string) (string, error)
	ListDirectory(ctx context.Context, owner, repo, path string) ([]*domain.ContentEntry, error)
	SearchCode(ctx context.Context, query string, perPage int) (*domain.CodeSearchResult, error)

	ListWorkflowRuns(ctx context.Context, owner, repo string, perPage int) ([]*domain.WorkflowRun, error)
	GetWorkflowRunJobs(ctx context.Context, owner, repo string, runID int64) ([]*domain.WorkflowJob, error)

	ListNotifications(ctx context.Context, all, participating bool) ([]*domain.Notification, error)
}

// GitHubGateway is the concrete implementation of the Fetcher interface.
type GitHubGateway struct {
	restClient    *github.Client
	graphqlClient *githubv4.Client
	credentials   *credentialTransport
	logger        *log.Logger
}

// credentialTransport attaches the current token, if any, to each request.
// The token is read once per request so a concurrent SetToken only affects
// requests dispatched after it.
type credentialTransport struct {
	mu    sync.RWMutex
	token string
	base  http.RoundTripper
}

func (t *credentialTransport) setToken(token string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.token = token
}

func (t *credentialTransport) currentToken() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.token
}

func (t *credentialTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	token := t.currentToken()
	if token == "" {
		return t.base.RoundTrip(req)
	}
	authorized := &oauth2.Transport{
		Base:   t.base,
		Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}),
	}
	return authorized.RoundTrip(req)
}

// NewGitHubGateway is a constructor that creates a new instance of GitHubGateway.
func NewGitHubGateway(cfg *config.Config, logger *log.Logger) (*GitHubGateway, error) {
	rateLimitWaiter, err := github_ratelimit.NewRateLimitWaiter(nil,
		github_ratelimit.WithSingleSleepLimit(cfg.RateLimitMaxWait, func(cbCtx *github_ratelimit.CallbackContext) {
			if cbCtx.SleepUntil != nil {
				logger.Printf("Gateway: secondary rate limit until %s, not waiting", cbCtx.SleepUntil.Format(time.RFC3339))
				return
			}
			logger.Println("Gateway: secondary rate limit hit, not waiting")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limit waiter: %w", err)
	}
	credentials := &credentialTransport{token: cfg.Token, base: rateLimitWaiter}
	httpClient := &http.Client{
		Transport: credentials,
		Timeout:   cfg.RequestTimeout,
	}

	restClient := github.NewClient(httpClient)
	restClient.UserAgent = userAgent
	graphqlClient := githubv4.NewClient(httpClient)
	if cfg.APIBaseURL != "" {
		baseURL, err := url.Parse(strings.TrimSuffix(cfg.APIBaseURL, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("failed to parse API base URL: %w", err)
		}
		restClient.BaseURL = baseURL
		graphqlClient = githubv4.NewEnterpriseClient(graphqlEndpoint(baseURL), httpClient)
	}

	return &GitHubGateway{
		restClient:    restClient,
		graphqlClient: graphqlClient,
		credentials:   credentials,
		logger:        logger,
	}, nil
}

// graphqlEndpoint derives the GraphQL URL from a REST base URL. GitHub
// Enterprise serves REST under /api/v3/ and GraphQL under /api/graphql.
func graphqlEndpoint(base *url.URL) string {
	u := *base
	path := strings.TrimSuffix(u.Path, "/")
	if strings.HasSuffix(path, "/v3") {
		u.Path = strings.TrimSuffix(path, "/v3") + "/graphql"
	} else {
		u.Path = path + "/graphql"
	}
	return u.String()
}

// SetToken replaces the credential used by subsequent requests.
func (g *GitHubGateway) SetToken(token string) {
	g.credentials.setToken(token)
}

func (g *GitHubGateway) hasToken() bool {
	return g.credentials.currentToken() != ""
}

// clampPerPage bounds perPage to the API limits, substituting def when unset.
func clampPerPage(perPage, def int) int {
	if perPage <= 0 {
		return def
	}
	if perPage > maxPerPage {
		return maxPerPage
	}
	return perPage
}
