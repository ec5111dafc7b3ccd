package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/naka-gawa/github-explorer/internal/domain"
	"github.com/naka-gawa/github-explorer/internal/gateway"
)

// Tool is a single operation exposed to the agent. Description is prompt
// metadata only; Invoke never consults it.
type Tool struct {
	Description string
	Invoke      func(ctx context.Context, params json.RawMessage) (any, error)
}

// Toolset binds the tools to one session's Fetcher.
type Toolset struct {
	fetcher  gateway.Fetcher
	analyzer *Analyzer
	logger   *log.Logger
	now      func() time.Time
}

// NewToolset creates the tools of a session backed by fetcher.
func NewToolset(fetcher gateway.Fetcher, logger *log.Logger) *Toolset {
	return &Toolset{
		fetcher:  fetcher,
		analyzer: NewAnalyzer(fetcher, logger),
		logger:   logger,
		now:      time.Now,
	}
}

// newTool adapts a typed operation to a Tool. Params are decoded from JSON
// and every failure is reported as "Failed to <action>: <cause>".
func newTool[P any, R any](description, action string, fn func(ctx context.Context, p P) (R, error)) Tool {
	return Tool{
		Description: description,
		Invoke: func(ctx context.Context, raw json.RawMessage) (any, error) {
			var params P
			if len(bytes.TrimSpace(raw)) > 0 {
				if err := json.Unmarshal(raw, &params); err != nil {
					return nil, fmt.Errorf("Failed to %s: invalid parameters: %w", action, err)
				}
			}
			result, err := fn(ctx, params)
			if err != nil {
				return nil, fmt.Errorf("Failed to %s: %w", action, err)
			}
			return result, nil
		},
	}
}

// Registry returns the tools keyed by name.
func (t *Toolset) Registry() map[string]Tool {
	return map[string]Tool{
		"analyzeRepository": newTool(
			"Perform a deep analysis of a repository including contributors, languages, and activity trends. Provide a natural language summary of the health score and findings after calling this.",
			"analyze repository", t.AnalyzeRepository),
		"getOrganizationRepositories": newTool(
			"List the repositories of a GitHub organization, most recently updated first.",
			"fetch organization repositories", t.GetOrganizationRepositories),
		"getRepository": newTool(
			"Get details of a single repository: stars, forks, open issues and language.",
			"fetch repository details", t.GetRepository),
		"getRepositoryIssues": newTool(
			"List issues of a repository, excluding pull requests. Supports state, labels and assignee filters.",
			"fetch issues", t.GetRepositoryIssues),
		"getOrganizationIssues": newTool(
			"Search issues across every repository of an organization.",
			"search organization issues", t.GetOrganizationIssues),
		"getRepositoryPRs": newTool(
			"List pull requests of a repository.",
			"fetch pull requests", t.GetRepositoryPRs),
		"getRepositoryContributors": newTool(
			"Get the top contributors of a repository.",
			"fetch contributors", t.GetRepositoryContributors),
		"getRepositoryLanguages": newTool(
			"Get the language breakdown of a repository in bytes.",
			"fetch languages", t.GetRepositoryLanguages),
		"getRepositoryActivity": newTool(
			"Get the weekly commit activity of a repository over the last year.",
			"fetch activity", t.GetRepositoryActivity),
		"read_code_file": newTool(
			"Read the content of a specific file in the repository. Use this to analyze code logic, dependencies, or configuration.",
			"read file", t.ReadCodeFile),
		"explore_directory": newTool(
			"List the contents of a directory. Use this to understand the project structure or find files to read.",
			"list directory", t.ExploreDirectory),
		"review_pull_request_changes": newTool(
			"Get the list of files changed in a specific Pull Request. Use this to perform a code review or summary of changes.",
			"fetch PR files", t.ReviewPullRequestChanges),
		"create_issue": newTool(
			"Create a new issue in the repository. Use this to report bugs or request features on behalf of the user.",
			"create issue", t.CreateIssue),
		"search_code": newTool(
			"Search for code snippets, identifiers, or text patterns using GitHub code search syntax.",
			"search code", t.SearchCode),
		"check_build_status": newTool(
			"Get the recent GitHub Actions workflow runs to see if builds are passing or failing.",
			"fetch workflow runs", t.CheckBuildStatus),
		"debug_build_failure": newTool(
			"Get the job steps of a workflow run and the steps that failed.",
			"debug workflow run", t.DebugBuildFailure),
		"get_notifications": newTool(
			"Get your GitHub notifications. Use this to catch up on PRs, mentions, and issues.",
			"fetch notifications", t.GetNotifications),
		"visualize_codebase": newTool(
			"Build a graph of the repository's directory structure. Use this to explain the architecture or how files are organized.",
			"visualize codebase", t.VisualizeCodebase),
		"view_issue_board": newTool(
			"View repository issues grouped into open and closed columns for triage.",
			"build issue board", t.ViewIssueBoard),
		"compare_repositories": newTool(
			"Compare two repositories side by side.",
			"compare repositories", t.CompareRepositories),
		"draft_release_notes": newTool(
			"Draft release notes from the pull requests merged in the last N days.",
			"draft release notes", t.DraftReleaseNotes),
		"propose_refactor": newTool(
			"Show a diff between a file in the repository and proposed new content.",
			"propose refactor", t.ProposeRefactor),
	}
}

// ToolNames returns the registered tool names in sorted order.
func ToolNames(registry map[string]Tool) []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RepoParams identifies a repository.
type RepoParams struct {
	Owner string `json:"owner"`
	Repo  string `json:"repo"`
}

func (p RepoParams) validate() error {
	if p.Owner == "" || p.Repo == "" {
		return fmt.Errorf("owner and repo are required")
	}
	return nil
}

// OrgReposParams selects the repositories of an organization.
type OrgReposParams struct {
	Org     string `json:"org"`
	PerPage int    `json:"per_page"`
}

// IssueParams filters the issues of a repository. Labels is a comma
// separated list.
type IssueParams struct {
	RepoParams
	State    string `json:"state"`
	Labels   string `json:"labels"`
	Assignee string `json:"assignee"`
	PerPage  int    `json:"per_page"`
	Page     int    `json:"page"`
}

// OrgIssueParams filters the issues of an organization.
type OrgIssueParams struct {
	Org      string `json:"org"`
	State    string `json:"state"`
	Labels   string `json:"labels"`
	Assignee string `json:"assignee"`
	PerPage  int    `json:"per_page"`
	Page     int    `json:"page"`
}

// PRParams filters the pull requests of a repository.
type PRParams struct {
	RepoParams
	State   string `json:"state"`
	Base    string `json:"base"`
	Head    string `json:"head"`
	PerPage int    `json:"per_page"`
}

// PathParams points at a path inside a repository.
type PathParams struct {
	RepoParams
	Path string `json:"path"`
}

// PullRequestParams identifies a pull request.
type PullRequestParams struct {
	RepoParams
	PullNumber int `json:"pull_number"`
}

// CreateIssueParams holds the fields of a new issue.
type CreateIssueParams struct {
	RepoParams
	Title     string   `json:"title"`
	Body      string   `json:"body"`
	Labels    []string `json:"labels"`
	Assignees []string `json:"assignees"`
}

// SearchCodeParams is a code search query.
type SearchCodeParams struct {
	Query   string `json:"q"`
	PerPage int    `json:"per_page"`
}

// BuildStatusParams selects recent workflow runs.
type BuildStatusParams struct {
	RepoParams
	PerPage int `json:"per_page"`
}

// RunParams identifies a workflow run.
type RunParams struct {
	RepoParams
	RunID int64 `json:"run_id"`
}

// NotificationParams filters notifications.
type NotificationParams struct {
	All           bool `json:"all"`
	Participating bool `json:"participating"`
}

// AnalyzeRepository scores the health of a repository.
func (t *Toolset) AnalyzeRepository(ctx context.Context, p RepoParams) (*domain.AnalysisResult, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	return t.analyzer.AnalyzeRepository(ctx, p.Owner, p.Repo)
}

// GetOrganizationRepositories lists the repositories of an organization.
func (t *Toolset) GetOrganizationRepositories(ctx context.Context, p OrgReposParams) ([]*domain.Repository, error) {
	if p.Org == "" {
		return nil, fmt.Errorf("org is required")
	}
	return t.fetcher.ListOrganizationRepositories(ctx, p.Org, p.PerPage)
}

// GetRepository returns the details of a repository.
func (t *Toolset) GetRepository(ctx context.Context, p RepoParams) (*domain.Repository, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	return t.fetcher.GetRepository(ctx, p.Owner, p.Repo)
}

// GetRepositoryIssues lists the issues of a repository.
func (t *Toolset) GetRepositoryIssues(ctx context.Context, p IssueParams) ([]*domain.Issue, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	return t.fetcher.ListRepositoryIssues(ctx, p.Owner, p.Repo, gateway.IssueListOptions{
		State:    p.State,
		Labels:   splitList(p.Labels),
		Assignee: p.Assignee,
		PerPage:  p.PerPage,
		Page:     p.Page,
	})
}

// GetOrganizationIssues searches the issues of an organization.
func (t *Toolset) GetOrganizationIssues(ctx context.Context, p OrgIssueParams) ([]*domain.Issue, error) {
	if p.Org == "" {
		return nil, fmt.Errorf("org is required")
	}
	return t.fetcher.ListOrganizationIssues(ctx, p.Org, gateway.IssueListOptions{
		State:    p.State,
		Labels:   splitList(p.Labels),
		Assignee: p.Assignee,
		PerPage:  p.PerPage,
		Page:     p.Page,
	})
}

// GetRepositoryPRs lists the pull requests of a repository.
func (t *Toolset) GetRepositoryPRs(ctx context.Context, p PRParams) ([]*domain.PullRequest, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	return t.fetcher.ListRepositoryPRs(ctx, p.Owner, p.Repo, gateway.PRListOptions{
		State:   p.State,
		Base:    p.Base,
		Head:    p.Head,
		PerPage: p.PerPage,
	})
}

// GetRepositoryContributors lists the top contributors of a repository.
func (t *Toolset) GetRepositoryContributors(ctx context.Context, p RepoParams) ([]*domain.Contributor, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	return t.fetcher.ListContributors(ctx, p.Owner, p.Repo)
}

// GetRepositoryLanguages returns the language breakdown of a repository.
func (t *Toolset) GetRepositoryLanguages(ctx context.Context, p RepoParams) (domain.Languages, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	return t.fetcher.GetLanguages(ctx, p.Owner, p.Repo)
}

// GetRepositoryActivity returns the weekly commit activity of a repository.
func (t *Toolset) GetRepositoryActivity(ctx context.Context, p RepoParams) ([]*domain.WeeklyCommitActivity, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	return t.fetcher.GetCommitActivity(ctx, p.Owner, p.Repo)
}

// ReadCodeFile returns the content of a file.
func (t *Toolset) ReadCodeFile(ctx context.Context, p PathParams) (string, error) {
	if err := p.validate(); err != nil {
		return "", err
	}
	if p.Path == "" {
		return "", fmt.Errorf("path is required")
	}
	return t.fetcher.GetFileContent(ctx, p.Owner, p.Repo, p.Path)
}

// ExploreDirectory lists a directory; an empty path lists the root.
func (t *Toolset) ExploreDirectory(ctx context.Context, p PathParams) ([]*domain.ContentEntry, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	return t.fetcher.ListDirectory(ctx, p.Owner, p.Repo, p.Path)
}

// ReviewPullRequestChanges lists the files changed by a pull request.
func (t *Toolset) ReviewPullRequestChanges(ctx context.Context, p PullRequestParams) ([]*domain.PullRequestFile, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	if p.PullNumber <= 0 {
		return nil, fmt.Errorf("pull_number is required")
	}
	return t.fetcher.ListPullRequestFiles(ctx, p.Owner, p.Repo, p.PullNumber)
}

// CreateIssue opens a new issue.
func (t *Toolset) CreateIssue(ctx context.Context, p CreateIssueParams) (*domain.Issue, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	return t.fetcher.CreateIssue(ctx, p.Owner, p.Repo, gateway.CreateIssueRequest{
		Title:     p.Title,
		Body:      p.Body,
		Labels:    p.Labels,
		Assignees: p.Assignees,
	})
}

// SearchCode runs a code search.
func (t *Toolset) SearchCode(ctx context.Context, p SearchCodeParams) (*domain.CodeSearchResult, error) {
	if strings.TrimSpace(p.Query) == "" {
		return nil, fmt.Errorf("q is required")
	}
	return t.fetcher.SearchCode(ctx, p.Query, p.PerPage)
}

// CheckBuildStatus lists recent workflow runs.
func (t *Toolset) CheckBuildStatus(ctx context.Context, p BuildStatusParams) ([]*domain.WorkflowRun, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	return t.fetcher.ListWorkflowRuns(ctx, p.Owner, p.Repo, p.PerPage)
}

// GetNotifications lists the user's notifications.
func (t *Toolset) GetNotifications(ctx context.Context, p NotificationParams) ([]*domain.Notification, error) {
	return t.fetcher.ListNotifications(ctx, p.All, p.Participating)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
