package gateway

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/go-github/v62/github"

	"github.com/naka-gawa/github-explorer/internal/domain"
)

const (
	// The issues endpoint mixes pull requests into its results, so more
	// records are requested than asked for and the PRs are filtered out.
	issueOverfetchFactor = 3
	issueRetryFactor     = 5
)

// ListRepositoryIssues returns up to opts.PerPage issues of owner/repo.
// Pull requests are never included. When filtering leaves no issues, or a
// full page was diluted below opts.PerPage, one larger page is fetched. A
// failed retry is logged and the first result, possibly empty, is returned
// without error.
func (g *GitHubGateway) ListRepositoryIssues(ctx context.Context, owner, repo string, opts IssueListOptions) ([]*domain.Issue, error) {
	const op = "list repository issues"
	perPage := clampPerPage(opts.PerPage, defaultPerPage)
	fetch := min(maxPerPage, perPage*issueOverfetchFactor)

	g.logger.Printf("Gateway: fetching issues for %s/%s", owner, repo)
	raw, err := g.listRawIssues(ctx, owner, repo, opts, fetch)
	if err != nil {
		return nil, g.classify(request{op: op, resource: repoResource(owner, repo), permission: permIssuesRead}, err)
	}
	issues, err := filterIssues(op, raw, perPage)
	if err != nil {
		return nil, err
	}
	if !needsIssueRetry(len(issues), len(raw), perPage, fetch) {
		return issues, nil
	}

	retryFetch := min(maxPerPage, perPage*issueRetryFactor)
	g.logger.Printf("Gateway: only %d of %d records for %s/%s were issues, retrying with %d records", len(issues), len(raw), owner, repo, retryFetch)
	retryRaw, err := g.listRawIssues(ctx, owner, repo, opts, retryFetch)
	if err != nil {
		// Deliberate: the retry never turns into an error for the caller.
		g.logger.Printf("Gateway: WARNING issue retry for %s/%s failed, keeping %d issues: %v", owner, repo, len(issues), err)
		return issues, nil
	}
	retried, err := filterIssues(op, retryRaw, perPage)
	if err != nil {
		g.logger.Printf("Gateway: WARNING issue retry for %s/%s returned malformed records, keeping %d issues: %v", owner, repo, len(issues), err)
		return issues, nil
	}
	if len(retried) > len(issues) {
		return retried, nil
	}
	if len(issues) == 0 {
		g.logger.Printf("Gateway: WARNING no issues found for %s/%s after retry", owner, repo)
	}
	return issues, nil
}

// needsIssueRetry reports whether a larger page may surface more issues.
func needsIssueRetry(issues, raw, perPage, fetched int) bool {
	if issues >= perPage || raw == 0 {
		return false
	}
	return issues == 0 || (raw == fetched && fetched < maxPerPage)
}

func (g *GitHubGateway) listRawIssues(ctx context.Context, owner, repo string, opts IssueListOptions, fetch int) ([]*github.Issue, error) {
	state := opts.State
	if state == "" {
		state = "all"
	}
	page := opts.Page
	if page <= 0 {
		page = 1
	}
	raw, _, err := g.restClient.Issues.ListByRepo(ctx, owner, repo, &github.IssueListByRepoOptions{
		State:       state,
		Assignee:    opts.Assignee,
		Labels:      opts.Labels,
		ListOptions: github.ListOptions{PerPage: fetch, Page: page},
	})
	return raw, err
}

// filterIssues drops pull requests and truncates to limit.
func filterIssues(op string, raw []*github.Issue, limit int) ([]*domain.Issue, error) {
	issues := make([]*domain.Issue, 0, min(len(raw), limit))
	for _, i := range raw {
		if i.IsPullRequest() {
			continue
		}
		issue, err := toIssue(op, i)
		if err != nil {
			return nil, err
		}
		issues = append(issues, issue)
		if len(issues) == limit {
			break
		}
	}
	return issues, nil
}

// ListOrganizationIssues searches the issues of every repository in org.
// The search index is queried with is:issue, so no filtering is needed.
func (g *GitHubGateway) ListOrganizationIssues(ctx context.Context, org string, opts IssueListOptions) ([]*domain.Issue, error) {
	const op = "search organization issues"
	if org == "" {
		return nil, validation(op, "org is required")
	}
	page := opts.Page
	if page <= 0 {
		page = 1
	}
	query := organizationIssueQuery(org, opts)
	g.logger.Printf("Gateway: searching issues with query %q", query)
	result, _, err := g.restClient.Search.Issues(ctx, query, &github.SearchOptions{
		Sort:        "created",
		Order:       "desc",
		ListOptions: github.ListOptions{PerPage: clampPerPage(opts.PerPage, defaultPerPage), Page: page},
	})
	if err != nil {
		return nil, g.classify(request{op: op, resource: fmt.Sprintf("organization %s", org), permission: permSearch}, err)
	}
	issues := make([]*domain.Issue, 0, len(result.Issues))
	for _, i := range result.Issues {
		issue, err := toIssue(op, i)
		if err != nil {
			return nil, err
		}
		issues = append(issues, issue)
	}
	return issues, nil
}

func organizationIssueQuery(org string, opts IssueListOptions) string {
	terms := []string{"org:" + org, "is:issue"}
	if opts.State != "" && opts.State != "all" {
		terms = append(terms, "state:"+opts.State)
	}
	for _, l := range opts.Labels {
		if strings.ContainsAny(l, " \t") {
			l = fmt.Sprintf("%q", l)
		}
		terms = append(terms, "label:"+l)
	}
	if opts.Assignee != "" {
		terms = append(terms, "assignee:"+opts.Assignee)
	}
	return strings.Join(terms, " ")
}

// CreateIssue opens a new issue in owner/repo.
func (g *GitHubGateway) CreateIssue(ctx context.Context, owner, repo string, req CreateIssueRequest) (*domain.Issue, error) {
	const op = "create issue"
	if strings.TrimSpace(req.Title) == "" {
		return nil, validation(op, "title is required")
	}
	issueReq := &github.IssueRequest{Title: github.String(req.Title)}
	if req.Body != "" {
		issueReq.Body = github.String(req.Body)
	}
	if len(req.Labels) > 0 {
		issueReq.Labels = &req.Labels
	}
	if len(req.Assignees) > 0 {
		issueReq.Assignees = &req.Assignees
	}
	g.logger.Printf("Gateway: creating issue in %s/%s", owner, repo)
	created, _, err := g.restClient.Issues.Create(ctx, owner, repo, issueReq)
	if err != nil {
		return nil, g.classify(request{op: op, resource: repoResource(owner, repo), permission: permIssuesWrite}, err)
	}
	return toIssue(op, created)
}
