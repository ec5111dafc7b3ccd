package gateway

import (
	"context"

	"github.com/google/go-github/v62/github"

	"github.com/naka-gawa/github-explorer/internal/domain"
)

// ListRepositoryPRs returns pull requests of owner/repo, open ones by default.
func (g *GitHubGateway) ListRepositoryPRs(ctx context.Context, owner, repo string, opts PRListOptions) ([]*domain.PullRequest, error) {
	const op = "list pull requests"
	state := opts.State
	if state == "" {
		state = "open"
	}
	g.logger.Printf("Gateway: fetching %s pull requests for %s/%s", state, owner, repo)
	prs, _, err := g.restClient.PullRequests.List(ctx, owner, repo, &github.PullRequestListOptions{
		State:       state,
		Base:        opts.Base,
		Head:        opts.Head,
		ListOptions: github.ListOptions{PerPage: clampPerPage(opts.PerPage, defaultPerPage)},
	})
	if err != nil {
		return nil, g.classify(request{op: op, resource: repoResource(owner, repo), permission: permPullRequestsRead}, err)
	}
	result := make([]*domain.PullRequest, 0, len(prs))
	for _, p := range prs {
		pr, err := toPullRequest(op, p)
		if err != nil {
			return nil, err
		}
		result = append(result, pr)
	}
	return result, nil
}

// ListPullRequestFiles returns the files changed by pull request number.
func (g *GitHubGateway) ListPullRequestFiles(ctx context.Context, owner, repo string, number int) ([]*domain.PullRequestFile, error) {
	const op = "list pull request files"
	if number <= 0 {
		return nil, validation(op, "pull request number must be positive")
	}
	files, _, err := g.restClient.PullRequests.ListFiles(ctx, owner, repo, number, &github.ListOptions{PerPage: maxPerPage})
	if err != nil {
		return nil, g.classify(request{op: op, resource: repoResource(owner, repo), permission: permPullRequestsRead}, err)
	}
	result := make([]*domain.PullRequestFile, 0, len(files))
	for _, f := range files {
		result = append(result, &domain.PullRequestFile{
			Filename:  f.GetFilename(),
			Status:    f.GetStatus(),
			Additions: f.GetAdditions(),
			Deletions: f.GetDeletions(),
			Changes:   f.GetChanges(),
			Patch:     f.GetPatch(),
		})
	}
	return result, nil
}
