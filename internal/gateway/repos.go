package gateway

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/go-github/v62/github"

	"github.com/naka-gawa/github-explorer/internal/domain"
)

// GetRepository fetches the details of owner/repo.
func (g *GitHubGateway) GetRepository(ctx context.Context, owner, repo string) (*domain.Repository, error) {
	const op = "get repository"
	if owner == "" || repo == "" {
		return nil, validation(op, "owner and repo are required")
	}
	g.logger.Printf("Gateway: fetching repository %s/%s", owner, repo)
	r, _, err := g.restClient.Repositories.Get(ctx, owner, repo)
	if err != nil {
		return nil, g.classify(request{op: op, resource: repoResource(owner, repo), permission: permMetadataRead}, err)
	}
	return toRepository(op, r)
}

// ListOrganizationRepositories returns the repositories of org, most recently
// updated first.
func (g *GitHubGateway) ListOrganizationRepositories(ctx context.Context, org string, perPage int) ([]*domain.Repository, error) {
	const op = "list organization repositories"
	if org == "" {
		return nil, validation(op, "org is required")
	}
	opts := &github.RepositoryListByOrgOptions{
		Sort:        "updated",
		Direction:   "desc",
		ListOptions: github.ListOptions{PerPage: clampPerPage(perPage, defaultPerPage)},
	}
	g.logger.Printf("Gateway: fetching repositories of organization %s", org)
	repos, _, err := g.restClient.Repositories.ListByOrg(ctx, org, opts)
	if err != nil {
		return nil, g.classify(request{op: op, resource: fmt.Sprintf("organization %s", org), permission: permMetadataRead}, err)
	}
	result := make([]*domain.Repository, 0, len(repos))
	for _, r := range repos {
		repository, err := toRepository(op, r)
		if err != nil {
			return nil, err
		}
		result = append(result, repository)
	}
	return result, nil
}

// ListContributors returns the top contributors of owner/repo.
func (g *GitHubGateway) ListContributors(ctx context.Context, owner, repo string) ([]*domain.Contributor, error) {
	const op = "list contributors"
	opts := &github.ListContributorsOptions{ListOptions: github.ListOptions{PerPage: contributorsPerPage}}
	contributors, _, err := g.restClient.Repositories.ListContributors(ctx, owner, repo, opts)
	if err != nil {
		return nil, g.classify(request{op: op, resource: repoResource(owner, repo), permission: permMetadataRead}, err)
	}
	result := make([]*domain.Contributor, 0, len(contributors))
	for _, c := range contributors {
		result = append(result, &domain.Contributor{
			Login:         c.GetLogin(),
			AvatarURL:     c.GetAvatarURL(),
			Contributions: c.GetContributions(),
		})
	}
	return result, nil
}

// GetLanguages returns the number of bytes per language in owner/repo.
func (g *GitHubGateway) GetLanguages(ctx context.Context, owner, repo string) (domain.Languages, error) {
	const op = "get languages"
	languages, _, err := g.restClient.Repositories.ListLanguages(ctx, owner, repo)
	if err != nil {
		return nil, g.classify(request{op: op, resource: repoResource(owner, repo), permission: permMetadataRead}, err)
	}
	if languages == nil {
		languages = map[string]int{}
	}
	return domain.Languages(languages), nil
}

// GetCommitActivity returns the weekly commit activity of the last year.
// GitHub answers 202 while the statistics are being computed; that case
// yields an empty slice.
func (g *GitHubGateway) GetCommitActivity(ctx context.Context, owner, repo string) ([]*domain.WeeklyCommitActivity, error) {
	const op = "get commit activity"
	weeks, _, err := g.restClient.Repositories.ListCommitActivity(ctx, owner, repo)
	if err != nil {
		var accepted *github.AcceptedError
		if errors.As(err, &accepted) {
			g.logger.Printf("Gateway: commit activity for %s/%s is still being computed", owner, repo)
			return []*domain.WeeklyCommitActivity{}, nil
		}
		return nil, g.classify(request{op: op, resource: repoResource(owner, repo), permission: permContentsRead}, err)
	}
	result := make([]*domain.WeeklyCommitActivity, 0, len(weeks))
	for _, w := range weeks {
		days := w.Days
		if days == nil {
			days = []int{}
		}
		result = append(result, &domain.WeeklyCommitActivity{
			Week:  w.GetWeek().Unix(),
			Days:  days,
			Total: w.GetTotal(),
		})
	}
	return result, nil
}

func repoResource(owner, repo string) string {
	return fmt.Sprintf("repository %s/%s", owner, repo)
}
