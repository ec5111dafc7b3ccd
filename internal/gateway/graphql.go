package gateway

import (
	"context"
	"fmt"
	"time"

	"github.com/shurcooL/githubv4"

	"github.com/naka-gawa/github-explorer/internal/domain"
)

// mergedPRsQuery searches merged pull requests of a single repository.
type mergedPRsQuery struct {
	Search struct {
		PageInfo struct {
			HasNextPage bool
			EndCursor   githubv4.String
		}
		Edges []struct {
			Node struct {
				Typename    string `graphql:"__typename"`
				PullRequest struct {
					Number    int
					Title     string
					URL       string
					State     string
					CreatedAt githubv4.DateTime
					MergedAt  *githubv4.DateTime
					Additions int
					Deletions int
					Author    struct {
						Login     string
						AvatarURL string `graphql:"avatarUrl"`
					}
					BaseRefName string
					HeadRefName string
				} `graphql:"... on PullRequest"`
			}
		}
	} `graphql:"search(query: $query, type: ISSUE, first: 50, after: $cursor)"`
}

// ListMergedPullRequests returns the pull requests of owner/repo merged on or
// after since, newest first as ordered by the search index.
func (g *GitHubGateway) ListMergedPullRequests(ctx context.Context, owner, repo string, since time.Time) ([]*domain.PullRequest, error) {
	const op = "list merged pull requests"
	query := fmt.Sprintf("repo:%s/%s is:pr is:merged merged:>=%s sort:updated-desc", owner, repo, since.UTC().Format("2006-01-02"))
	variables := map[string]interface{}{
		"query":  githubv4.String(query),
		"cursor": (*githubv4.String)(nil),
	}

	g.logger.Printf("Gateway: searching merged pull requests with query %q", query)
	var prs []*domain.PullRequest
	for {
		var q mergedPRsQuery
		if err := g.graphqlClient.Query(ctx, &q, variables); err != nil {
			return nil, g.classify(request{op: op, resource: repoResource(owner, repo), permission: permPullRequestsRead},
				fmt.Errorf("failed to execute GraphQL query for merged pull requests: %w", err))
		}
		for _, edge := range q.Search.Edges {
			if edge.Node.Typename != "PullRequest" {
				continue
			}
			node := edge.Node.PullRequest
			pr := &domain.PullRequest{
				Number:    node.Number,
				Title:     node.Title,
				State:     node.State,
				HTMLURL:   node.URL,
				User:      domain.User{Login: node.Author.Login, AvatarURL: node.Author.AvatarURL},
				HeadRef:   node.HeadRefName,
				BaseRef:   node.BaseRefName,
				Additions: node.Additions,
				Deletions: node.Deletions,
				CreatedAt: node.CreatedAt.Time,
			}
			if node.MergedAt != nil {
				merged := node.MergedAt.Time
				pr.MergedAt = &merged
			}
			prs = append(prs, pr)
		}
		if !q.Search.PageInfo.HasNextPage {
			break
		}
		variables["cursor"] = githubv4.NewString(q.Search.PageInfo.EndCursor)
		g.logger.Println("  Fetching next page of merged pull requests...")
	}
	if prs == nil {
		prs = []*domain.PullRequest{}
	}
	return prs, nil
}
