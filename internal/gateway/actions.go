package gateway

import (
	"context"

	"github.com/google/go-github/v62/github"

	"github.com/naka-gawa/github-explorer/internal/domain"
)

// ListWorkflowRuns returns the most recent workflow runs of owner/repo.
// Jobs are not populated.
func (g *GitHubGateway) ListWorkflowRuns(ctx context.Context, owner, repo string, perPage int) ([]*domain.WorkflowRun, error) {
	const op = "list workflow runs"
	g.logger.Printf("Gateway: fetching workflow runs for %s/%s", owner, repo)
	runs, _, err := g.restClient.Actions.ListRepositoryWorkflowRuns(ctx, owner, repo, &github.ListWorkflowRunsOptions{
		ListOptions: github.ListOptions{PerPage: clampPerPage(perPage, defaultWorkflowPerPage)},
	})
	if err != nil {
		return nil, g.classify(request{op: op, resource: repoResource(owner, repo), permission: permActionsRead}, err)
	}
	result := make([]*domain.WorkflowRun, 0, len(runs.WorkflowRuns))
	for _, r := range runs.WorkflowRuns {
		run, err := toWorkflowRun(op, r)
		if err != nil {
			return nil, err
		}
		result = append(result, run)
	}
	return result, nil
}

// GetWorkflowRunJobs returns the jobs of a workflow run with their steps.
func (g *GitHubGateway) GetWorkflowRunJobs(ctx context.Context, owner, repo string, runID int64) ([]*domain.WorkflowJob, error) {
	const op = "get workflow run jobs"
	if runID <= 0 {
		return nil, validation(op, "run id must be positive")
	}
	g.logger.Printf("Gateway: fetching jobs of run %d in %s/%s", runID, owner, repo)
	jobs, _, err := g.restClient.Actions.ListWorkflowJobs(ctx, owner, repo, runID, &github.ListWorkflowJobsOptions{
		ListOptions: github.ListOptions{PerPage: maxPerPage},
	})
	if err != nil {
		return nil, g.classify(request{op: op, resource: repoResource(owner, repo), permission: permActionsRead}, err)
	}
	result := make([]*domain.WorkflowJob, 0, len(jobs.Jobs))
	for _, j := range jobs.Jobs {
		result = append(result, toWorkflowJob(j))
	}
	return result, nil
}
