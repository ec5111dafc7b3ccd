package usecase

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/naka-gawa/github-explorer/internal/domain"
	"github.com/naka-gawa/github-explorer/internal/gateway"
)

const (
	boardIssueLimit         = 50
	defaultReleaseNotesDays = 7

	defaultGraphDepth = 2
	maxGraphDepth     = 4
	maxGraphNodes     = 200
)

// CompareParams names two repositories.
type CompareParams struct {
	Owner1 string `json:"owner1"`
	Repo1  string `json:"repo1"`
	Owner2 string `json:"owner2"`
	Repo2  string `json:"repo2"`
}

// ReleaseNotesParams selects the merge window of release notes.
type ReleaseNotesParams struct {
	RepoParams
	Days int `json:"days"`
}

// RefactorParams holds a proposed replacement for a file.
type RefactorParams struct {
	PathParams
	Instruction string `json:"instruction"`
	NewCode     string `json:"new_code"`
}

// VisualizeParams selects the subtree of a codebase graph. Depth counts the
// directory levels listed, starting at Path.
type VisualizeParams struct {
	PathParams
	Depth int `json:"depth"`
}

// ViewIssueBoard groups the latest issues of a repository by state.
func (t *Toolset) ViewIssueBoard(ctx context.Context, p RepoParams) (*domain.IssueBoard, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	issues, err := t.fetcher.ListRepositoryIssues(ctx, p.Owner, p.Repo, gateway.IssueListOptions{State: "all", PerPage: boardIssueLimit})
	if err != nil {
		return nil, err
	}
	open := &domain.BoardColumn{State: "open", Issues: []*domain.Issue{}}
	closed := &domain.BoardColumn{State: "closed", Issues: []*domain.Issue{}}
	for _, issue := range issues {
		if issue.State == "closed" {
			closed.Issues = append(closed.Issues, issue)
		} else {
			open.Issues = append(open.Issues, issue)
		}
	}
	return &domain.IssueBoard{
		Title:   fmt.Sprintf("%s/%s Board", p.Owner, p.Repo),
		Columns: []*domain.BoardColumn{open, closed},
		Issues:  issues,
	}, nil
}

// CompareRepositories fetches two repositories concurrently.
func (t *Toolset) CompareRepositories(ctx context.Context, p CompareParams) (*domain.RepositoryComparison, error) {
	if p.Owner1 == "" || p.Repo1 == "" || p.Owner2 == "" || p.Repo2 == "" {
		return nil, fmt.Errorf("owner1, repo1, owner2 and repo2 are required")
	}
	var comparison domain.RepositoryComparison
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		comparison.First, err = t.fetcher.GetRepository(egCtx, p.Owner1, p.Repo1)
		return err
	})
	eg.Go(func() error {
		var err error
		comparison.Second, err = t.fetcher.GetRepository(egCtx, p.Owner2, p.Repo2)
		return err
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return &comparison, nil
}

// DraftReleaseNotes lists the pull requests merged in the last p.Days days
// as a markdown changelog.
func (t *Toolset) DraftReleaseNotes(ctx context.Context, p ReleaseNotesParams) (*domain.ReleaseNotes, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	days := p.Days
	if days <= 0 {
		days = defaultReleaseNotesDays
	}
	since := t.now().AddDate(0, 0, -days)
	prs, err := t.fetcher.ListMergedPullRequests(ctx, p.Owner, p.Repo, since)
	if err != nil {
		return nil, err
	}
	return &domain.ReleaseNotes{
		Owner:         p.Owner,
		Repo:          p.Repo,
		Since:         since,
		IncludedPRs:   prs,
		SuggestedBody: releaseNotesBody(p.Owner, p.Repo, days, since, prs),
	}, nil
}

func releaseNotesBody(owner, repo string, days int, since time.Time, prs []*domain.PullRequest) string {
	var b strings.Builder
	b.WriteString("## What's Changed\n\n")
	if len(prs) == 0 {
		fmt.Fprintf(&b, "No pull requests were merged in the last %d days.\n", days)
		return b.String()
	}
	for _, pr := range prs {
		fmt.Fprintf(&b, "- %s (#%d)", pr.Title, pr.Number)
		if pr.User.Login != "" {
			fmt.Fprintf(&b, " @%s", pr.User.Login)
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "\n**Full Changelog**: https://github.com/%s/%s/pulls?q=is%%3Apr+is%%3Amerged+merged%%3A%%3E%%3D%s\n",
		owner, repo, since.UTC().Format("2006-01-02"))
	return b.String()
}

// ProposeRefactor diffs the current content of a file against NewCode.
func (t *Toolset) ProposeRefactor(ctx context.Context, p RefactorParams) (*domain.FileDiff, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	if p.Path == "" {
		return nil, fmt.Errorf("path is required")
	}
	if p.NewCode == "" {
		return nil, fmt.Errorf("new_code is required")
	}
	original, err := t.fetcher.GetFileContent(ctx, p.Owner, p.Repo, p.Path)
	if err != nil {
		return nil, err
	}
	explanation := ""
	if p.Instruction != "" {
		explanation = "Applied refactor: " + p.Instruction
	}
	return NewFileDiff(p.Path, original, p.NewCode, explanation)
}

// DebugBuildFailure returns the jobs of a workflow run and the failed steps.
func (t *Toolset) DebugBuildFailure(ctx context.Context, p RunParams) (*domain.BuildDiagnosis, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	if p.RunID <= 0 {
		return nil, fmt.Errorf("run_id is required")
	}
	jobs, err := t.fetcher.GetWorkflowRunJobs(ctx, p.Owner, p.Repo, p.RunID)
	if err != nil {
		return nil, err
	}
	diagnosis := &domain.BuildDiagnosis{RunID: p.RunID, Jobs: jobs, FailedSteps: []domain.FailedStep{}}
	for _, job := range jobs {
		for _, step := range job.Steps {
			if step.Failed() {
				diagnosis.FailedSteps = append(diagnosis.FailedSteps, domain.FailedStep{Job: job.Name, Step: step.Name, Number: step.Number})
			}
		}
	}
	return diagnosis, nil
}

// VisualizeCodebase walks the directory tree breadth first, listing at most
// p.Depth levels and stopping after maxGraphNodes nodes.
func (t *Toolset) VisualizeCodebase(ctx context.Context, p VisualizeParams) (*domain.CodebaseGraph, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	depth := p.Depth
	if depth <= 0 {
		depth = defaultGraphDepth
	}
	depth = min(depth, maxGraphDepth)

	rootPath := strings.Trim(p.Path, "/")
	rootName := p.Repo
	if rootPath != "" {
		rootName = path.Base(rootPath)
	}
	root := &domain.CodebaseNode{ID: "root", Type: domain.NodeCollection, Name: rootName, Path: "/" + rootPath, Connections: []string{}}
	graph := &domain.CodebaseGraph{
		Title: fmt.Sprintf("%s/%s Architecture", p.Owner, p.Repo),
		Nodes: []*domain.CodebaseNode{root},
		Edges: []domain.CodebaseEdge{},
	}

	type pending struct {
		node    *domain.CodebaseNode
		dirPath string
	}
	level := []pending{{node: root, dirPath: rootPath}}
	for d := 1; d <= depth && len(level) > 0; d++ {
		var next []pending
		for _, dir := range level {
			entries, err := t.fetcher.ListDirectory(ctx, p.Owner, p.Repo, dir.dirPath)
			if err != nil {
				return nil, err
			}
			for _, e := range entries {
				if len(graph.Nodes) >= maxGraphNodes {
					graph.Truncated = true
					return graph, nil
				}
				node := &domain.CodebaseNode{ID: e.Path, Type: nodeType(e), Name: e.Name, Path: "/" + e.Path, Connections: []string{}}
				graph.Nodes = append(graph.Nodes, node)
				graph.Edges = append(graph.Edges, domain.CodebaseEdge{Source: dir.node.ID, Target: node.ID})
				dir.node.Connections = append(dir.node.Connections, node.ID)
				if e.IsDir() {
					next = append(next, pending{node: node, dirPath: e.Path})
				}
			}
		}
		level = next
	}
	return graph, nil
}

func nodeType(e *domain.ContentEntry) string {
	switch {
	case e.IsDir():
		return domain.NodeDirectory
	case e.Type == "" || e.Type == "file":
		return domain.NodeFile
	default:
		return e.Type
	}
}
