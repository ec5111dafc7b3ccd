package gateway

import (
	"github.com/google/go-github/v62/github"

	"github.com/naka-gawa/github-explorer/internal/domain"
)

func toUser(u *github.User) domain.User {
	return domain.User{
		Login:     u.GetLogin(),
		AvatarURL: u.GetAvatarURL(),
		HTMLURL:   u.GetHTMLURL(),
	}
}

// toRepository rejects records without a full name or owner login.
func toRepository(op string, r *github.Repository) (*domain.Repository, error) {
	if r.GetFullName() == "" || r.GetOwner().GetLogin() == "" {
		return nil, validation(op, "repository record is missing full_name or owner.login")
	}
	return &domain.Repository{
		ID:              r.GetID(),
		Name:            r.GetName(),
		FullName:        r.GetFullName(),
		Owner:           toUser(r.GetOwner()),
		Description:     r.GetDescription(),
		HTMLURL:         r.GetHTMLURL(),
		Language:        r.GetLanguage(),
		StargazersCount: r.GetStargazersCount(),
		ForksCount:      r.GetForksCount(),
		OpenIssuesCount: r.GetOpenIssuesCount(),
		WatchersCount:   r.GetWatchersCount(),
		DefaultBranch:   r.GetDefaultBranch(),
		Private:         r.GetPrivate(),
		Archived:        r.GetArchived(),
		UpdatedAt:       r.GetUpdatedAt().Time,
	}, nil
}

// toIssue rejects records without a number, title or state.
func toIssue(op string, i *github.Issue) (*domain.Issue, error) {
	if i.GetNumber() <= 0 || i.GetTitle() == "" || i.GetState() == "" {
		return nil, validation(op, "issue record is missing number, title or state")
	}
	issue := &domain.Issue{
		Number:    i.GetNumber(),
		Title:     i.GetTitle(),
		State:     i.GetState(),
		Body:      i.GetBody(),
		HTMLURL:   i.GetHTMLURL(),
		User:      toUser(i.GetUser()),
		Labels:    make([]domain.Label, 0, len(i.Labels)),
		Assignees: make([]domain.User, 0, len(i.Assignees)),
		Comments:  i.GetComments(),
		CreatedAt: i.GetCreatedAt().Time,
	}
	for _, l := range i.Labels {
		issue.Labels = append(issue.Labels, domain.Label{Name: l.GetName(), Color: l.GetColor()})
	}
	for _, a := range i.Assignees {
		issue.Assignees = append(issue.Assignees, toUser(a))
	}
	return issue, nil
}

func toPullRequest(op string, p *github.PullRequest) (*domain.PullRequest, error) {
	if p.GetNumber() <= 0 || p.GetTitle() == "" || p.GetState() == "" {
		return nil, validation(op, "pull request record is missing number, title or state")
	}
	pr := &domain.PullRequest{
		Number:    p.GetNumber(),
		Title:     p.GetTitle(),
		State:     p.GetState(),
		HTMLURL:   p.GetHTMLURL(),
		User:      toUser(p.GetUser()),
		Draft:     p.GetDraft(),
		HeadRef:   p.GetHead().GetRef(),
		BaseRef:   p.GetBase().GetRef(),
		Additions: p.GetAdditions(),
		Deletions: p.GetDeletions(),
		CreatedAt: p.GetCreatedAt().Time,
	}
	if p.MergedAt != nil {
		merged := p.MergedAt.Time
		pr.MergedAt = &merged
	}
	return pr, nil
}

func toContentEntry(c *github.RepositoryContent) *domain.ContentEntry {
	return &domain.ContentEntry{
		Name:        c.GetName(),
		Path:        c.GetPath(),
		Type:        c.GetType(),
		Size:        c.GetSize(),
		SHA:         c.GetSHA(),
		HTMLURL:     c.GetHTMLURL(),
		DownloadURL: c.GetDownloadURL(),
	}
}

func toWorkflowRun(op string, r *github.WorkflowRun) (*domain.WorkflowRun, error) {
	if r.GetID() == 0 {
		return nil, validation(op, "workflow run record is missing id")
	}
	return &domain.WorkflowRun{
		ID:         r.GetID(),
		Name:       r.GetName(),
		HeadBranch: r.GetHeadBranch(),
		HeadSHA:    r.GetHeadSHA(),
		Status:     r.GetStatus(),
		Conclusion: r.Conclusion,
		Event:      r.GetEvent(),
		RunNumber:  r.GetRunNumber(),
		HTMLURL:    r.GetHTMLURL(),
		CreatedAt:  r.GetCreatedAt().Time,
	}, nil
}

func toWorkflowJob(j *github.WorkflowJob) *domain.WorkflowJob {
	job := &domain.WorkflowJob{
		ID:         j.GetID(),
		RunID:      j.GetRunID(),
		Name:       j.GetName(),
		Status:     j.GetStatus(),
		Conclusion: j.Conclusion,
		HTMLURL:    j.GetHTMLURL(),
		Steps:      make([]*domain.WorkflowStep, 0, len(j.Steps)),
	}
	if j.StartedAt != nil {
		started := j.StartedAt.Time
		job.StartedAt = &started
	}
	if j.CompletedAt != nil {
		completed := j.CompletedAt.Time
		job.CompletedAt = &completed
	}
	for _, s := range j.Steps {
		job.Steps = append(job.Steps, &domain.WorkflowStep{
			Name:       s.GetName(),
			Status:     s.GetStatus(),
			Conclusion: s.Conclusion,
			Number:     s.GetNumber(),
		})
	}
	return job
}
