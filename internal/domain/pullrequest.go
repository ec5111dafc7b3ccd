package domain

import "time"

// PullRequest is a GitHub pull request. Additions and Deletions are only
// populated by endpoints that return full pull request objects.
type PullRequest struct {
	Number    int        `json:"number"`
	Title     string     `json:"title"`
	State     string     `json:"state"`
	HTMLURL   string     `json:"html_url"`
	User      User       `json:"user"`
	Draft     bool       `json:"draft"`
	HeadRef   string     `json:"head_ref,omitempty"`
	BaseRef   string     `json:"base_ref,omitempty"`
	Additions int        `json:"additions"`
	Deletions int        `json:"deletions"`
	MergedAt  *time.Time `json:"merged_at"`
	CreatedAt time.Time  `json:"created_at"`
}

// Merged reports whether the pull request has been merged.
func (p *PullRequest) Merged() bool {
	return p.MergedAt != nil
}

// PullRequestFile is one changed file of a pull request.
type PullRequestFile struct {
	Filename  string `json:"filename"`
	Status    string `json:"status"`
	Additions int    `json:"additions"`
	Deletions int    `json:"deletions"`
	Changes   int    `json:"changes"`
	Patch     string `json:"patch,omitempty"`
}

// ReleaseNotes is a drafted changelog built from recently merged pull requests.
type ReleaseNotes struct {
	Owner         string         `json:"owner"`
	Repo          string         `json:"repo"`
	Since         time.Time      `json:"since"`
	IncludedPRs   []*PullRequest `json:"includedPRs"`
	SuggestedBody string         `json:"suggestedBody"`
}
