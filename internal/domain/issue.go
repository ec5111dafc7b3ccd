package domain

import "time"

// Label is an issue label. Color is the hex code without the leading '#'.
type Label struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// Issue is a GitHub issue. Values of this type never describe pull requests.
type Issue struct {
	Number    int       `json:"number"`
	Title     string    `json:"title"`
	State     string    `json:"state"`
	Body      string    `json:"body,omitempty"`
	HTMLURL   string    `json:"html_url"`
	User      User      `json:"user"`
	Labels    []Label   `json:"labels"`
	Assignees []User    `json:"assignees"`
	Comments  int       `json:"comments"`
	CreatedAt time.Time `json:"created_at"`
}

// IssueBoard is a kanban-style grouping of issues by state.
type IssueBoard struct {
	Title   string         `json:"title"`
	Columns []*BoardColumn `json:"columns"`
	Issues  []*Issue       `json:"issues"`
}

// BoardColumn is one column of an IssueBoard.
type BoardColumn struct {
	State  string   `json:"state"`
	Issues []*Issue `json:"issues"`
}
