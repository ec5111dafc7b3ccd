package domain

// Codebase node types.
const (
	NodeCollection = "collection"
	NodeDirectory  = "directory"
	NodeFile       = "file"
)

// CodebaseNode is one file or directory of a CodebaseGraph. Connections
// holds the IDs of its children.
type CodebaseNode struct {
	ID          string   `json:"id"`
	Type        string   `json:"type"`
	Name        string   `json:"name"`
	Path        string   `json:"path"`
	Connections []string `json:"connections"`
}

// CodebaseEdge links a directory to one of its entries.
type CodebaseEdge struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// CodebaseGraph is the directory tree of a repository as nodes and edges.
// Truncated is set when the walk stopped at the node limit.
type CodebaseGraph struct {
	Title     string          `json:"title"`
	Nodes     []*CodebaseNode `json:"nodes"`
	Edges     []CodebaseEdge  `json:"edges"`
	Truncated bool            `json:"truncated"`
}
