package domain

// ContentEntry is one item of a repository directory listing.
type ContentEntry struct {
	Name        string `json:"name"`
	Path        string `json:"path"`
	Type        string `json:"type"`
	Size        int    `json:"size"`
	SHA         string `json:"sha,omitempty"`
	HTMLURL     string `json:"html_url,omitempty"`
	DownloadURL string `json:"download_url,omitempty"`
}

// IsDir reports whether the entry is a directory.
func (e *ContentEntry) IsDir() bool {
	return e.Type == "dir"
}

// CodeSearchResult is the response of a code search.
type CodeSearchResult struct {
	TotalCount        int               `json:"total_count"`
	IncompleteResults bool              `json:"incomplete_results"`
	Items             []*CodeSearchItem `json:"items"`
}

// CodeSearchItem is a single file matching a code search.
type CodeSearchItem struct {
	Name       string `json:"name"`
	Path       string `json:"path"`
	SHA        string `json:"sha"`
	HTMLURL    string `json:"html_url"`
	Repository string `json:"repository"`
}

// DiffOp is the kind of a diff line.
type DiffOp string

const (
	DiffEqual  DiffOp = "equal"
	DiffInsert DiffOp = "insert"
	DiffDelete DiffOp = "delete"
)

// DiffLine is one line of a line-based diff. OldLine and NewLine are 1-based
// and zero when the line does not exist on that side.
type DiffLine struct {
	Op      DiffOp `json:"op"`
	Text    string `json:"text"`
	OldLine int    `json:"old_line,omitempty"`
	NewLine int    `json:"new_line,omitempty"`
}

// FileDiff is a proposed change to a single file.
type FileDiff struct {
	FilePath     string     `json:"filePath"`
	OriginalCode string     `json:"originalCode"`
	NewCode      string     `json:"newCode"`
	Explanation  string     `json:"explanation,omitempty"`
	Lines        []DiffLine `json:"lines"`
	Unified      string     `json:"unified"`
	Additions    int        `json:"additions"`
	Deletions    int        `json:"deletions"`
}
