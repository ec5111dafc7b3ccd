package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/go-github/v62/github"

	"github.com/naka-gawa/github-explorer/internal/domain"
)

// GetFileContent returns the decoded text of the file at path.
func (g *GitHubGateway) GetFileContent(ctx context.Context, owner, repo, path string) (string, error) {
	const op = "read file"
	path = strings.Trim(path, "/")
	if path == "" {
		return "", validation(op, "path is required")
	}
	if escapesRepository(path) {
		return "", validation(op, "path %q must not contain a .. segment", path)
	}
	g.logger.Printf("Gateway: reading %s from %s/%s", path, owner, repo)
	file, dir, err := g.getContents(ctx, owner, repo, path)
	if err != nil {
		return "", g.classify(request{op: op, resource: fileResource(owner, repo, path), permission: permContentsRead}, err)
	}
	if file == nil {
		if dir != nil {
			return "", validation(op, "path %q in %s/%s references a directory, not a file", path, owner, repo)
		}
		return "", validation(op, "no content returned for %q in %s/%s", path, owner, repo)
	}
	if file.GetType() != "" && file.GetType() != "file" {
		return "", validation(op, "path %q in %s/%s is a %s, not a file", path, owner, repo, file.GetType())
	}
	content, err := file.GetContent()
	if err != nil {
		return "", validation(op, "failed to decode %q in %s/%s: %v", path, owner, repo, err)
	}
	return content, nil
}

// ListDirectory lists the entries at path. An empty path lists the
// repository root.
func (g *GitHubGateway) ListDirectory(ctx context.Context, owner, repo, path string) ([]*domain.ContentEntry, error) {
	const op = "list directory"
	path = strings.Trim(path, "/")
	if escapesRepository(path) {
		return nil, validation(op, "path %q must not contain a .. segment", path)
	}
	g.logger.Printf("Gateway: listing %q in %s/%s", path, owner, repo)
	file, dir, err := g.getContents(ctx, owner, repo, path)
	if err != nil {
		return nil, g.classify(request{op: op, resource: fileResource(owner, repo, path), permission: permContentsRead}, err)
	}
	if file != nil {
		// A file path lists as itself.
		return []*domain.ContentEntry{toContentEntry(file)}, nil
	}
	entries := make([]*domain.ContentEntry, 0, len(dir))
	for _, c := range dir {
		entries = append(entries, toContentEntry(c))
	}
	return entries, nil
}

// getContents fetches a file or a directory listing. Unlike
// RepositoriesService.GetContents it accepts names such as "v1..v2.md";
// callers reject ".." segments.
func (g *GitHubGateway) getContents(ctx context.Context, owner, repo, path string) (*github.RepositoryContent, []*github.RepositoryContent, error) {
	escaped := (&url.URL{Path: path}).String()
	req, err := g.restClient.NewRequest(http.MethodGet, fmt.Sprintf("repos/%s/%s/contents/%s", owner, repo, escaped), nil)
	if err != nil {
		return nil, nil, err
	}
	var raw json.RawMessage
	if _, err := g.restClient.Do(ctx, req, &raw); err != nil {
		return nil, nil, err
	}
	var file *github.RepositoryContent
	if err := json.Unmarshal(raw, &file); err == nil {
		return file, nil, nil
	}
	var dir []*github.RepositoryContent
	if err := json.Unmarshal(raw, &dir); err != nil {
		return nil, nil, err
	}
	return nil, dir, nil
}

// escapesRepository reports whether any segment of path is "..".
func escapesRepository(path string) bool {
	for _, segment := range strings.Split(path, "/") {
		if segment == ".." {
			return true
		}
	}
	return false
}

func fileResource(owner, repo, path string) string {
	if path == "" {
		return repoResource(owner, repo)
	}
	return fmt.Sprintf("path %q in repository %s/%s", path, owner, repo)
}

// SearchCode runs a code search using GitHub search syntax.
func (g *GitHubGateway) SearchCode(ctx context.Context, query string, perPage int) (*domain.CodeSearchResult, error) {
	const op = "search code"
	if strings.TrimSpace(query) == "" {
		return nil, validation(op, "query is required")
	}
	g.logger.Printf("Gateway: searching code with query %q", query)
	result, _, err := g.restClient.Search.Code(ctx, query, &github.SearchOptions{
		ListOptions: github.ListOptions{PerPage: clampPerPage(perPage, defaultCodeSearchPerPage)},
	})
	if err != nil {
		return nil, g.classify(request{op: op, resource: "code search", permission: permSearch}, err)
	}
	out := &domain.CodeSearchResult{
		TotalCount:        result.GetTotal(),
		IncompleteResults: result.GetIncompleteResults(),
		Items:             make([]*domain.CodeSearchItem, 0, len(result.CodeResults)),
	}
	for _, c := range result.CodeResults {
		out.Items = append(out.Items, &domain.CodeSearchItem{
			Name:       c.GetName(),
			Path:       c.GetPath(),
			SHA:        c.GetSHA(),
			HTMLURL:    c.GetHTMLURL(),
			Repository: c.GetRepository().GetFullName(),
		})
	}
	return out, nil
}
