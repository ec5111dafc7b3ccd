// Package domain contains the core data structures returned by the explorer.
// They are plain read models rebuilt on every call and serialized as JSON for
// the presentation layer.
package domain

import "time"

// User is the subset of a GitHub account shown next to issues, PRs and repos.
type User struct {
	Login     string `json:"login"`
	AvatarURL string `json:"avatar_url,omitempty"`
	HTMLURL   string `json:"html_url,omitempty"`
}

// Repository is a snapshot of a single GitHub repository.
type Repository struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	FullName        string    `json:"full_name"`
	Owner           User      `json:"owner"`
	Description     string    `json:"description,omitempty"`
	HTMLURL         string    `json:"html_url"`
	Language        string    `json:"language,omitempty"`
	StargazersCount int       `json:"stargazers_count"`
	ForksCount      int       `json:"forks_count"`
	OpenIssuesCount int       `json:"open_issues_count"`
	WatchersCount   int       `json:"watchers_count"`
	DefaultBranch   string    `json:"default_branch,omitempty"`
	Private         bool      `json:"private"`
	Archived        bool      `json:"archived"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Contributor is one entry of the repository contributor ranking.
type Contributor struct {
	Login         string `json:"login"`
	AvatarURL     string `json:"avatar_url,omitempty"`
	Contributions int    `json:"contributions"`
}

// Languages maps a language name to the number of bytes written in it.
type Languages map[string]int

// WeeklyCommitActivity is one week of the last-year commit activity.
// Week is the unix timestamp of the Sunday starting the week.
type WeeklyCommitActivity struct {
	Week  int64 `json:"week"`
	Days  []int `json:"days"`
	Total int   `json:"total"`
}

// RepositoryComparison holds two repositories fetched side by side.
type RepositoryComparison struct {
	First  *Repository `json:"repo1"`
	Second *Repository `json:"repo2"`
}
