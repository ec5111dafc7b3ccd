package domain

import (
	"strings"
	"time"
)

// Analysis is the scored part of an AnalysisResult.
type Analysis struct {
	HealthScore     int      `json:"health_score"`
	Highlights      []string `json:"highlights"`
	Recommendations []string `json:"recommendations"`
}

// ActivityStats summarizes the weekly commit totals of the last year.
type ActivityStats struct {
	Weeks         int     `json:"weeks"`
	RecentCommits int     `json:"recent_commits"`
	Mean          float64 `json:"mean"`
	Median        float64 `json:"median"`
	StdDev        float64 `json:"std_dev"`
	PeakWeek      int64   `json:"peak_week,omitempty"`
	PeakTotal     int     `json:"peak_total"`
}

// AnalysisResult is the composite health report for one repository.
type AnalysisResult struct {
	Repository      *Repository             `json:"repository"`
	Contributors    []*Contributor          `json:"contributors"`
	Languages       Languages               `json:"languages"`
	ActivitySummary []*WeeklyCommitActivity `json:"activity_summary"`
	RecentIssues    []*Issue                `json:"recent_issues"`
	RecentPRs       []*PullRequest          `json:"recent_prs"`
	Analysis        Analysis                `json:"analysis"`
	ActivityStats   *ActivityStats          `json:"activity_stats,omitempty"`
	Summary         string                  `json:"summary,omitempty"`
}

// AnalysisSnapshot is the persisted form of an AnalysisResult.
type AnalysisSnapshot struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	Owner           string    `json:"owner" gorm:"index:idx_snapshot_repo"`
	Repo            string    `json:"repo" gorm:"index:idx_snapshot_repo"`
	HealthScore     int       `json:"health_score"`
	Highlights      string    `json:"highlights" gorm:"type:text"`
	Recommendations string    `json:"recommendations" gorm:"type:text"`
	Stars           int       `json:"stars"`
	OpenIssues      int       `json:"open_issues"`
	RecentCommits   int       `json:"recent_commits"`
	CreatedAt       time.Time `json:"created_at"`
}

// snapshotSeparator joins highlight and recommendation strings for storage.
const snapshotSeparator = "\n"

// NewAnalysisSnapshot flattens an analysis result for storage.
func NewAnalysisSnapshot(owner, repo string, result *AnalysisResult) *AnalysisSnapshot {
	s := &AnalysisSnapshot{
		Owner:           owner,
		Repo:            repo,
		HealthScore:     result.Analysis.HealthScore,
		Highlights:      strings.Join(result.Analysis.Highlights, snapshotSeparator),
		Recommendations: strings.Join(result.Analysis.Recommendations, snapshotSeparator),
	}
	if result.Repository != nil {
		s.Stars = result.Repository.StargazersCount
		s.OpenIssues = result.Repository.OpenIssuesCount
	}
	if result.ActivityStats != nil {
		s.RecentCommits = result.ActivityStats.RecentCommits
	}
	return s
}

// HighlightList splits the stored highlights back into a slice.
func (s *AnalysisSnapshot) HighlightList() []string {
	return splitStored(s.Highlights)
}

// RecommendationList splits the stored recommendations back into a slice.
func (s *AnalysisSnapshot) RecommendationList() []string {
	return splitStored(s.Recommendations)
}

func splitStored(v string) []string {
	if v == "" {
		return nil
	}
	return strings.Split(v, snapshotSeparator)
}
