package usecase

import (
	"github.com/montanaflynn/stats"

	"github.com/naka-gawa/github-explorer/internal/domain"
)

const (
	maxHealthScore = 100
	recentWeeks    = 4

	fallbackHighlight      = "Standard repository structure"
	fallbackRecommendation = "Maintain current activity levels"
)

// RecentCommits sums the commit totals of the last four weeks of activity.
func RecentCommits(activity []*domain.WeeklyCommitActivity) int {
	total := 0
	for _, week := range recentActivity(activity) {
		total += week.Total
	}
	return total
}

func recentActivity(activity []*domain.WeeklyCommitActivity) []*domain.WeeklyCommitActivity {
	if len(activity) <= recentWeeks {
		return activity
	}
	return activity[len(activity)-recentWeeks:]
}

// Score derives the health score, highlights and recommendations of a
// repository. It is a pure function of its inputs.
func Score(activity []*domain.WeeklyCommitActivity, repo *domain.Repository, contributors []*domain.Contributor, languages domain.Languages, prs []*domain.PullRequest) domain.Analysis {
	recentCommits := RecentCommits(activity)
	openIssues, stars := 0, 0
	if repo != nil {
		openIssues, stars = repo.OpenIssuesCount, repo.StargazersCount
	}

	score := maxHealthScore
	switch {
	case recentCommits == 0:
		score -= 20
	case recentCommits < 5:
		score -= 10
	}
	if openIssues > 50 {
		score -= 15
	}
	if openIssues > 100 {
		score -= 15
	}
	score = max(0, min(maxHealthScore, score))

	var highlights []string
	if recentCommits > 10 {
		highlights = append(highlights, "Active recent development")
	}
	if len(contributors) > 5 {
		highlights = append(highlights, "Established contributor base")
	}
	if len(languages) > 2 {
		highlights = append(highlights, "Multi-language project")
	}
	if stars > 500 {
		highlights = append(highlights, "Popular repository")
	}
	if len(highlights) == 0 {
		highlights = []string{fallbackHighlight}
	}

	var recommendations []string
	if openIssues > 30 {
		recommendations = append(recommendations, "High issue count - consider triage")
	}
	if recentCommits == 0 {
		recommendations = append(recommendations, "Project appears dormant recently")
	}
	if len(prs) > 10 {
		recommendations = append(recommendations, "Review pending Pull Requests")
	}
	if len(recommendations) == 0 {
		recommendations = []string{fallbackRecommendation}
	}

	return domain.Analysis{
		HealthScore:     score,
		Highlights:      highlights,
		Recommendations: recommendations,
	}
}

// ActivityStatistics summarizes the weekly commit totals. It returns nil when
// there is no activity data.
func ActivityStatistics(activity []*domain.WeeklyCommitActivity) *domain.ActivityStats {
	if len(activity) == 0 {
		return nil
	}
	totals := make(stats.Float64Data, 0, len(activity))
	peak := activity[0]
	for _, week := range activity {
		totals = append(totals, float64(week.Total))
		if week.Total > peak.Total {
			peak = week
		}
	}

	// The stats functions only fail on empty input, which is excluded above.
	mean, _ := stats.Mean(totals)
	median, _ := stats.Median(totals)
	stdDev, _ := stats.StandardDeviation(totals)

	return &domain.ActivityStats{
		Weeks:         len(activity),
		RecentCommits: RecentCommits(activity),
		Mean:          round2(mean),
		Median:        round2(median),
		StdDev:        round2(stdDev),
		PeakWeek:      peak.Week,
		PeakTotal:     peak.Total,
	}
}

func round2(v float64) float64 {
	r, err := stats.Round(v, 2)
	if err != nil {
		return v
	}
	return r
}
