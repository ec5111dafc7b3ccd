// Package usecase contains the business logic of the application.
package usecase

import (
	"context"
	"fmt"
	"log"

	"github.com/naka-gawa/github-explorer/internal/domain"
	"github.com/naka-gawa/github-explorer/internal/gateway"
	"golang.org/x/sync/errgroup"
)

const recentItemsLimit = 5

// Analyzer is the use case for analyzing the health of a repository.
// It orchestrates the fetching and scoring of data.
type Analyzer struct {
	fetcher gateway.Fetcher
	logger  *log.Logger
}

// NewAnalyzer creates a new Analyzer instance.
func NewAnalyzer(fetcher gateway.Fetcher, logger *log.Logger) *Analyzer {
	return &Analyzer{
		fetcher: fetcher,
		logger:  logger,
	}
}

// AnalyzeRepository fetches everything needed to score owner/repo
// concurrently and scores it. If any fetch fails the others are cancelled
// and no partial result is returned.
func (a *Analyzer) AnalyzeRepository(ctx context.Context, owner, repo string) (*domain.AnalysisResult, error) {
	a.logger.Printf("Usecase: Starting analysis of %s/%s...", owner, repo)

	var (
		repository   *domain.Repository
		contributors []*domain.Contributor
		languages    domain.Languages
		activity     []*domain.WeeklyCommitActivity
		issues       []*domain.Issue
		prs          []*domain.PullRequest
	)

	// Use an errgroup to fetch all data concurrently.
	eg, egCtx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		var err error
		repository, err = a.fetcher.GetRepository(egCtx, owner, repo)
		return err
	})

	eg.Go(func() error {
		var err error
		contributors, err = a.fetcher.ListContributors(egCtx, owner, repo)
		return err
	})

	eg.Go(func() error {
		var err error
		languages, err = a.fetcher.GetLanguages(egCtx, owner, repo)
		return err
	})

	eg.Go(func() error {
		var err error
		activity, err = a.fetcher.GetCommitActivity(egCtx, owner, repo)
		return err
	})

	eg.Go(func() error {
		var err error
		issues, err = a.fetcher.ListRepositoryIssues(egCtx, owner, repo, gateway.IssueListOptions{State: "open", PerPage: recentItemsLimit})
		return err
	})

	eg.Go(func() error {
		var err error
		prs, err = a.fetcher.ListRepositoryPRs(egCtx, owner, repo, gateway.PRListOptions{State: "open", PerPage: recentItemsLimit})
		return err
	})

	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("failed to analyze %s/%s: %w", owner, repo, err)
	}
	a.logger.Println("Usecase: All data fetched successfully.")

	result := &domain.AnalysisResult{
		Repository:      repository,
		Contributors:    contributors,
		Languages:       languages,
		ActivitySummary: recentActivity(activity),
		RecentIssues:    issues,
		RecentPRs:       prs,
		Analysis:        Score(activity, repository, contributors, languages, prs),
		ActivityStats:   ActivityStatistics(activity),
	}

	a.logger.Printf("Usecase: Analysis complete, health score %d.", result.Analysis.HealthScore)
	return result, nil
}
