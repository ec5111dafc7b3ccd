package usecase

import (
	"context"
	"fmt"
	"log"

	"github.com/naka-gawa/github-explorer/internal/domain"
)

// SnapshotStore persists analysis results over time.
type SnapshotStore interface {
	Save(ctx context.Context, snapshot *domain.AnalysisSnapshot) error
	ListByRepository(ctx context.Context, owner, repo string, limit int) ([]*domain.AnalysisSnapshot, error)
}

// Summarizer turns an analysis into a short prose summary.
type Summarizer interface {
	Summarize(ctx context.Context, result *domain.AnalysisResult) (string, error)
}

// Reporter runs an analysis and optionally summarizes and records it.
type Reporter struct {
	analyzer   *Analyzer
	store      SnapshotStore
	summarizer Summarizer
	logger     *log.Logger
}

// NewReporter creates a Reporter. store and summarizer may be nil.
func NewReporter(analyzer *Analyzer, store SnapshotStore, summarizer Summarizer, logger *log.Logger) *Reporter {
	return &Reporter{
		analyzer:   analyzer,
		store:      store,
		summarizer: summarizer,
		logger:     logger,
	}
}

// Report analyzes owner/repo. A failed summary is logged and the result is
// still returned; a failed save is returned as an error alongside the result.
func (r *Reporter) Report(ctx context.Context, owner, repo string) (*domain.AnalysisResult, error) {
	result, err := r.analyzer.AnalyzeRepository(ctx, owner, repo)
	if err != nil {
		return nil, err
	}

	if r.summarizer != nil {
		summary, err := r.summarizer.Summarize(ctx, result)
		if err != nil {
			r.logger.Printf("WARNING: summary of %s/%s failed: %v", owner, repo, err)
		} else {
			result.Summary = summary
		}
	}

	if r.store != nil {
		snapshot := domain.NewAnalysisSnapshot(owner, repo, result)
		if err := r.store.Save(ctx, snapshot); err != nil {
			return result, fmt.Errorf("failed to record analysis: %w", err)
		}
		r.logger.Printf("Usecase: recorded analysis %d of %s/%s", snapshot.ID, owner, repo)
	}
	return result, nil
}

// History returns the recorded analyses of owner/repo, newest first.
func (r *Reporter) History(ctx context.Context, owner, repo string, limit int) ([]*domain.AnalysisSnapshot, error) {
	if r.store == nil {
		return nil, fmt.Errorf("analysis history is not configured")
	}
	if owner == "" || repo == "" {
		return nil, fmt.Errorf("owner and repo are required")
	}
	return r.store.ListByRepository(ctx, owner, repo, limit)
}
