// Package store persists analysis history.
package store

import (
	"context"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/naka-gawa/github-explorer/internal/domain"
)

const defaultHistoryLimit = 10

// Postgres stores analysis snapshots in PostgreSQL.
type Postgres struct {
	db *gorm.DB
}

// NewPostgres connects to dsn and migrates the snapshot table.
func NewPostgres(dsn string) (*Postgres, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.AutoMigrate(&domain.AnalysisSnapshot{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return &Postgres{db: db}, nil
}

// Save inserts a new snapshot and fills in its ID and CreatedAt.
func (p *Postgres) Save(ctx context.Context, snapshot *domain.AnalysisSnapshot) error {
	if err := p.db.WithContext(ctx).Create(snapshot).Error; err != nil {
		return fmt.Errorf("failed to save analysis of %s/%s: %w", snapshot.Owner, snapshot.Repo, err)
	}
	return nil
}

// ListByRepository returns up to limit snapshots of owner/repo, newest first.
func (p *Postgres) ListByRepository(ctx context.Context, owner, repo string, limit int) ([]*domain.AnalysisSnapshot, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	var snapshots []*domain.AnalysisSnapshot
	err := p.db.WithContext(ctx).
		Where("owner = ? AND repo = ?", owner, repo).
		Order("created_at desc").
		Limit(limit).
		Find(&snapshots).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list analyses of %s/%s: %w", owner, repo, err)
	}
	return snapshots, nil
}

// Close releases the underlying connection pool.
func (p *Postgres) Close() error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
