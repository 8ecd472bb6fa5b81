// Package storage defines the persistence layer for analysis run history.
package storage

import (
	"context"

	"github.com/naka-gawa/repo-lens/internal/domain"
)

// Store is the abstract interface for the run history
type Store interface {
	// SaveRun records a run and its repositories atomically.
	SaveRun(ctx context.Context, run *domain.Run, repos []domain.RunRepo) error

	// RecentRuns returns at most limit runs, newest first.
	RecentRuns(ctx context.Context, limit int) ([]*domain.Run, error)

	// RunRepos returns the repositories recorded for a run, highest score first.
	RunRepos(ctx context.Context, runID string) ([]domain.RunRepo, error)

	// Migration
	Migrate(ctx context.Context) error

	// Connection management
	Close() error
}
