// Package sqlite implements storage.Store on a local SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/naka-gawa/repo-lens/internal/domain"
	"github.com/naka-gawa/repo-lens/internal/storage"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	username TEXT NOT NULL,
	repo_count INTEGER NOT NULL,
	total_stars INTEGER NOT NULL,
	avg_stars REAL NOT NULL,
	avg_activity REAL NOT NULL DEFAULT 0,
	avg_popularity REAL NOT NULL DEFAULT 0,
	avg_health REAL NOT NULL DEFAULT 0,
	avg_hard REAL NOT NULL DEFAULT 0,
	report_path TEXT,
	created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at);

CREATE TABLE IF NOT EXISTS run_repos (
	run_id TEXT NOT NULL REFERENCES runs(id),
	name TEXT NOT NULL,
	url TEXT,
	language TEXT,
	stars INTEGER NOT NULL,
	forks INTEGER NOT NULL,
	score REAL NOT NULL,
	activity_score REAL NOT NULL DEFAULT 0,
	popularity_score REAL NOT NULL DEFAULT 0,
	health_score REAL NOT NULL DEFAULT 0,
	hard_score REAL NOT NULL DEFAULT 0,
	PRIMARY KEY (run_id, name)
);
`

// sqliteStorage implements the Store interface for SQLite
type sqliteStorage struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at dbPath and migrates it.
func Open(dbPath string) (storage.Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, err
	}
	s, err := New(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// New wraps an existing connection and migrates it.
func New(db *sql.DB) (storage.Store, error) {
	s := &sqliteStorage{db: db}
	if err := s.Migrate(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to migrate history database: %w", err)
	}
	return s, nil
}

// Migrate runs database migrations
func (s *sqliteStorage) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// SaveRun inserts the run row and its repository rows in one transaction.
func (s *sqliteStorage) SaveRun(ctx context.Context, run *domain.Run, repos []domain.RunRepo) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, username, repo_count, total_stars, avg_stars,
			avg_activity, avg_popularity, avg_health, avg_hard, report_path, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, run.ID, run.Username, run.RepoCount, run.TotalStars, run.AverageStars,
		run.AverageScores.Activity, run.AverageScores.Popularity, run.AverageScores.Health, run.AverageScores.Hard,
		run.ReportPath, run.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO run_repos (run_id, name, url, language, stars, forks, score,
			activity_score, popularity_score, health_score, hard_score)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range repos {
		if _, err := stmt.ExecContext(ctx, run.ID, r.Name, r.URL, r.Language, r.Stars, r.Forks, r.Score,
			r.Scores.Activity, r.Scores.Popularity, r.Scores.Health, r.Scores.Hard); err != nil {
			return fmt.Errorf("failed to insert repository %s: %w", r.Name, err)
		}
	}

	return tx.Commit()
}

// RecentRuns returns the newest runs first.
func (s *sqliteStorage) RecentRuns(ctx context.Context, limit int) ([]*domain.Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, username, repo_count, total_stars, avg_stars,
			avg_activity, avg_popularity, avg_health, avg_hard, report_path, created_at
		FROM runs
		ORDER BY created_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := make([]*domain.Run, 0)
	for rows.Next() {
		var (
			run        domain.Run
			reportPath sql.NullString
			createdAt  time.Time
		)
		if err := rows.Scan(&run.ID, &run.Username, &run.RepoCount, &run.TotalStars, &run.AverageStars,
			&run.AverageScores.Activity, &run.AverageScores.Popularity, &run.AverageScores.Health, &run.AverageScores.Hard,
			&reportPath, &createdAt); err != nil {
			return nil, err
		}
		run.ReportPath = reportPath.String
		run.CreatedAt = createdAt
		runs = append(runs, &run)
	}
	return runs, rows.Err()
}

// RunRepos returns the repositories of one run, highest score first.
func (s *sqliteStorage) RunRepos(ctx context.Context, runID string) ([]domain.RunRepo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, name, url, language, stars, forks, score,
			activity_score, popularity_score, health_score, hard_score
		FROM run_repos
		WHERE run_id = ?
		ORDER BY score DESC, name
	`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	repos := make([]domain.RunRepo, 0)
	for rows.Next() {
		var (
			r             domain.RunRepo
			url, language sql.NullString
		)
		if err := rows.Scan(&r.RunID, &r.Name, &url, &language, &r.Stars, &r.Forks, &r.Score,
			&r.Scores.Activity, &r.Scores.Popularity, &r.Scores.Health, &r.Scores.Hard); err != nil {
			return nil, err
		}
		r.URL = url.String
		r.Language = language.String
		repos = append(repos, r)
	}
	return repos, rows.Err()
}

// Close closes the database connection
func (s *sqliteStorage) Close() error {
	return s.db.Close()
}
