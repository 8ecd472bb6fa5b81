package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naka-gawa/repo-lens/internal/domain"
)

func newMockStore(t *testing.T) (*sqliteStorage, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	// Expect the table creation queries
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS runs").WillReturnResult(sqlmock.NewResult(0, 0))

	store, err := New(db)
	require.NoError(t, err)
	return store.(*sqliteStorage), mock
}

func testRun() *domain.Run {
	return &domain.Run{
		ID:           "run-1",
		Username:     "octocat",
		RepoCount:    2,
		TotalStars:   25,
		AverageStars: 12.5,
		AverageScores: domain.RepoScore{
			Activity: 50, Popularity: 40.2, Health: 85, Hard: 53.6,
		},
		ReportPath: "reports/octocat.txt",
		CreatedAt:  time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC),
	}
}

func testRunRepos() []domain.RunRepo {
	return []domain.RunRepo{
		{
			Name: "b", URL: "https://github.com/octocat/b", Language: "Go", Stars: 20, Forks: 2, Score: 7.8,
			Scores: domain.RepoScore{Activity: 100, Popularity: 70.2, Health: 85, Hard: 86.6},
		},
		{Name: "a", Stars: 5, Score: 4.6, Scores: domain.RepoScore{Health: 85, Popularity: 32.3, Hard: 28.3}},
	}
}

func TestNew_MigrationFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS runs").WillReturnError(errors.New("disk I/O error"))

	_, err = New(db)
	assert.ErrorContains(t, err, "failed to migrate history database")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteStorage_SaveRun(t *testing.T) {
	testCases := []struct {
		name        string
		setup       func(mock sqlmock.Sqlmock)
		expectedErr string
	}{
		{
			name: "happy path - commits run and repositories",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec("INSERT INTO runs").
					WithArgs("run-1", "octocat", 2, 25, 12.5, 50.0, 40.2, 85.0, 53.6, "reports/octocat.txt", sqlmock.AnyArg()).
					WillReturnResult(sqlmock.NewResult(1, 1))
				prep := mock.ExpectPrepare("INSERT INTO run_repos")
				prep.ExpectExec().
					WithArgs("run-1", "b", "https://github.com/octocat/b", "Go", 20, 2, 7.8, 100.0, 70.2, 85.0, 86.6).
					WillReturnResult(sqlmock.NewResult(1, 1))
				prep.ExpectExec().
					WithArgs("run-1", "a", "", "", 5, 0, 4.6, 0.0, 32.3, 85.0, 28.3).
					WillReturnResult(sqlmock.NewResult(2, 1))
				mock.ExpectCommit()
			},
		},
		{
			name: "error case - run insert fails and rolls back",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec("INSERT INTO runs").WillReturnError(errors.New("constraint failed"))
				mock.ExpectRollback()
			},
			expectedErr: "failed to insert run",
		},
		{
			name: "error case - repository insert fails and rolls back",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec("INSERT INTO runs").WillReturnResult(sqlmock.NewResult(1, 1))
				prep := mock.ExpectPrepare("INSERT INTO run_repos")
				prep.ExpectExec().WillReturnError(errors.New("UNIQUE constraint failed"))
				mock.ExpectRollback()
			},
			expectedErr: "failed to insert repository b",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			store, mock := newMockStore(t)
			tc.setup(mock)

			err := store.SaveRun(context.Background(), testRun(), testRunRepos())
			if tc.expectedErr != "" {
				assert.ErrorContains(t, err, tc.expectedErr)
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestSQLiteStorage_RecentRuns(t *testing.T) {
	store, mock := newMockStore(t)
	created := time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{
		"id", "username", "repo_count", "total_stars", "avg_stars",
		"avg_activity", "avg_popularity", "avg_health", "avg_hard", "report_path", "created_at",
	}).
		AddRow("run-2", "torvalds", 6, 600, 100.0, 70.0, 90.0, 60.0, 75.5, nil, created).
		AddRow("run-1", "octocat", 2, 25, 12.5, 50.0, 40.2, 85.0, 53.6, "reports/octocat.txt", created.Add(-time.Hour))
	mock.ExpectQuery("SELECT (.+) FROM runs").WithArgs(5).WillReturnRows(rows)

	runs, err := store.RecentRuns(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "run-2", runs[0].ID)
	assert.Equal(t, "", runs[0].ReportPath)
	assert.Equal(t, "reports/octocat.txt", runs[1].ReportPath)
	assert.Equal(t, 12.5, runs[1].AverageStars)
	assert.Equal(t, 75.5, runs[0].AverageScores.Hard)
	assert.Equal(t, testRun().AverageScores, runs[1].AverageScores)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteStorage_RecentRuns_Error(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectQuery("SELECT (.+) FROM runs").WillReturnError(errors.New("database is locked"))

	_, err := store.RecentRuns(context.Background(), 5)
	assert.ErrorContains(t, err, "database is locked")
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestSQLiteStorage_RoundTrip exercises the real driver against a temporary database file.
func TestSQLiteStorage_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	defer store.Close()

	older := testRun()
	older.ID = "run-older"
	older.CreatedAt = older.CreatedAt.Add(-24 * time.Hour)
	require.NoError(t, store.SaveRun(ctx, older, nil))
	require.NoError(t, store.SaveRun(ctx, testRun(), testRunRepos()))

	// Migrating twice is harmless.
	require.NoError(t, store.Migrate(ctx))

	runs, err := store.RecentRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "run-1", runs[0].ID)
	assert.Equal(t, "run-older", runs[1].ID)
	assert.True(t, testRun().CreatedAt.Equal(runs[0].CreatedAt))
	assert.Equal(t, testRun().AverageScores, runs[0].AverageScores)

	repos, err := store.RunRepos(ctx, "run-1")
	require.NoError(t, err)
	for i := range repos {
		repos[i].RunID = ""
	}
	assert.Equal(t, testRunRepos(), repos)

	// A duplicate run ID fails and leaves no partial rows behind.
	dup := testRun()
	err = store.SaveRun(ctx, dup, []domain.RunRepo{{Name: "new"}})
	assert.Error(t, err)
	repos, err = store.RunRepos(ctx, "run-1")
	require.NoError(t, err)
	assert.Len(t, repos, 2)
}
