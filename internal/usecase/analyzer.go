// Package usecase contains the business logic of the application.
package usecase

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/naka-gawa/repo-lens/internal/analytics"
	"github.com/naka-gawa/repo-lens/internal/domain"
	"github.com/naka-gawa/repo-lens/internal/gateway"
	"github.com/naka-gawa/repo-lens/internal/report"
	"github.com/naka-gawa/repo-lens/internal/storage"
)

// ErrHistoryDisabled is returned by History when no store was configured.
var ErrHistoryDisabled = errors.New("run history is disabled (no database path configured)")

// Analyzer is the use case for analyzing a GitHub user's repositories.
// It orchestrates fetching, computing, saving and recording.
type Analyzer struct {
	fetcher gateway.Fetcher
	writer  *report.Writer
	store   storage.Store
	rng     *rand.Rand
	now     func() time.Time
	topN    int
	logger  *logrus.Logger
}

// Option customizes an Analyzer.
type Option func(*Analyzer)

// WithStore enables run history.
func WithStore(store storage.Store) Option {
	return func(a *Analyzer) { a.store = store }
}

// WithRand sets the random source used for spotlight picks.
func WithRand(rng *rand.Rand) Option {
	return func(a *Analyzer) { a.rng = rng }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(a *Analyzer) { a.now = now }
}

// WithTopN sets how many entries the ranked lists hold.
func WithTopN(n int) Option {
	return func(a *Analyzer) { a.topN = n }
}

// NewAnalyzer creates a new Analyzer instance.
func NewAnalyzer(fetcher gateway.Fetcher, writer *report.Writer, logger *logrus.Logger, opts ...Option) *Analyzer {
	a := &Analyzer{
		fetcher: fetcher,
		writer:  writer,
		rng:     rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		now:     time.Now,
		topN:    10,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze fetches the repositories of username and computes every statistic.
// A missing profile is not an error; the analysis is returned without it.
func (a *Analyzer) Analyze(ctx context.Context, username string) (*domain.Analysis, error) {
	a.logger.Infof("Usecase: Analyzing %s...", username)

	repos, err := a.fetcher.FetchRepos(ctx, username)
	if err != nil {
		return nil, err
	}

	profile, err := a.fetcher.FetchProfile(ctx, username)
	if err != nil {
		if !errors.Is(err, gateway.ErrProfileUnavailable) {
			a.logger.Warnf("Could not fetch profile for %s: %v", username, err)
		}
		profile = nil
	}

	analysis := &domain.Analysis{
		Username:       username,
		GeneratedAt:    a.now(),
		Profile:        profile,
		Repositories:   repos,
		Summary:        analytics.Summarize(repos),
		TopByStars:     analytics.TopByStars(repos, a.topN),
		TopByForks:     analytics.TopByForks(repos, a.topN),
		RecentlyPushed: analytics.RecentlyPushed(repos, a.topN),
		Languages:      analytics.TopLanguages(repos, a.topN),
	}
	analysis.Activity = analytics.Activity(repos, analysis.GeneratedAt)
	analysis.Scores = analytics.RateAll(repos, analysis.GeneratedAt)
	analysis.TopByScore = analytics.TopByHardScore(analysis.Scores, a.topN)
	analysis.AverageScores, _ = analytics.AverageScores(repoScores(analysis.Scores))
	if spot, ok := analytics.Spotlight(repos, a.rng); ok {
		analysis.Spotlight = &spot
	}

	a.logger.Infof("Usecase: Analysis of %s complete (%d repositories).", username, len(repos))
	return analysis, nil
}

func repoScores(scored []domain.ScoredRepository) []domain.RepoScore {
	scores := make([]domain.RepoScore, 0, len(scored))
	for _, sr := range scored {
		scores = append(scores, sr.Scores)
	}
	return scores
}

// Save writes the text report and its JSON and CSV exports, then records the
// run in history. If the text report cannot be written nothing else is done.
// If an export fails, the returned SavedReport still lists the files written
// so far. A history failure is logged and does not fail the save.
func (a *Analyzer) Save(ctx context.Context, analysis *domain.Analysis) (*domain.SavedReport, error) {
	textPath, err := a.writer.SaveReport(analysis.Username, report.Render(analysis))
	if err != nil {
		return nil, err
	}
	saved := &domain.SavedReport{TextPath: textPath}

	scored := analysis.Scores
	if len(scored) != len(analysis.Repositories) {
		scored = analytics.RateAll(analysis.Repositories, analysis.GeneratedAt)
	}

	if saved.JSONPath, err = a.writer.SaveSummaryJSON(analysis); err != nil {
		return saved, err
	}
	if saved.CSVPath, err = a.writer.SaveReposCSV(analysis.Username, scored); err != nil {
		return saved, err
	}

	if a.store == nil {
		return saved, nil
	}
	run := &domain.Run{
		ID:           uuid.NewString(),
		Username:     analysis.Username,
		RepoCount:    analysis.Summary.Count,
		TotalStars:   analysis.Summary.TotalStars,
		AverageStars: analysis.Summary.AverageStars,
		ReportPath:   textPath,
		CreatedAt:    analysis.GeneratedAt,
	}
	run.AverageScores, _ = analytics.AverageScores(repoScores(scored))
	rows := make([]domain.RunRepo, 0, len(scored))
	for _, sr := range scored {
		r := sr.Repository
		rows = append(rows, domain.RunRepo{
			Name:     r.Name,
			URL:      r.HTMLURL,
			Language: r.Language,
			Stars:    r.Stars,
			Forks:    r.Forks,
			Score:    analytics.Score(r),
			Scores:   sr.Scores,
		})
	}
	if err := a.store.SaveRun(ctx, run, rows); err != nil {
		a.logger.Warnf("Could not record run for %s: %v", analysis.Username, err)
		return saved, nil
	}
	saved.RunID = run.ID
	return saved, nil
}

// Search returns the repositories of username whose name contains keyword.
func (a *Analyzer) Search(ctx context.Context, username, keyword string) ([]domain.Repository, error) {
	repos, err := a.fetcher.FetchRepos(ctx, username)
	if err != nil {
		return nil, err
	}
	return analytics.SearchByKeyword(repos, keyword), nil
}

// Spotlight picks a random repository of username. It returns nil when the user has none.
func (a *Analyzer) Spotlight(ctx context.Context, username string) (*domain.Spotlight, error) {
	repos, err := a.fetcher.FetchRepos(ctx, username)
	if err != nil {
		return nil, err
	}
	spot, ok := analytics.Spotlight(repos, a.rng)
	if !ok {
		return nil, nil
	}
	return &spot, nil
}

// CompareMeans times a loop mean against a bulk mean over the star counts of username.
func (a *Analyzer) CompareMeans(ctx context.Context, username string) (domain.MeanComparison, error) {
	repos, err := a.fetcher.FetchRepos(ctx, username)
	if err != nil {
		return domain.MeanComparison{}, err
	}
	return analytics.CompareMeanMethods(domain.StarCounts(repos)), nil
}

// AnalyzeBatch summarizes each username in turn. A failure for one username
// is recorded in its result and does not stop the others.
func (a *Analyzer) AnalyzeBatch(ctx context.Context, usernames []string) []domain.BatchResult {
	results := make([]domain.BatchResult, 0, len(usernames))
	for _, u := range usernames {
		if err := ctx.Err(); err != nil {
			results = append(results, domain.BatchResult{Username: u, Err: err})
			continue
		}
		a.logger.Infof("Usecase: Batch analyzing %s...", u)
		repos, err := a.fetcher.FetchRepos(ctx, u)
		if err != nil {
			results = append(results, domain.BatchResult{Username: u, Err: err})
			continue
		}
		results = append(results, domain.BatchResult{Username: u, Summary: analytics.Summarize(repos)})
	}
	return results
}

// History returns the most recent recorded runs.
func (a *Analyzer) History(ctx context.Context, limit int) ([]*domain.Run, error) {
	if a.store == nil {
		return nil, ErrHistoryDisabled
	}
	return a.store.RecentRuns(ctx, limit)
}

// RunRepos returns the repositories recorded for one run.
func (a *Analyzer) RunRepos(ctx context.Context, runID string) ([]domain.RunRepo, error) {
	if a.store == nil {
		return nil, ErrHistoryDisabled
	}
	return a.store.RunRepos(ctx, runID)
}

// Refresh drops cached API responses so the next fetch goes to GitHub.
// It reports false when the fetcher does not cache.
func (a *Analyzer) Refresh() bool {
	p, ok := a.fetcher.(interface{ Purge() })
	if !ok {
		return false
	}
	p.Purge()
	a.logger.Info("Usecase: Cleared cached GitHub responses.")
	return true
}
