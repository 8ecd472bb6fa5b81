package domain

import "time"

// Summary holds the aggregate star statistics over a list of repositories.
// When Available is false the list was empty and every number is zero; callers
// must not present those zeros as measured data.
type Summary struct {
	Count        int     `json:"repo_count"`
	TotalStars   int     `json:"total_stars"`
	AverageStars float64 `json:"avg_stars"`
	MinStars     int     `json:"min_stars"`
	MaxStars     int     `json:"max_stars"`
	MedianStars  float64 `json:"median_stars"`
	Available    bool    `json:"available"`
}

// Activity counts repositories by how recently they were pushed to.
type Activity struct {
	Active30d   int `json:"active_30d"`
	Active90d   int `json:"active_90d"`
	Active365d  int `json:"active_365d"`
	Stale       int `json:"stale_365d_plus"`
	Archived    int `json:"archived_count"`
	Licensed    int `json:"licensed_count"`
	WithIssues  int `json:"repos_with_issues"`
	TotalIssues int `json:"total_open_issues"`
}

// LanguageCount is the number of repositories using a language.
type LanguageCount struct {
	Language string `json:"language"`
	Count    int    `json:"repo_count"`
}

// Spotlight is a randomly picked repository together with its derived score.
type Spotlight struct {
	Repository Repository `json:"repository"`
	Score      float64    `json:"score"`
}

// RepoScore is the hard-metric rating of a repository. Every component is in
// [0, 100] and rounded to one decimal.
type RepoScore struct {
	Activity   float64 `json:"activity_score"`
	Popularity float64 `json:"popularity_score"`
	Health     float64 `json:"health_score"`
	Hard       float64 `json:"hard_score"`
}

// ScoredRepository pairs a repository with its hard-metric rating.
type ScoredRepository struct {
	Repository Repository `json:"repository"`
	Scores     RepoScore  `json:"scores"`
}

// MeanComparison reports the result and duration of two ways of computing a mean.
type MeanComparison struct {
	Samples     int           `json:"samples"`
	LoopMean    float64       `json:"loop_mean"`
	BulkMean    float64       `json:"bulk_mean"`
	LoopElapsed time.Duration `json:"loop_elapsed"`
	BulkElapsed time.Duration `json:"bulk_elapsed"`
}

// Analysis is everything computed for one user in one run.
type Analysis struct {
	Username       string          `json:"username"`
	GeneratedAt    time.Time       `json:"generated_at"`
	Profile        *Profile        `json:"profile,omitempty"`
	Repositories   []Repository    `json:"-"`
	Summary        Summary         `json:"summary"`
	Activity       Activity        `json:"activity"`
	TopByStars     []Repository    `json:"top_by_stars"`
	TopByForks     []Repository    `json:"top_by_forks"`
	RecentlyPushed []Repository    `json:"recently_pushed"`
	Languages      []LanguageCount `json:"languages"`
	Spotlight      *Spotlight      `json:"spotlight,omitempty"`

	// Scores holds every repository's rating, in listing order.
	Scores        []ScoredRepository `json:"-"`
	TopByScore    []ScoredRepository `json:"top_by_hard_score"`
	AverageScores RepoScore          `json:"average_scores"`
}

// BatchResult is the outcome of analyzing one username in a batch run.
type BatchResult struct {
	Username string
	Summary  Summary
	Err      error
}

// SavedReport lists the files written for one analysis.
type SavedReport struct {
	TextPath string
	JSONPath string
	CSVPath  string
	RunID    string
}

// Run is one recorded analysis in the local history.
type Run struct {
	ID           string
	Username     string
	RepoCount    int
	TotalStars   int
	AverageStars float64
	// AverageScores is the mean rating over the run's repositories.
	AverageScores RepoScore
	ReportPath    string
	CreatedAt     time.Time
}

// RunRepo is a repository row stored alongside a Run.
type RunRepo struct {
	RunID    string
	Name     string
	URL      string
	Language string
	Stars    int
	Forks    int
	Score    float64
	Scores   RepoScore
}
