package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/naka-gawa/repo-lens/internal/domain"
)

var scoringNow = time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

func TestActivityScore(t *testing.T) {
	testCases := []struct {
		name     string
		pushedAt time.Time
		expected float64
	}{
		{name: "unknown push time", pushedAt: time.Time{}, expected: 0},
		{name: "pushed 3 days ago", pushedAt: scoringNow.AddDate(0, 0, -3), expected: 100},
		{name: "exactly a week ago", pushedAt: scoringNow.AddDate(0, 0, -7), expected: 100},
		{name: "8 days ago", pushedAt: scoringNow.AddDate(0, 0, -8), expected: 85},
		{name: "60 days ago", pushedAt: scoringNow.AddDate(0, 0, -60), expected: 70},
		{name: "200 days ago", pushedAt: scoringNow.AddDate(0, 0, -200), expected: 45},
		{name: "over a year ago", pushedAt: scoringNow.AddDate(0, 0, -400), expected: 20},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ActivityScore(tc.pushedAt, scoringNow))
		})
	}
}

func TestPopularityScore(t *testing.T) {
	testCases := []struct {
		name         string
		stars, forks int
		expected     float64
	}{
		{name: "nothing", expected: 0},
		{name: "stars only", stars: 5, expected: 32.2517},
		{name: "stars and forks", stars: 20, forks: 4, expected: 77.3335},
		{name: "clamped at 100", stars: 100000, forks: 100000, expected: 100},
		{name: "negative counts are zero", stars: -3, forks: -1, expected: 0},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.expected, PopularityScore(tc.stars, tc.forks), 1e-3)
		})
	}
}

func TestHealthScore(t *testing.T) {
	testCases := []struct {
		name       string
		openIssues int
		archived   bool
		expected   float64
	}{
		{name: "baseline", expected: 85},
		{name: "archived", archived: true, expected: 60},
		{name: "a few issues", openIssues: 4, expected: 79},
		{name: "issue penalty is capped", openIssues: 100, expected: 60},
		{name: "archived with many issues", openIssues: 100, archived: true, expected: 35},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, HealthScore(tc.openIssues, tc.archived))
		})
	}
}

func TestRateRepository(t *testing.T) {
	testCases := []struct {
		name     string
		repo     domain.Repository
		expected domain.RepoScore
	}{
		{
			name:     "active and popular",
			repo:     domain.Repository{Stars: 20, Forks: 4, OpenIssues: 4, PushedAt: scoringNow.AddDate(0, 0, -3)},
			expected: domain.RepoScore{Activity: 100, Popularity: 77.3, Health: 79, Hard: 87.9},
		},
		{
			name:     "never pushed and unknown",
			repo:     domain.Repository{},
			expected: domain.RepoScore{Activity: 0, Popularity: 0, Health: 85, Hard: 17},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := RateRepository(tc.repo, scoringNow)
			assert.InDelta(t, tc.expected.Activity, got.Activity, 1e-9)
			assert.InDelta(t, tc.expected.Popularity, got.Popularity, 1e-9)
			assert.InDelta(t, tc.expected.Health, got.Health, 1e-9)
			assert.InDelta(t, tc.expected.Hard, got.Hard, 1e-9)
			for _, v := range []float64{got.Activity, got.Popularity, got.Health, got.Hard} {
				assert.GreaterOrEqual(t, v, 0.0)
				assert.LessOrEqual(t, v, 100.0)
			}
		})
	}
}

func TestRateAll_TopByHardScore(t *testing.T) {
	repos := []domain.Repository{
		{Name: "quiet"},
		{Name: "busy", Stars: 20, Forks: 4, PushedAt: scoringNow.AddDate(0, 0, -1)},
		{Name: "also-quiet"},
	}
	scored := RateAll(repos, scoringNow)
	assert.Len(t, scored, 3)
	assert.Equal(t, "quiet", scored[0].Repository.Name)

	top := TopByHardScore(scored, 2)
	assert.Equal(t, "busy", top[0].Repository.Name)
	assert.Equal(t, "quiet", top[1].Repository.Name)
	assert.Equal(t, "quiet", scored[0].Repository.Name)

	assert.Empty(t, TopByHardScore(scored, 0))
	assert.Len(t, TopByHardScore(scored, 10), 3)
}

func TestAverageScores(t *testing.T) {
	testCases := []struct {
		name       string
		scores     []domain.RepoScore
		expected   domain.RepoScore
		expectedOK bool
	}{
		{name: "empty", expected: domain.RepoScore{}},
		{
			name: "two repositories",
			scores: []domain.RepoScore{
				{Activity: 100, Popularity: 40, Health: 80, Hard: 70},
				{Activity: 0, Popularity: 20, Health: 60, Hard: 31},
			},
			expected:   domain.RepoScore{Activity: 50, Popularity: 30, Health: 70, Hard: 50.5},
			expectedOK: true,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := AverageScores(tc.scores)
			assert.Equal(t, tc.expectedOK, ok)
			assert.Equal(t, tc.expected, got)
		})
	}
}
