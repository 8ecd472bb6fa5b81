package analytics

import (
	"cmp"
	"math"
	"slices"
	"time"

	"github.com/montanaflynn/stats"

	"github.com/naka-gawa/repo-lens/internal/domain"
)

// Hard score weights.
const (
	activityWeight   = 0.45
	popularityWeight = 0.35
	healthWeight     = 0.20
)

func clamp(x float64) float64 {
	return min(max(x, 0), 100)
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}

// ActivityScore rates how recently a repository was pushed to.
// An unknown push time scores 0.
func ActivityScore(pushedAt, now time.Time) float64 {
	if pushedAt.IsZero() {
		return 0
	}
	switch d := daysSince(pushedAt, now); {
	case d <= 7:
		return 100
	case d <= 30:
		return 85
	case d <= 90:
		return 70
	case d <= 365:
		return 45
	default:
		return 20
	}
}

// PopularityScore is 18*ln(1+stars) + 14*ln(1+forks), clamped to [0, 100].
func PopularityScore(stars, forks int) float64 {
	s := float64(max(stars, 0))
	f := float64(max(forks, 0))
	return clamp(math.Log1p(s)*18 + math.Log1p(f)*14)
}

// HealthScore starts at 85, takes 25 off archived repositories and 1.5 per
// open issue up to 25.
func HealthScore(openIssues int, archived bool) float64 {
	score := 85.0
	if archived {
		score -= 25
	}
	if openIssues > 0 {
		score -= min(25, float64(openIssues)*1.5)
	}
	return clamp(score)
}

// RateRepository combines the three component scores into a hard score.
func RateRepository(r domain.Repository, now time.Time) domain.RepoScore {
	a := ActivityScore(r.PushedAt, now)
	p := PopularityScore(r.Stars, r.Forks)
	h := HealthScore(r.OpenIssues, r.Archived)
	hard := activityWeight*a + popularityWeight*p + healthWeight*h
	return domain.RepoScore{
		Activity:   round1(a),
		Popularity: round1(p),
		Health:     round1(h),
		Hard:       round1(hard),
	}
}

// RateAll rates every repository, keeping the input order.
func RateAll(repos []domain.Repository, now time.Time) []domain.ScoredRepository {
	scored := make([]domain.ScoredRepository, 0, len(repos))
	for _, r := range repos {
		scored = append(scored, domain.ScoredRepository{Repository: r, Scores: RateRepository(r, now)})
	}
	return scored
}

// TopByHardScore returns the n best rated repositories, ties in input order.
func TopByHardScore(scored []domain.ScoredRepository, n int) []domain.ScoredRepository {
	if n <= 0 {
		return []domain.ScoredRepository{}
	}
	sorted := slices.Clone(scored)
	slices.SortStableFunc(sorted, func(a, b domain.ScoredRepository) int {
		return cmp.Compare(b.Scores.Hard, a.Scores.Hard)
	})
	return sorted[:min(n, len(sorted))]
}

// AverageScores averages each component, rounded to one decimal.
// ok is false for an empty list.
func AverageScores(scores []domain.RepoScore) (avg domain.RepoScore, ok bool) {
	if len(scores) == 0 {
		return domain.RepoScore{}, false
	}
	component := func(get func(domain.RepoScore) float64) float64 {
		data := make(stats.Float64Data, len(scores))
		for i, s := range scores {
			data[i] = get(s)
		}
		mean, _ := stats.Mean(data)
		return round1(mean)
	}
	return domain.RepoScore{
		Activity:   component(func(s domain.RepoScore) float64 { return s.Activity }),
		Popularity: component(func(s domain.RepoScore) float64 { return s.Popularity }),
		Health:     component(func(s domain.RepoScore) float64 { return s.Health }),
		Hard:       component(func(s domain.RepoScore) float64 { return s.Hard }),
	}, true
}
