// Package analytics computes descriptive statistics over a list of repositories.
// Every function is pure: it never mutates its input and performs no I/O.
package analytics

import (
	"cmp"
	"math"
	"math/rand/v2"
	"slices"
	"strings"
	"time"

	"github.com/montanaflynn/stats"

	"github.com/naka-gawa/repo-lens/internal/domain"
)

// Summarize computes count, total, mean, min, max and median of the star counts.
// An empty list yields a Summary with Available set to false.
func Summarize(repos []domain.Repository) domain.Summary {
	if len(repos) == 0 {
		return domain.Summary{}
	}

	s := domain.Summary{
		Count:     len(repos),
		MinStars:  repos[0].Stars,
		MaxStars:  repos[0].Stars,
		Available: true,
	}
	for _, r := range repos {
		s.TotalStars += r.Stars
		s.MinStars = min(s.MinStars, r.Stars)
		s.MaxStars = max(s.MaxStars, r.Stars)
	}
	s.AverageStars = float64(s.TotalStars) / float64(s.Count)

	// Median never fails on non-empty input.
	s.MedianStars, _ = stats.Median(float64Data(domain.StarCounts(repos)))
	return s
}

func float64Data(counts []int) stats.Float64Data {
	data := make(stats.Float64Data, len(counts))
	for i, c := range counts {
		data[i] = float64(c)
	}
	return data
}

// topBy returns the first min(n, len(repos)) repositories ordered by less.
// The sort is stable, so ties keep their original order.
func topBy(repos []domain.Repository, n int, less func(a, b domain.Repository) int) []domain.Repository {
	if n <= 0 {
		return []domain.Repository{}
	}
	sorted := slices.Clone(repos)
	slices.SortStableFunc(sorted, less)
	return sorted[:min(n, len(sorted))]
}

// TopByStars returns the n most starred repositories, most starred first.
func TopByStars(repos []domain.Repository, n int) []domain.Repository {
	return topBy(repos, n, func(a, b domain.Repository) int {
		return cmp.Compare(b.Stars, a.Stars)
	})
}

// TopByForks returns the n most forked repositories, most forked first.
func TopByForks(repos []domain.Repository, n int) []domain.Repository {
	return topBy(repos, n, func(a, b domain.Repository) int {
		return cmp.Compare(b.Forks, a.Forks)
	})
}

// RecentlyPushed returns the n repositories pushed to most recently.
// Repositories without a push time sort last.
func RecentlyPushed(repos []domain.Repository, n int) []domain.Repository {
	return topBy(repos, n, func(a, b domain.Repository) int {
		switch {
		case a.PushedAt.IsZero() && b.PushedAt.IsZero():
			return 0
		case a.PushedAt.IsZero():
			return 1
		case b.PushedAt.IsZero():
			return -1
		}
		return b.PushedAt.Compare(a.PushedAt)
	})
}

// TopLanguages counts repositories per primary language and returns the n most
// frequent. Repositories without a language are counted as "unspecified".
// Ties keep the order in which the languages were first seen.
func TopLanguages(repos []domain.Repository, n int) []domain.LanguageCount {
	index := make(map[string]int)
	counts := make([]domain.LanguageCount, 0)
	for _, r := range repos {
		lang := strings.TrimSpace(r.Language)
		if lang == "" {
			lang = domain.UnspecifiedLanguage
		}
		i, ok := index[lang]
		if !ok {
			i = len(counts)
			index[lang] = i
			counts = append(counts, domain.LanguageCount{Language: lang})
		}
		counts[i].Count++
	}

	slices.SortStableFunc(counts, func(a, b domain.LanguageCount) int {
		return cmp.Compare(b.Count, a.Count)
	})
	if n <= 0 {
		return []domain.LanguageCount{}
	}
	return counts[:min(n, len(counts))]
}

// SearchByKeyword returns the repositories whose name contains keyword,
// ignoring case. An empty keyword matches every repository.
func SearchByKeyword(repos []domain.Repository, keyword string) []domain.Repository {
	keyword = strings.ToLower(strings.TrimSpace(keyword))
	matches := make([]domain.Repository, 0)
	for _, r := range repos {
		if strings.Contains(strings.ToLower(r.Name), keyword) {
			matches = append(matches, r)
		}
	}
	return matches
}

// Score rates a repository by popularity: 2*ln(stars+1) + sqrt(forks+1).
func Score(r domain.Repository) float64 {
	return math.Log(float64(r.Stars)+1)*2 + math.Sqrt(float64(r.Forks)+1)
}

// Spotlight picks one repository uniformly at random using rng.
// ok is false when repos is empty.
func Spotlight(repos []domain.Repository, rng *rand.Rand) (spot domain.Spotlight, ok bool) {
	if len(repos) == 0 {
		return domain.Spotlight{}, false
	}
	picked := repos[rng.IntN(len(repos))]
	return domain.Spotlight{Repository: picked, Score: Score(picked)}, true
}

// CompareMeanMethods computes the mean of counts twice, once with an explicit
// accumulation loop and once with stats.Mean over the whole slice, and times
// both. Empty input returns a zero comparison with Samples == 0.
func CompareMeanMethods(counts []int) domain.MeanComparison {
	result := domain.MeanComparison{Samples: len(counts)}
	if len(counts) == 0 {
		return result
	}

	start := time.Now()
	total := 0.0
	for _, c := range counts {
		total += float64(c)
	}
	result.LoopMean = total / float64(len(counts))
	result.LoopElapsed = time.Since(start)

	start = time.Now()
	result.BulkMean, _ = stats.Mean(float64Data(counts))
	result.BulkElapsed = time.Since(start)

	return result
}

// Activity buckets repositories by the age of their last push relative to now.
// A repository with no push time, or one last pushed over a year ago, is stale.
func Activity(repos []domain.Repository, now time.Time) domain.Activity {
	var a domain.Activity
	for _, r := range repos {
		if r.Archived {
			a.Archived++
		}
		if r.License != "" {
			a.Licensed++
		}
		if r.OpenIssues > 0 {
			a.WithIssues++
			a.TotalIssues += r.OpenIssues
		}
		if r.PushedAt.IsZero() {
			a.Stale++
			continue
		}
		days := daysSince(r.PushedAt, now)
		if days <= 30 {
			a.Active30d++
		}
		if days <= 90 {
			a.Active90d++
		}
		if days <= 365 {
			a.Active365d++
		} else {
			a.Stale++
		}
	}
	return a
}

func daysSince(t, now time.Time) int {
	return int(now.Sub(t).Hours() / 24)
}
