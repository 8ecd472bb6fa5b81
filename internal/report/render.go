package report

import (
	"fmt"
	"strings"

	"github.com/naka-gawa/repo-lens/internal/domain"
)

// Render formats an analysis as a plain-text report.
func Render(a *domain.Analysis) string {
	var b strings.Builder

	b.WriteString("GitHub Repository Report\n")
	fmt.Fprintf(&b, "Username: %s\n", a.Username)
	fmt.Fprintf(&b, "Generated: %s\n", a.GeneratedAt.Format(TimestampLayout))
	if p := a.Profile; p != nil {
		fmt.Fprintf(&b, "Profile: %s", p.Login)
		if p.Name != "" {
			fmt.Fprintf(&b, " (%s)", p.Name)
		}
		fmt.Fprintf(&b, ", %d followers, showing %d of %d public repositories\n",
			p.Followers, a.Summary.Count, p.PublicRepos)
	}

	b.WriteString("\nSUMMARY\n")
	s := a.Summary
	if !s.Available {
		b.WriteString("- no data: no repositories found\n")
	} else {
		fmt.Fprintf(&b, "- repo_count: %d\n", s.Count)
		fmt.Fprintf(&b, "- total_stars: %d\n", s.TotalStars)
		fmt.Fprintf(&b, "- avg_stars: %.2f\n", s.AverageStars)
		fmt.Fprintf(&b, "- median_stars: %.1f\n", s.MedianStars)
		fmt.Fprintf(&b, "- min_stars: %d\n", s.MinStars)
		fmt.Fprintf(&b, "- max_stars: %d\n", s.MaxStars)
	}

	if s.Available {
		act := a.Activity
		b.WriteString("\nACTIVITY\n")
		fmt.Fprintf(&b, "- active_30d: %d\n", act.Active30d)
		fmt.Fprintf(&b, "- active_90d: %d\n", act.Active90d)
		fmt.Fprintf(&b, "- active_365d: %d\n", act.Active365d)
		fmt.Fprintf(&b, "- stale_365d_plus: %d\n", act.Stale)
		fmt.Fprintf(&b, "- archived_count: %d\n", act.Archived)
		fmt.Fprintf(&b, "- licensed_count: %d\n", act.Licensed)
		fmt.Fprintf(&b, "- total_open_issues: %d\n", act.TotalIssues)
	}

	b.WriteString("\nTOP REPOS (by stars)\n")
	for _, r := range a.TopByStars {
		fmt.Fprintf(&b, "- %s | stars=%d | %s\n", r.Name, r.Stars, r.HTMLURL)
	}

	if s.Available {
		avg := a.AverageScores
		b.WriteString("\nSCORES (average, 0-100)\n")
		fmt.Fprintf(&b, "- activity: %.1f\n", avg.Activity)
		fmt.Fprintf(&b, "- popularity: %.1f\n", avg.Popularity)
		fmt.Fprintf(&b, "- health: %.1f\n", avg.Health)
		fmt.Fprintf(&b, "- hard: %.1f\n", avg.Hard)
		for _, sr := range a.TopByScore {
			fmt.Fprintf(&b, "- %s | hard=%.1f | activity=%.1f popularity=%.1f health=%.1f\n",
				sr.Repository.Name, sr.Scores.Hard, sr.Scores.Activity, sr.Scores.Popularity, sr.Scores.Health)
		}
	}

	b.WriteString("\nTOP LANGUAGES\n")
	for _, l := range a.Languages {
		fmt.Fprintf(&b, "- %s: %d\n", l.Language, l.Count)
	}

	if a.Spotlight != nil {
		b.WriteString("\nSPOTLIGHT\n")
		fmt.Fprintf(&b, "- %s | score=%.3f | %s\n",
			a.Spotlight.Repository.Name, a.Spotlight.Score, a.Spotlight.Repository.HTMLURL)
	}

	return b.String()
}
