// Package presenter prints analyses, search results and history as
// terminal tables.
package presenter

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"github.com/naka-gawa/repo-lens/internal/domain"
)

const dateLayout = "2006-01-02"

func newTable(w io.Writer, header ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoWrapText(false)
	return table
}

// PrintAnalysis prints every section of an analysis.
func PrintAnalysis(w io.Writer, a *domain.Analysis) {
	fmt.Fprintf(w, "\nRepositories of %s\n", a.Username)
	if p := a.Profile; p != nil {
		fmt.Fprintf(w, "Profile: %s, %d followers, %d public repositories\n", p.Login, p.Followers, p.PublicRepos)
	}
	fmt.Fprintln(w)

	PrintSummary(w, a.Summary)
	if !a.Summary.Available {
		return
	}
	PrintActivity(w, a.Activity)

	fmt.Fprintln(w, "\nTop repositories by stars")
	PrintRepos(w, a.TopByStars)

	fmt.Fprintln(w, "\nTop repositories by forks")
	PrintRepos(w, a.TopByForks)

	fmt.Fprintln(w, "\nRecently pushed")
	PrintRepos(w, a.RecentlyPushed)

	fmt.Fprintln(w, "\nTop repositories by hard score")
	PrintScores(w, a.TopByScore, a.AverageScores)

	fmt.Fprintln(w, "\nTop languages")
	PrintLanguages(w, a.Languages)

	if a.Spotlight != nil {
		fmt.Fprintln(w)
		PrintSpotlight(w, a.Spotlight)
	}
}

// PrintSummary prints the star statistics, or a no-data line when there are none.
func PrintSummary(w io.Writer, s domain.Summary) {
	if !s.Available {
		fmt.Fprintln(w, "No data: no repositories found.")
		return
	}
	table := newTable(w, "Metric", "Value")
	table.Append([]string{"Repositories", strconv.Itoa(s.Count)})
	table.Append([]string{"Total stars", strconv.Itoa(s.TotalStars)})
	table.Append([]string{"Average stars", fmt.Sprintf("%.2f", s.AverageStars)})
	table.Append([]string{"Median stars", fmt.Sprintf("%.1f", s.MedianStars)})
	table.Append([]string{"Min stars", strconv.Itoa(s.MinStars)})
	table.Append([]string{"Max stars", strconv.Itoa(s.MaxStars)})
	table.Render()
}

func PrintActivity(w io.Writer, act domain.Activity) {
	table := newTable(w, "Activity", "Repositories")
	table.Append([]string{"Pushed in 30 days", strconv.Itoa(act.Active30d)})
	table.Append([]string{"Pushed in 90 days", strconv.Itoa(act.Active90d)})
	table.Append([]string{"Pushed in 365 days", strconv.Itoa(act.Active365d)})
	table.Append([]string{"Stale", strconv.Itoa(act.Stale)})
	table.Append([]string{"Archived", strconv.Itoa(act.Archived)})
	table.Append([]string{"Licensed", strconv.Itoa(act.Licensed)})
	table.Append([]string{"With open issues", fmt.Sprintf("%d (%d issues)", act.WithIssues, act.TotalIssues)})
	table.Render()
}

// PrintRepos prints one row per repository.
func PrintRepos(w io.Writer, repos []domain.Repository) {
	if len(repos) == 0 {
		fmt.Fprintln(w, "No repositories.")
		return
	}
	table := newTable(w, "Name", "Stars", "Forks", "Language", "Pushed", "URL")
	for _, r := range repos {
		pushed := "-"
		if !r.PushedAt.IsZero() {
			pushed = r.PushedAt.Format(dateLayout)
		}
		lang := r.Language
		if lang == "" {
			lang = domain.UnspecifiedLanguage
		}
		table.Append([]string{r.Name, strconv.Itoa(r.Stars), strconv.Itoa(r.Forks), lang, pushed, r.HTMLURL})
	}
	table.Render()
}

// PrintScores prints rated repositories followed by the average rating.
func PrintScores(w io.Writer, scored []domain.ScoredRepository, avg domain.RepoScore) {
	if len(scored) == 0 {
		fmt.Fprintln(w, "No repositories.")
		return
	}
	table := newTable(w, "Name", "Activity", "Popularity", "Health", "Hard")
	for _, sr := range scored {
		table.Append(scoreRow(sr.Repository.Name, sr.Scores))
	}
	table.SetFooter(scoreRow("Average", avg))
	table.Render()
}

func scoreRow(name string, s domain.RepoScore) []string {
	return []string{
		name,
		strconv.FormatFloat(s.Activity, 'f', 1, 64),
		strconv.FormatFloat(s.Popularity, 'f', 1, 64),
		strconv.FormatFloat(s.Health, 'f', 1, 64),
		strconv.FormatFloat(s.Hard, 'f', 1, 64),
	}
}

func PrintLanguages(w io.Writer, langs []domain.LanguageCount) {
	if len(langs) == 0 {
		fmt.Fprintln(w, "No languages.")
		return
	}
	table := newTable(w, "Language", "Repositories")
	for _, l := range langs {
		table.Append([]string{l.Language, strconv.Itoa(l.Count)})
	}
	table.Render()
}

// PrintMatches prints the result of a keyword search.
func PrintMatches(w io.Writer, keyword string, repos []domain.Repository) {
	if len(repos) == 0 {
		fmt.Fprintf(w, "No repositories match %q.\n", keyword)
		return
	}
	fmt.Fprintf(w, "%d repositories match %q\n", len(repos), keyword)
	table := newTable(w, "Name", "Stars", "URL")
	for _, r := range repos {
		table.Append([]string{r.Name, strconv.Itoa(r.Stars), r.HTMLURL})
	}
	table.Render()
}

// PrintSpotlight prints the picked repository with its score. A nil spotlight
// means the user had no repositories.
func PrintSpotlight(w io.Writer, s *domain.Spotlight) {
	if s == nil {
		fmt.Fprintln(w, "No repositories to pick from.")
		return
	}
	r := s.Repository
	fmt.Fprintf(w, "Spotlight: %s\n", r.Name)
	if r.Description != "" {
		fmt.Fprintf(w, "  %s\n", r.Description)
	}
	fmt.Fprintf(w, "  stars=%d forks=%d score=%.3f\n", r.Stars, r.Forks, s.Score)
	if r.HTMLURL != "" {
		fmt.Fprintf(w, "  %s\n", r.HTMLURL)
	}
}

// PrintMeanComparison prints both means and the time each method took.
func PrintMeanComparison(w io.Writer, c domain.MeanComparison) {
	if c.Samples == 0 {
		fmt.Fprintln(w, "No data: no repositories found.")
		return
	}
	table := newTable(w, "Method", "Mean stars", "Elapsed")
	table.Append([]string{"Loop", fmt.Sprintf("%.4f", c.LoopMean), c.LoopElapsed.String()})
	table.Append([]string{"Bulk", fmt.Sprintf("%.4f", c.BulkMean), c.BulkElapsed.String()})
	table.Render()
	fmt.Fprintf(w, "Samples: %d\n", c.Samples)
}

// PrintBatch prints one row per username, with the error for failed ones.
func PrintBatch(w io.Writer, results []domain.BatchResult) {
	table := newTable(w, "Username", "Repositories", "Total stars", "Average stars", "Status")
	for _, r := range results {
		switch {
		case r.Err != nil:
			table.Append([]string{r.Username, "-", "-", "-", "error: " + r.Err.Error()})
		case !r.Summary.Available:
			table.Append([]string{r.Username, "0", "0", "-", "no data"})
		default:
			table.Append([]string{
				r.Username,
				strconv.Itoa(r.Summary.Count),
				strconv.Itoa(r.Summary.TotalStars),
				fmt.Sprintf("%.2f", r.Summary.AverageStars),
				"ok",
			})
		}
	}
	table.Render()
}

// PrintRuns prints recorded runs, newest first.
func PrintRuns(w io.Writer, runs []*domain.Run) {
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded yet.")
		return
	}
	table := newTable(w, "Run", "Username", "Repositories", "Total stars", "Average stars", "Average hard score", "Created", "Report")
	for _, r := range runs {
		table.Append([]string{
			r.ID,
			r.Username,
			strconv.Itoa(r.RepoCount),
			strconv.Itoa(r.TotalStars),
			fmt.Sprintf("%.2f", r.AverageStars),
			fmt.Sprintf("%.1f", r.AverageScores.Hard),
			r.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			r.ReportPath,
		})
	}
	table.Render()
}

// PrintRunRepos prints the repositories recorded for one run.
func PrintRunRepos(w io.Writer, repos []domain.RunRepo) {
	if len(repos) == 0 {
		fmt.Fprintln(w, "No repositories recorded for this run.")
		return
	}
	table := newTable(w, "Name", "Stars", "Forks", "Language", "Score", "Hard score")
	for _, r := range repos {
		table.Append([]string{
			r.Name, strconv.Itoa(r.Stars), strconv.Itoa(r.Forks), r.Language,
			fmt.Sprintf("%.3f", r.Score), fmt.Sprintf("%.1f", r.Scores.Hard),
		})
	}
	table.Render()
}

// PrintSaved lists the files written by a save.
func PrintSaved(w io.Writer, s *domain.SavedReport) {
	fmt.Fprintf(w, "Report saved to %s\n", s.TextPath)
	if s.JSONPath != "" {
		fmt.Fprintf(w, "Summary JSON saved to %s\n", s.JSONPath)
	}
	if s.CSVPath != "" {
		fmt.Fprintf(w, "Repository CSV saved to %s\n", s.CSVPath)
	}
	if s.RunID != "" {
		fmt.Fprintf(w, "Recorded as run %s\n", s.RunID)
	}
}
