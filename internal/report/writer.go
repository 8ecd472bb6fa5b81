// Package report renders analyses as text and writes them, with JSON and CSV
// exports, to timestamped files in an output directory.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/naka-gawa/repo-lens/internal/analytics"
	"github.com/naka-gawa/repo-lens/internal/domain"
)

// TimestampLayout is the timestamp format embedded in every generated filename.
const TimestampLayout = "20060102_150405"

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9._-]`)

// Writer saves reports into a single directory.
type Writer struct {
	dir    string
	now    func() time.Time
	logger *logrus.Logger
}

// NewWriter creates a Writer for dir. The directory is created on first save.
func NewWriter(dir string, logger *logrus.Logger) *Writer {
	return &Writer{dir: dir, now: time.Now, logger: logger}
}

// WithClock replaces the time source used for filename timestamps.
func (w *Writer) WithClock(now func() time.Time) *Writer {
	w.now = now
	return w
}

// SaveReport writes text to <dir>/<username>_<timestamp>.txt and returns the path.
// An existing file is never overwritten.
func (w *Writer) SaveReport(username, text string) (string, error) {
	return w.create(fmt.Sprintf("%s_%s.txt", SafeName(username), w.timestamp()), func(f io.Writer) error {
		_, err := io.WriteString(f, text)
		return err
	})
}

// SaveSummaryJSON writes the analysis as indented JSON and returns the path.
func (w *Writer) SaveSummaryJSON(a *domain.Analysis) (string, error) {
	return w.create(fmt.Sprintf("%s_summary_%s.json", SafeName(a.Username), w.timestamp()), func(f io.Writer) error {
		enc := json.NewEncoder(f)
		enc.SetIndent("", "  ")
		return enc.Encode(a)
	})
}

var csvHeader = []string{
	"username", "name", "full_name", "html_url", "language", "license_name",
	"stargazers_count", "forks_count", "open_issues_count", "archived", "pushed_at", "score",
	"activity_score", "popularity_score", "health_score", "hard_score",
}

// SaveReposCSV writes one row per rated repository and returns the path.
func (w *Writer) SaveReposCSV(username string, scored []domain.ScoredRepository) (string, error) {
	return w.create(fmt.Sprintf("%s_repos_%s.csv", SafeName(username), w.timestamp()), func(f io.Writer) error {
		cw := csv.NewWriter(f)
		if err := cw.Write(csvHeader); err != nil {
			return err
		}
		for _, sr := range scored {
			r := sr.Repository
			pushed := ""
			if !r.PushedAt.IsZero() {
				pushed = r.PushedAt.UTC().Format(time.RFC3339)
			}
			row := []string{
				username, r.Name, r.FullName, r.HTMLURL, r.Language, r.License,
				strconv.Itoa(r.Stars), strconv.Itoa(r.Forks), strconv.Itoa(r.OpenIssues),
				strconv.FormatBool(r.Archived), pushed,
				formatScore(analytics.Score(r), 3),
				formatScore(sr.Scores.Activity, 1),
				formatScore(sr.Scores.Popularity, 1),
				formatScore(sr.Scores.Health, 1),
				formatScore(sr.Scores.Hard, 1),
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
		cw.Flush()
		return cw.Error()
	})
}

func formatScore(v float64, prec int) string {
	return strconv.FormatFloat(v, 'f', prec, 64)
}

func (w *Writer) timestamp() string {
	return w.now().Format(TimestampLayout)
}

// create makes the output directory, exclusively creates name inside it and
// lets write fill the file. Every failure is reported as a *domain.WriteError.
func (w *Writer) create(name string, write func(io.Writer) error) (string, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", &domain.WriteError{Path: w.dir, Op: "create directory", Err: err}
	}

	path := filepath.Join(w.dir, name)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", &domain.WriteError{Path: path, Op: "create", Err: err}
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return "", &domain.WriteError{Path: path, Op: "write", Err: err}
	}
	if err := f.Close(); err != nil {
		return "", &domain.WriteError{Path: path, Op: "close", Err: err}
	}
	w.logger.Debugf("Wrote %s", path)
	return path, nil
}

// SafeName replaces every character that is not safe in a filename with '_'.
func SafeName(username string) string {
	if username == "" {
		return "unknown"
	}
	return unsafeFilenameChars.ReplaceAllString(username, "_")
}
