// Package menu implements the interactive text menu.
package menu

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/naka-gawa/repo-lens/internal/config"
	"github.com/naka-gawa/repo-lens/internal/domain"
	"github.com/naka-gawa/repo-lens/internal/presenter"
)

// Service is the set of use case operations the menu dispatches to.
// *usecase.Analyzer satisfies it.
type Service interface {
	Analyze(ctx context.Context, username string) (*domain.Analysis, error)
	Save(ctx context.Context, analysis *domain.Analysis) (*domain.SavedReport, error)
	Search(ctx context.Context, username, keyword string) ([]domain.Repository, error)
	Spotlight(ctx context.Context, username string) (*domain.Spotlight, error)
	CompareMeans(ctx context.Context, username string) (domain.MeanComparison, error)
	AnalyzeBatch(ctx context.Context, usernames []string) []domain.BatchResult
	History(ctx context.Context, limit int) ([]*domain.Run, error)
	Refresh() bool
}

const historyLimit = 10

const banner = `
==== repo-lens ====
1) Analyze a user and save the report
2) Batch summary from usernames file
3) Search repositories by keyword
4) Spotlight a random repository
5) Compare loop and bulk mean timing
6) Show run history
r) Refresh cached GitHub data
q) Quit`

// errEndOfInput is returned by prompt when the input is exhausted.
var errEndOfInput = errors.New("end of input")

// Menu reads commands line by line and prints results until q or EOF.
type Menu struct {
	svc           Service
	in            io.Reader
	out           io.Writer
	usernamesFile string
	logger        *logrus.Logger

	lines   chan string
	readErr error // set before lines is closed
}

func New(svc Service, in io.Reader, out io.Writer, usernamesFile string, logger *logrus.Logger) *Menu {
	return &Menu{
		svc:           svc,
		in:            in,
		out:           out,
		usernamesFile: usernamesFile,
		logger:        logger,
	}
}

// readLines feeds input lines to m.lines until the input ends or done is closed.
func (m *Menu) readLines(done <-chan struct{}) {
	defer close(m.lines)
	scanner := bufio.NewScanner(m.in)
	for scanner.Scan() {
		select {
		case m.lines <- scanner.Text():
		case <-done:
			return
		}
	}
	m.readErr = scanner.Err()
}

// Run loops until the user quits, the input ends or ctx is cancelled.
// A failed action is printed and the loop continues. Cancelling ctx returns
// immediately, even while waiting for input.
func (m *Menu) Run(ctx context.Context) error {
	done := make(chan struct{})
	defer close(done)
	m.lines = make(chan string)
	go m.readLines(done)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprintln(m.out, banner)
		choice, err := m.prompt(ctx, "Select an option: ")
		if err != nil {
			if errors.Is(err, errEndOfInput) {
				fmt.Fprintln(m.out)
				return nil
			}
			return err
		}

		switch strings.ToLower(choice) {
		case "1":
			err = m.analyze(ctx)
		case "2":
			err = m.batch(ctx)
		case "3":
			err = m.search(ctx)
		case "4":
			err = m.spotlight(ctx)
		case "5":
			err = m.bench(ctx)
		case "6":
			err = m.history(ctx)
		case "r":
			m.refresh()
		case "q":
			fmt.Fprintln(m.out, "Goodbye!")
			return nil
		default:
			fmt.Fprintln(m.out, "Invalid option. Try again.")
			continue
		}

		if errors.Is(err, errEndOfInput) {
			fmt.Fprintln(m.out)
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			fmt.Fprintln(m.out)
			return ctxErr
		}
		if err != nil {
			m.logger.Debugf("Menu action %s failed: %v", choice, err)
			fmt.Fprintf(m.out, "Error: %v\n", err)
		}
	}
}

// prompt prints label and returns the next trimmed input line.
func (m *Menu) prompt(ctx context.Context, label string) (string, error) {
	fmt.Fprint(m.out, label)
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case line, ok := <-m.lines:
		if !ok {
			if m.readErr != nil {
				return "", m.readErr
			}
			return "", errEndOfInput
		}
		return strings.TrimSpace(line), nil
	}
}

func (m *Menu) username(ctx context.Context) (string, error) {
	name, err := m.prompt(ctx, "GitHub username: ")
	if err != nil {
		return "", err
	}
	if name == "" {
		return "", errors.New("username must not be empty")
	}
	return name, nil
}

func (m *Menu) analyze(ctx context.Context) error {
	name, err := m.username(ctx)
	if err != nil {
		return err
	}
	analysis, err := m.svc.Analyze(ctx, name)
	if err != nil {
		return err
	}
	presenter.PrintAnalysis(m.out, analysis)

	saved, err := m.svc.Save(ctx, analysis)
	if saved != nil {
		presenter.PrintSaved(m.out, saved)
	}
	switch {
	case err == nil:
		return nil
	case saved == nil:
		return fmt.Errorf("report not saved: %w", err)
	default:
		return fmt.Errorf("exports not saved: %w", err)
	}
}

func (m *Menu) batch(ctx context.Context) error {
	usernames, err := config.LoadUsernames(m.usernamesFile)
	if err != nil {
		return err
	}
	if len(usernames) == 0 {
		fmt.Fprintf(m.out, "No usernames in %s.\n", m.usernamesFile)
		return nil
	}
	presenter.PrintBatch(m.out, m.svc.AnalyzeBatch(ctx, usernames))
	return nil
}

func (m *Menu) search(ctx context.Context) error {
	name, err := m.username(ctx)
	if err != nil {
		return err
	}
	keyword, err := m.prompt(ctx, "Keyword: ")
	if err != nil {
		return err
	}
	matches, err := m.svc.Search(ctx, name, keyword)
	if err != nil {
		return err
	}
	presenter.PrintMatches(m.out, keyword, matches)
	return nil
}

func (m *Menu) spotlight(ctx context.Context) error {
	name, err := m.username(ctx)
	if err != nil {
		return err
	}
	spot, err := m.svc.Spotlight(ctx, name)
	if err != nil {
		return err
	}
	presenter.PrintSpotlight(m.out, spot)
	return nil
}

func (m *Menu) bench(ctx context.Context) error {
	name, err := m.username(ctx)
	if err != nil {
		return err
	}
	cmp, err := m.svc.CompareMeans(ctx, name)
	if err != nil {
		return err
	}
	presenter.PrintMeanComparison(m.out, cmp)
	return nil
}

func (m *Menu) refresh() {
	if m.svc.Refresh() {
		fmt.Fprintln(m.out, "Cached GitHub data cleared.")
		return
	}
	fmt.Fprintln(m.out, "Nothing cached.")
}

func (m *Menu) history(ctx context.Context) error {
	runs, err := m.svc.History(ctx, historyLimit)
	if err != nil {
		return err
	}
	presenter.PrintRuns(m.out, runs)
	return nil
}
