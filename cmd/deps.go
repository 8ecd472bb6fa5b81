package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/naka-gawa/repo-lens/internal/config"
	"github.com/naka-gawa/repo-lens/internal/gateway"
	"github.com/naka-gawa/repo-lens/internal/report"
	"github.com/naka-gawa/repo-lens/internal/storage"
	"github.com/naka-gawa/repo-lens/internal/storage/sqlite"
	"github.com/naka-gawa/repo-lens/internal/usecase"
)

// app holds the dependencies shared by every command.
type app struct {
	cfg      *config.Config
	logger   *logrus.Logger
	store    storage.Store
	analyzer *usecase.Analyzer
}

// newLogger discards all logs unless --verbose is set.
func newLogger(cmd *cobra.Command) *logrus.Logger {
	verbose, _ := cmd.Flags().GetBool("verbose")
	logger := logrus.New()
	logger.SetOutput(io.Discard) // Default: discard all logs.
	if verbose {
		logger.SetOutput(os.Stderr) // If verbose, log to standard error.
		logger.SetLevel(logrus.DebugLevel)
	}
	return logger
}

// newApp loads the configuration and injects dependencies.
func newApp(cmd *cobra.Command, opts ...usecase.Option) (*app, error) {
	logger := newLogger(cmd)

	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	githubGateway, err := gateway.NewGitHubGateway(gateway.Options{
		Token:    cfg.GitHubToken,
		BaseURL:  cfg.APIURL,
		PerPage:  cfg.PerPage,
		MaxPages: cfg.MaxPages,
		Timeout:  cfg.HTTPTimeout,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create GitHub gateway: %w", err)
	}
	fetcher := gateway.NewCachingFetcher(githubGateway, cfg.CacheSize, cfg.CacheTTL, logger)

	a := &app{cfg: cfg, logger: logger}
	opts = append([]usecase.Option{usecase.WithTopN(cfg.TopN)}, opts...)
	if cfg.HistoryEnabled() {
		store, err := sqlite.Open(cfg.DatabasePath)
		if err != nil {
			// History is optional; reports still work without it.
			logger.Warnf("Run history disabled: %v", err)
		} else {
			a.store = store
			opts = append(opts, usecase.WithStore(store))
		}
	}

	a.analyzer = usecase.NewAnalyzer(fetcher, report.NewWriter(cfg.ReportsDir, logger), logger, opts...)
	return a, nil
}

// Close releases the history database, if one was opened.
func (a *app) Close() {
	if a.store == nil {
		return
	}
	if err := a.store.Close(); err != nil {
		a.logger.Warnf("Failed to close history database: %v", err)
	}
}
