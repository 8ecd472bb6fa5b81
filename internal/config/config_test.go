package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdirTemp moves the test into an empty directory so a developer's .env is never picked up.
func chdirTemp(t *testing.T) string {
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	chdirTemp(t)
	t.Setenv("GITHUB_TOKEN", "")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, DefaultAPIURL, cfg.APIURL)
	assert.Equal(t, 100, cfg.PerPage)
	assert.Equal(t, 1, cfg.MaxPages)
	assert.Equal(t, 30*time.Minute, cfg.CacheTTL)
	assert.Equal(t, "reports", cfg.ReportsDir)
	assert.True(t, cfg.HistoryEnabled())
	assert.NoError(t, cfg.Validate())
}

func TestLoad_Layering(t *testing.T) {
	dir := chdirTemp(t)

	yamlPath := filepath.Join(dir, "repo-lens.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte(`
per_page: 50
max_pages: 3
cache_ttl: 5m
reports_dir: out
database_path: ""
`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("REPOLENS_TOP_N=7\n"), 0o644))
	// godotenv sets process env directly.
	t.Cleanup(func() { _ = os.Unsetenv("REPOLENS_TOP_N") })

	t.Setenv("REPOLENS_MAX_PAGES", "4")
	t.Setenv("REPOLENS_HTTP_TIMEOUT", "10s")

	cfg, err := Load(yamlPath)
	require.NoError(t, err)

	assert.Equal(t, 50, cfg.PerPage, "yaml overrides default")
	assert.Equal(t, 4, cfg.MaxPages, "env overrides yaml")
	assert.Equal(t, 7, cfg.TopN, ".env is loaded")
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
	assert.Equal(t, 10*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, "out", cfg.ReportsDir)
	assert.False(t, cfg.HistoryEnabled())
}

func TestLoad_Errors(t *testing.T) {
	testCases := []struct {
		name        string
		setup       func(t *testing.T, dir string) string
		expectedErr string
	}{
		{
			name: "missing yaml file",
			setup: func(t *testing.T, dir string) string {
				return filepath.Join(dir, "nope.yaml")
			},
			expectedErr: "failed to read config file",
		},
		{
			name: "malformed yaml",
			setup: func(t *testing.T, dir string) string {
				p := filepath.Join(dir, "bad.yaml")
				require.NoError(t, os.WriteFile(p, []byte("per_page: [1"), 0o644))
				return p
			},
			expectedErr: "failed to parse config file",
		},
		{
			name: "non-integer env",
			setup: func(t *testing.T, dir string) string {
				t.Setenv("REPOLENS_PER_PAGE", "lots")
				return ""
			},
			expectedErr: "REPOLENS_PER_PAGE: must be an integer",
		},
		{
			name: "bad duration env",
			setup: func(t *testing.T, dir string) string {
				t.Setenv("REPOLENS_CACHE_TTL", "forever")
				return ""
			},
			expectedErr: "REPOLENS_CACHE_TTL",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			dir := chdirTemp(t)
			_, err := Load(tc.setup(t, dir))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.expectedErr)
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	testCases := []struct {
		name          string
		mutate        func(c *Config)
		expectedField string
	}{
		{name: "per_page too large", mutate: func(c *Config) { c.PerPage = 101 }, expectedField: "per_page"},
		{name: "max_pages zero", mutate: func(c *Config) { c.MaxPages = 0 }, expectedField: "max_pages"},
		{name: "top_n zero", mutate: func(c *Config) { c.TopN = 0 }, expectedField: "top_n"},
		{name: "cache_size zero", mutate: func(c *Config) { c.CacheSize = 0 }, expectedField: "cache_size"},
		{name: "negative ttl", mutate: func(c *Config) { c.CacheTTL = -time.Second }, expectedField: "cache_ttl"},
		{name: "negative timeout", mutate: func(c *Config) { c.HTTPTimeout = -time.Second }, expectedField: "http_timeout"},
		{name: "empty reports dir", mutate: func(c *Config) { c.ReportsDir = "" }, expectedField: "reports_dir"},
		{name: "relative api url", mutate: func(c *Config) { c.APIURL = "api.github.com" }, expectedField: "api_url"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)

			err := cfg.Validate()
			var cfgErr *ConfigError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tc.expectedField, cfgErr.Field)
		})
	}
}

func TestLoadUsernames(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "usernames.txt")
	require.NoError(t, os.WriteFile(path, []byte("torvalds\n\n  # comment\n  octocat  \r\ngoogle"), 0o644))

	names, err := LoadUsernames(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"torvalds", "octocat", "google"}, names)

	_, err = LoadUsernames(filepath.Join(dir, "missing.txt"))
	assert.Error(t, err)
}
