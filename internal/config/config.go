// Package config loads application settings from defaults, an optional YAML
// file, a .env file and the process environment, in that order of precedence.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultAPIURL is the public GitHub REST endpoint.
const DefaultAPIURL = "https://api.github.com/"

// Config holds the application configuration.
type Config struct {
	// GitHub
	GitHubToken string `yaml:"github_token"`
	APIURL      string `yaml:"api_url"`
	PerPage     int    `yaml:"per_page"`
	MaxPages    int    `yaml:"max_pages"`

	// HTTP
	HTTPTimeout time.Duration `yaml:"http_timeout"`

	// Cache
	CacheTTL  time.Duration `yaml:"cache_ttl"`
	CacheSize int           `yaml:"cache_size"`

	// Output
	TopN          int    `yaml:"top_n"`
	ReportsDir    string `yaml:"reports_dir"`
	DatabasePath  string `yaml:"database_path"`
	UsernamesFile string `yaml:"usernames_file"`
}

// Default returns the configuration used when nothing overrides it.
// Only the first page of repositories is fetched unless MaxPages is raised.
func Default() *Config {
	return &Config{
		APIURL:        DefaultAPIURL,
		PerPage:       100,
		MaxPages:      1,
		HTTPTimeout:   30 * time.Second,
		CacheTTL:      30 * time.Minute,
		CacheSize:     64,
		TopN:          10,
		ReportsDir:    "reports",
		DatabasePath:  "repo-lens.db",
		UsernamesFile: "usernames.txt",
	}
}

// Load builds the configuration. path may be empty, in which case no YAML file is read.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	c.GitHubToken = getEnv("GITHUB_TOKEN", c.GitHubToken)
	c.APIURL = getEnv("GITHUB_API_URL", c.APIURL)
	c.ReportsDir = getEnv("REPOLENS_REPORTS_DIR", c.ReportsDir)
	c.DatabasePath = getEnv("REPOLENS_DB_PATH", c.DatabasePath)
	c.UsernamesFile = getEnv("REPOLENS_USERNAMES_FILE", c.UsernamesFile)

	ints := []struct {
		key string
		dst *int
	}{
		{"REPOLENS_PER_PAGE", &c.PerPage},
		{"REPOLENS_MAX_PAGES", &c.MaxPages},
		{"REPOLENS_TOP_N", &c.TopN},
		{"REPOLENS_CACHE_SIZE", &c.CacheSize},
	}
	for _, e := range ints {
		v := os.Getenv(e.key)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return &ConfigError{Field: e.key, Message: "must be an integer"}
		}
		*e.dst = n
	}

	durations := []struct {
		key string
		dst *time.Duration
	}{
		{"REPOLENS_CACHE_TTL", &c.CacheTTL},
		{"REPOLENS_HTTP_TIMEOUT", &c.HTTPTimeout},
	}
	for _, e := range durations {
		v := os.Getenv(e.key)
		if v == "" {
			continue
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return &ConfigError{Field: e.key, Message: "must be a duration such as 30s or 5m"}
		}
		*e.dst = d
	}
	return nil
}

// getEnv returns the value of an environment variable or a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.PerPage < 1 || c.PerPage > 100 {
		return &ConfigError{Field: "per_page", Message: "must be between 1 and 100"}
	}
	if c.MaxPages < 1 {
		return &ConfigError{Field: "max_pages", Message: "must be at least 1"}
	}
	if c.TopN < 1 {
		return &ConfigError{Field: "top_n", Message: "must be at least 1"}
	}
	if c.CacheSize < 1 {
		return &ConfigError{Field: "cache_size", Message: "must be at least 1"}
	}
	if c.CacheTTL < 0 {
		return &ConfigError{Field: "cache_ttl", Message: "must not be negative"}
	}
	if c.HTTPTimeout < 0 {
		return &ConfigError{Field: "http_timeout", Message: "must not be negative"}
	}
	if c.ReportsDir == "" {
		return &ConfigError{Field: "reports_dir", Message: "is required"}
	}
	u, err := url.Parse(c.APIURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return &ConfigError{Field: "api_url", Message: "must be an absolute URL"}
	}
	return nil
}

// HistoryEnabled reports whether runs should be recorded in the local database.
func (c *Config) HistoryEnabled() bool {
	return c.DatabasePath != ""
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}
