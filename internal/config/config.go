// Package config loads the explorer settings from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
)

const (
	// EnvGithubToken is the environment variable name for the default GitHub API token
	EnvGithubToken = "GITHUB_TOKEN"
	// EnvAPIURL overrides the GitHub REST base URL, e.g. for GitHub Enterprise
	EnvAPIURL           = "GITHUB_API_URL"
	EnvTimeout          = "GITHUB_EXPLORER_TIMEOUT"
	EnvRateLimitWait    = "GITHUB_EXPLORER_RATE_LIMIT_WAIT"
	EnvDatabaseURL      = "GITHUB_EXPLORER_DATABASE_URL"
	EnvGeminiAPIKey     = "GEMINI_API_KEY"
	EnvGeminiModel      = "GITHUB_EXPLORER_GEMINI_MODEL"
	DefaultTimeout      = 30 * time.Second
	DefaultGeminiModel  = "gemini-1.5-flash"
	defaultDotEnvSource = ".env"
)

// Config represents the application configuration
type Config struct {
	// Token is the default credential. Empty means unauthenticated.
	Token      string
	APIBaseURL string
	// RequestTimeout bounds every HTTP request to GitHub.
	RequestTimeout time.Duration
	// RateLimitMaxWait is the longest the client sleeps on a secondary rate
	// limit before surfacing it. Zero surfaces it immediately.
	RateLimitMaxWait time.Duration
	// DatabaseURL is the postgres DSN of the analysis history. Optional.
	DatabaseURL  string
	GeminiAPIKey string
	GeminiModel  string
}

// Load reads the configuration from the environment, after loading the given
// dotenv files (".env" when none are given). Missing dotenv files are ignored.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{defaultDotEnvSource}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}

	cfg := &Config{
		Token:          os.Getenv(EnvGithubToken),
		APIBaseURL:     os.Getenv(EnvAPIURL),
		RequestTimeout: DefaultTimeout,
		DatabaseURL:    os.Getenv(EnvDatabaseURL),
		GeminiAPIKey:   os.Getenv(EnvGeminiAPIKey),
		GeminiModel:    os.Getenv(EnvGeminiModel),
	}
	if cfg.GeminiModel == "" {
		cfg.GeminiModel = DefaultGeminiModel
	}

	var err error
	if cfg.RequestTimeout, err = durationEnv(EnvTimeout, DefaultTimeout); err != nil {
		return nil, err
	}
	if cfg.RateLimitMaxWait, err = durationEnv(EnvRateLimitWait, 0); err != nil {
		return nil, err
	}
	return cfg, nil
}

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("failed to parse %s: %w", key, err)
	}
	return d, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive, got %s", c.RequestTimeout)
	}
	if c.RateLimitMaxWait < 0 {
		return fmt.Errorf("rate limit wait must not be negative, got %s", c.RateLimitMaxWait)
	}
	return nil
}

// HistoryEnabled reports whether an analysis history database is configured.
func (c *Config) HistoryEnabled() bool {
	return c.DatabaseURL != ""
}

// SummaryEnabled reports whether natural-language summaries can be generated.
func (c *Config) SummaryEnabled() bool {
	return c.GeminiAPIKey != ""
}
