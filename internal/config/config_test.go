package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, key := range []string{EnvGithubToken, EnvAPIURL, EnvTimeout, EnvRateLimitWait, EnvDatabaseURL, EnvGeminiAPIKey, EnvGeminiModel} {
		t.Setenv(key, "")
	}
}

func TestLoad(t *testing.T) {
	testCases := []struct {
		name        string
		env         map[string]string
		expected    *Config
		expectError bool
	}{
		{
			name: "defaults",
			env:  map[string]string{},
			expected: &Config{
				RequestTimeout: DefaultTimeout,
				GeminiModel:    DefaultGeminiModel,
			},
		},
		{
			name: "all values from environment",
			env: map[string]string{
				EnvGithubToken:   "ghp_test",
				EnvAPIURL:        "https://ghe.example.com/api/v3",
				EnvTimeout:       "5s",
				EnvRateLimitWait: "1m",
				EnvDatabaseURL:   "postgres://localhost/explorer",
				EnvGeminiAPIKey:  "gemini-key",
				EnvGeminiModel:   "gemini-pro",
			},
			expected: &Config{
				Token:            "ghp_test",
				APIBaseURL:       "https://ghe.example.com/api/v3",
				RequestTimeout:   5 * time.Second,
				RateLimitMaxWait: time.Minute,
				DatabaseURL:      "postgres://localhost/explorer",
				GeminiAPIKey:     "gemini-key",
				GeminiModel:      "gemini-pro",
			},
		},
		{
			name:        "invalid timeout",
			env:         map[string]string{EnvTimeout: "soon"},
			expectError: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}

			cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
			if tc.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, cfg)
		})
	}
}

func TestLoad_DotEnvFile(t *testing.T) {
	clearEnv(t)
	// godotenv does not override variables that are already set.
	require.NoError(t, os.Unsetenv(EnvGithubToken))
	require.NoError(t, os.Unsetenv(EnvTimeout))
	t.Cleanup(func() {
		os.Unsetenv(EnvGithubToken)
		os.Unsetenv(EnvTimeout)
	})

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("GITHUB_TOKEN=from-dotenv\nGITHUB_EXPLORER_TIMEOUT=10s\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", cfg.Token)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
}

func TestConfig_Validate(t *testing.T) {
	testCases := []struct {
		name        string
		cfg         Config
		expectError bool
	}{
		{name: "valid", cfg: Config{RequestTimeout: time.Second}},
		{name: "zero timeout", cfg: Config{}, expectError: true},
		{name: "negative wait", cfg: Config{RequestTimeout: time.Second, RateLimitMaxWait: -time.Second}, expectError: true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
