// Package config loads server configuration from the environment.
//
// Everything configurable lives in one struct so main.go reads the
// environment exactly once and the rest of the codebase receives plain
// values. The env library handles the parsing and defaulting — no
// hand-rolled os.Getenv chains.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds every runtime setting the server needs.
type Config struct {
	// Port the HTTP server listens on.
	Port int `env:"PORT" envDefault:"8080"`

	// DBPath is the SQLite database file. The parent directory is
	// created on startup if it doesn't exist.
	DBPath string `env:"DB_PATH" envDefault:"data/resourcehub.db"`

	// GitHub OAuth credentials. When either is empty, the GitHub login
	// routes are not registered; password auth still works.
	GitHubClientID     string `env:"GITHUB_CLIENT_ID"`
	GitHubClientSecret string `env:"GITHUB_CLIENT_SECRET"`

	// GitHubCallbackURL is where GitHub redirects after authorization.
	// Defaults to localhost on the configured port if unset.
	GitHubCallbackURL string `env:"GITHUB_CALLBACK_URL"`
}

// Load reads configuration from the environment and fills in derived
// defaults.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parsing environment: %w", err)
	}

	if cfg.GitHubCallbackURL == "" {
		cfg.GitHubCallbackURL = fmt.Sprintf("http://localhost:%d/auth/github/callback", cfg.Port)
	}

	return cfg, nil
}

// GitHubEnabled reports whether OAuth credentials were provided.
func (c Config) GitHubEnabled() bool {
	return c.GitHubClientID != "" && c.GitHubClientSecret != ""
}
