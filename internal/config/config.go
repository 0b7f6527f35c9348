package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/vilaca/activity-feed/internal/api/github"
)

// Config holds application configuration.
// Follows Single Responsibility - only holds configuration data.
type Config struct {
	Port int `env:"PORT" envDefault:"8080"`

	// GitHub API base URL; GitHub Enterprise uses https://<host>/api/v3
	GitHubURL string `env:"GITHUB_URL" envDefault:"https://api.github.com"`

	// Users whose activity is shown (comma-separated), e.g. "octocat,torvalds"
	Users []string `env:"FEED_USERS" envSeparator:","`
	// Optional YAML file with a "users" list, merged after FEED_USERS
	UsersFile string `env:"FEED_USERS_FILE"`

	CacheDurationSeconds   int `env:"FEED_CACHE_DURATION_SECONDS" envDefault:"60"`
	RefreshIntervalSeconds int `env:"FEED_REFRESH_INTERVAL_SECONDS" envDefault:"0"` // 0 disables background refresh
	RequestTimeoutSeconds  int `env:"FEED_REQUEST_TIMEOUT_SECONDS" envDefault:"30"`
	MaxConcurrentFetches   int `env:"FEED_MAX_CONCURRENT_FETCHES" envDefault:"5"`
	EventLimit             int `env:"FEED_EVENT_LIMIT" envDefault:"100"` // 0 means unlimited

	// When false, one malformed event discards that user's whole feed
	SkipInvalidEvents bool `env:"FEED_SKIP_INVALID_EVENTS" envDefault:"true"`

	fileUsers []string
}

// usersFile is the on-disk layout of FEED_USERS_FILE.
type usersFile struct {
	Users []string `yaml:"users"`
}

// Load loads configuration from environment variables and the optional users file.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if cfg.UsersFile != "" {
		users, err := loadUsersFile(cfg.UsersFile)
		if err != nil {
			return nil, err
		}
		cfg.fileUsers = users
	}

	return &cfg, nil
}

func loadUsersFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read users file: %w", err)
	}

	var f usersFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse users file %s: %w", path, err)
	}
	return f.Users, nil
}

// Usernames returns the configured users, trimmed and de-duplicated, env first.
func (c *Config) Usernames() []string {
	seen := make(map[string]bool)
	var result []string
	for _, list := range [][]string{c.Users, c.fileUsers} {
		for _, u := range list {
			u = strings.TrimSpace(u)
			if u == "" || seen[u] {
				continue
			}
			seen[u] = true
			result = append(result, u)
		}
	}
	return result
}

// DecodePolicy returns how malformed events are handled.
func (c *Config) DecodePolicy() github.BatchPolicy {
	if c.SkipInvalidEvents {
		return github.BatchPolicySkip
	}
	return github.BatchPolicyAbort
}

// CacheDuration returns the per-user cache TTL.
func (c *Config) CacheDuration() time.Duration {
	return time.Duration(c.CacheDurationSeconds) * time.Second
}

// RefreshInterval returns the background refresh interval; zero means disabled.
func (c *Config) RefreshInterval() time.Duration {
	return time.Duration(c.RefreshIntervalSeconds) * time.Second
}

// RequestTimeout returns the HTTP client timeout.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// HasUsers returns true if at least one user is configured.
func (c *Config) HasUsers() bool {
	return len(c.Usernames()) > 0
}
