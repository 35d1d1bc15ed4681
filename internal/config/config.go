// Package config holds runtime settings for the LearnLoop CLI, assembled
// from defaults, environment (including a .env file), and command-line flags.
package config

import "time"

// Config holds runtime settings for the LearnLoop CLI.
//
// Fields:
//   - APIBaseURL: base URL of the backend, without the /api suffix.
//   - RequestTimeout: per-request HTTP timeout.
//   - DatabasePath: sqlite file that keeps persisted client state.
//   - VoteCacheTTL: freshness window for memoized vote-status lookups.
//   - PrefetchLimit: max concurrent vote-status lookups per feed page.
//   - PageSize: posts per feed page.
type Config struct {
	APIBaseURL     string
	RequestTimeout time.Duration
	DatabasePath   string
	VoteCacheTTL   time.Duration
	PrefetchLimit  int
	PageSize       int
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://127.0.0.1:8000"
	c.RequestTimeout = 10 * time.Second
	c.DatabasePath = "learnloop.db"
	c.VoteCacheTTL = 60 * time.Second
	c.PrefetchLimit = 8
	c.PageSize = 10
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// the environment (if present) and command-line flags (if present). Later
// sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
