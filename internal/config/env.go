package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Environment variables understood by the CLI. A .env file in the working
// directory is loaded first (existing process env wins over file values,
// which is godotenv's default).
//
//	LEARNLOOP_API_URL     backend base URL
//	LEARNLOOP_TIMEOUT     per-request timeout, Go duration string ("10s")
//	LEARNLOOP_DB          path to the local sqlite database
//	LEARNLOOP_PAGE_SIZE   posts per feed page
func parseEnv(cfg *Config) {
	_ = godotenv.Load()

	if v := os.Getenv("LEARNLOOP_API_URL"); v != "" {
		cfg.APIBaseURL = v
	}
	if v := os.Getenv("LEARNLOOP_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.RequestTimeout = d
		}
	}
	if v := os.Getenv("LEARNLOOP_DB"); v != "" {
		cfg.DatabasePath = v
	}
	if v := os.Getenv("LEARNLOOP_PAGE_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.PageSize = n
		}
	}
}
