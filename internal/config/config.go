// Package config loads application configuration from environment variables.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	APIBaseURL  string
	ListenAddr  string
	DBPath      string
	HTTPTimeout time.Duration
	Debug       bool
}

// Load reads configuration from environment variables and returns a validated Config.
// CLASSPORTAL_API_BASE_URL is required and must be an absolute http(s) URL pointing
// at the education backend. Optional variables with defaults:
// CLASSPORTAL_LISTEN_ADDR (127.0.0.1:8080), CLASSPORTAL_DB_PATH (classportal.db),
// CLASSPORTAL_HTTP_TIMEOUT (10s), CLASSPORTAL_DEBUG (false; enables
// request/response logging on the backend transport).
func Load() (*Config, error) {
	baseURL := os.Getenv("CLASSPORTAL_API_BASE_URL")
	if baseURL == "" {
		return nil, fmt.Errorf("CLASSPORTAL_API_BASE_URL is required")
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("CLASSPORTAL_API_BASE_URL has invalid URL %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("CLASSPORTAL_API_BASE_URL must be an http(s) URL, got %q", baseURL)
	}

	listenAddr := "127.0.0.1:8080"
	if v, ok := os.LookupEnv("CLASSPORTAL_LISTEN_ADDR"); ok {
		listenAddr = v
	}

	dbPath := "classportal.db"
	if v, ok := os.LookupEnv("CLASSPORTAL_DB_PATH"); ok {
		dbPath = v
	}

	httpTimeout := 10 * time.Second
	if v, ok := os.LookupEnv("CLASSPORTAL_HTTP_TIMEOUT"); ok {
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("CLASSPORTAL_HTTP_TIMEOUT has invalid duration %q: %w", v, err)
		}
		httpTimeout = parsed
	}

	debug := false
	if v, ok := os.LookupEnv("CLASSPORTAL_DEBUG"); ok && v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("CLASSPORTAL_DEBUG has invalid bool %q: %w", v, err)
		}
		debug = parsed
	}

	return &Config{
		APIBaseURL:  baseURL,
		ListenAddr:  listenAddr,
		DBPath:      dbPath,
		HTTPTimeout: httpTimeout,
		Debug:       debug,
	}, nil
}
