// Package config provides configuration management for the ArchiveLens TUI.
package config

import (
	"os"
	"time"
)

// Config holds the TUI configuration.
type Config struct {
	// Server configuration
	ServerURL string
	APIKey    string

	// Refresh intervals
	ProgressRefresh time.Duration

	// Request handling
	RequestTimeout time.Duration
}

// Load returns configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		ServerURL:       getEnv("ARCHIVELENS_SERVER_URL", "http://localhost:9283"),
		APIKey:          getEnv("ARCHIVELENS_API_KEY", ""),
		ProgressRefresh: getDuration("ARCHIVELENS_PROGRESS_REFRESH", 2*time.Second),
		RequestTimeout:  getDuration("ARCHIVELENS_REQUEST_TIMEOUT", 5*time.Minute),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}
