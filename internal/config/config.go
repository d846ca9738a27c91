package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Archive  ArchiveConfig  `yaml:"archive"`
	Cache    CacheConfig    `yaml:"cache"`
	Analysis AnalysisConfig `yaml:"analysis"`
	Session  SessionConfig  `yaml:"session"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host         string        `yaml:"host" envconfig:"SERVER_HOST" default:"0.0.0.0"`
	Port         int           `yaml:"port" envconfig:"SERVER_PORT" default:"9283"`
	APIKey       string        `yaml:"api_key" envconfig:"API_KEY"`
	ReadTimeout  time.Duration `yaml:"read_timeout" envconfig:"SERVER_READ_TIMEOUT" default:"30s"`
	WriteTimeout time.Duration `yaml:"write_timeout" envconfig:"SERVER_WRITE_TIMEOUT" default:"5m"`
}

// ArchiveConfig holds Community Archive API configuration.
type ArchiveConfig struct {
	BaseURL           string        `yaml:"base_url" envconfig:"ARCHIVE_BASE_URL"`
	APIKey            string        `yaml:"api_key" envconfig:"ARCHIVE_API_KEY"`
	Timeout           time.Duration `yaml:"timeout" envconfig:"ARCHIVE_TIMEOUT" default:"30s"`
	RequestsPerSecond float64       `yaml:"requests_per_second" envconfig:"ARCHIVE_RPS" default:"10"`
	RetryAttempts     int           `yaml:"retry_attempts" envconfig:"ARCHIVE_RETRY_ATTEMPTS" default:"3"`
	RetryDelay        time.Duration `yaml:"retry_delay" envconfig:"ARCHIVE_RETRY_DELAY" default:"500ms"`
	MaxRetryDelay     time.Duration `yaml:"max_retry_delay" envconfig:"ARCHIVE_MAX_RETRY_DELAY" default:"10s"`
}

// CacheConfig holds the optional on-disk post cache configuration.
type CacheConfig struct {
	Enabled bool          `yaml:"enabled" envconfig:"CACHE_ENABLED" default:"false"`
	Path    string        `yaml:"path" envconfig:"CACHE_PATH" default:"archivelens.db"`
	TTL     time.Duration `yaml:"ttl" envconfig:"CACHE_TTL" default:"24h"`
}

// AnalysisConfig holds report sizing configuration.
type AnalysisConfig struct {
	TopPostsLimit int `yaml:"top_posts_limit" envconfig:"ANALYSIS_TOP_POSTS_LIMIT" default:"25"`
	RatioLimit    int `yaml:"ratio_limit" envconfig:"ANALYSIS_RATIO_LIMIT" default:"20"`
}

// SessionConfig holds session lifecycle configuration.
type SessionConfig struct {
	MaxIdle       time.Duration `yaml:"max_idle" envconfig:"SESSION_MAX_IDLE" default:"30m"`
	SweepInterval time.Duration `yaml:"sweep_interval" envconfig:"SESSION_SWEEP_INTERVAL" default:"5m"`
}

// Load reads configuration from file and environment variables.
// Environment variables override file values.
func Load(configPath string) (*Config, error) {
	cfg := &Config{}

	// Load from YAML file if provided
	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	// Override with environment variables
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("process environment: %w", err)
	}

	// Validate
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// Validate checks that required configuration values are set.
func (c *Config) Validate() error {
	if c.Archive.BaseURL == "" {
		return fmt.Errorf("ARCHIVE_BASE_URL is required")
	}
	if c.Archive.APIKey == "" {
		return fmt.Errorf("ARCHIVE_API_KEY is required")
	}
	if c.Cache.Enabled && c.Cache.Path == "" {
		return fmt.Errorf("CACHE_PATH is required when the cache is enabled")
	}
	return nil
}

// Address returns the server address in host:port format.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
