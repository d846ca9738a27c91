package config

import (
	"os"
	"path/filepath"
	"testing"
)

func validConfig() *Config {
	return &Config{
		Archive: ArchiveConfig{
			BaseURL: "https://example.supabase.co/rest/v1",
			APIKey:  "test-archive-key",
		},
	}
}

func TestConfig_Validate_Success(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Errorf("Validate() should pass, got %v", err)
	}
}

func TestConfig_Validate_MissingArchiveBaseURL(t *testing.T) {
	cfg := validConfig()
	cfg.Archive.BaseURL = ""

	if err := cfg.Validate(); err == nil {
		t.Error("Validate() should fail for missing ARCHIVE_BASE_URL")
	}
}

func TestConfig_Validate_MissingArchiveKey(t *testing.T) {
	cfg := validConfig()
	cfg.Archive.APIKey = ""

	if err := cfg.Validate(); err == nil {
		t.Error("Validate() should fail for missing ARCHIVE_API_KEY")
	}
}

func TestConfig_Validate_CacheEnabledWithoutPath(t *testing.T) {
	cfg := validConfig()
	cfg.Cache.Enabled = true
	cfg.Cache.Path = ""

	if err := cfg.Validate(); err == nil {
		t.Error("Validate() should fail when the cache is enabled without a path")
	}
}

func TestServerConfig_Address(t *testing.T) {
	tests := []struct {
		name string
		cfg  ServerConfig
		want string
	}{
		{
			name: "default",
			cfg:  ServerConfig{Host: "0.0.0.0", Port: 9283},
			want: "0.0.0.0:9283",
		},
		{
			name: "localhost",
			cfg:  ServerConfig{Host: "localhost", Port: 8080},
			want: "localhost:8080",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.Address(); got != tt.want {
				t.Errorf("Address() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLoad_FromYAMLFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	t.Setenv("SERVER_HOST", "localhost")
	t.Setenv("SERVER_PORT", "8080")

	yamlContent := `
archive:
  base_url: "https://example.supabase.co/rest/v1"
  api_key: "yaml-archive-key"
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Host != "localhost" {
		t.Errorf("Host = %q, want %q", cfg.Server.Host, "localhost")
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Port = %d, want %d", cfg.Server.Port, 8080)
	}
	if cfg.Archive.APIKey != "yaml-archive-key" {
		t.Errorf("Archive.APIKey = %q, want %q", cfg.Archive.APIKey, "yaml-archive-key")
	}
}

func TestLoad_EnvOverridesYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
archive:
  base_url: "https://yaml.supabase.co/rest/v1"
  api_key: "yaml-archive-key"
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	t.Setenv("ARCHIVE_API_KEY", "env-archive-key")
	t.Setenv("CACHE_ENABLED", "true")
	t.Setenv("CACHE_PATH", "/env/cache.db")

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	// Env should override YAML
	if cfg.Archive.APIKey != "env-archive-key" {
		t.Errorf("Archive.APIKey should be from env, got %q", cfg.Archive.APIKey)
	}
	if !cfg.Cache.Enabled || cfg.Cache.Path != "/env/cache.db" {
		t.Errorf("cache config should be from env, got %+v", cfg.Cache)
	}
}

func TestLoad_EnvOnly(t *testing.T) {
	t.Setenv("ARCHIVE_BASE_URL", "https://env.supabase.co/rest/v1")
	t.Setenv("ARCHIVE_API_KEY", "env-archive-key")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Archive.APIKey != "env-archive-key" {
		t.Errorf("Archive.APIKey = %q, want %q", cfg.Archive.APIKey, "env-archive-key")
	}
	if cfg.Analysis.TopPostsLimit != 25 {
		t.Errorf("TopPostsLimit default = %d, want 25", cfg.Analysis.TopPostsLimit)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	invalidYAML := `
server:
  host: "localhost
  port: 8080
`
	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	if _, err := Load(configPath); err == nil {
		t.Error("Load should fail for invalid YAML")
	}
}

func TestLoad_NonexistentFile(t *testing.T) {
	if _, err := Load("/nonexistent/config.yaml"); err == nil {
		t.Error("Load should fail for nonexistent file")
	}
}

func TestLoad_ValidationFailure(t *testing.T) {
	t.Setenv("ARCHIVE_BASE_URL", "")
	t.Setenv("ARCHIVE_API_KEY", "")

	if _, err := Load(""); err == nil {
		t.Error("Load should fail validation without required values")
	}
}
