package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const validYAML = `
name: milk-admin
host: 127.0.0.1
port: 8090
backend:
  base_url: https://dairy.example.com/api
  api_key: file-key
storage:
  db_type: sqlite
  db_path: ./data/milk.db
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0600); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func TestNewConfig_AppliesDefaults(t *testing.T) {
	t.Setenv(EnvAPIKey, "")
	cfg, err := NewConfig(writeConfig(t, validYAML))
	if err != nil {
		t.Fatalf("Expected valid config, got %v", err)
	}

	if cfg.Backend.RequestTimeout != DefaultRequestTimeout {
		t.Errorf("Expected default timeout %d, got %d", DefaultRequestTimeout, cfg.Backend.RequestTimeout)
	}
	if cfg.Backend.APIKeyHeader != DefaultAPIKeyHeader {
		t.Errorf("Expected header %s, got %s", DefaultAPIKeyHeader, cfg.Backend.APIKeyHeader)
	}
	if cfg.Sync.IntervalSeconds != DefaultSyncInterval {
		t.Errorf("Expected sync interval %d, got %d", DefaultSyncInterval, cfg.Sync.IntervalSeconds)
	}
	if cfg.Backend.APIKey != "file-key" {
		t.Errorf("Expected api key from file, got %s", cfg.Backend.APIKey)
	}
}

func TestNewConfig_LookupCacheToggle(t *testing.T) {
	t.Setenv(EnvAPIKey, "")

	testCases := []struct {
		name        string
		backend     string
		wantEnabled bool
		wantTTL     int
	}{
		{"default", "", true, DefaultCacheTTLSeconds},
		{"explicit ttl", "  cache_ttl_seconds: 5\n", true, 5},
		{"disabled", "  cache_enabled: false\n", false, 0},
		{"disabled keeps ttl", "  cache_enabled: false\n  cache_ttl_seconds: 30\n", false, 30},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			body := strings.Replace(validYAML, "  api_key: file-key\n", "  api_key: file-key\n"+tc.backend, 1)
			cfg, err := NewConfig(writeConfig(t, body))
			if err != nil {
				t.Fatalf("Expected valid config, got %v", err)
			}
			if got := cfg.Backend.CachingEnabled(); got != tc.wantEnabled {
				t.Errorf("Expected caching enabled=%v, got %v", tc.wantEnabled, got)
			}
			if cfg.Backend.CacheTTLSeconds != tc.wantTTL {
				t.Errorf("Expected ttl %d, got %d", tc.wantTTL, cfg.Backend.CacheTTLSeconds)
			}
		})
	}
}

func TestNewConfig_EnvOverridesAPIKey(t *testing.T) {
	t.Setenv(EnvAPIKey, "env-key")
	cfg, err := NewConfig(writeConfig(t, validYAML))
	if err != nil {
		t.Fatalf("Expected valid config, got %v", err)
	}
	if cfg.Backend.APIKey != "env-key" {
		t.Errorf("Expected env-key, got %s", cfg.Backend.APIKey)
	}
}

func TestNewConfig_ValidationErrors(t *testing.T) {
	t.Setenv(EnvAPIKey, "")
	t.Setenv(EnvBaseURL, "")

	testCases := []struct {
		name        string
		replace     [2]string
		expectError string
	}{
		{"bad port", [2]string{"port: 8090", "port: 80"}, "invalid server port number"},
		{"relative base url", [2]string{"https://dairy.example.com/api", "/api"}, "not an absolute URL"},
		{"missing api key", [2]string{"api_key: file-key", "api_key: \"\""}, "api_key cannot be empty"},
		{"unknown db", [2]string{"db_type: sqlite", "db_type: mongo"}, "unsupported database type"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			body := strings.Replace(validYAML, tc.replace[0], tc.replace[1], 1)
			_, err := NewConfig(writeConfig(t, body))
			if err == nil {
				t.Fatalf("Expected error for %s, but got none", tc.name)
			}
			if !strings.Contains(err.Error(), tc.expectError) {
				t.Errorf("Expected error containing '%s', got '%s'", tc.expectError, err.Error())
			}
		})
	}
}

func TestConfig_SaveRoundTrip(t *testing.T) {
	t.Setenv(EnvAPIKey, "")
	cfg, err := NewConfig(writeConfig(t, validYAML))
	if err != nil {
		t.Fatalf("Expected valid config, got %v", err)
	}

	cfg.Sync.IntervalSeconds = 15
	path := filepath.Join(t.TempDir(), "saved.yaml")
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Failed to save config: %v", err)
	}

	reloaded, err := NewConfig(path)
	if err != nil {
		t.Fatalf("Failed to reload config: %v", err)
	}
	if reloaded.Sync.IntervalSeconds != 15 {
		t.Errorf("Expected interval 15 after reload, got %d", reloaded.Sync.IntervalSeconds)
	}
}
