package config

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"milk-admin/src/models"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables that override secrets and endpoints from the YAML file.
const (
	EnvAPIKey  = "MILK_API_KEY"
	EnvBaseURL = "MILK_BASE_URL"
	EnvAMQPURL = "MILK_AMQP_URL"
)

// Defaults applied before validation.
const (
	DefaultRequestTimeout  = 30
	DefaultCacheTTLSeconds = 60
	DefaultCacheSize       = 256
	DefaultSyncInterval    = 60
	DefaultSyncConcurrency = 4
	DefaultRetentionDays   = 90
	DefaultAPIKeyHeader    = "X-API-Key"
	DefaultExchange        = "milk.events"
)

// -----------------------------------------------------------------------------

// Config wraps models.MConfig and provides business logic methods
type Config struct {
	*models.MConfig
}

// -----------------------------------------------------------------------------

// NewConfig creates a new MConfig instance from YAML file
func NewConfig(configPath string) (*Config, error) {
	// 1. Read the YAML file content
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", configPath, err)
	}

	// 2. Unmarshal data into the models struct
	var modelConfig models.MConfig
	if err := yaml.Unmarshal(data, &modelConfig); err != nil {
		return nil, fmt.Errorf("failed to parse config from YAML: %w", err)
	}

	config := &Config{MConfig: &modelConfig}

	// 3. Secrets from .env / environment, then defaults
	config.ApplyEnv()
	config.ApplyDefaults()

	// 4. Validate the loaded configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

// -----------------------------------------------------------------------------

// ApplyEnv loads a .env file if one exists and lets environment variables override the file.
func (c *Config) ApplyEnv() {
	// Missing .env is normal in production.
	_ = godotenv.Load()

	if v := os.Getenv(EnvAPIKey); v != "" {
		c.Backend.APIKey = v
	}
	if v := os.Getenv(EnvBaseURL); v != "" {
		c.Backend.BaseURL = v
	}
	if v := os.Getenv(EnvAMQPURL); v != "" {
		c.Events.AMQPURL = v
	}
}

// -----------------------------------------------------------------------------

// ApplyDefaults fills optional fields left empty in the YAML file.
func (c *Config) ApplyDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = "INFO"
	}
	if c.Backend.RequestTimeout == 0 {
		c.Backend.RequestTimeout = DefaultRequestTimeout
	}
	if c.Backend.APIKeyHeader == "" {
		c.Backend.APIKeyHeader = DefaultAPIKeyHeader
	}
	if c.Backend.CacheEnabled == nil {
		enabled := true
		c.Backend.CacheEnabled = &enabled
	}
	if *c.Backend.CacheEnabled && c.Backend.CacheTTLSeconds == 0 {
		c.Backend.CacheTTLSeconds = DefaultCacheTTLSeconds
	}
	if c.Backend.CacheSize == 0 {
		c.Backend.CacheSize = DefaultCacheSize
	}
	if c.Storage.DBType == "" {
		c.Storage.DBType = "sqlite"
	}
	if c.Storage.RetentionDays == 0 {
		c.Storage.RetentionDays = DefaultRetentionDays
	}
	if c.Sync.IntervalSeconds == 0 {
		c.Sync.IntervalSeconds = DefaultSyncInterval
	}
	if c.Sync.ConcurrentRequests == 0 {
		c.Sync.ConcurrentRequests = DefaultSyncConcurrency
	}
	if c.Events.Exchange == "" {
		c.Events.Exchange = DefaultExchange
	}
}

// -----------------------------------------------------------------------------

// Validate performs basic configuration validation
func (c *Config) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("application name cannot be empty")
	}

	// Validate Server configuration (Flattened)
	if c.Host == "" {
		return fmt.Errorf("server host cannot be empty")
	}
	if c.Port <= 1024 || c.Port > 65535 {
		return fmt.Errorf("invalid server port number: %d (must be between 1025 and 65535)", c.Port)
	}
	if c.GrpcPort != 0 && (c.GrpcPort <= 1024 || c.GrpcPort > 65535) {
		return fmt.Errorf("invalid grpc port number: %d (must be between 1025 and 65535)", c.GrpcPort)
	}

	// Validate Backend configuration
	if c.Backend.BaseURL == "" {
		return fmt.Errorf("backend base_url cannot be empty")
	}
	if u, err := url.Parse(c.Backend.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("backend base_url '%s' is not an absolute URL", c.Backend.BaseURL)
	}
	if c.Backend.APIKey == "" {
		return fmt.Errorf("backend api_key cannot be empty (set it in YAML or %s)", EnvAPIKey)
	}
	if c.Backend.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be greater than 0")
	}
	if c.Backend.MaxRetries < 0 {
		return fmt.Errorf("max retries cannot be negative")
	}
	if c.Backend.CacheTTLSeconds < 0 {
		return fmt.Errorf("cache ttl cannot be negative")
	}

	// Validate Storage configuration
	switch c.Storage.DBType {
	case "sqlite":
		if c.Storage.DBPath == "" {
			return fmt.Errorf("database path cannot be empty for sqlite")
		}
	case "postgres":
		if c.Storage.DBConnectionString == "" {
			return fmt.Errorf("database connection string cannot be empty for postgres")
		}
	case "none":
	default:
		return fmt.Errorf("unsupported database type: %s", c.Storage.DBType)
	}

	// Validate Sync configuration
	if c.Sync.IntervalSeconds <= 0 {
		return fmt.Errorf("sync interval must be greater than 0")
	}
	if c.Sync.ConcurrentRequests < 0 {
		return fmt.Errorf("sync concurrent_requests cannot be negative")
	}
	if c.Sync.Timezone != "" {
		if _, err := time.LoadLocation(c.Sync.Timezone); err != nil {
			return fmt.Errorf("invalid sync timezone '%s': %w", c.Sync.Timezone, err)
		}
	}

	// Validate Events configuration
	if c.Events.Enabled && c.Events.AMQPURL == "" {
		return fmt.Errorf("events are enabled but amqp_url is empty")
	}

	return nil
}

// -----------------------------------------------------------------------------

// Save persists the current configuration to the specified YAML file path
func (c *Config) Save(configPath string) error {
	// 1. Marshal the struct to YAML
	data, err := yaml.Marshal(c.MConfig)
	if err != nil {
		return fmt.Errorf("failed to marshal config to YAML: %w", err)
	}

	// 2. Write to file (0600, the file may hold the API key)
	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config to file '%s': %w", configPath, err)
	}

	return nil
}
