package models

// MConfig Structure
type MConfig struct {
	Name        string         `yaml:"name"`
	Host        string         `yaml:"host"`
	Port        int            `yaml:"port"`
	LogLevel    string         `yaml:"log_level"`
	GrpcHost    string         `yaml:"grpc_host"`
	GrpcPort    int            `yaml:"grpc_port"`
	CORSOrigins []string       `yaml:"cors_origins"`
	Backend     MBackendConfig `yaml:"backend"`
	Storage     MStorageConfig `yaml:"storage"`
	Sync        MSyncConfig    `yaml:"sync"`
	Events      MEventsConfig  `yaml:"events"`
}

type MBackendConfig struct {
	BaseURL         string `yaml:"base_url"`
	APIKey          string `yaml:"api_key"`
	APIKeyHeader    string `yaml:"api_key_header"`
	RequestTimeout  int    `yaml:"timeout"`
	MaxRetries      int    `yaml:"retries"` // GET requests only
	CacheEnabled    *bool  `yaml:"cache_enabled,omitempty"` // nil means enabled
	CacheTTLSeconds int    `yaml:"cache_ttl_seconds"`
	CacheSize       int    `yaml:"cache_size"`
}

// CachingEnabled reports whether cow and member lookups may be cached.
func (b MBackendConfig) CachingEnabled() bool {
	return (b.CacheEnabled == nil || *b.CacheEnabled) && b.CacheTTLSeconds > 0
}

type MStorageConfig struct {
	DBType             string `yaml:"db_type"` // sqlite, postgres or none
	DBPath             string `yaml:"db_path"`
	DBConnectionString string `yaml:"db_connection_string"`
	RetentionDays      int    `yaml:"retention_days"`
}

type MSyncConfig struct {
	Enabled            bool   `yaml:"enabled"`
	IntervalSeconds    int    `yaml:"interval_seconds"`
	ConcurrentRequests int    `yaml:"concurrent_requests"` // per-day list fetches in flight
	Timezone           string `yaml:"timezone"`            // day boundary for daily stats, default Local
}

type MEventsConfig struct {
	Enabled  bool   `yaml:"enabled"`
	AMQPURL  string `yaml:"amqp_url"`
	Exchange string `yaml:"exchange"`
}
