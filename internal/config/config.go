package config

import "time"

// Config represents the complete application configuration. Values are
// layered: built-in defaults, then the user config file, then
// environment variables and flags (via viper).
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Store   StoreConfig   `mapstructure:"store"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Pricing PricingConfig `mapstructure:"pricing"`
	Logging LoggingConfig `mapstructure:"logging"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Health  HealthConfig  `mapstructure:"health"`
	Debug   DebugConfig   `mapstructure:"debug"`
	Workers int           `mapstructure:"workers"`

	// RateLimits overrides the per-endpoint admission quota. Keys are
	// endpoint hostnames; unlisted endpoints use DefaultRateLimits.
	RateLimits map[string]RateLimitConfig `mapstructure:"rate_limits"`

	// RateLimitBuffer pads computed admission waits so callers waking at
	// a window boundary do not re-trigger immediately.
	RateLimitBuffer time.Duration `mapstructure:"rate_limit_buffer"`

	// Retry governs re-attempts of failed calls to every external
	// endpoint.
	Retry RetryConfig `mapstructure:"retry"`
}

// RateLimitConfig bounds calls to one endpoint: at most Capacity calls
// in any trailing Window.
type RateLimitConfig struct {
	Capacity int           `mapstructure:"capacity"`
	Window   time.Duration `mapstructure:"window"`
}

// RetryConfig bounds retries of transient failures. MaxAttempts counts
// tries beyond the first.
type RetryConfig struct {
	MaxAttempts   int           `mapstructure:"max_attempts"`
	InitialDelay  time.Duration `mapstructure:"initial_delay"`
	BackoffFactor float64       `mapstructure:"backoff_factor"`
}

// DefaultRateLimits provides conservative per-endpoint defaults.
var DefaultRateLimits = map[string]RateLimitConfig{
	"rdap.verisign.com": {Capacity: 30, Window: time.Minute},
	"rdap.nic.google":   {Capacity: 30, Window: time.Minute},
	"rdap.nic.io":       {Capacity: 10, Window: 10 * time.Second},
	"api.github.com":    {Capacity: 60, Window: time.Hour},
	"pricing":           {Capacity: 60, Window: time.Minute},
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// StoreConfig contains database configuration for libsql/Turso.
type StoreConfig struct {
	Driver    string `mapstructure:"driver"`
	Path      string `mapstructure:"path"`
	URL       string `mapstructure:"url"`
	AuthToken string `mapstructure:"auth_token"`
}

// CacheConfig contains source-result cache TTL configuration.
type CacheConfig struct {
	AvailableTTL time.Duration `mapstructure:"available_ttl"`
	TakenTTL     time.Duration `mapstructure:"taken_ttl"`
	ErrorTTL     time.Duration `mapstructure:"error_ttl"`
}

// PricingConfig contains registrar pricing source configuration.
type PricingConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level controls the minimum log level.
	// Valid values: trace, debug, info, warn, error
	Level string `mapstructure:"level"`

	// Profile selects the logging complexity level.
	// Valid values: SIMPLE, STRUCTURED
	Profile string `mapstructure:"profile"`
}

// MetricsConfig contains Prometheus metrics configuration.
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Port    int  `mapstructure:"port"`
}

// HealthConfig contains health check configuration.
type HealthConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// DebugConfig contains debug and profiling configuration.
type DebugConfig struct {
	Enabled      bool `mapstructure:"enabled"`
	PprofEnabled bool `mapstructure:"pprof_enabled"`
}
