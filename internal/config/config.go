// Package config provides centralized configuration management for hireboard.
// Settings come from environment variables (optionally seeded from a .env file),
// fall back to defaults, and are validated on startup so misconfiguration fails
// fast instead of surfacing mid-import.
package config

import (
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Backend  BackendConfig
	Import   ImportConfig
	List     ListConfig
	Rate     RateLimitConfig
	Security SecurityConfig
	Logging  LoggingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" default:"8080"`

	// ReadTimeout is the maximum duration for reading request body (default: 15s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`

	// WriteTimeout is the maximum duration for writing response (default: 0 for SSE)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"0s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout bounds graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the middleware timeout for non-streaming requests (default: 60s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"60s"`
}

// DatabaseConfig holds settings for the import history database.
type DatabaseConfig struct {
	// URL is the PostgreSQL connection string (required).
	URL string `env:"DATABASE_URL" envAlt:"DB_URL" required:"true"`

	MaxConns        int           `env:"DB_MAX_CONNS" default:"10"`
	MinConns        int           `env:"DB_MIN_CONNS" default:"2"`
	MaxConnLifetime time.Duration `env:"DB_MAX_CONN_LIFETIME" default:"1h"`
	MaxConnIdleTime time.Duration `env:"DB_MAX_CONN_IDLE_TIME" default:"30m"`
}

// BackendConfig points at the recruitment REST backend.
type BackendConfig struct {
	// BaseURL is the backend root, e.g. https://api.example.com/api (required).
	BaseURL string `env:"BACKEND_BASE_URL" envAlt:"API_BASE" required:"true"`

	// Timeout is the per-request transport timeout (default: 20s)
	Timeout time.Duration `env:"BACKEND_TIMEOUT" default:"20s"`

	// RetryCount is how many times idempotent GETs are retried (default: 2)
	RetryCount int `env:"BACKEND_RETRY_COUNT" default:"2"`
}

// ImportConfig holds bulk candidate import settings.
type ImportConfig struct {
	// MaxFileSize is the maximum accepted CSV size in bytes (default: 5MB)
	MaxFileSize int64 `env:"IMPORT_MAX_FILE_SIZE" default:"5242880"`

	// MaxConcurrent is the number of imports allowed to run at once (default: 3)
	MaxConcurrent int `env:"IMPORT_MAX_CONCURRENT" default:"3"`

	// MaxWaitTime is how long a new import waits for a slot (default: 10s)
	MaxWaitTime time.Duration `env:"IMPORT_MAX_WAIT_TIME" default:"10s"`

	// SubmitDelay is the pause between consecutive row submissions (default: 150ms)
	SubmitDelay time.Duration `env:"IMPORT_SUBMIT_DELAY" default:"150ms"`

	// Concurrency is the number of rows in flight per import (default: 1, sequential)
	Concurrency int `env:"IMPORT_CONCURRENCY" default:"1"`

	// Timeout bounds a whole import run (default: 10m)
	Timeout time.Duration `env:"IMPORT_TIMEOUT" default:"10m"`

	// ResultRetention is how long finished imports stay queryable in memory (default: 5m)
	ResultRetention time.Duration `env:"IMPORT_RESULT_RETENTION" default:"5m"`

	// HistoryRetention is how long import history is kept in the database (default: 90 days)
	HistoryRetention time.Duration `env:"IMPORT_HISTORY_RETENTION" default:"2160h"`

	// PruneInterval is how often old history is deleted (default: 24h)
	PruneInterval time.Duration `env:"IMPORT_PRUNE_INTERVAL" default:"24h"`
}

// ListConfig holds list-view pagination defaults.
type ListConfig struct {
	// DefaultPageSize is used when a request does not name one (default: 10)
	DefaultPageSize int `env:"LIST_DEFAULT_PAGE_SIZE" default:"10"`

	// PageSizes are the selectable page sizes; "all" is always accepted.
	PageSizes []string `env:"LIST_PAGE_SIZES" default:"10,25,50,100"`
}

// RateLimitConfig holds per-IP rate limiting settings.
type RateLimitConfig struct {
	Enabled           bool `env:"RATE_LIMIT_ENABLED" default:"true"`
	RequestsPerMinute int  `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"120"`
}

// SecurityConfig holds proxy trust and session settings.
type SecurityConfig struct {
	// TrustedProxies is a comma-separated list of trusted proxy CIDRs
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	// SessionTTL caps how long a login session lives when the token carries no expiry (default: 8h)
	SessionTTL time.Duration `env:"SESSION_TTL" default:"8h"`

	// SecureCookies sets the Secure flag on the session cookie (default: true)
	SecureCookies bool `env:"SESSION_SECURE_COOKIES" default:"true"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}
