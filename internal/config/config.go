// Package config provides centralized configuration management for the application.
// It loads configuration from environment variables with sensible defaults and
// validates all settings on startup to fail fast on misconfiguration.
package config

import (
	"net"
	"strconv"
	"time"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Server   ServerConfig
	Upload   UploadConfig
	Submit   SubmitConfig
	Session  SessionConfig
	Rate     RateLimitConfig
	Security SecurityConfig
	Logging  LoggingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" envAlt:"PORT" default:"8080"`

	// ReadTimeout is the maximum duration for reading the request, body included (default: 15s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`

	// WriteTimeout must outlast a waited-on submission (default: 60s)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"60s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the middleware timeout for requests (default: 45s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"45s"`
}

// UploadConfig holds file validation settings. The 2MB policy file limit is
// fixed and not configurable; MaxRequestSize only caps the multipart body.
type UploadConfig struct {
	// MaxRequestSize caps the whole multipart request (default: 16MiB)
	MaxRequestSize ByteSize `env:"UPLOAD_MAX_REQUEST_SIZE" default:"16MiB"`

	// MaxConcurrent is the maximum number of parallel validations (default: 8)
	MaxConcurrent int `env:"UPLOAD_MAX_CONCURRENT" default:"8"`

	// MaxWaitTime is how long to wait for a validation slot (default: 10s)
	MaxWaitTime time.Duration `env:"UPLOAD_MAX_WAIT_TIME" default:"10s"`

	// Timeout is the maximum duration of a single validation (default: 30s)
	Timeout time.Duration `env:"UPLOAD_TIMEOUT" default:"30s"`

	// LegacyCharset selects the deprecated first-line character check (default: false)
	LegacyCharset bool `env:"UPLOAD_LEGACY_CHARSET" default:"false"`
}

// SubmitConfig holds batch submission settings.
type SubmitConfig struct {
	// URL is the endpoint receiving accepted batches; empty disables submission
	URL string `env:"SUBMIT_URL" envAlt:"SUBMISSION_ENDPOINT"`

	// Token is an optional bearer token sent with each batch
	Token string `env:"SUBMIT_TOKEN"`

	// HTTPTimeout bounds one HTTP exchange with the endpoint (default: 15s)
	HTTPTimeout time.Duration `env:"SUBMIT_HTTP_TIMEOUT" default:"15s"`

	// Timeout bounds the whole submission (default: 30s)
	Timeout time.Duration `env:"SUBMIT_TIMEOUT" default:"30s"`

	// MinDuration is the shortest time a submission shows as in progress (default: 2s)
	MinDuration time.Duration `env:"SUBMIT_MIN_DURATION" default:"2s"`
}

// Enabled reports whether an endpoint is configured.
func (c *SubmitConfig) Enabled() bool {
	return c.URL != ""
}

// SessionConfig holds session store settings.
type SessionConfig struct {
	// IdleTTL is how long an untouched session is kept (default: 30m)
	IdleTTL time.Duration `env:"SESSION_IDLE_TTL" default:"30m"`

	// SweepInterval is how often idle sessions are removed (default: 1m)
	SweepInterval time.Duration `env:"SESSION_SWEEP_INTERVAL" default:"1m"`
}

// RateLimitConfig holds rate limiting settings per time window.
type RateLimitConfig struct {
	// Enabled controls whether rate limiting is active (default: true)
	Enabled bool `env:"RATE_LIMIT_ENABLED" default:"true"`

	// RequestsPerMinute is the default rate limit per IP (default: 100)
	RequestsPerMinute int `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"100"`

	// UploadLimit is requests per minute for file and submit endpoints (default: 20)
	UploadLimit int `env:"RATE_LIMIT_UPLOAD" default:"20"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// TrustedProxies is a comma-separated list of trusted proxy CIDRs
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	// EnableCSP enables Content-Security-Policy headers (default: true)
	EnableCSP bool `env:"SECURITY_ENABLE_CSP" default:"true"`

	// RequireAPIKey enables API key authentication on /api routes (default: false)
	RequireAPIKey bool `env:"REQUIRE_API_KEY" default:"false"`

	// APIKeys is a comma-separated list of accepted keys
	APIKeys []string `env:"API_KEYS"`
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
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
