package config

import (
	"fmt"
	"time"

	"github.com/rezkam/aftermarket/internal/env"
)

// ServerConfig holds all configuration for the server binary.
type ServerConfig struct {
	Storage         StorageConfig
	HTTP            HTTPConfig
	Jobs            JobsConfig
	Schedule        ScheduleConfig
	Photos          PhotoConfig
	Observability   ObservabilityConfig
	ShutdownTimeout time.Duration `env:"AFTERMARKET_SHUTDOWN_TIMEOUT"`
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Host              string        `env:"AFTERMARKET_HTTP_HOST"`
	Port              string        `env:"AFTERMARKET_HTTP_PORT"`
	ReadTimeout       time.Duration `env:"AFTERMARKET_HTTP_READ_TIMEOUT"`
	WriteTimeout      time.Duration `env:"AFTERMARKET_HTTP_WRITE_TIMEOUT"`
	IdleTimeout       time.Duration `env:"AFTERMARKET_HTTP_IDLE_TIMEOUT"`
	ReadHeaderTimeout time.Duration `env:"AFTERMARKET_HTTP_READ_HEADER_TIMEOUT"`
	MaxHeaderBytes    int           `env:"AFTERMARKET_HTTP_MAX_HEADER_BYTES"`
	MaxBodyBytes      int64         `env:"AFTERMARKET_HTTP_MAX_BODY_BYTES"`

	// TLS configuration for HTTPS
	TLSEnabled  bool   `env:"AFTERMARKET_TLS_ENABLED"`
	TLSCertFile string `env:"AFTERMARKET_TLS_CERT_FILE"`
	TLSKeyFile  string `env:"AFTERMARKET_TLS_KEY_FILE"`
}

// JobsConfig holds job service configuration.
type JobsConfig struct {
	DefaultPageSize int `env:"AFTERMARKET_DEFAULT_PAGE_SIZE"`
	MaxPageSize     int `env:"AFTERMARKET_MAX_PAGE_SIZE"`
}

// Validate validates pagination limits when both are set.
func (c *JobsConfig) Validate() error {
	if c.DefaultPageSize > 0 && c.MaxPageSize > 0 && c.MaxPageSize < c.DefaultPageSize {
		return fmt.Errorf("AFTERMARKET_MAX_PAGE_SIZE (%d) must be >= AFTERMARKET_DEFAULT_PAGE_SIZE (%d)", c.MaxPageSize, c.DefaultPageSize)
	}
	return nil
}

// ObservabilityConfig holds observability configuration.
type ObservabilityConfig struct {
	OTelEnabled bool   `env:"AFTERMARKET_OTEL_ENABLED"`
	ServiceName string `env:"OTEL_SERVICE_NAME"`
}

// LoadServerConfig loads and validates server configuration from environment.
func LoadServerConfig() (*ServerConfig, error) {
	cfg := &ServerConfig{}

	if err := env.Load(cfg); err != nil {
		return nil, fmt.Errorf("failed to load server config: %w", err)
	}

	return cfg, nil
}
