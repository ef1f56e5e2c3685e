package config

import (
	"fmt"

	"github.com/rezkam/aftermarket/internal/env"
)

// TestConfig holds configuration for integration tests against external services.
type TestConfig struct {
	PostgresDSN string `env:"AFTERMARKET_TEST_DB_DSN"`
	GCSBucket   string `env:"AFTERMARKET_TEST_GCS_BUCKET"`
}

// LoadTestConfig loads test configuration from environment. Empty fields mean
// the corresponding integration suite should skip.
func LoadTestConfig() (*TestConfig, error) {
	cfg := &TestConfig{}

	if err := env.Load(cfg); err != nil {
		return nil, fmt.Errorf("failed to load test config: %w", err)
	}

	return cfg, nil
}
