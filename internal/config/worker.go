package config

import (
	"fmt"
	"time"

	"github.com/rezkam/aftermarket/internal/env"
)

// WorkerConfig holds all configuration for the status automation binary.
type WorkerConfig struct {
	Storage         StorageConfig
	Schedule        ScheduleConfig
	Automation      AutomationConfig
	Observability   ObservabilityConfig
	ShutdownTimeout time.Duration `env:"AFTERMARKET_SHUTDOWN_TIMEOUT"`
}

// AutomationConfig tunes the effective-status sweep (zero = sweeper defaults).
type AutomationConfig struct {
	Interval         time.Duration `env:"AFTERMARKET_SWEEP_INTERVAL"`
	OperationTimeout time.Duration `env:"AFTERMARKET_SWEEP_OPERATION_TIMEOUT"`
	BatchSize        int           `env:"AFTERMARKET_SWEEP_BATCH_SIZE"`

	// PromotionsPerSecond paces status writes so a backlog does not flood the database.
	PromotionsPerSecond float64 `env:"AFTERMARKET_SWEEP_PROMOTIONS_PER_SECOND"`
}

// LoadWorkerConfig loads and validates worker configuration from environment.
func LoadWorkerConfig() (*WorkerConfig, error) {
	cfg := &WorkerConfig{}

	if err := env.Load(cfg); err != nil {
		return nil, fmt.Errorf("failed to load worker config: %w", err)
	}

	return cfg, nil
}
