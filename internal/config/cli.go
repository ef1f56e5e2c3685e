package config

import (
	"fmt"

	"github.com/rezkam/aftermarket/internal/env"
)

// CLIConfig holds configuration for the jobctl command.
type CLIConfig struct {
	Storage  StorageConfig
	Schedule ScheduleConfig
}

// LoadCLIConfig loads and validates jobctl configuration from environment.
func LoadCLIConfig() (*CLIConfig, error) {
	cfg := &CLIConfig{}

	if err := env.Load(cfg); err != nil {
		return nil, fmt.Errorf("failed to load cli config: %w", err)
	}

	return cfg, nil
}
