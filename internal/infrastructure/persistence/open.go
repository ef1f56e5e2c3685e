// Package persistence selects the job repository backend from configuration.
package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/rezkam/aftermarket/internal/application/automation"
	"github.com/rezkam/aftermarket/internal/application/jobs"
	"github.com/rezkam/aftermarket/internal/config"
	"github.com/rezkam/aftermarket/internal/infrastructure/persistence/postgres"
	"github.com/rezkam/aftermarket/internal/infrastructure/persistence/sqlite"
)

// Store is a job repository backend.
type Store interface {
	jobs.Repository
	automation.Repository
	Close() error
}

// Open connects to the backend named by cfg.
func Open(ctx context.Context, cfg config.StorageConfig) (Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch cfg.Backend() {
	case config.StorageSQLite:
		store, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return store, nil
	case config.StoragePostgres:
		store, err := postgres.NewStoreWithConfig(ctx, postgres.DBConfig{
			DSN:             cfg.Database.DSN,
			MaxOpenConns:    cfg.Database.MaxOpenConns,
			MaxIdleConns:    cfg.Database.MaxIdleConns,
			ConnMaxLifetime: time.Duration(cfg.Database.ConnMaxLifetime) * time.Second,
			ConnMaxIdleTime: time.Duration(cfg.Database.ConnMaxIdleTime) * time.Second,
			AutoMigrate:     cfg.Database.AutoMigrate,
		})
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownStorage, cfg.Type)
	}
}
