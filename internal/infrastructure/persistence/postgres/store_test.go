package postgres_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rezkam/aftermarket/internal/application/jobs"
	"github.com/rezkam/aftermarket/internal/config"
	"github.com/rezkam/aftermarket/internal/infrastructure/persistence/compliance"
	"github.com/rezkam/aftermarket/internal/infrastructure/persistence/postgres"
)

func TestPostgresStore_Compliance(t *testing.T) {
	cfg, err := config.LoadTestConfig()
	require.NoError(t, err)
	if cfg.PostgresDSN == "" {
		t.Skip("AFTERMARKET_TEST_DB_DSN not set, skipping PostgreSQL tests")
	}

	ctx := context.Background()
	store, err := postgres.NewPostgresStore(ctx, cfg.PostgresDSN)
	require.NoError(t, err)
	defer store.Close()

	compliance.RunJobRepositoryComplianceTest(t, func() (jobs.Repository, func()) {
		_, err := store.Pool().Exec(ctx, "TRUNCATE TABLE jobs")
		require.NoError(t, err)
		return store, func() {}
	})
}
