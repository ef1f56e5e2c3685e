package persistence_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezkam/aftermarket/internal/config"
	"github.com/rezkam/aftermarket/internal/infrastructure/persistence"
)

func TestOpen_SQLite(t *testing.T) {
	store, err := persistence.Open(context.Background(), config.StorageConfig{
		Type:       config.StorageSQLite,
		SQLitePath: ":memory:",
	})
	require.NoError(t, err)
	assert.NoError(t, store.Close())
}

func TestOpen_InvalidConfig(t *testing.T) {
	_, err := persistence.Open(context.Background(), config.StorageConfig{})
	assert.ErrorIs(t, err, config.ErrDSNRequired)

	_, err = persistence.Open(context.Background(), config.StorageConfig{Type: "mongo"})
	assert.ErrorIs(t, err, config.ErrUnknownStorage)
}
