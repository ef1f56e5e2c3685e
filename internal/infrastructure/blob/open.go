// Package blob selects the photo blob store backend from configuration.
package blob

import (
	"context"
	"fmt"

	"github.com/rezkam/aftermarket/internal/application/photos"
	"github.com/rezkam/aftermarket/internal/config"
	"github.com/rezkam/aftermarket/internal/infrastructure/blob/fs"
	"github.com/rezkam/aftermarket/internal/infrastructure/blob/gcs"
)

// DefaultDir is where the fs backend keeps photos when no directory is set.
const DefaultDir = "data/photos"

// Store is a photo blob backend that holds resources until closed.
type Store interface {
	photos.BlobStore
	Close() error
}

// Open constructs the backend named by cfg.
func Open(ctx context.Context, cfg config.PhotoConfig) (Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch cfg.BackendName() {
	case config.PhotoBackendGCS:
		store, err := gcs.NewStore(ctx, cfg.Bucket)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		dir := cfg.Dir
		if dir == "" {
			dir = DefaultDir
		}
		store, err := fs.NewStore(dir)
		if err != nil {
			return nil, fmt.Errorf("failed to open photo directory %s: %w", dir, err)
		}
		return nopCloser{store}, nil
	}
}

type nopCloser struct {
	*fs.Store
}

func (nopCloser) Close() error { return nil }
