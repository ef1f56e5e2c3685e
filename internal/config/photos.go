package config

import (
	"errors"
	"fmt"
)

// Photo blob backends.
const (
	PhotoBackendFS  = "fs"
	PhotoBackendGCS = "gcs"
)

// ErrBucketRequired is returned when the gcs backend has no bucket.
var ErrBucketRequired = errors.New("AFTERMARKET_PHOTO_BUCKET is required when AFTERMARKET_PHOTO_BACKEND is 'gcs'")

// PhotoConfig configures where job photos are stored.
type PhotoConfig struct {
	Backend string `env:"AFTERMARKET_PHOTO_BACKEND"` // fs (default) or gcs
	Dir     string `env:"AFTERMARKET_PHOTO_DIR"`
	Bucket  string `env:"AFTERMARKET_PHOTO_BUCKET"`

	// MaxUploadBytes caps a single photo upload (zero = server default).
	MaxUploadBytes int64 `env:"AFTERMARKET_PHOTO_MAX_UPLOAD_BYTES"`
}

// BackendName returns the effective backend.
func (c *PhotoConfig) BackendName() string {
	if c.Backend == "" {
		return PhotoBackendFS
	}
	return c.Backend
}

// Validate validates the photo configuration.
func (c *PhotoConfig) Validate() error {
	switch c.BackendName() {
	case PhotoBackendFS:
		return nil
	case PhotoBackendGCS:
		if c.Bucket == "" {
			return ErrBucketRequired
		}
		return nil
	default:
		return fmt.Errorf("unknown photo backend %q", c.Backend)
	}
}
