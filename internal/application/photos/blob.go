package photos

import (
	"context"
	"errors"
	"io"
	"time"
)

var (
	// ErrBlobNotFound is returned by a BlobStore for a missing key.
	ErrBlobNotFound = errors.New("blob not found")

	// ErrBlobExists is returned by Put when the key is already taken.
	ErrBlobExists = errors.New("blob already exists")
)

// BlobInfo describes a stored object.
type BlobInfo struct {
	Key         string
	ContentType string
	Size        int64
	CreatedAt   time.Time
}

// BlobStore holds photo binaries under slash-separated keys.
type BlobStore interface {
	// Put stores body under key. Keys are write-once.
	Put(ctx context.Context, key, contentType string, body io.Reader, createdAt time.Time) (BlobInfo, error)

	// Open returns a reader for key. The caller closes it.
	Open(ctx context.Context, key string) (io.ReadCloser, BlobInfo, error)

	// List returns every blob whose key starts with prefix, ordered by key.
	List(ctx context.Context, prefix string) ([]BlobInfo, error)

	// Delete removes key.
	Delete(ctx context.Context, key string) error
}
