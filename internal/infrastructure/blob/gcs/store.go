package gcs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/rezkam/aftermarket/internal/application/photos"
)

// createdAtKey is the object metadata key holding the upload time.
// Object creation time is set by GCS and can lag the service clock.
const createdAtKey = "created-at"

// Compile-time verification that Store implements photos.BlobStore.
var _ photos.BlobStore = (*Store)(nil)

// Store is a GCS-based implementation of photos.BlobStore.
type Store struct {
	client *storage.Client
	bucket string
}

// NewStore creates a new GCS store.
// Without options the client uses Application Default Credentials.
func NewStore(ctx context.Context, bucketName string, opts ...option.ClientOption) (*Store, error) {
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client: %w", err)
	}
	return NewStoreWithClient(client, bucketName), nil
}

// NewStoreWithClient wraps an existing client.
func NewStoreWithClient(client *storage.Client, bucketName string) *Store {
	return &Store{
		client: client,
		bucket: bucketName,
	}
}

// Close closes the underlying client.
func (s *Store) Close() error {
	return s.client.Close()
}

// Put uploads body under key. A DoesNotExist precondition makes keys write-once.
func (s *Store) Put(ctx context.Context, key, contentType string, body io.Reader, createdAt time.Time) (photos.BlobInfo, error) {
	obj := s.client.Bucket(s.bucket).Object(key).If(storage.Conditions{DoesNotExist: true})

	w := obj.NewWriter(ctx)
	w.ContentType = contentType
	w.Metadata = map[string]string{createdAtKey: createdAt.UTC().Format(time.RFC3339Nano)}

	if _, err := io.Copy(w, body); err != nil {
		w.Close()
		return photos.BlobInfo{}, fmt.Errorf("failed to write object: %w", err)
	}
	if err := w.Close(); err != nil {
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) && apiErr.Code == http.StatusPreconditionFailed {
			return photos.BlobInfo{}, fmt.Errorf("%w: %s", photos.ErrBlobExists, key)
		}
		return photos.BlobInfo{}, fmt.Errorf("failed to write object: %w", err)
	}

	return blobInfo(w.Attrs()), nil
}

// Open returns a reader for key.
func (s *Store) Open(ctx context.Context, key string) (io.ReadCloser, photos.BlobInfo, error) {
	obj := s.client.Bucket(s.bucket).Object(key)

	attrs, err := obj.Attrs(ctx)
	if err != nil {
		// Use errors.Is to handle wrapped errors from GCS client
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, photos.BlobInfo{}, fmt.Errorf("%w: %s", photos.ErrBlobNotFound, key)
		}
		return nil, photos.BlobInfo{}, fmt.Errorf("failed to read object attributes: %w", err)
	}

	// Pin the generation so the body matches the attributes just read.
	r, err := obj.Generation(attrs.Generation).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, photos.BlobInfo{}, fmt.Errorf("%w: %s", photos.ErrBlobNotFound, key)
		}
		return nil, photos.BlobInfo{}, fmt.Errorf("failed to read object: %w", err)
	}
	return r, blobInfo(attrs), nil
}

// List returns the objects under prefix. GCS lists in lexicographic key order.
func (s *Store) List(ctx context.Context, prefix string) ([]photos.BlobInfo, error) {
	it := s.client.Bucket(s.bucket).Objects(ctx, &storage.Query{Prefix: prefix})

	var blobs []photos.BlobInfo
	for {
		attrs, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list objects: %w", err)
		}
		blobs = append(blobs, blobInfo(attrs))
	}
	return blobs, nil
}

// Delete removes key.
func (s *Store) Delete(ctx context.Context, key string) error {
	err := s.client.Bucket(s.bucket).Object(key).Delete(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return fmt.Errorf("%w: %s", photos.ErrBlobNotFound, key)
		}
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

func blobInfo(attrs *storage.ObjectAttrs) photos.BlobInfo {
	if attrs == nil {
		return photos.BlobInfo{}
	}
	created := attrs.Created.UTC()
	if raw, ok := attrs.Metadata[createdAtKey]; ok {
		if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
			created = t.UTC()
		}
	}
	return photos.BlobInfo{
		Key:         attrs.Name,
		ContentType: attrs.ContentType,
		Size:        attrs.Size,
		CreatedAt:   created,
	}
}
