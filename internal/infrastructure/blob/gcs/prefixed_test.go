package gcs

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/rezkam/aftermarket/internal/application/photos"
)

// prefixedStore confines a test run to one key root of a shared bucket.
type prefixedStore struct {
	*Store
	root string
}

func (p *prefixedStore) Put(ctx context.Context, key, contentType string, body io.Reader, createdAt time.Time) (photos.BlobInfo, error) {
	info, err := p.Store.Put(ctx, p.root+key, contentType, body, createdAt)
	info.Key = strings.TrimPrefix(info.Key, p.root)
	return info, err
}

func (p *prefixedStore) Open(ctx context.Context, key string) (io.ReadCloser, photos.BlobInfo, error) {
	r, info, err := p.Store.Open(ctx, p.root+key)
	info.Key = strings.TrimPrefix(info.Key, p.root)
	return r, info, err
}

func (p *prefixedStore) List(ctx context.Context, prefix string) ([]photos.BlobInfo, error) {
	blobs, err := p.Store.List(ctx, p.root+prefix)
	for i := range blobs {
		blobs[i].Key = strings.TrimPrefix(blobs[i].Key, p.root)
	}
	return blobs, err
}

func (p *prefixedStore) Delete(ctx context.Context, key string) error {
	return p.Store.Delete(ctx, p.root+key)
}
