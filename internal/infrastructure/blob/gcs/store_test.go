package gcs

import (
	"context"
	"errors"
	"testing"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/iterator"

	"github.com/rezkam/aftermarket/internal/application/photos"
	"github.com/rezkam/aftermarket/internal/config"
	"github.com/rezkam/aftermarket/internal/infrastructure/blob/compliance"
)

func TestGCSStore_Compliance(t *testing.T) {
	cfg, err := config.LoadTestConfig()
	require.NoError(t, err)
	if cfg.GCSBucket == "" {
		t.Skip("AFTERMARKET_TEST_GCS_BUCKET not set, skipping GCS tests")
	}

	compliance.RunBlobStoreComplianceTest(t, func() (photos.BlobStore, func()) {
		// Note: This assumes Application Default Credentials are set up
		// and point to a valid project with access to the bucket.
		ctx := context.Background()

		store, err := NewStore(ctx, cfg.GCSBucket)
		require.NoError(t, err)

		// Every run writes below its own root so parallel runs never collide.
		root := "compliance-" + uuid.NewString() + "/"
		scoped := &prefixedStore{Store: store, root: root}

		cleanup := func() {
			cleanupCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			defer store.Close()

			it := store.client.Bucket(cfg.GCSBucket).Objects(cleanupCtx, &storage.Query{Prefix: root})
			for {
				attrs, err := it.Next()
				if errors.Is(err, iterator.Done) {
					break
				}
				if err != nil {
					t.Logf("Warning: failed to list objects during cleanup: %v", err)
					break
				}
				if err := store.client.Bucket(cfg.GCSBucket).Object(attrs.Name).Delete(cleanupCtx); err != nil {
					t.Logf("Warning: failed to delete object %s: %v", attrs.Name, err)
				}
			}
		}

		return scoped, cleanup
	})
}

func TestBlobInfo_PrefersUploadMetadata(t *testing.T) {
	uploaded := time.Date(2024, 1, 5, 15, 0, 0, 0, time.UTC)
	info := blobInfo(&storage.ObjectAttrs{
		Name:        "jobs/a/photos/1.jpg",
		ContentType: "image/jpeg",
		Size:        42,
		Created:     uploaded.Add(3 * time.Second),
		Metadata:    map[string]string{createdAtKey: uploaded.Format(time.RFC3339Nano)},
	})
	assert.Equal(t, "jobs/a/photos/1.jpg", info.Key)
	assert.Equal(t, int64(42), info.Size)
	assert.True(t, info.CreatedAt.Equal(uploaded))

	fallback := blobInfo(&storage.ObjectAttrs{Name: "k", Created: uploaded})
	assert.True(t, fallback.CreatedAt.Equal(uploaded))
}
