// Package compliance holds the behavior every photo blob store must share.
package compliance

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezkam/aftermarket/internal/application/photos"
)

var createdAt = time.Date(2024, 1, 5, 15, 0, 0, 0, time.UTC)

// RunBlobStoreComplianceTest runs a standard set of tests against a BlobStore implementation.
// setup is a function that returns a fresh (clean) store for the test.
// cleanup is called after the test to clean up resources (if any).
func RunBlobStoreComplianceTest(t *testing.T, setup func() (photos.BlobStore, func())) {
	t.Run("PutAndOpen", func(t *testing.T) {
		store, teardown := setup()
		defer teardown()
		ctx := context.Background()

		payload := []byte("\xff\xd8\xff fake jpeg")
		info, err := store.Put(ctx, "jobs/a/photos/1.jpg", "image/jpeg", bytes.NewReader(payload), createdAt)
		require.NoError(t, err)
		assert.Equal(t, "jobs/a/photos/1.jpg", info.Key)
		assert.Equal(t, int64(len(payload)), info.Size)
		assert.Equal(t, "image/jpeg", info.ContentType)
		assert.True(t, info.CreatedAt.Equal(createdAt))

		r, opened, err := store.Open(ctx, "jobs/a/photos/1.jpg")
		require.NoError(t, err)
		defer r.Close()

		body, err := io.ReadAll(r)
		require.NoError(t, err)
		assert.Equal(t, payload, body)
		assert.Equal(t, info.Size, opened.Size)
		assert.Equal(t, "image/jpeg", opened.ContentType)
		assert.True(t, opened.CreatedAt.Equal(createdAt))
	})

	t.Run("PutIsWriteOnce", func(t *testing.T) {
		store, teardown := setup()
		defer teardown()
		ctx := context.Background()

		_, err := store.Put(ctx, "jobs/a/photos/1.jpg", "image/jpeg", bytes.NewReader([]byte("first")), createdAt)
		require.NoError(t, err)

		_, err = store.Put(ctx, "jobs/a/photos/1.jpg", "image/jpeg", bytes.NewReader([]byte("second")), createdAt)
		assert.ErrorIs(t, err, photos.ErrBlobExists)

		r, _, err := store.Open(ctx, "jobs/a/photos/1.jpg")
		require.NoError(t, err)
		defer r.Close()
		body, err := io.ReadAll(r)
		require.NoError(t, err)
		assert.Equal(t, "first", string(body))
	})

	t.Run("ListByPrefix", func(t *testing.T) {
		store, teardown := setup()
		defer teardown()
		ctx := context.Background()

		for _, key := range []string{"jobs/a/photos/2.png", "jobs/a/photos/1.jpg", "jobs/b/photos/1.jpg"} {
			_, err := store.Put(ctx, key, "image/jpeg", bytes.NewReader([]byte(key)), createdAt)
			require.NoError(t, err)
		}

		blobs, err := store.List(ctx, "jobs/a/photos/")
		require.NoError(t, err)
		require.Len(t, blobs, 2)
		assert.Equal(t, "jobs/a/photos/1.jpg", blobs[0].Key)
		assert.Equal(t, "jobs/a/photos/2.png", blobs[1].Key)

		single, err := store.List(ctx, "jobs/a/photos/2.")
		require.NoError(t, err)
		require.Len(t, single, 1)
		assert.Equal(t, "jobs/a/photos/2.png", single[0].Key)

		none, err := store.List(ctx, "jobs/c/photos/")
		require.NoError(t, err)
		assert.Empty(t, none)
	})

	t.Run("OpenMissing", func(t *testing.T) {
		store, teardown := setup()
		defer teardown()

		_, _, err := store.Open(context.Background(), "jobs/a/photos/missing.jpg")
		assert.ErrorIs(t, err, photos.ErrBlobNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		store, teardown := setup()
		defer teardown()
		ctx := context.Background()

		_, err := store.Put(ctx, "jobs/a/photos/1.jpg", "image/jpeg", bytes.NewReader([]byte("x")), createdAt)
		require.NoError(t, err)

		require.NoError(t, store.Delete(ctx, "jobs/a/photos/1.jpg"))

		_, _, err = store.Open(ctx, "jobs/a/photos/1.jpg")
		assert.ErrorIs(t, err, photos.ErrBlobNotFound)

		err = store.Delete(ctx, "jobs/a/photos/1.jpg")
		assert.ErrorIs(t, err, photos.ErrBlobNotFound)
	})
}
