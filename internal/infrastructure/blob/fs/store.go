package fs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rezkam/aftermarket/internal/application/photos"
)

// metaSuffix marks the JSON sidecar holding a blob's metadata.
const metaSuffix = ".meta.json"

// Compile-time verification that Store implements photos.BlobStore.
var _ photos.BlobStore = (*Store)(nil)

// Store is a filesystem-based implementation of photos.BlobStore.
// Each blob is a file plus a JSON sidecar carrying its metadata.
type Store struct {
	baseDir string
	mu      sync.RWMutex
}

type meta struct {
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewStore creates a new filesystem store.
func NewStore(baseDir string) (*Store, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}
	return &Store{baseDir: baseDir}, nil
}

// getFilePath maps a slash-separated key below baseDir.
func (s *Store) getFilePath(key string) (string, error) {
	if key == "" || path.IsAbs(key) || path.Clean(key) != key || strings.HasPrefix(key, "../") || key == ".." {
		return "", fmt.Errorf("invalid blob key %q", key)
	}
	return filepath.Join(s.baseDir, filepath.FromSlash(key)), nil
}

// Put writes body under key, failing if key already exists.
func (s *Store) Put(ctx context.Context, key, contentType string, body io.Reader, createdAt time.Time) (photos.BlobInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.getFilePath(key)
	if err != nil {
		return photos.BlobInfo{}, err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		return photos.BlobInfo{}, fmt.Errorf("failed to create directory: %w", err)
	}

	f, err := os.OpenFile(p, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return photos.BlobInfo{}, fmt.Errorf("%w: %s", photos.ErrBlobExists, key)
		}
		return photos.BlobInfo{}, fmt.Errorf("failed to create file: %w", err)
	}

	size, err := io.Copy(f, body)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(p)
		return photos.BlobInfo{}, fmt.Errorf("failed to write file: %w", err)
	}

	m := meta{ContentType: contentType, Size: size, CreatedAt: createdAt.UTC()}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		_ = os.Remove(p)
		return photos.BlobInfo{}, fmt.Errorf("failed to marshal metadata: %w", err)
	}
	if err := os.WriteFile(p+metaSuffix, data, 0644); err != nil {
		_ = os.Remove(p)
		return photos.BlobInfo{}, fmt.Errorf("failed to write metadata: %w", err)
	}

	return m.info(key), nil
}

// Open returns a reader for key.
func (s *Store) Open(ctx context.Context, key string) (io.ReadCloser, photos.BlobInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, err := s.getFilePath(key)
	if err != nil {
		return nil, photos.BlobInfo{}, err
	}

	m, err := readMeta(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, photos.BlobInfo{}, fmt.Errorf("%w: %s", photos.ErrBlobNotFound, key)
		}
		return nil, photos.BlobInfo{}, err
	}

	f, err := os.Open(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, photos.BlobInfo{}, fmt.Errorf("%w: %s", photos.ErrBlobNotFound, key)
		}
		return nil, photos.BlobInfo{}, fmt.Errorf("failed to open file: %w", err)
	}
	return f, m.info(key), nil
}

// List scans the prefix's directory and loads sidecars in parallel.
func (s *Store) List(ctx context.Context, prefix string) ([]photos.BlobInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// Only the directory containing the prefix can hold matches; keys are
	// never nested below a photo.
	dirKey := path.Dir(prefix + "x")
	dir := s.baseDir
	if dirKey != "." {
		p, err := s.getFilePath(dirKey)
		if err != nil {
			return nil, err
		}
		dir = p
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	var mu sync.Mutex
	var blobs []photos.BlobInfo
	var wg sync.WaitGroup

	// Limit concurrency to avoid "too many open files" on large directories.
	const maxConcurrency = 20
	semaphore := make(chan struct{}, maxConcurrency)

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasSuffix(name, metaSuffix) {
			continue
		}
		key := name
		if dirKey != "." {
			key = dirKey + "/" + name
		}
		if !strings.HasPrefix(key, prefix) {
			continue
		}

		wg.Add(1)
		semaphore <- struct{}{} // Acquire token

		go func(key, p string) {
			defer wg.Done()
			defer func() { <-semaphore }() // Release token

			// A blob without a readable sidecar is mid-write or damaged; skip it.
			m, err := readMeta(p)
			if err != nil {
				return
			}
			mu.Lock()
			blobs = append(blobs, m.info(key))
			mu.Unlock()
		}(key, filepath.Join(dir, name))
	}

	wg.Wait()
	sort.Slice(blobs, func(i, j int) bool { return blobs[i].Key < blobs[j].Key })
	return blobs, nil
}

// Delete removes key and its sidecar.
func (s *Store) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.getFilePath(key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", photos.ErrBlobNotFound, key)
		}
		return fmt.Errorf("failed to remove file: %w", err)
	}
	if err := os.Remove(p + metaSuffix); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove metadata: %w", err)
	}
	return nil
}

func readMeta(p string) (meta, error) {
	data, err := os.ReadFile(p + metaSuffix)
	if err != nil {
		return meta{}, err
	}
	var m meta
	if err := json.Unmarshal(data, &m); err != nil {
		return meta{}, fmt.Errorf("failed to unmarshal metadata: %w", err)
	}
	return m, nil
}

func (m meta) info(key string) photos.BlobInfo {
	return photos.BlobInfo{
		Key:         key,
		ContentType: m.ContentType,
		Size:        m.Size,
		CreatedAt:   m.CreatedAt.UTC(),
	}
}
