// Package photos documents installed work with photos attached to a job.
package photos

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rezkam/aftermarket/internal/domain"
)

// DefaultMaxUploadBytes caps a single upload when no limit is configured.
const DefaultMaxUploadBytes int64 = 10 << 20

// extensions maps accepted media types to the key suffix they are stored under.
var extensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/heic": ".heic",
}

// JobFinder resolves the job a photo belongs to.
type JobFinder interface {
	FindJobByID(ctx context.Context, id string) (*domain.Job, error)
}

// Service stores and lists job photos.
type Service struct {
	blobs          BlobStore
	jobs           JobFinder
	maxUploadBytes int64
	clock          func() time.Time
}

// Option is a functional option for configuring Service.
type Option func(*Service)

// WithMaxUploadBytes caps a single upload. Non-positive values keep the default.
func WithMaxUploadBytes(n int64) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxUploadBytes = n
		}
	}
}

// WithClock replaces the wall clock.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		s.clock = clock
	}
}

// NewService creates a photo service.
func NewService(blobs BlobStore, jobs JobFinder, opts ...Option) *Service {
	s := &Service{
		blobs:          blobs,
		jobs:           jobs,
		maxUploadBytes: DefaultMaxUploadBytes,
		clock:          func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// MaxUploadBytes returns the upload cap.
func (s *Service) MaxUploadBytes() int64 { return s.maxUploadBytes }

// Upload stores a photo for jobID.
func (s *Service) Upload(ctx context.Context, jobID, contentType string, body io.Reader) (*domain.Photo, error) {
	mediaType, ext, err := acceptedType(contentType)
	if err != nil {
		return nil, err
	}
	if _, err := s.jobs.FindJobByID(ctx, jobID); err != nil {
		return nil, err
	}

	data, err := io.ReadAll(io.LimitReader(body, s.maxUploadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read photo: %w", err)
	}
	if len(data) == 0 {
		return nil, domain.ErrEmptyPhoto
	}
	if int64(len(data)) > s.maxUploadBytes {
		return nil, fmt.Errorf("%w: limit is %d bytes", domain.ErrPhotoTooLarge, s.maxUploadBytes)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate photo id: %w", err)
	}

	now := s.clock().UTC().Truncate(time.Millisecond)
	info, err := s.blobs.Put(ctx, photoKey(jobID, id.String(), ext), mediaType, bytes.NewReader(data), now)
	if err != nil {
		return nil, fmt.Errorf("failed to store photo: %w", err)
	}

	photo, ok := photoFromBlob(jobID, info)
	if !ok {
		return nil, fmt.Errorf("blob store returned unexpected key %q", info.Key)
	}
	slog.InfoContext(ctx, "photo uploaded",
		"job_id", jobID,
		"photo_id", photo.ID,
		"size", photo.Size)
	return photo, nil
}

// List returns the photos of jobID, oldest first.
func (s *Service) List(ctx context.Context, jobID string) ([]*domain.Photo, error) {
	if _, err := s.jobs.FindJobByID(ctx, jobID); err != nil {
		return nil, err
	}

	blobs, err := s.blobs.List(ctx, jobPrefix(jobID))
	if err != nil {
		return nil, fmt.Errorf("failed to list photos: %w", err)
	}

	photos := make([]*domain.Photo, 0, len(blobs))
	for _, info := range blobs {
		photo, ok := photoFromBlob(jobID, info)
		if !ok {
			slog.WarnContext(ctx, "skipping unrecognized blob", "key", info.Key)
			continue
		}
		photos = append(photos, photo)
	}

	sort.SliceStable(photos, func(i, j int) bool {
		if !photos[i].CreatedAt.Equal(photos[j].CreatedAt) {
			return photos[i].CreatedAt.Before(photos[j].CreatedAt)
		}
		return photos[i].ID < photos[j].ID
	})
	return photos, nil
}

// Open returns the photo body and metadata. The caller closes the reader.
func (s *Service) Open(ctx context.Context, jobID, photoID string) (io.ReadCloser, *domain.Photo, error) {
	if _, err := uuid.Parse(photoID); err != nil {
		return nil, nil, fmt.Errorf("%w: %w", domain.ErrInvalidID, err)
	}
	if _, err := s.jobs.FindJobByID(ctx, jobID); err != nil {
		return nil, nil, err
	}

	// The extension is not part of the photo ID, so resolve the key by prefix.
	matches, err := s.blobs.List(ctx, jobPrefix(jobID)+photoID+".")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to find photo: %w", err)
	}
	if len(matches) == 0 {
		return nil, nil, fmt.Errorf("%w: %s", domain.ErrPhotoNotFound, photoID)
	}

	body, info, err := s.blobs.Open(ctx, matches[0].Key)
	if err != nil {
		if errors.Is(err, ErrBlobNotFound) {
			return nil, nil, fmt.Errorf("%w: %s", domain.ErrPhotoNotFound, photoID)
		}
		return nil, nil, fmt.Errorf("failed to open photo: %w", err)
	}

	photo, ok := photoFromBlob(jobID, info)
	if !ok {
		_ = body.Close()
		return nil, nil, fmt.Errorf("%w: %s", domain.ErrPhotoNotFound, photoID)
	}
	return body, photo, nil
}

// acceptedType parses a Content-Type header and returns the media type and key suffix.
func acceptedType(contentType string) (string, string, error) {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return "", "", fmt.Errorf("%w: %q", domain.ErrUnsupportedContentType, contentType)
	}
	mediaType = strings.ToLower(mediaType)
	if mediaType == "image/jpg" {
		mediaType = "image/jpeg"
	}
	ext, ok := extensions[mediaType]
	if !ok {
		return "", "", fmt.Errorf("%w: %q", domain.ErrUnsupportedContentType, contentType)
	}
	return mediaType, ext, nil
}

func jobPrefix(jobID string) string {
	return "jobs/" + jobID + "/photos/"
}

func photoKey(jobID, photoID, ext string) string {
	return jobPrefix(jobID) + photoID + ext
}

// photoFromBlob recovers the photo from a key of the form jobs/<job>/photos/<id><ext>.
func photoFromBlob(jobID string, info BlobInfo) (*domain.Photo, bool) {
	name, ok := strings.CutPrefix(info.Key, jobPrefix(jobID))
	if !ok || strings.Contains(name, "/") {
		return nil, false
	}
	id := strings.TrimSuffix(name, path.Ext(name))
	if _, err := uuid.Parse(id); err != nil {
		return nil, false
	}
	return &domain.Photo{
		ID:          id,
		JobID:       jobID,
		ContentType: info.ContentType,
		Size:        info.Size,
		CreatedAt:   info.CreatedAt,
	}, true
}
