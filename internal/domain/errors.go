package domain

import "errors"

// Domain errors returned by repositories and services.

var (
	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = errors.New("resource not found")

	// ErrJobNotFound indicates the specified job does not exist.
	ErrJobNotFound = errors.New("job not found")

	// ErrPhotoNotFound indicates the specified job photo does not exist.
	ErrPhotoNotFound = errors.New("photo not found")

	// ErrInvalidID indicates the provided ID format is invalid.
	ErrInvalidID = errors.New("invalid ID format")

	// ErrVersionConflict indicates the etag no longer matches the stored version.
	ErrVersionConflict = errors.New("version conflict")

	// ErrDuplicateJobNumber indicates another job already uses the job number.
	ErrDuplicateJobNumber = errors.New("job number already exists")

	// ErrStatusChanged indicates a compare-and-set status write lost to a concurrent update.
	ErrStatusChanged = errors.New("job status changed concurrently")
)

// Validation errors.

var (
	ErrTitleRequired           = errors.New("title is required")
	ErrTitleTooLong            = errors.New("title must be 255 characters or less")
	ErrInvalidJobStatus        = errors.New("invalid job status")
	ErrInvalidScheduleTime     = errors.New("invalid schedule time")
	ErrInvalidPromisedDate     = errors.New("invalid promised date")
	ErrScheduleEndBeforeStart  = errors.New("scheduled end must not be before scheduled start")
	ErrInvalidStatusTransition = errors.New("invalid status transition")
	ErrInvalidDateRange        = errors.New("invalid date range")
	ErrInvalidPageToken        = errors.New("invalid page token")
	ErrUnsupportedContentType  = errors.New("unsupported content type")
	ErrEmptyPhoto              = errors.New("photo body is empty")
	ErrPhotoTooLarge           = errors.New("photo exceeds maximum upload size")
)
