package domain

import (
	"fmt"
	"time"
)

// Job is an aftermarket product installation for a vehicle.
//
// Schedule fields hold ISO text exactly as the data layer renders it. The text
// form matters: a midnight UTC value is how storage represents a job booked
// for a day without a time, and that distinction is lost once parsed.
type Job struct {
	ID          string
	JobNumber   string
	Title       string
	Description *string

	VehicleID *string
	VendorID  *string

	Status JobStatus

	ScheduledStartTime *string // ISO 8601, date-only when booked without a time
	ScheduledEndTime   *string
	PromisedDate       *string // YYYY-MM-DD

	CompletedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Optimistic locking version for concurrent update protection
	Version int
}

// Etag returns the entity tag for this job.
// The etag is based on the version number and is used for optimistic concurrency control.
func (j *Job) Etag() string {
	return fmt.Sprintf("%d", j.Version)
}

// Photo documents installed work for a job. The binary lives in blob storage.
type Photo struct {
	ID          string
	JobID       string
	ContentType string
	Size        int64
	CreatedAt   time.Time
}
