package domain

import "time"

// ListJobsParams contains parameters for listing jobs with filtering and pagination.
//
// Common use cases:
//   - "Today's board": AnchorFrom/AnchorTo spanning the local day
//   - "Vendor queue": VendorID=X, Statuses=[scheduled, booked]
type ListJobsParams struct {
	// Optional filters (nil/empty = no filter applied)
	Statuses []JobStatus // Matched against the normalized stored status
	VendorID *string

	// Anchor window over COALESCE(scheduled start, promised date), both inclusive.
	AnchorFrom *time.Time
	AnchorTo   *time.Time

	// Pagination
	Limit  int
	Offset int
}

// PagedJobs contains jobs matching the query parameters.
type PagedJobs struct {
	Jobs       []*Job
	TotalCount int
	HasMore    bool
}

// UpdateJobStatusParams describes a status write.
type UpdateJobStatusParams struct {
	JobID  string
	Status JobStatus

	// CompletedAt replaces the stored completion time, nil clears it.
	CompletedAt *time.Time
	UpdatedAt   time.Time

	// Etag enables optimistic locking when set (ErrVersionConflict on mismatch).
	Etag *string

	// ExpectedStatus makes the write a compare-and-set against the current
	// normalized status (ErrStatusChanged on mismatch).
	ExpectedStatus *JobStatus
}
