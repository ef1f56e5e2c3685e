package jobs

import (
	"context"

	"github.com/rezkam/aftermarket/internal/domain"
)

// Repository defines storage operations for job management.
// All create/update operations return the entity as persisted, including version.
type Repository interface {
	// CreateJob persists a new job.
	// Returns the created job with version populated by persistence layer.
	CreateJob(ctx context.Context, job *domain.Job) (*domain.Job, error)

	// FindJobByID retrieves a job by its ID.
	// Returns domain.ErrJobNotFound if the job doesn't exist.
	FindJobByID(ctx context.Context, id string) (*domain.Job, error)

	// ListJobs retrieves jobs with filtering and pagination, ordered by
	// schedule anchor (scheduled start, else promised date) with unscheduled jobs last.
	ListJobs(ctx context.Context, params domain.ListJobsParams) (*domain.PagedJobs, error)

	// UpdateJobStatus writes a new status and completion time.
	// Returns the updated job with new version.
	// Returns domain.ErrJobNotFound if the job doesn't exist.
	// Returns domain.ErrVersionConflict if etag is provided and doesn't match current version.
	// Returns domain.ErrStatusChanged if ExpectedStatus is provided and doesn't match.
	UpdateJobStatus(ctx context.Context, params domain.UpdateJobStatusParams) (*domain.Job, error)

	// FindJobsByStatus returns up to limit jobs whose normalized status is one
	// of statuses, earliest scheduled start first.
	FindJobsByStatus(ctx context.Context, statuses []domain.JobStatus, limit int) ([]*domain.Job, error)
}
