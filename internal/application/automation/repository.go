package automation

import (
	"context"

	"github.com/rezkam/aftermarket/internal/domain"
)

// Repository is the storage surface the sweeper needs.
type Repository interface {
	// FindJobsByStatus returns up to limit jobs whose normalized status is one
	// of statuses, earliest scheduled start first.
	FindJobsByStatus(ctx context.Context, statuses []domain.JobStatus, limit int) ([]*domain.Job, error)

	// UpdateJobStatus writes a status change.
	// Returns domain.ErrStatusChanged when ExpectedStatus no longer matches.
	UpdateJobStatus(ctx context.Context, params domain.UpdateJobStatusParams) (*domain.Job, error)
}
