// Package compliance holds the behavior every job repository must share,
// run against each backend from its own tests.
package compliance

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezkam/aftermarket/internal/application/jobs"
	"github.com/rezkam/aftermarket/internal/domain"
	"github.com/rezkam/aftermarket/internal/ptr"
)

var baseTime = time.Date(2024, 1, 2, 15, 0, 0, 0, time.UTC)

// RunJobRepositoryComplianceTest runs a standard set of tests against a Repository implementation.
// setup returns a fresh (empty) repository and a teardown func.
func RunJobRepositoryComplianceTest(t *testing.T, setup func() (jobs.Repository, func())) {
	t.Run("CreateAndFindJob", func(t *testing.T) {
		repo, teardown := setup()
		defer teardown()
		ctx := context.Background()

		job := newJob(1)
		job.Description = ptr.To("Ceramic coat, full body")
		job.VehicleID = ptr.To("VIN123")
		job.VendorID = ptr.To("vendor-a")
		job.ScheduledStartTime = ptr.To("2024-01-05T14:00:00.000Z")
		job.ScheduledEndTime = ptr.To("2024-01-05T16:30:00.000Z")
		job.PromisedDate = ptr.To("2024-01-06")

		created, err := repo.CreateJob(ctx, job)
		require.NoError(t, err)
		assert.Equal(t, 1, created.Version)

		fetched, err := repo.FindJobByID(ctx, job.ID)
		require.NoError(t, err)
		assert.Equal(t, job.ID, fetched.ID)
		assert.Equal(t, job.JobNumber, fetched.JobNumber)
		assert.Equal(t, "Ceramic coat, full body", *fetched.Description)
		assert.Equal(t, "VIN123", *fetched.VehicleID)
		assert.Equal(t, "vendor-a", *fetched.VendorID)
		assert.Equal(t, domain.JobStatusScheduled, fetched.Status)
		assert.Equal(t, "2024-01-05T14:00:00.000Z", *fetched.ScheduledStartTime)
		assert.Equal(t, "2024-01-05T16:30:00.000Z", *fetched.ScheduledEndTime)
		assert.Equal(t, "2024-01-06", *fetched.PromisedDate)
		assert.Nil(t, fetched.CompletedAt)
		assert.True(t, fetched.CreatedAt.Equal(job.CreatedAt))
		assert.Equal(t, "1", fetched.Etag())
	})

	t.Run("DateOnlyScheduleReadsBackAsMidnightUTC", func(t *testing.T) {
		repo, teardown := setup()
		defer teardown()
		ctx := context.Background()

		job := newJob(1)
		job.ScheduledStartTime = ptr.To("2024-01-05T00:00:00.000Z")
		_, err := repo.CreateJob(ctx, job)
		require.NoError(t, err)

		fetched, err := repo.FindJobByID(ctx, job.ID)
		require.NoError(t, err)
		assert.Equal(t, "2024-01-05T00:00:00.000Z", *fetched.ScheduledStartTime)
		assert.Nil(t, fetched.ScheduledEndTime)
		assert.Nil(t, fetched.PromisedDate)
	})

	t.Run("OffsetScheduleIsStoredInUTC", func(t *testing.T) {
		repo, teardown := setup()
		defer teardown()
		ctx := context.Background()

		job := newJob(1)
		job.ScheduledStartTime = ptr.To("2024-01-05T09:00:00-05:00")
		_, err := repo.CreateJob(ctx, job)
		require.NoError(t, err)

		fetched, err := repo.FindJobByID(ctx, job.ID)
		require.NoError(t, err)
		assert.Equal(t, "2024-01-05T14:00:00.000Z", *fetched.ScheduledStartTime)
	})

	t.Run("StatusIsStoredVerbatim", func(t *testing.T) {
		repo, teardown := setup()
		defer teardown()
		ctx := context.Background()

		job := newJob(1)
		job.Status = " Booked "
		_, err := repo.CreateJob(ctx, job)
		require.NoError(t, err)

		fetched, err := repo.FindJobByID(ctx, job.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.JobStatus(" Booked "), fetched.Status)
	})

	t.Run("DuplicateJobNumber", func(t *testing.T) {
		repo, teardown := setup()
		defer teardown()
		ctx := context.Background()

		_, err := repo.CreateJob(ctx, newJob(1))
		require.NoError(t, err)

		_, err = repo.CreateJob(ctx, newJob(1))
		assert.ErrorIs(t, err, domain.ErrDuplicateJobNumber)
	})

	t.Run("FindMissingJob", func(t *testing.T) {
		repo, teardown := setup()
		defer teardown()
		ctx := context.Background()

		_, err := repo.FindJobByID(ctx, uuid.NewString())
		assert.ErrorIs(t, err, domain.ErrJobNotFound)

		_, err = repo.FindJobByID(ctx, "non-existent-id")
		assert.ErrorIs(t, err, domain.ErrInvalidID)
	})

	t.Run("ListJobsOrdersByAnchor", func(t *testing.T) {
		repo, teardown := setup()
		defer teardown()
		ctx := context.Background()

		unscheduled := newJob(1)
		unscheduled.Status = domain.JobStatusPending
		unscheduled.ScheduledStartTime = nil

		promisedOnly := newJob(2)
		promisedOnly.ScheduledStartTime = nil
		promisedOnly.PromisedDate = ptr.To("2024-01-04")

		late := newJob(3)
		late.ScheduledStartTime = ptr.To("2024-01-05T18:00:00.000Z")

		early := newJob(4)
		early.ScheduledStartTime = ptr.To("2024-01-05T00:00:00.000Z")

		for _, job := range []*domain.Job{unscheduled, promisedOnly, late, early} {
			_, err := repo.CreateJob(ctx, job)
			require.NoError(t, err)
		}

		page, err := repo.ListJobs(ctx, domain.ListJobsParams{Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, 4, page.TotalCount)
		assert.False(t, page.HasMore)
		assert.Equal(t, []string{promisedOnly.ID, early.ID, late.ID, unscheduled.ID}, ids(page.Jobs))
	})

	t.Run("ListJobsPaginates", func(t *testing.T) {
		repo, teardown := setup()
		defer teardown()
		ctx := context.Background()

		for i := 1; i <= 5; i++ {
			job := newJob(i)
			job.ScheduledStartTime = ptr.To(fmt.Sprintf("2024-01-%02dT15:00:00.000Z", i))
			_, err := repo.CreateJob(ctx, job)
			require.NoError(t, err)
		}

		first, err := repo.ListJobs(ctx, domain.ListJobsParams{Limit: 2})
		require.NoError(t, err)
		assert.Len(t, first.Jobs, 2)
		assert.Equal(t, 5, first.TotalCount)
		assert.True(t, first.HasMore)

		last, err := repo.ListJobs(ctx, domain.ListJobsParams{Limit: 2, Offset: 4})
		require.NoError(t, err)
		require.Len(t, last.Jobs, 1)
		assert.False(t, last.HasMore)
		assert.Equal(t, "JOB-0005", last.Jobs[0].JobNumber)

		past, err := repo.ListJobs(ctx, domain.ListJobsParams{Limit: 2, Offset: 10})
		require.NoError(t, err)
		assert.Empty(t, past.Jobs)
		assert.Equal(t, 5, past.TotalCount)
	})

	t.Run("ListJobsFilters", func(t *testing.T) {
		repo, teardown := setup()
		defer teardown()
		ctx := context.Background()

		booked := newJob(1)
		booked.Status = "BOOKED "
		booked.VendorID = ptr.To("vendor-a")
		booked.ScheduledStartTime = ptr.To("2024-01-05T15:00:00.000Z")

		scheduled := newJob(2)
		scheduled.VendorID = ptr.To("vendor-b")
		scheduled.ScheduledStartTime = ptr.To("2024-01-08T15:00:00.000Z")

		promised := newJob(3)
		promised.Status = domain.JobStatusPending
		promised.VendorID = ptr.To("vendor-a")
		promised.ScheduledStartTime = nil
		promised.PromisedDate = ptr.To("2024-01-06")

		for _, job := range []*domain.Job{booked, scheduled, promised} {
			_, err := repo.CreateJob(ctx, job)
			require.NoError(t, err)
		}

		byStatus, err := repo.ListJobs(ctx, domain.ListJobsParams{
			Statuses: []domain.JobStatus{domain.JobStatusBooked, domain.JobStatusScheduled},
			Limit:    10,
		})
		require.NoError(t, err)
		assert.Equal(t, []string{booked.ID, scheduled.ID}, ids(byStatus.Jobs))

		byVendor, err := repo.ListJobs(ctx, domain.ListJobsParams{VendorID: ptr.To("vendor-a"), Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, []string{booked.ID, promised.ID}, ids(byVendor.Jobs))

		from := time.Date(2024, 1, 6, 0, 0, 0, 0, time.UTC)
		to := time.Date(2024, 1, 7, 23, 59, 59, 0, time.UTC)
		byAnchor, err := repo.ListJobs(ctx, domain.ListJobsParams{AnchorFrom: &from, AnchorTo: &to, Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, []string{promised.ID}, ids(byAnchor.Jobs), "promised date anchors at midnight UTC")
		assert.Equal(t, 1, byAnchor.TotalCount)
	})

	t.Run("UpdateJobStatus", func(t *testing.T) {
		repo, teardown := setup()
		defer teardown()
		ctx := context.Background()

		job := newJob(1)
		_, err := repo.CreateJob(ctx, job)
		require.NoError(t, err)

		completedAt := baseTime.Add(time.Hour)
		updated, err := repo.UpdateJobStatus(ctx, domain.UpdateJobStatusParams{
			JobID:       job.ID,
			Status:      domain.JobStatusCompleted,
			CompletedAt: &completedAt,
			UpdatedAt:   completedAt,
			Etag:        ptr.To("1"),
		})
		require.NoError(t, err)
		assert.Equal(t, domain.JobStatusCompleted, updated.Status)
		assert.Equal(t, 2, updated.Version)
		require.NotNil(t, updated.CompletedAt)
		assert.True(t, updated.CompletedAt.Equal(completedAt))
		assert.True(t, updated.UpdatedAt.Equal(completedAt))

		reopened, err := repo.UpdateJobStatus(ctx, domain.UpdateJobStatusParams{
			JobID:     job.ID,
			Status:    domain.JobStatusScheduled,
			UpdatedAt: completedAt.Add(time.Minute),
		})
		require.NoError(t, err)
		assert.Equal(t, 3, reopened.Version)
		assert.Nil(t, reopened.CompletedAt)
	})

	t.Run("UpdateJobStatusConflicts", func(t *testing.T) {
		repo, teardown := setup()
		defer teardown()
		ctx := context.Background()

		job := newJob(1)
		job.Status = " Scheduled"
		_, err := repo.CreateJob(ctx, job)
		require.NoError(t, err)

		_, err = repo.UpdateJobStatus(ctx, domain.UpdateJobStatusParams{
			JobID:     job.ID,
			Status:    domain.JobStatusInProgress,
			UpdatedAt: baseTime,
			Etag:      ptr.To("7"),
		})
		assert.ErrorIs(t, err, domain.ErrVersionConflict)

		_, err = repo.UpdateJobStatus(ctx, domain.UpdateJobStatusParams{
			JobID:          job.ID,
			Status:         domain.JobStatusInProgress,
			UpdatedAt:      baseTime,
			ExpectedStatus: ptr.To(domain.JobStatusBooked),
		})
		assert.ErrorIs(t, err, domain.ErrStatusChanged)

		updated, err := repo.UpdateJobStatus(ctx, domain.UpdateJobStatusParams{
			JobID:          job.ID,
			Status:         domain.JobStatusInProgress,
			UpdatedAt:      baseTime,
			ExpectedStatus: ptr.To(domain.JobStatusScheduled),
		})
		require.NoError(t, err, "expected status compares normalized values")
		assert.Equal(t, domain.JobStatusInProgress, updated.Status)

		_, err = repo.UpdateJobStatus(ctx, domain.UpdateJobStatusParams{
			JobID:     uuid.NewString(),
			Status:    domain.JobStatusInProgress,
			UpdatedAt: baseTime,
		})
		assert.ErrorIs(t, err, domain.ErrJobNotFound)
	})

	t.Run("ConcurrentCompareAndSetHasOneWinner", func(t *testing.T) {
		repo, teardown := setup()
		defer teardown()
		ctx := context.Background()

		job := newJob(1)
		_, err := repo.CreateJob(ctx, job)
		require.NoError(t, err)

		const writers = 5
		var (
			wg   sync.WaitGroup
			mu   sync.Mutex
			wins int
		)
		for range writers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := repo.UpdateJobStatus(ctx, domain.UpdateJobStatusParams{
					JobID:          job.ID,
					Status:         domain.JobStatusInProgress,
					UpdatedAt:      baseTime,
					ExpectedStatus: ptr.To(domain.JobStatusScheduled),
				})
				if err == nil {
					mu.Lock()
					wins++
					mu.Unlock()
					return
				}
				assert.ErrorIs(t, err, domain.ErrStatusChanged)
			}()
		}
		wg.Wait()

		assert.Equal(t, 1, wins)
		fetched, err := repo.FindJobByID(ctx, job.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, fetched.Version)
	})

	t.Run("FindJobsByStatus", func(t *testing.T) {
		repo, teardown := setup()
		defer teardown()
		ctx := context.Background()

		later := newJob(1)
		later.ScheduledStartTime = ptr.To("2024-01-06T15:00:00.000Z")

		sooner := newJob(2)
		sooner.Status = "Booked"
		sooner.ScheduledStartTime = ptr.To("2024-01-05T15:00:00.000Z")

		done := newJob(3)
		done.Status = domain.JobStatusCompleted

		for _, job := range []*domain.Job{later, sooner, done} {
			_, err := repo.CreateJob(ctx, job)
			require.NoError(t, err)
		}

		found, err := repo.FindJobsByStatus(ctx, []domain.JobStatus{domain.JobStatusScheduled, domain.JobStatusBooked}, 10)
		require.NoError(t, err)
		assert.Equal(t, []string{sooner.ID, later.ID}, ids(found))

		limited, err := repo.FindJobsByStatus(ctx, []domain.JobStatus{domain.JobStatusScheduled, domain.JobStatusBooked}, 1)
		require.NoError(t, err)
		assert.Equal(t, []string{sooner.ID}, ids(limited))

		none, err := repo.FindJobsByStatus(ctx, nil, 10)
		require.NoError(t, err)
		assert.Empty(t, none)
	})
}

// newJob returns a scheduled job numbered n, created n minutes after baseTime.
func newJob(n int) *domain.Job {
	id, err := uuid.NewV7()
	if err != nil {
		panic(err)
	}
	created := baseTime.Add(time.Duration(n) * time.Minute)
	return &domain.Job{
		ID:                 id.String(),
		JobNumber:          fmt.Sprintf("JOB-%04d", n),
		Title:              fmt.Sprintf("Install %d", n),
		Status:             domain.JobStatusScheduled,
		ScheduledStartTime: ptr.To("2024-01-05T15:00:00.000Z"),
		CreatedAt:          created,
		UpdatedAt:          created,
	}
}

func ids(jobs []*domain.Job) []string {
	out := make([]string, 0, len(jobs))
	for _, job := range jobs {
		out = append(out, job.ID)
	}
	return out
}
