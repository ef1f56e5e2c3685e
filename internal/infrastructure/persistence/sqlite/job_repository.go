package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/rezkam/aftermarket/internal/domain"
	"github.com/rezkam/aftermarket/internal/temporal"
)

const jobColumns = `id, job_number, title, description, vehicle_id, vendor_id, job_status,
	scheduled_start_time, scheduled_end_time, promised_date,
	completed_at, created_at, updated_at, version`

// anchorExpr mirrors the postgres anchor on canonical text.
const anchorExpr = `COALESCE(scheduled_start_time, promised_date || 'T00:00:00.000Z')`

const promisedDateLayout = "2006-01-02"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row rowScanner) (*domain.Job, error) {
	var (
		job                          domain.Job
		status                       string
		description, vehicle, vendor sql.NullString
		start, end, promised         sql.NullString
		completed                    sql.NullString
		created, updated             string
	)
	err := row.Scan(
		&job.ID, &job.JobNumber, &job.Title, &description, &vehicle, &vendor, &status,
		&start, &end, &promised,
		&completed, &created, &updated, &job.Version,
	)
	if err != nil {
		return nil, err
	}

	job.Status = domain.JobStatus(status)
	job.Description = nullString(description)
	job.VehicleID = nullString(vehicle)
	job.VendorID = nullString(vendor)
	job.ScheduledStartTime = nullString(start)
	job.ScheduledEndTime = nullString(end)
	job.PromisedDate = nullString(promised)

	if job.CreatedAt, err = parseStored(created); err != nil {
		return nil, err
	}
	if job.UpdatedAt, err = parseStored(updated); err != nil {
		return nil, err
	}
	if completed.Valid {
		at, err := parseStored(completed.String)
		if err != nil {
			return nil, err
		}
		job.CompletedAt = &at
	}
	return &job, nil
}

func collectJobs(rows *sql.Rows) ([]*domain.Job, error) {
	defer rows.Close()

	var out []*domain.Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		out = append(out, job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate jobs: %w", err)
	}
	return out, nil
}

func nullString(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}

func stringArg(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func timeArg(t time.Time) string {
	text, _ := temporal.Canonical(t.UTC())
	return text
}

func timePtrArg(t *time.Time) any {
	if t == nil {
		return nil
	}
	return timeArg(*t)
}

func parseStored(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("corrupt timestamp %q: %w", s, err)
	}
	return t.UTC(), nil
}

// scheduleArg validates canonical schedule text and stores it in UTC millisecond form.
func scheduleArg(s *string) (any, error) {
	if s == nil {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339Nano, *s)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidScheduleTime, err)
	}
	return timeArg(t), nil
}

func promisedArg(s *string) (any, error) {
	if s == nil {
		return nil, nil
	}
	if _, err := time.Parse(promisedDateLayout, *s); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidPromisedDate, err)
	}
	return *s, nil
}

func validateID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrInvalidID, err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	// Extended codes carry the constraint kind; the primary code only says "constraint".
	return sqliteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE ||
		(sqliteErr.Code()&0xff == sqlite3.SQLITE_CONSTRAINT && strings.Contains(sqliteErr.Error(), "UNIQUE"))
}

// statusPlaceholders returns "?, ?, ..." and the normalized status args.
func statusPlaceholders(statuses []domain.JobStatus) (string, []any) {
	marks := make([]string, len(statuses))
	args := make([]any, len(statuses))
	for i, status := range statuses {
		marks[i] = "?"
		args[i] = string(status.Normalize())
	}
	return strings.Join(marks, ", "), args
}

// CreateJob persists a new job with version 1.
func (s *Store) CreateJob(ctx context.Context, job *domain.Job) (*domain.Job, error) {
	if err := validateID(job.ID); err != nil {
		return nil, err
	}
	start, err := scheduleArg(job.ScheduledStartTime)
	if err != nil {
		return nil, err
	}
	end, err := scheduleArg(job.ScheduledEndTime)
	if err != nil {
		return nil, err
	}
	promised, err := promisedArg(job.PromisedDate)
	if err != nil {
		return nil, err
	}

	row := s.conn.QueryRowContext(ctx, `
		INSERT INTO jobs (id, job_number, title, description, vehicle_id, vendor_id, job_status,
			scheduled_start_time, scheduled_end_time, promised_date,
			completed_at, created_at, updated_at, version)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 1)
		RETURNING `+jobColumns,
		job.ID, job.JobNumber, job.Title, stringArg(job.Description),
		stringArg(job.VehicleID), stringArg(job.VendorID), string(job.Status),
		start, end, promised,
		timePtrArg(job.CompletedAt), timeArg(job.CreatedAt), timeArg(job.UpdatedAt),
	)
	created, err := scanJob(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: %s", domain.ErrDuplicateJobNumber, job.JobNumber)
		}
		return nil, fmt.Errorf("failed to create job: %w", err)
	}
	return created, nil
}

// FindJobByID retrieves a job by its ID.
func (s *Store) FindJobByID(ctx context.Context, id string) (*domain.Job, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}

	job, err := scanJob(s.conn.QueryRowContext(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", domain.ErrJobNotFound, id)
		}
		return nil, fmt.Errorf("failed to find job: %w", err)
	}
	return job, nil
}

// ListJobs retrieves jobs ordered by schedule anchor, unscheduled jobs last.
func (s *Store) ListJobs(ctx context.Context, params domain.ListJobsParams) (*domain.PagedJobs, error) {
	var (
		where []string
		args  []any
	)

	if len(params.Statuses) > 0 {
		marks, statusArgs := statusPlaceholders(params.Statuses)
		where = append(where, "lower(trim(job_status)) IN ("+marks+")")
		args = append(args, statusArgs...)
	}
	if params.VendorID != nil {
		where = append(where, "vendor_id = ?")
		args = append(args, *params.VendorID)
	}
	if params.AnchorFrom != nil {
		where = append(where, anchorExpr+" >= ?")
		args = append(args, timeArg(*params.AnchorFrom))
	}
	if params.AnchorTo != nil {
		where = append(where, anchorExpr+" <= ?")
		args = append(args, timeArg(*params.AnchorTo))
	}

	filter := ""
	if len(where) > 0 {
		filter = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := s.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM jobs`+filter, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count jobs: %w", err)
	}

	rows, err := s.conn.QueryContext(ctx,
		`SELECT `+jobColumns+` FROM jobs`+filter+
			` ORDER BY `+anchorExpr+` ASC NULLS LAST, created_at ASC, id ASC LIMIT ? OFFSET ?`,
		append(args, params.Limit, params.Offset)...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	jobs, err := collectJobs(rows)
	if err != nil {
		return nil, err
	}

	return &domain.PagedJobs{
		Jobs:       jobs,
		TotalCount: total,
		HasMore:    params.Offset+len(jobs) < total,
	}, nil
}

// UpdateJobStatus writes a status change inside a transaction, checking the
// etag and then the expected status before the update.
func (s *Store) UpdateJobStatus(ctx context.Context, params domain.UpdateJobStatusParams) (*domain.Job, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	var updated *domain.Job
	err := s.inTx(ctx, "update_job_status", func(tx *Store) error {
		current, err := tx.FindJobByID(ctx, params.JobID)
		if err != nil {
			return err
		}
		if params.Etag != nil && *params.Etag != current.Etag() {
			return fmt.Errorf("%w: job %s has etag %s", domain.ErrVersionConflict, params.JobID, current.Etag())
		}
		if params.ExpectedStatus != nil && params.ExpectedStatus.Normalize() != current.Status.Normalize() {
			return fmt.Errorf("%w: job %s is %s", domain.ErrStatusChanged, params.JobID, current.Status)
		}

		row := tx.conn.QueryRowContext(ctx, `
			UPDATE jobs
			SET job_status = ?, completed_at = ?, updated_at = ?, version = version + 1
			WHERE id = ? AND version = ?
			RETURNING `+jobColumns,
			string(params.Status), timePtrArg(params.CompletedAt), timeArg(params.UpdatedAt),
			params.JobID, current.Version,
		)
		updated, err = scanJob(row)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("%w: job %s", domain.ErrVersionConflict, params.JobID)
			}
			return fmt.Errorf("failed to update job status: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// FindJobsByStatus returns up to limit jobs in the given statuses, earliest scheduled start first.
func (s *Store) FindJobsByStatus(ctx context.Context, statuses []domain.JobStatus, limit int) ([]*domain.Job, error) {
	if len(statuses) == 0 {
		return nil, nil
	}

	marks, args := statusPlaceholders(statuses)
	rows, err := s.conn.QueryContext(ctx, `
		SELECT `+jobColumns+`
		FROM jobs
		WHERE lower(trim(job_status)) IN (`+marks+`)
		ORDER BY scheduled_start_time ASC NULLS LAST, id ASC
		LIMIT ?`,
		append(args, limit)...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to find jobs by status: %w", err)
	}
	return collectJobs(rows)
}
