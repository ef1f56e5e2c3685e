package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/rezkam/aftermarket/internal/domain"
)

const jobColumns = `id, job_number, title, description, vehicle_id, vendor_id, job_status,
	scheduled_start_time, scheduled_end_time, promised_date,
	completed_at, created_at, updated_at, version`

// anchorExpr is the calendar anchor: scheduled start, else midnight UTC of the promised date.
const anchorExpr = `COALESCE(scheduled_start_time, (promised_date::timestamp AT TIME ZONE 'UTC'))`

// uniqueViolation is the PostgreSQL SQLSTATE for unique constraint failures.
const uniqueViolation = "23505"

// jobRow mirrors one row of the jobs table.
type jobRow struct {
	ID                 pgtype.UUID
	JobNumber          string
	Title              string
	Description        pgtype.Text
	VehicleID          pgtype.Text
	VendorID           pgtype.Text
	JobStatus          string
	ScheduledStartTime pgtype.Timestamptz
	ScheduledEndTime   pgtype.Timestamptz
	PromisedDate       pgtype.Date
	CompletedAt        pgtype.Timestamptz
	CreatedAt          pgtype.Timestamptz
	UpdatedAt          pgtype.Timestamptz
	Version            int32
}

func scanJob(row pgx.Row) (*domain.Job, error) {
	var r jobRow
	err := row.Scan(
		&r.ID, &r.JobNumber, &r.Title, &r.Description, &r.VehicleID, &r.VendorID, &r.JobStatus,
		&r.ScheduledStartTime, &r.ScheduledEndTime, &r.PromisedDate,
		&r.CompletedAt, &r.CreatedAt, &r.UpdatedAt, &r.Version,
	)
	if err != nil {
		return nil, err
	}
	return r.toDomain(), nil
}

func (r jobRow) toDomain() *domain.Job {
	return &domain.Job{
		ID:                 pgtypeToUUIDString(r.ID),
		JobNumber:          r.JobNumber,
		Title:              r.Title,
		Description:        pgtypeToTextPtr(r.Description),
		VehicleID:          pgtypeToTextPtr(r.VehicleID),
		VendorID:           pgtypeToTextPtr(r.VendorID),
		Status:             domain.JobStatus(r.JobStatus),
		ScheduledStartTime: pgtypeToScheduleText(r.ScheduledStartTime),
		ScheduledEndTime:   pgtypeToScheduleText(r.ScheduledEndTime),
		PromisedDate:       pgtypeToPromisedDate(r.PromisedDate),
		CompletedAt:        pgtypeToTimePtr(r.CompletedAt),
		CreatedAt:          pgtypeToTime(r.CreatedAt),
		UpdatedAt:          pgtypeToTime(r.UpdatedAt),
		Version:            int(r.Version),
	}
}

func collectJobs(rows pgx.Rows) ([]*domain.Job, error) {
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

// CreateJob persists a new job with version 1.
func (s *Store) CreateJob(ctx context.Context, job *domain.Job) (*domain.Job, error) {
	id, err := parseJobID(job.ID)
	if err != nil {
		return nil, err
	}
	start, err := scheduleTextToPgtype(job.ScheduledStartTime)
	if err != nil {
		return nil, err
	}
	end, err := scheduleTextToPgtype(job.ScheduledEndTime)
	if err != nil {
		return nil, err
	}
	promised, err := promisedDateToPgtype(job.PromisedDate)
	if err != nil {
		return nil, err
	}

	row := s.db.QueryRow(ctx, `
		INSERT INTO jobs (id, job_number, title, description, vehicle_id, vendor_id, job_status,
			scheduled_start_time, scheduled_end_time, promised_date,
			completed_at, created_at, updated_at, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, 1)
		RETURNING `+jobColumns,
		id, job.JobNumber, job.Title, textToPgtype(job.Description),
		textToPgtype(job.VehicleID), textToPgtype(job.VendorID), string(job.Status),
		start, end, promised,
		timePtrToPgtype(job.CompletedAt), timeToPgtype(job.CreatedAt), timeToPgtype(job.UpdatedAt),
	)
	created, err := scanJob(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, fmt.Errorf("%w: %s", domain.ErrDuplicateJobNumber, job.JobNumber)
		}
		return nil, fmt.Errorf("failed to create job: %w", err)
	}
	return created, nil
}

// FindJobByID retrieves a job by its ID.
func (s *Store) FindJobByID(ctx context.Context, id string) (*domain.Job, error) {
	return s.findJobByID(ctx, id, false)
}

func (s *Store) findJobByID(ctx context.Context, id string, forUpdate bool) (*domain.Job, error) {
	jobID, err := parseJobID(id)
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + jobColumns + ` FROM jobs WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	job, err := scanJob(s.db.QueryRow(ctx, query, jobID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
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
	add := func(cond string, arg any) {
		args = append(args, arg)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}

	if len(params.Statuses) > 0 {
		add("lower(btrim(job_status)) = ANY($%d)", statusStrings(params.Statuses))
	}
	if params.VendorID != nil {
		add("vendor_id = $%d", *params.VendorID)
	}
	if params.AnchorFrom != nil {
		add(anchorExpr+" >= $%d", timeToPgtype(*params.AnchorFrom))
	}
	if params.AnchorTo != nil {
		add(anchorExpr+" <= $%d", timeToPgtype(*params.AnchorTo))
	}

	filter := ""
	if len(where) > 0 {
		filter = " WHERE " + strings.Join(where, " AND ")
	}

	var total int64
	if err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM jobs`+filter, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count jobs: %w", err)
	}

	query := `SELECT ` + jobColumns + ` FROM jobs` + filter +
		` ORDER BY ` + anchorExpr + ` ASC NULLS LAST, created_at ASC, id ASC` +
		fmt.Sprintf(` LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, params.Limit, params.Offset)

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	jobs, err := collectJobs(rows)
	if err != nil {
		return nil, err
	}

	return &domain.PagedJobs{
		Jobs:       jobs,
		TotalCount: int(total),
		HasMore:    params.Offset+len(jobs) < int(total),
	}, nil
}

// UpdateJobStatus writes a status change under a row lock, checking the
// etag and then the expected status before the update.
func (s *Store) UpdateJobStatus(ctx context.Context, params domain.UpdateJobStatusParams) (*domain.Job, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	var updated *domain.Job
	err := s.executeInTransaction(ctx, "update_job_status", func(tx *Store) error {
		current, err := tx.findJobByID(ctx, params.JobID, true)
		if err != nil {
			return err
		}
		if params.Etag != nil && *params.Etag != current.Etag() {
			return fmt.Errorf("%w: job %s has etag %s", domain.ErrVersionConflict, params.JobID, current.Etag())
		}
		if params.ExpectedStatus != nil && params.ExpectedStatus.Normalize() != current.Status.Normalize() {
			return fmt.Errorf("%w: job %s is %s", domain.ErrStatusChanged, params.JobID, current.Status)
		}

		jobID, err := parseJobID(params.JobID)
		if err != nil {
			return err
		}
		row := tx.db.QueryRow(ctx, `
			UPDATE jobs
			SET job_status = $2, completed_at = $3, updated_at = $4, version = version + 1
			WHERE id = $1
			RETURNING `+jobColumns,
			jobID, string(params.Status), timePtrToPgtype(params.CompletedAt), timeToPgtype(params.UpdatedAt),
		)
		updated, err = scanJob(row)
		if err != nil {
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

	rows, err := s.db.Query(ctx, `
		SELECT `+jobColumns+`
		FROM jobs
		WHERE lower(btrim(job_status)) = ANY($1)
		ORDER BY scheduled_start_time ASC NULLS LAST, id ASC
		LIMIT $2`,
		statusStrings(statuses), limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to find jobs by status: %w", err)
	}
	return collectJobs(rows)
}
