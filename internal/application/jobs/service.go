package jobs

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rezkam/aftermarket/internal/domain"
	"github.com/rezkam/aftermarket/internal/jobstatus"
	"github.com/rezkam/aftermarket/internal/ptr"
	"github.com/rezkam/aftermarket/internal/schedule"
	"github.com/rezkam/aftermarket/internal/temporal"
)

// Default configuration values.
const (
	DefaultPageSize = 25
	MaxPageSize     = 100
)

// Config holds configuration for the Service.
type Config struct {
	// Location is the dealership timezone (nil = America/New_York).
	Location  *time.Location
	ZoneLabel string

	DefaultPageSize int
	MaxPageSize     int

	// Clock returns the current time. Nil uses the system clock.
	Clock func() time.Time
}

// Service provides business logic for aftermarket jobs.
// It is the only layer that reads the clock: each call takes one reading and
// hands it to the status rules and formatter so a whole response agrees on now.
type Service struct {
	repo      Repository
	rules     *jobstatus.Rules
	formatter *schedule.Formatter
	config    Config
}

// NewService creates a new job service.
// Applies application defaults for zero or invalid config values.
func NewService(repo Repository, config Config) *Service {
	if config.DefaultPageSize <= 0 {
		config.DefaultPageSize = DefaultPageSize
	}
	if config.MaxPageSize <= 0 {
		config.MaxPageSize = MaxPageSize
	}
	if config.Clock == nil {
		config.Clock = func() time.Time { return time.Now().UTC() }
	}
	config.Location = temporal.OrDefault(config.Location)

	return &Service{
		repo:      repo,
		rules:     jobstatus.NewRules(config.Location),
		formatter: schedule.NewFormatter(config.Location, config.ZoneLabel),
		config:    config,
	}
}

// Formatter returns the schedule formatter bound to the service timezone.
func (s *Service) Formatter() *schedule.Formatter { return s.formatter }

// Rules returns the status rules bound to the service timezone.
func (s *Service) Rules() *jobstatus.Rules { return s.rules }

// Now returns the service clock reading, in UTC at millisecond precision.
func (s *Service) Now() time.Time {
	return s.config.Clock().UTC().Truncate(time.Millisecond)
}

// CreateJobInput holds the fields accepted when booking a job. Schedule
// fields accept anything temporal.Parse accepts.
type CreateJobInput struct {
	Title       string
	JobNumber   string
	Description *string
	VehicleID   *string
	VendorID    *string

	// Status defaults to scheduled when a start is given, pending otherwise.
	Status string

	ScheduledStart any
	ScheduledEnd   any
	PromisedDate   any
}

// CreateJob validates and persists a new job.
func (s *Service) CreateJob(ctx context.Context, input CreateJobInput) (*JobView, error) {
	title, err := domain.NewTitle(input.Title)
	if err != nil {
		return nil, err
	}

	start, end, err := s.normalizeSchedule(input.ScheduledStart, input.ScheduledEnd)
	if err != nil {
		return nil, err
	}

	var promised *string
	if schedule.Present(input.PromisedDate) {
		day, ok := temporal.CalendarDate(input.PromisedDate, s.config.Location)
		if !ok {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidPromisedDate, input.PromisedDate)
		}
		promised = &day
	}

	status := domain.JobStatusPending
	if start != nil {
		status = domain.JobStatusScheduled
	}
	if strings.TrimSpace(input.Status) != "" {
		status, err = domain.NewJobStatus(input.Status)
		if err != nil {
			return nil, err
		}
	}

	idObj, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate id: %w", err)
	}
	id := idObj.String()

	jobNumber := strings.TrimSpace(input.JobNumber)
	if jobNumber == "" {
		jobNumber = jobNumberFor(id)
	}

	now := s.Now()
	job := &domain.Job{
		ID:                 id,
		JobNumber:          jobNumber,
		Title:              title.String(),
		Description:        trimmed(input.Description),
		VehicleID:          trimmed(input.VehicleID),
		VendorID:           trimmed(input.VendorID),
		Status:             status,
		ScheduledStartTime: start,
		ScheduledEndTime:   end,
		PromisedDate:       promised,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if status == domain.JobStatusCompleted {
		job.CompletedAt = ptr.To(now)
	}

	created, err := s.repo.CreateJob(ctx, job)
	if err != nil {
		return nil, fmt.Errorf("failed to create job: %w", err)
	}

	view := s.viewAt(created, now)
	return &view, nil
}

// GetJob retrieves a job with its effective status and schedule label.
func (s *Service) GetJob(ctx context.Context, id string) (*JobView, error) {
	job, err := s.findJob(ctx, id)
	if err != nil {
		return nil, err
	}
	view := s.viewAt(job, s.Now())
	return &view, nil
}

// ListJobsInput filters a job listing.
type ListJobsInput struct {
	Statuses []string
	VendorID *string
	Limit    int
	Offset   int
}

// ListJobs retrieves jobs with filtering and pagination.
func (s *Service) ListJobs(ctx context.Context, input ListJobsInput) (*JobPage, error) {
	statuses, err := domain.NewJobStatuses(input.Statuses)
	if err != nil {
		return nil, err
	}

	params := domain.ListJobsParams{
		Statuses: statuses,
		VendorID: trimmed(input.VendorID),
		Limit:    input.Limit,
		Offset:   max(input.Offset, 0),
	}
	if params.Limit <= 0 {
		params.Limit = s.config.DefaultPageSize
	}
	params.Limit = min(params.Limit, s.config.MaxPageSize)

	result, err := s.repo.ListJobs(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}

	return &JobPage{
		Jobs:       s.views(result.Jobs, s.Now()),
		TotalCount: result.TotalCount,
		HasMore:    result.HasMore,
		Limit:      params.Limit,
		Offset:     params.Offset,
	}, nil
}

// UpdateStatus sets an explicit status. Moving to completed stamps the
// completion time and moving away from completed clears it.
// If etag is provided and doesn't match, returns domain.ErrVersionConflict.
func (s *Service) UpdateStatus(ctx context.Context, id, status string, etag *string) (*JobView, error) {
	target, err := domain.NewJobStatus(status)
	if err != nil {
		return nil, err
	}

	job, err := s.findJob(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.Now()
	completedAt := job.CompletedAt
	switch {
	case target == domain.JobStatusCompleted && job.Status.Normalize() != domain.JobStatusCompleted:
		completedAt = ptr.To(now)
	case target != domain.JobStatusCompleted:
		completedAt = nil
	}

	return s.writeStatus(ctx, job, target, completedAt, etag, now)
}

// CompleteJob marks a job completed. Completing an already completed job
// returns it unchanged.
func (s *Service) CompleteJob(ctx context.Context, id string, etag *string) (*JobView, error) {
	job, err := s.findJob(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.Now()
	if job.Status.Normalize() == domain.JobStatusCompleted {
		view := s.viewAt(job, now)
		return &view, nil
	}

	return s.writeStatus(ctx, job, domain.JobStatusCompleted, ptr.To(now), etag, now)
}

// UncompleteJob reverts a completed job: scheduled when its start is still
// ahead, in_progress otherwise.
// Returns domain.ErrInvalidStatusTransition if the job is not completed.
func (s *Service) UncompleteJob(ctx context.Context, id string, etag *string) (*JobView, error) {
	job, err := s.findJob(ctx, id)
	if err != nil {
		return nil, err
	}
	if job.Status.Normalize() != domain.JobStatusCompleted {
		return nil, fmt.Errorf("%w: cannot uncomplete a %s job", domain.ErrInvalidStatusTransition, job.Status.Normalize())
	}

	now := s.Now()
	target := s.rules.UncompleteTarget(statusRecord(job), now)
	return s.writeStatus(ctx, job, target, nil, etag, now)
}

// ReopenJob moves a terminal job back into the working lifecycle. Completed
// jobs re-enter at quality_check.
// Returns domain.ErrInvalidStatusTransition if the job is not terminal.
func (s *Service) ReopenJob(ctx context.Context, id string, etag *string) (*JobView, error) {
	job, err := s.findJob(ctx, id)
	if err != nil {
		return nil, err
	}
	if !job.Status.IsTerminal() {
		return nil, fmt.Errorf("%w: cannot reopen a %s job", domain.ErrInvalidStatusTransition, job.Status.Normalize())
	}

	now := s.Now()
	target := s.rules.ReopenTarget(statusRecord(job), now)
	return s.writeStatus(ctx, job, target, nil, etag, now)
}

// Preview renders an arbitrary record the way a stored job would be shown.
func (s *Service) Preview(rec schedule.Record, status string) Preview {
	now := s.Now()
	return Preview{
		Display:         s.formatter.Display(rec),
		EffectiveStatus: s.rules.Effective(jobstatus.Record{Status: domain.JobStatus(status), ScheduledStart: rec.ScheduledStart}, now),
		DateOnly:        temporal.IsDateOnly(rec.ScheduledStart),
		Now:             now,
	}
}

func (s *Service) writeStatus(ctx context.Context, job *domain.Job, target domain.JobStatus, completedAt *time.Time, etag *string, now time.Time) (*JobView, error) {
	expected := job.Status.Normalize()
	updated, err := s.repo.UpdateJobStatus(ctx, domain.UpdateJobStatusParams{
		JobID:          job.ID,
		Status:         target,
		CompletedAt:    completedAt,
		UpdatedAt:      now,
		Etag:           etag,
		ExpectedStatus: &expected,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update job status: %w", err)
	}

	view := s.viewAt(updated, now)
	return &view, nil
}

func (s *Service) findJob(ctx context.Context, id string) (*domain.Job, error) {
	if strings.TrimSpace(id) == "" {
		return nil, domain.ErrJobNotFound
	}
	return s.repo.FindJobByID(ctx, id)
}

// normalizeSchedule converts schedule input into storage text. Date-only
// starts keep their date-only shape; an end is only accepted with a start.
func (s *Service) normalizeSchedule(startIn, endIn any) (*string, *string, error) {
	if !schedule.Present(startIn) {
		if schedule.Present(endIn) {
			return nil, nil, fmt.Errorf("%w: end given without start", domain.ErrInvalidScheduleTime)
		}
		return nil, nil, nil
	}

	start, ok := temporal.Canonical(startIn)
	if !ok {
		return nil, nil, fmt.Errorf("%w: start %v", domain.ErrInvalidScheduleTime, startIn)
	}
	if !schedule.Present(endIn) {
		return &start, nil, nil
	}

	end, ok := temporal.Canonical(endIn)
	if !ok {
		return nil, nil, fmt.Errorf("%w: end %v", domain.ErrInvalidScheduleTime, endIn)
	}

	if !temporal.IsDateOnly(start) && !temporal.IsDateOnly(end) {
		st, _ := temporal.Parse(start)
		et, _ := temporal.Parse(end)
		if et.Before(st) {
			return nil, nil, domain.ErrScheduleEndBeforeStart
		}
	}
	return &start, &end, nil
}

// jobNumberFor derives a short human-facing number from the random tail of a v7 id.
func jobNumberFor(id string) string {
	tail := strings.ReplaceAll(id, "-", "")
	return "JOB-" + strings.ToUpper(tail[len(tail)-8:])
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
