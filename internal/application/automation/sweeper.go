// Package automation persists the status promotions the display layer would
// otherwise only compute: scheduled and booked jobs whose start has arrived
// move to in_progress.
package automation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"golang.org/x/time/rate"

	"github.com/rezkam/aftermarket/internal/domain"
	"github.com/rezkam/aftermarket/internal/jobstatus"
)

const meterName = "github.com/rezkam/aftermarket/internal/application/automation"

// Defaults for a Sweeper built without options.
const (
	DefaultInterval         = time.Minute
	DefaultOperationTimeout = 30 * time.Second
	DefaultBatchSize        = 500
)

// sweptStatuses are the statuses Effective can promote.
var sweptStatuses = []domain.JobStatus{domain.JobStatusScheduled, domain.JobStatusBooked}

// Result summarizes one sweep.
type Result struct {
	Scanned  int
	Promoted int
	// Skipped counts promotions that lost to a concurrent edit.
	Skipped int
}

// Sweeper periodically promotes jobs to their effective status.
type Sweeper struct {
	repo             Repository
	rules            *jobstatus.Rules
	interval         time.Duration
	operationTimeout time.Duration // Timeout for one sweep
	batchSize        int
	limiter          *rate.Limiter
	clock            func() time.Time
	meter            metric.Meter
	promotions       metric.Int64Counter
	wg               sync.WaitGroup
}

// Option is a functional option for configuring Sweeper.
type Option func(*Sweeper)

// WithInterval sets how often the sweeper runs.
func WithInterval(d time.Duration) Option {
	return func(s *Sweeper) {
		if d > 0 {
			s.interval = d
		}
	}
}

// WithOperationTimeout sets the timeout for a single sweep.
func WithOperationTimeout(d time.Duration) Option {
	return func(s *Sweeper) {
		if d > 0 {
			s.operationTimeout = d
		}
	}
}

// WithBatchSize caps how many candidate jobs one sweep loads.
func WithBatchSize(n int) Option {
	return func(s *Sweeper) {
		if n > 0 {
			s.batchSize = n
		}
	}
}

// WithRateLimiter paces promotion writes.
func WithRateLimiter(l *rate.Limiter) Option {
	return func(s *Sweeper) {
		s.limiter = l
	}
}

// WithMeter sets the meter the promotion counter is created on.
func WithMeter(m metric.Meter) Option {
	return func(s *Sweeper) {
		s.meter = m
	}
}

// WithClock replaces the wall clock.
func WithClock(clock func() time.Time) Option {
	return func(s *Sweeper) {
		s.clock = clock
	}
}

// NewSweeper creates a Sweeper over repo using rules for day boundaries.
func NewSweeper(repo Repository, rules *jobstatus.Rules, opts ...Option) *Sweeper {
	s := &Sweeper{
		repo:             repo,
		rules:            rules,
		interval:         DefaultInterval,
		operationTimeout: DefaultOperationTimeout,
		batchSize:        DefaultBatchSize,
		clock:            func() time.Time { return time.Now().UTC() },
		meter:            otel.Meter(meterName),
	}

	for _, opt := range opts {
		opt(s)
	}

	counter, err := s.meter.Int64Counter("jobs.status.promotions",
		metric.WithDescription("Jobs promoted to their effective status by the sweeper"),
		metric.WithUnit("{job}"))
	if err != nil {
		slog.Error("failed to create promotion counter, metrics disabled", "error", err)
		counter, _ = noop.NewMeterProvider().Meter(meterName).Int64Counter("jobs.status.promotions")
	}
	s.promotions = counter

	return s
}

// Start sweeps once immediately and then on every tick until ctx is
// cancelled, then waits for the in-flight sweep and returns nil.
func (s *Sweeper) Start(ctx context.Context) error {
	slog.InfoContext(ctx, "status sweeper started",
		"interval", s.interval,
		"batch_size", s.batchSize,
		"timezone", s.rules.Location().String())

	s.sweep(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.wg.Go(func() {
				s.sweep(ctx)
			})
		case <-ctx.Done():
			slog.InfoContext(ctx, "shutdown requested, waiting for in-flight sweep")
			s.wg.Wait()
			slog.InfoContext(ctx, "status sweeper stopped gracefully")
			return nil
		}
	}
}

func (s *Sweeper) sweep(parent context.Context) {
	// Detached from parent so shutdown lets the current sweep finish its writes.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(parent), s.operationTimeout)
	defer cancel()

	result, err := s.RunOnce(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "status sweep failed", "error", err)
	}
	if result.Promoted > 0 || result.Skipped > 0 {
		slog.InfoContext(ctx, "status sweep completed",
			"scanned", result.Scanned,
			"promoted", result.Promoted,
			"skipped", result.Skipped)
	}
}

// RunOnce executes a single sweep. Every job is evaluated against the same
// now. A promotion is a compare-and-set on the status the sweep read, so a
// concurrent manual change wins and is counted as skipped.
func (s *Sweeper) RunOnce(ctx context.Context) (Result, error) {
	var result Result
	now := s.clock().UTC().Truncate(time.Millisecond)

	candidates, err := s.repo.FindJobsByStatus(ctx, sweptStatuses, s.batchSize)
	if err != nil {
		return result, fmt.Errorf("failed to load candidate jobs: %w", err)
	}
	result.Scanned = len(candidates)

	var errs []error
	for _, job := range candidates {
		current := job.Status.Normalize()
		target := s.rules.Effective(jobstatus.Record{
			Status:         job.Status,
			ScheduledStart: scheduledStart(job),
		}, now)
		if target.Normalize() == current {
			continue
		}

		if s.limiter != nil {
			if err := s.limiter.Wait(ctx); err != nil {
				errs = append(errs, fmt.Errorf("rate limiter: %w", err))
				break
			}
		}

		_, err := s.repo.UpdateJobStatus(ctx, domain.UpdateJobStatusParams{
			JobID:          job.ID,
			Status:         target,
			UpdatedAt:      now,
			ExpectedStatus: &current,
		})
		switch {
		case err == nil:
			result.Promoted++
			s.promotions.Add(ctx, 1, metric.WithAttributes(
				attribute.String("from", string(current)),
				attribute.String("to", string(target)),
			))
			slog.DebugContext(ctx, "promoted job",
				"job_id", job.ID,
				"from", current,
				"to", target)
		case errors.Is(err, domain.ErrStatusChanged), errors.Is(err, domain.ErrJobNotFound):
			result.Skipped++
			slog.DebugContext(ctx, "job changed during sweep, skipping", "job_id", job.ID, "error", err)
		default:
			slog.ErrorContext(ctx, "failed to promote job", "job_id", job.ID, "error", err)
			errs = append(errs, fmt.Errorf("job %s: %w", job.ID, err))
		}
	}

	return result, errors.Join(errs...)
}

func scheduledStart(job *domain.Job) any {
	if job.ScheduledStartTime == nil {
		return nil
	}
	return *job.ScheduledStartTime
}
