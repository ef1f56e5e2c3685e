package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/rezkam/aftermarket/internal/domain"
	"github.com/rezkam/aftermarket/internal/schedule"
	"github.com/rezkam/aftermarket/internal/temporal"
)

const (
	// MaxCalendarDays bounds one calendar request.
	MaxCalendarDays = 62

	calendarBatchSize = 500
)

// CalendarInput selects the days to show, both inclusive, as YYYY-MM-DD.
type CalendarInput struct {
	From     string
	To       string
	VendorID *string
	Statuses []string
}

// Calendar is the dispatch board for a date range.
type Calendar struct {
	From string
	To   string
	Days []schedule.Day[JobView]
}

// Calendar groups scheduled and promised jobs by local day. Days without
// jobs are omitted.
func (s *Service) Calendar(ctx context.Context, input CalendarInput) (*Calendar, error) {
	from, to, err := s.calendarRange(input.From, input.To)
	if err != nil {
		return nil, err
	}

	statuses, err := domain.NewJobStatuses(input.Statuses)
	if err != nil {
		return nil, err
	}

	// Date-only values are stored at midnight UTC, which sits a few hours
	// away from local midnight; pad the query and trim after grouping.
	anchorFrom := from.Add(-24 * time.Hour)
	anchorTo := to.AddDate(0, 0, 1).Add(24 * time.Hour)

	params := domain.ListJobsParams{
		Statuses:   statuses,
		VendorID:   trimmed(input.VendorID),
		AnchorFrom: &anchorFrom,
		AnchorTo:   &anchorTo,
		Limit:      calendarBatchSize,
	}

	var found []*domain.Job
	for {
		page, err := s.repo.ListJobs(ctx, params)
		if err != nil {
			return nil, fmt.Errorf("failed to load calendar jobs: %w", err)
		}
		found = append(found, page.Jobs...)
		if !page.HasMore || len(page.Jobs) == 0 {
			break
		}
		params.Offset += len(page.Jobs)
	}

	now := s.Now()
	days, _ := schedule.GroupByDay(s.formatter, s.views(found, now), func(v JobView) schedule.Record {
		return scheduleRecord(v.Job)
	})

	firstBucket := from.UnixMilli()
	lastBucket := to.UnixMilli()
	kept := make([]schedule.Day[JobView], 0, len(days))
	for _, day := range days {
		if day.Bucket >= firstBucket && day.Bucket <= lastBucket {
			kept = append(kept, day)
		}
	}

	return &Calendar{From: input.From, To: input.To, Days: kept}, nil
}

// calendarRange resolves the inclusive day range to local midnights.
func (s *Service) calendarRange(fromIn, toIn string) (time.Time, time.Time, error) {
	if !temporal.IsDateOnly(fromIn) || !temporal.IsDateOnly(toIn) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: from and to must be YYYY-MM-DD", domain.ErrInvalidDateRange)
	}

	from, ok := temporal.DayOf(fromIn, s.config.Location)
	if !ok {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: from %q", domain.ErrInvalidDateRange, fromIn)
	}
	to, ok := temporal.DayOf(toIn, s.config.Location)
	if !ok {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: to %q", domain.ErrInvalidDateRange, toIn)
	}

	if to.Before(from) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: to is before from", domain.ErrInvalidDateRange)
	}
	if to.Sub(from) > (MaxCalendarDays-1)*24*time.Hour+time.Hour {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: at most %d days", domain.ErrInvalidDateRange, MaxCalendarDays)
	}
	return from, to, nil
}
