package jobs

import (
	"time"

	"github.com/rezkam/aftermarket/internal/domain"
	"github.com/rezkam/aftermarket/internal/jobstatus"
	"github.com/rezkam/aftermarket/internal/schedule"
	"github.com/rezkam/aftermarket/internal/temporal"
)

// JobView is a job together with what the back office shows for it.
type JobView struct {
	Job             *domain.Job
	EffectiveStatus domain.JobStatus
	Display         schedule.Display
	DateOnly        bool // scheduled start is a booked day without a time
}

// JobPage is one page of job views.
type JobPage struct {
	Jobs       []JobView
	TotalCount int
	HasMore    bool
	Limit      int
	Offset     int
}

// Preview is the rendering of a raw record.
type Preview struct {
	Display         schedule.Display
	EffectiveStatus domain.JobStatus
	DateOnly        bool
	Now             time.Time
}

// View renders a job against the given now.
func (s *Service) View(job *domain.Job, now time.Time) JobView {
	return s.viewAt(job, now)
}

func (s *Service) viewAt(job *domain.Job, now time.Time) JobView {
	return JobView{
		Job:             job,
		EffectiveStatus: s.rules.Effective(statusRecord(job), now),
		Display:         s.formatter.Display(scheduleRecord(job)),
		DateOnly:        temporal.IsDateOnly(job.ScheduledStartTime),
	}
}

func (s *Service) views(jobs []*domain.Job, now time.Time) []JobView {
	views := make([]JobView, len(jobs))
	for i, job := range jobs {
		views[i] = s.viewAt(job, now)
	}
	return views
}

func statusRecord(job *domain.Job) jobstatus.Record {
	return jobstatus.Record{Status: job.Status, ScheduledStart: job.ScheduledStartTime}
}

func scheduleRecord(job *domain.Job) schedule.Record {
	return schedule.Record{
		ScheduledStart: job.ScheduledStartTime,
		ScheduledEnd:   job.ScheduledEndTime,
		PromisedDate:   job.PromisedDate,
	}
}
