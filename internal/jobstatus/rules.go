// Package jobstatus derives the status a job should display and the status
// it falls back to when a completion is undone.
//
// Nothing here is persisted and nothing reads the clock: every decision takes
// now as a parameter so one render pass or one automation sweep agrees on it.
package jobstatus

import (
	"time"

	"github.com/rezkam/aftermarket/internal/domain"
	"github.com/rezkam/aftermarket/internal/temporal"
)

// Record is the subset of a job the rules read. ScheduledStart accepts
// anything temporal.Parse accepts.
type Record struct {
	Status         domain.JobStatus
	ScheduledStart any
}

// Rules evaluates status transitions against day boundaries in one timezone.
type Rules struct {
	loc *time.Location
}

// NewRules returns Rules for loc. A nil loc means temporal.DefaultTimezone.
func NewRules(loc *time.Location) *Rules {
	return &Rules{loc: temporal.OrDefault(loc)}
}

// Location returns the timezone day boundaries are computed in.
func (r *Rules) Location() *time.Location { return r.loc }

// Effective returns the status to display and automate on.
//
// Only scheduled-like jobs are promoted: to in_progress once their exact
// start time has passed, or once their booked day has arrived for date-only
// starts. Every other status, known or not, is returned exactly as stored.
func (r *Rules) Effective(rec Record, now time.Time) domain.JobStatus {
	if rec.Status.IsExplicit() || !rec.Status.IsScheduledLike() {
		return rec.Status
	}

	if r.started(rec.ScheduledStart, now) {
		return domain.JobStatusInProgress
	}
	return rec.Status
}

// UncompleteTarget returns the status a job reverts to when a completion is
// undone: scheduled when its start is still ahead of now, in_progress otherwise.
// Missing or unparseable starts resolve to in_progress.
func (r *Rules) UncompleteTarget(rec Record, now time.Time) domain.JobStatus {
	if r.upcoming(rec.ScheduledStart, now) {
		return domain.JobStatusScheduled
	}
	return domain.JobStatusInProgress
}

// ReopenTarget returns the status a terminal job re-enters. Completed jobs
// always land on quality_check; everything else follows UncompleteTarget.
func (r *Rules) ReopenTarget(rec Record, now time.Time) domain.JobStatus {
	if rec.Status.Normalize() == domain.JobStatusCompleted {
		return domain.JobStatusQualityCheck
	}
	return r.UncompleteTarget(rec, now)
}

// started reports whether the start has arrived: the scheduled day-bucket is
// at or before now's for date-only values, the instant is at or before now
// otherwise. Unparseable input never counts as started.
func (r *Rules) started(start any, now time.Time) bool {
	at, ok := temporal.Parse(start)
	if !ok {
		return false
	}

	if temporal.IsDateOnly(start) {
		scheduled, ok := temporal.DayBucket(start, r.loc)
		if !ok {
			return false
		}
		today, ok := temporal.DayBucket(now, r.loc)
		if !ok {
			return false
		}
		return today >= scheduled
	}

	return !at.After(now)
}

// upcoming reports whether the start is strictly ahead of now: a later
// day-bucket for date-only values, a later instant otherwise.
func (r *Rules) upcoming(start any, now time.Time) bool {
	at, ok := temporal.Parse(start)
	if !ok {
		return false
	}

	if temporal.IsDateOnly(start) {
		scheduled, ok := temporal.DayBucket(start, r.loc)
		if !ok {
			return false
		}
		today, ok := temporal.DayBucket(now, r.loc)
		if !ok {
			return false
		}
		return scheduled > today
	}

	return at.After(now)
}
