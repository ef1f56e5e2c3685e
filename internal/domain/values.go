package domain

import "strings"

// JobStatus is the lifecycle state of an aftermarket installation job.
// Stored values may carry any case or surrounding whitespace; compare through Normalize.
type JobStatus string

const (
	JobStatusDraft        JobStatus = "draft"
	JobStatusPending      JobStatus = "pending"
	JobStatusScheduled    JobStatus = "scheduled"
	JobStatusBooked       JobStatus = "booked"
	JobStatusInProgress   JobStatus = "in_progress"
	JobStatusQualityCheck JobStatus = "quality_check"
	JobStatusCompleted    JobStatus = "completed"
	JobStatusDelivered    JobStatus = "delivered"
	JobStatusCancelled    JobStatus = "cancelled"
	JobStatusCanceled     JobStatus = "canceled"
	JobStatusNoShow       JobStatus = "no_show"
)

// JobStatuses lists the full vocabulary in lifecycle order.
var JobStatuses = []JobStatus{
	JobStatusDraft,
	JobStatusPending,
	JobStatusScheduled,
	JobStatusBooked,
	JobStatusInProgress,
	JobStatusQualityCheck,
	JobStatusCompleted,
	JobStatusDelivered,
	JobStatusCancelled,
	JobStatusCanceled,
	JobStatusNoShow,
}

// Normalize trims and lowercases the status for comparison.
func (s JobStatus) Normalize() JobStatus {
	return JobStatus(strings.ToLower(strings.TrimSpace(string(s))))
}

// IsKnown reports whether the normalized status belongs to the vocabulary.
func (s JobStatus) IsKnown() bool {
	switch s.Normalize() {
	case JobStatusDraft, JobStatusPending, JobStatusScheduled, JobStatusBooked,
		JobStatusInProgress, JobStatusQualityCheck, JobStatusCompleted,
		JobStatusDelivered, JobStatusCancelled, JobStatusCanceled, JobStatusNoShow:
		return true
	default:
		return false
	}
}

// IsScheduledLike reports whether the job is booked but not yet started.
func (s JobStatus) IsScheduledLike() bool {
	switch s.Normalize() {
	case JobStatusScheduled, JobStatusBooked:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether the job has left the working lifecycle.
func (s JobStatus) IsTerminal() bool {
	switch s.Normalize() {
	case JobStatusCompleted, JobStatusDelivered, JobStatusCancelled, JobStatusCanceled, JobStatusNoShow:
		return true
	default:
		return false
	}
}

// IsExplicit reports whether the status was set by a person and must never be
// promoted automatically: terminal states plus in-progress work and drafts.
func (s JobStatus) IsExplicit() bool {
	switch s.Normalize() {
	case JobStatusInProgress, JobStatusQualityCheck, JobStatusDraft:
		return true
	default:
		return s.IsTerminal()
	}
}
