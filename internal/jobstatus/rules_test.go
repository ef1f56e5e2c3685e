package jobstatus

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezkam/aftermarket/internal/domain"
	"github.com/rezkam/aftermarket/internal/temporal"
)

// fixedNow is 10:00 AM Eastern on Friday, January 5 2024.
var fixedNow = time.Date(2024, 1, 5, 15, 0, 0, 0, time.UTC)

func newTestRules(t *testing.T) *Rules {
	t.Helper()
	loc, err := temporal.LoadZone("America/New_York")
	require.NoError(t, err)
	return NewRules(loc)
}

func iso(t time.Time) string { return t.UTC().Format(time.RFC3339) }

func TestEffective(t *testing.T) {
	rules := newTestRules(t)

	tests := []struct {
		name   string
		status domain.JobStatus
		start  any
		want   domain.JobStatus
	}{
		{"scheduled start passed", "scheduled", iso(fixedNow.Add(-5 * time.Minute)), "in_progress"},
		{"scheduled start now", "scheduled", iso(fixedNow), "in_progress"},
		{"scheduled start ahead", "scheduled", iso(fixedNow.Add(time.Hour)), "scheduled"},
		{"booked start passed", "booked", iso(fixedNow.Add(-time.Hour)), "in_progress"},
		{"booked start ahead keeps stored text", " Booked ", iso(fixedNow.Add(time.Hour)), " Booked "},
		{"mixed case promotes", "SCHEDULED", iso(fixedNow.Add(-time.Hour)), "in_progress"},
		{"date-only today", "scheduled", "2024-01-05", "in_progress"},
		{"date-only midnight iso today", "scheduled", "2024-01-05T00:00:00.000Z", "in_progress"},
		{"date-only yesterday", "booked", "2024-01-04", "in_progress"},
		{"date-only tomorrow", "scheduled", "2024-01-06", "scheduled"},
		{"time value start passed", "scheduled", fixedNow.Add(-time.Minute), "in_progress"},
		{"missing start", "scheduled", nil, "scheduled"},
		{"unparseable start", "booked", "whenever", "booked"},
		{"completed never promoted", "completed", iso(fixedNow.Add(-time.Hour)), "completed"},
		{"cancelled never promoted", "cancelled", "2024-01-01", "cancelled"},
		{"canceled never promoted", "canceled", "2024-01-01", "canceled"},
		{"no show never promoted", "no_show", "2024-01-01", "no_show"},
		{"draft never promoted", "draft", "2024-01-01", "draft"},
		{"delivered never promoted", "delivered", "2024-01-01", "delivered"},
		{"quality check never promoted", "quality_check", "2024-01-01", "quality_check"},
		{"in progress unchanged", "in_progress", "2024-01-10", "in_progress"},
		{"pending is not scheduled-like", "pending", "2024-01-01", "pending"},
		{"unknown status passes through", "awaiting_parts", "2024-01-01", "awaiting_parts"},
		{"empty status passes through", "", "2024-01-01", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := rules.Effective(Record{Status: tt.status, ScheduledStart: tt.start}, fixedNow)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEffective_DayBoundaryInTargetZone(t *testing.T) {
	rules := newTestRules(t)
	rec := Record{Status: domain.JobStatusScheduled, ScheduledStart: "2024-01-06"}

	// 23:30 Eastern on Jan 5 is already Jan 6 in UTC but not in New York.
	lateEvening := time.Date(2024, 1, 6, 4, 30, 0, 0, time.UTC)
	assert.Equal(t, domain.JobStatusScheduled, rules.Effective(rec, lateEvening))

	// 00:30 Eastern on Jan 6.
	justAfterMidnight := time.Date(2024, 1, 6, 5, 30, 0, 0, time.UTC)
	assert.Equal(t, domain.JobStatusInProgress, rules.Effective(rec, justAfterMidnight))
}

func TestEffective_Idempotent(t *testing.T) {
	rules := newTestRules(t)
	rec := Record{Status: domain.JobStatusScheduled, ScheduledStart: iso(fixedNow.Add(-time.Minute))}

	first := rules.Effective(rec, fixedNow)
	second := rules.Effective(rec, fixedNow)
	assert.Equal(t, first, second)
}

func TestUncompleteTarget(t *testing.T) {
	rules := newTestRules(t)

	tests := []struct {
		name  string
		start any
		want  domain.JobStatus
	}{
		{"missing start", nil, "in_progress"},
		{"unparseable start", "asap", "in_progress"},
		{"date-only tomorrow", "2024-01-06", "scheduled"},
		{"date-only today", "2024-01-05", "in_progress"},
		{"date-only yesterday", "2024-01-04", "in_progress"},
		{"exact start ahead", iso(fixedNow.Add(time.Hour)), "scheduled"},
		{"exact start now", iso(fixedNow), "in_progress"},
		{"exact start passed", iso(fixedNow.Add(-time.Hour)), "in_progress"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, status := range []domain.JobStatus{"completed", "in_progress", "delivered"} {
				got := rules.UncompleteTarget(Record{Status: status, ScheduledStart: tt.start}, fixedNow)
				assert.Equal(t, tt.want, got, "status %s", status)
			}
		})
	}
}

func TestReopenTarget(t *testing.T) {
	rules := newTestRules(t)

	tests := []struct {
		name   string
		status domain.JobStatus
		start  any
		want   domain.JobStatus
	}{
		{"completed with future start", "completed", iso(fixedNow.Add(24 * time.Hour)), "quality_check"},
		{"completed without start", "completed", nil, "quality_check"},
		{"completed mixed case", " Completed", "2024-01-10", "quality_check"},
		{"cancelled with future day", "cancelled", "2024-01-10", "scheduled"},
		{"no show with past start", "no_show", iso(fixedNow.Add(-time.Hour)), "in_progress"},
		{"delivered without start", "delivered", nil, "in_progress"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := rules.ReopenTarget(Record{Status: tt.status, ScheduledStart: tt.start}, fixedNow)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewRules_DefaultZone(t *testing.T) {
	assert.Equal(t, temporal.DefaultTimezone, NewRules(nil).Location().String())
}

func TestRules_OtherZone(t *testing.T) {
	tokyo, err := temporal.LoadZone("Asia/Tokyo")
	require.NoError(t, err)
	rules := NewRules(tokyo)

	// 15:00 UTC on Jan 5 is already Jan 6 in Tokyo.
	rec := Record{Status: domain.JobStatusBooked, ScheduledStart: "2024-01-06"}
	assert.Equal(t, domain.JobStatusInProgress, rules.Effective(rec, fixedNow))
	assert.Equal(t, domain.JobStatusBooked, newTestRules(t).Effective(rec, fixedNow))
}
