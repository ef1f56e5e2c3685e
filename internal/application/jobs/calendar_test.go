package jobs

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezkam/aftermarket/internal/domain"
	"github.com/rezkam/aftermarket/internal/ptr"
	"github.com/rezkam/aftermarket/internal/schedule"
)

func schedulePreviewRecord(start string) schedule.Record {
	return schedule.Record{ScheduledStart: start}
}

func dayJobIDs(day schedule.Day[JobView]) []string {
	ids := make([]string, len(day.Items))
	for i, v := range day.Items {
		ids[i] = v.Job.ID
	}
	return ids
}

func TestCalendar(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(t, repo)

	seedJob(t, repo, domain.Job{ID: "a-morning", Status: "scheduled", ScheduledStartTime: ptr.To("2024-01-08T14:00:00.000Z")})
	seedJob(t, repo, domain.Job{ID: "b-allday", Status: "scheduled", ScheduledStartTime: ptr.To("2024-01-08T00:00:00.000Z")})
	seedJob(t, repo, domain.Job{ID: "c-promised", Status: "pending", PromisedDate: ptr.To("2024-01-09")})
	seedJob(t, repo, domain.Job{ID: "d-outside", Status: "scheduled", ScheduledStartTime: ptr.To("2024-01-12T14:00:00.000Z")})
	seedJob(t, repo, domain.Job{ID: "e-unscheduled", Status: "pending"})
	// 11 PM Eastern on the 7th, already the 8th in UTC.
	seedJob(t, repo, domain.Job{ID: "f-late", Status: "scheduled", ScheduledStartTime: ptr.To("2024-01-08T04:00:00.000Z")})

	cal, err := svc.Calendar(context.Background(), CalendarInput{From: "2024-01-08", To: "2024-01-10"})
	require.NoError(t, err)

	require.Len(t, cal.Days, 2)
	assert.Equal(t, "2024-01-08", cal.Days[0].Date)
	assert.Equal(t, "Mon Jan 8", cal.Days[0].Label)
	assert.Equal(t, []string{"b-allday", "a-morning"}, dayJobIDs(cal.Days[0]))
	assert.Equal(t, "2024-01-09", cal.Days[1].Date)
	assert.Equal(t, []string{"c-promised"}, dayJobIDs(cal.Days[1]))
	assert.Equal(t, "Scheduled (No Time)", cal.Days[1].Items[0].Display.Badge)

	require.NotNil(t, repo.lastList.AnchorFrom)
	require.NotNil(t, repo.lastList.AnchorTo)
}

func TestCalendar_InvalidRanges(t *testing.T) {
	svc := newTestService(t, newMemoryRepo())
	ctx := context.Background()

	tests := []struct {
		name     string
		from, to string
	}{
		{"not dates", "monday", "friday"},
		{"reversed", "2024-01-10", "2024-01-08"},
		{"too long", "2024-01-01", "2024-04-01"},
		{"impossible date", "2024-02-30", "2024-03-02"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Calendar(ctx, CalendarInput{From: tt.from, To: tt.to})
			assert.ErrorIs(t, err, domain.ErrInvalidDateRange)
		})
	}
}

func TestCalendar_SingleDay(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(t, repo)
	seedJob(t, repo, domain.Job{ID: "only", Status: "booked", ScheduledStartTime: ptr.To("2024-03-10T15:00:00.000Z")})

	cal, err := svc.Calendar(context.Background(), CalendarInput{From: "2024-03-10", To: "2024-03-10"})
	require.NoError(t, err)
	require.Len(t, cal.Days, 1)
	assert.Equal(t, []string{"only"}, dayJobIDs(cal.Days[0]))
}
