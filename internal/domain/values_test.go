package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobStatus_Normalize(t *testing.T) {
	assert.Equal(t, JobStatusScheduled, JobStatus("  Scheduled ").Normalize())
	assert.Equal(t, JobStatusInProgress, JobStatus("IN_PROGRESS").Normalize())
	assert.Equal(t, JobStatus(""), JobStatus("   ").Normalize())
}

func TestJobStatus_Classification(t *testing.T) {
	tests := []struct {
		status        JobStatus
		known         bool
		scheduledLike bool
		terminal      bool
		explicit      bool
	}{
		{"draft", true, false, false, true},
		{"pending", true, false, false, false},
		{"scheduled", true, true, false, false},
		{" BOOKED ", true, true, false, false},
		{"in_progress", true, false, false, true},
		{"quality_check", true, false, false, true},
		{"completed", true, false, true, true},
		{"delivered", true, false, true, true},
		{"cancelled", true, false, true, true},
		{"Canceled", true, false, true, true},
		{"no_show", true, false, true, true},
		{"on_hold", false, false, false, false},
		{"", false, false, false, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.known, tt.status.IsKnown())
			assert.Equal(t, tt.scheduledLike, tt.status.IsScheduledLike())
			assert.Equal(t, tt.terminal, tt.status.IsTerminal())
			assert.Equal(t, tt.explicit, tt.status.IsExplicit())
		})
	}
}

func TestNewJobStatus(t *testing.T) {
	status, err := NewJobStatus(" Quality_Check ")
	require.NoError(t, err)
	assert.Equal(t, JobStatusQualityCheck, status)

	_, err = NewJobStatus("archived")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidJobStatus))
}

func TestNewJobStatuses(t *testing.T) {
	statuses, err := NewJobStatuses([]string{"scheduled", "BOOKED", "scheduled"})
	require.NoError(t, err)
	assert.Equal(t, []JobStatus{JobStatusScheduled, JobStatusBooked}, statuses)

	statuses, err = NewJobStatuses(nil)
	require.NoError(t, err)
	assert.Nil(t, statuses)

	_, err = NewJobStatuses([]string{"scheduled", "bogus"})
	assert.ErrorIs(t, err, ErrInvalidJobStatus)
}

func TestNewTitle(t *testing.T) {
	title, err := NewTitle("  Window tint  ")
	require.NoError(t, err)
	assert.Equal(t, "Window tint", title.String())

	_, err = NewTitle("   ")
	assert.ErrorIs(t, err, ErrTitleRequired)

	long := make([]byte, 256)
	for i := range long {
		long[i] = 'a'
	}
	_, err = NewTitle(string(long))
	assert.ErrorIs(t, err, ErrTitleTooLong)
}

func TestJob_Etag(t *testing.T) {
	job := &Job{Version: 7}
	assert.Equal(t, "7", job.Etag())
}

func TestUpdateJobStatusParams_Validate(t *testing.T) {
	assert.NoError(t, UpdateJobStatusParams{JobID: "j1", Status: JobStatusCompleted}.Validate())
	assert.ErrorIs(t, UpdateJobStatusParams{Status: JobStatusCompleted}.Validate(), ErrInvalidID)
	assert.ErrorIs(t, UpdateJobStatusParams{JobID: "j1", Status: "bogus"}.Validate(), ErrInvalidJobStatus)
}
