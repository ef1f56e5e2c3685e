package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testNow = "2024-01-05T15:00:00Z"

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("AFTERMARKET_TIMEZONE", "")
	t.Setenv("AFTERMARKET_ZONE_LABEL", "")

	var out bytes.Buffer
	app := newApp(&out)
	app.wallClock = func() time.Time { return time.Date(2024, 1, 5, 15, 0, 0, 0, time.UTC) }

	cmd := newRootCmd(app)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestDisplay(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "exact window",
			args: []string{"--start", "2024-01-05T14:00:00Z", "--end", "2024-01-05T16:30:00Z", "--status", "scheduled"},
			want: "Fri Jan 5 • 9:00–11:30 AM ET\neffective: in_progress\n",
		},
		{
			name: "epoch millis",
			args: []string{"--start", "1704463200000"},
			want: "Fri Jan 5 • 9:00 AM ET\n",
		},
		{
			name: "promised only",
			args: []string{"--promised", "2024-01-10"},
			want: "All-day (Time TBD) • Wed Jan 10\nbadge: Scheduled (No Time)\n",
		},
		{
			name: "nothing",
			args: nil,
			want: "—\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, append([]string{"display", "--now", testNow}, tt.args...)...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestDisplay_JSON(t *testing.T) {
	out, err := execute(t, "display", "--json", "--start", "2024-01-10", "--status", "booked")
	require.NoError(t, err)

	var payload struct {
		Primary         string `json:"primary"`
		DateOnly        bool   `json:"date_only"`
		EffectiveStatus string `json:"effective_status"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &payload))
	assert.Equal(t, "Wed Jan 10 • Time TBD", payload.Primary)
	assert.True(t, payload.DateOnly)
	assert.Equal(t, "booked", payload.EffectiveStatus)
}

func TestDisplay_Timezone(t *testing.T) {
	out, err := execute(t, "display", "--timezone", "America/Los_Angeles", "--zone-label", "PT", "--start", "2024-01-05T17:00:00Z")
	require.NoError(t, err)
	assert.Equal(t, "Fri Jan 5 • 9:00 AM PT\n", out)

	_, err = execute(t, "display", "--timezone", "Mars/Olympus")
	assert.Error(t, err)

	_, err = execute(t, "display", "--now", "yesterday-ish")
	assert.Error(t, err)
}

func TestStatus(t *testing.T) {
	out, err := execute(t, "status", "--now", testNow, "--status", "completed", "--start", "2024-01-08T14:00:00Z")
	require.NoError(t, err)
	assert.Equal(t, "effective: completed\nuncomplete → scheduled\nreopen → quality_check\n", out)

	out, err = execute(t, "status", "--now", testNow, "--status", "Booked", "--start", "2024-01-05")
	require.NoError(t, err)
	assert.Contains(t, out, "effective: in_progress\n")

	_, err = execute(t, "status")
	assert.Error(t, err)
}

func TestSeedAndSweep(t *testing.T) {
	db := filepath.Join(t.TempDir(), "jobs.db")

	out, err := execute(t, "seed", "--json", "--now", testNow, "--sqlite", db)
	require.NoError(t, err)

	var seeded struct {
		Created []string `json:"created"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &seeded))
	assert.Len(t, seeded.Created, len(demoJobs))

	out, err = execute(t, "sweep", "--json", "--now", "2024-01-20T15:00:00Z", "--sqlite", db)
	require.NoError(t, err)

	var result struct {
		Scanned  int `json:"scanned"`
		Promoted int `json:"promoted"`
		Skipped  int `json:"skipped"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	// Two exact and one date-only job are scheduled; the rest are pending.
	assert.Equal(t, 3, result.Scanned)
	assert.Equal(t, 3, result.Promoted)

	out, err = execute(t, "sweep", "--json", "--now", "2024-01-20T15:00:00Z", "--sqlite", db)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, 0, result.Scanned)
}

func TestSeed_RejectsNonPositiveCount(t *testing.T) {
	_, err := execute(t, "seed", "--count", "0", "--sqlite", filepath.Join(t.TempDir(), "jobs.db"))
	assert.Error(t, err)
}

func TestScheduleValue(t *testing.T) {
	assert.Nil(t, scheduleValue("  "))
	assert.Equal(t, json.Number("1704463200000"), scheduleValue("1704463200000"))
	assert.Equal(t, "2024-01-05", scheduleValue("2024-01-05"))
}
