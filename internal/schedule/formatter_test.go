package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezkam/aftermarket/internal/temporal"
)

func newTestFormatter(t *testing.T) *Formatter {
	t.Helper()
	loc, err := temporal.LoadZone("America/New_York")
	require.NoError(t, err)
	return NewFormatter(loc, "ET")
}

func TestDateLabel(t *testing.T) {
	f := newTestFormatter(t)

	tests := []struct {
		name  string
		input any
		style WeekdayStyle
		want  string
	}{
		{"date only", "2024-01-05", WeekdayShort, "Fri Jan 5"},
		{"date only long weekday", "2024-01-05", WeekdayLong, "Friday Jan 5"},
		{"midnight utc stays on its day", "2024-01-05T00:00:00.000Z", WeekdayShort, "Fri Jan 5"},
		{"evening utc rolls back in new york", "2024-01-06T03:00:00Z", WeekdayShort, "Fri Jan 5"},
		{"two digit day", "2024-03-15", WeekdayShort, "Fri Mar 15"},
		{"time value", time.Date(2024, 1, 5, 9, 0, 0, 0, time.UTC), WeekdayShort, "Fri Jan 5"},
		{"unparseable", "someday", WeekdayShort, ""},
		{"nil", nil, WeekdayShort, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, f.DateLabel(tt.input, tt.style))
		})
	}
}

func TestTimeWindow(t *testing.T) {
	f := newTestFormatter(t)

	tests := []struct {
		name  string
		start any
		end   any
		want  string
	}{
		{"shared morning meridiem", "2024-01-05T14:00:00Z", "2024-01-05T16:30:00Z", "Fri Jan 5 • 9:00–11:30 AM ET"},
		{"shared afternoon meridiem", "2024-01-05T17:00:00Z", "2024-01-05T18:00:00Z", "Fri Jan 5 • 12:00–1:00 PM ET"},
		{"crosses noon", "2024-01-05T14:00:00Z", "2024-01-05T18:30:00Z", "Fri Jan 5 • 9:00 AM–1:30 PM ET"},
		{"start only", "2024-01-05T19:00:00Z", nil, "Fri Jan 5 • 2:00 PM ET"},
		{"unparseable end", "2024-01-05T14:00:00Z", "later", "Fri Jan 5 • 9:00 AM ET"},
		{"end before start", "2024-01-05T16:00:00Z", "2024-01-05T14:00:00Z", "Fri Jan 5 • 11:00 AM ET"},
		{"crosses midnight", "2024-01-06T04:00:00Z", "2024-01-06T06:00:00Z", "Fri Jan 5 • 11:00 PM–Sat Jan 6 1:00 AM ET"},
		{"daylight saving", "2024-07-04T13:00:00Z", "2024-07-04T15:00:00Z", "Thu Jul 4 • 9:00–11:00 AM ET"},
		{"offset input", "2024-01-05T09:00:00-05:00", "2024-01-05T10:15:00-05:00", "Fri Jan 5 • 9:00–10:15 AM ET"},
		{"unparseable start", "soon", "2024-01-05T16:30:00Z", ""},
		{"absent start", nil, nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, f.TimeWindow(tt.start, tt.end))
		})
	}
}

func TestTimeWindow_IndependentOfInputZone(t *testing.T) {
	f := newTestFormatter(t)
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)

	start := time.Date(2024, 1, 5, 14, 0, 0, 0, time.UTC)
	end := start.Add(150 * time.Minute)

	want := f.TimeWindow(start, end)
	assert.Equal(t, "Fri Jan 5 • 9:00–11:30 AM ET", want)
	assert.Equal(t, want, f.TimeWindow(start.In(tokyo), end.In(tokyo)))
}

func TestDisplay(t *testing.T) {
	f := newTestFormatter(t)

	tests := []struct {
		name string
		rec  Record
		want Display
	}{
		{
			name: "exact window",
			rec:  Record{ScheduledStart: "2024-01-05T14:00:00Z", ScheduledEnd: "2024-01-05T16:30:00Z"},
			want: Display{Primary: "Fri Jan 5 • 9:00–11:30 AM ET"},
		},
		{
			name: "exact start ignores promised date",
			rec:  Record{ScheduledStart: "2024-01-05T14:00:00Z", PromisedDate: "2024-01-10"},
			want: Display{Primary: "Fri Jan 5 • 9:00 AM ET"},
		},
		{
			name: "date-only start",
			rec:  Record{ScheduledStart: "2024-01-05"},
			want: Display{Primary: "Fri Jan 5 • Time TBD"},
		},
		{
			name: "midnight utc start is date-only",
			rec:  Record{ScheduledStart: "2024-01-05T00:00:00.000Z", ScheduledEnd: "2024-01-05T00:00:00.000Z"},
			want: Display{Primary: "Fri Jan 5 • Time TBD"},
		},
		{
			name: "promised date only",
			rec:  Record{PromisedDate: "2024-01-10"},
			want: Display{Primary: "All-day (Time TBD) • Wed Jan 10", Badge: "Scheduled (No Time)"},
		},
		{
			name: "promised date wins over later fields",
			rec:  Record{PromisedDate: "2024-01-10", PromisedAt: "2024-01-11", NextPromisedISO: "2024-01-12"},
			want: Display{Primary: "All-day (Time TBD) • Wed Jan 10", Badge: "Scheduled (No Time)"},
		},
		{
			name: "promisedAt used when promised date blank",
			rec:  Record{PromisedDate: "", PromisedAt: "2024-01-11T00:00:00Z"},
			want: Display{Primary: "All-day (Time TBD) • Thu Jan 11", Badge: "Scheduled (No Time)"},
		},
		{
			name: "next promised iso",
			rec:  Record{NextPromisedISO: "2024-01-12"},
			want: Display{Primary: "All-day (Time TBD) • Fri Jan 12", Badge: "Scheduled (No Time)"},
		},
		{
			name: "unparseable promised date",
			rec:  Record{PromisedDate: "next week"},
			want: Display{Primary: "All-day (Time TBD)", Badge: "Scheduled (No Time)"},
		},
		{
			name: "blank start falls through to promised",
			rec:  Record{ScheduledStart: "  ", PromisedDate: "2024-01-10"},
			want: Display{Primary: "All-day (Time TBD) • Wed Jan 10", Badge: "Scheduled (No Time)"},
		},
		{
			name: "unparseable start",
			rec:  Record{ScheduledStart: "tbd"},
			want: Display{Primary: "—"},
		},
		{
			name: "nothing",
			rec:  Record{},
			want: Display{Primary: "—"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, f.Display(tt.rec))
		})
	}
}

func TestDisplay_TypedNilPointers(t *testing.T) {
	f := newTestFormatter(t)
	var start, promised *string

	assert.Equal(t, Display{Primary: NoSchedule}, f.Display(Record{ScheduledStart: start, PromisedDate: promised}))

	day := "2024-01-10"
	got := f.Display(Record{ScheduledStart: start, PromisedDate: &day})
	assert.Equal(t, BadgeNoTime, got.Badge)
}

func TestNewFormatter_Zones(t *testing.T) {
	f := NewFormatter(nil, "")
	assert.Equal(t, temporal.DefaultTimezone, f.Location().String())
	assert.Equal(t, "ET", f.Zone())

	chicago, err := temporal.LoadZone("America/Chicago")
	require.NoError(t, err)
	central := NewFormatter(chicago, "")
	assert.Equal(t, "CT", central.Zone())
	assert.Equal(t, "Fri Jan 5 • 8:00 AM CT", central.TimeWindow("2024-01-05T14:00:00Z", nil))

	tokyo, err := temporal.LoadZone("Asia/Tokyo")
	require.NoError(t, err)
	assert.Equal(t, "Asia/Tokyo", NewFormatter(tokyo, "").Zone())
	assert.Equal(t, "JST", NewFormatter(tokyo, "JST").Zone())
}

func TestPresent(t *testing.T) {
	var nilTime *time.Time
	blank := " "
	day := "2024-01-05"

	assert.False(t, Present(nil))
	assert.False(t, Present(""))
	assert.False(t, Present(&blank))
	assert.False(t, Present(nilTime))
	assert.True(t, Present(&day))
	assert.True(t, Present(int64(0)))
	assert.True(t, Present(time.Now().UTC()))
}
