package temporal

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newYork(t *testing.T) *time.Location {
	t.Helper()
	loc, err := LoadZone("America/New_York")
	require.NoError(t, err)
	return loc
}

func TestParse_DateOnlyAnchorsAtNoonUTC(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"pure date", "2024-01-05"},
		{"midnight utc", "2024-01-05T00:00:00Z"},
		{"midnight utc with millis", "2024-01-05T00:00:00.000Z"},
		{"midnight without zone", "2024-01-05T00:00:00"},
		{"midnight with colon offset", "2024-01-05T00:00:00+00:00"},
		{"midnight with compact offset", "2024-01-05T00:00:00-0500"},
		{"surrounding whitespace", "  2024-01-05  "},
	}

	want := time.Date(2024, time.January, 5, 12, 0, 0, 0, time.UTC)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Parse(tt.input)
			require.True(t, ok)
			assert.True(t, want.Equal(got), "got %s", got)
		})
	}
}

func TestParse_ExactInstants(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  time.Time
	}{
		{"rfc3339 utc", "2024-01-05T14:00:00Z", time.Date(2024, 1, 5, 14, 0, 0, 0, time.UTC)},
		{"rfc3339 millis", "2024-01-05T14:00:00.250Z", time.Date(2024, 1, 5, 14, 0, 0, 250_000_000, time.UTC)},
		{"rfc3339 offset", "2024-01-05T09:00:00-05:00", time.Date(2024, 1, 5, 14, 0, 0, 0, time.UTC)},
		{"compact offset", "2024-01-05T09:00:00-0500", time.Date(2024, 1, 5, 14, 0, 0, 0, time.UTC)},
		{"postgres text", "2024-01-05 14:00:00+00", time.Date(2024, 1, 5, 14, 0, 0, 0, time.UTC)},
		{"postgres text with fraction", "2024-01-05 14:00:00.5+00", time.Date(2024, 1, 5, 14, 0, 0, 500_000_000, time.UTC)},
		{"zone-less reads as utc", "2024-01-05T14:00:00", time.Date(2024, 1, 5, 14, 0, 0, 0, time.UTC)},
		{"minute precision", "2024-01-05T14:30", time.Date(2024, 1, 5, 14, 30, 0, 0, time.UTC)},
		{"non-midnight utc is exact", "2024-01-05T00:00:01Z", time.Date(2024, 1, 5, 0, 0, 1, 0, time.UTC)},
		{"rfc1123", "Fri, 05 Jan 2024 14:00:00 GMT", time.Date(2024, 1, 5, 14, 0, 0, 0, time.UTC)},
		{"month name", "Jan 5, 2024", time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)},
		{"epoch millis int64", int64(1704463200000), time.Date(2024, 1, 5, 14, 0, 0, 0, time.UTC)},
		{"epoch millis int", 1704463200000, time.Date(2024, 1, 5, 14, 0, 0, 0, time.UTC)},
		{"epoch millis float", float64(1704463200000), time.Date(2024, 1, 5, 14, 0, 0, 0, time.UTC)},
		{"epoch zero", 0, time.Unix(0, 0).UTC()},
		{"json number", json.Number("1704463200000"), time.Date(2024, 1, 5, 14, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Parse(tt.input)
			require.True(t, ok)
			assert.True(t, tt.want.Equal(got), "want %s got %s", tt.want, got)
		})
	}
}

func TestParse_TimeValuesPassThrough(t *testing.T) {
	at := time.Date(2024, 1, 5, 9, 15, 0, 0, newYork(t))

	got, ok := Parse(at)
	require.True(t, ok)
	assert.Equal(t, at, got)

	got, ok = Parse(&at)
	require.True(t, ok)
	assert.Equal(t, at, got)

	s := "2024-01-05"
	got, ok = Parse(&s)
	require.True(t, ok)
	assert.Equal(t, 12, got.Hour())
}

func TestParse_Invalid(t *testing.T) {
	var nilTime *time.Time
	var nilString *string

	tests := []struct {
		name  string
		input any
	}{
		{"nil", nil},
		{"nil time pointer", nilTime},
		{"nil string pointer", nilString},
		{"empty string", ""},
		{"blank string", "   "},
		{"garbage", "not a date"},
		{"impossible day", "2024-02-30"},
		{"impossible month", "2024-13-01"},
		{"zero month", "2024-00-10"},
		{"zero time", time.Time{}},
		{"nan", math.NaN()},
		{"infinity", math.Inf(1)},
		{"beyond date range", 8.64e15 + 1},
		{"unsupported type", struct{}{}},
		{"bool", true},
		{"bad json number", json.Number("abc")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				_, ok := Parse(tt.input)
				assert.False(t, ok)
			})
		})
	}
}

func TestParse_LeapDay(t *testing.T) {
	got, ok := Parse("2024-02-29")
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 2, 29, 12, 0, 0, 0, time.UTC), got)

	_, ok = Parse("2023-02-29")
	assert.False(t, ok)
}

func TestIsDateOnly(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  bool
	}{
		{"pure date", "2024-01-05", true},
		{"midnight utc", "2024-01-05T00:00:00Z", true},
		{"midnight with millis", "2024-01-05T00:00:00.000Z", true},
		{"midnight with offset", "2024-01-05T00:00:00+05:30", true},
		{"midnight without zone", "2024-01-05T00:00:00", true},
		{"pointer to date", stringPtr("2024-01-05"), true},
		{"one second past midnight", "2024-01-05T00:00:01Z", false},
		{"afternoon", "2024-01-05T14:00:00Z", false},
		{"postgres midnight text", "2024-01-05 00:00:00+00", false},
		{"time value", time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), false},
		{"epoch millis", int64(1704412800000), false},
		{"nil", nil, false},
		{"empty", "", false},
		{"impossible date still has the shape", "2024-02-30", true},
		{"padded date", " 2024-01-05 ", false},
		{"padded midnight", "2024-01-05T00:00:00Z\n", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsDateOnly(tt.input))
		})
	}
}

func TestIsDateOnly_ShapeWithoutValue(t *testing.T) {
	require.True(t, IsDateOnly("2024-02-30"))
	_, ok := Parse("2024-02-30")
	assert.False(t, ok)
	_, ok = Canonical("2024-02-30")
	assert.False(t, ok)
}

func TestCanonical_PaddedDateIsAnInstant(t *testing.T) {
	got, ok := Canonical(" 2024-01-05 ")
	require.True(t, ok)
	assert.Equal(t, "2024-01-05T12:00:00.000Z", got)
	assert.False(t, IsDateOnly(got))
}

func TestCanonical(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  string
	}{
		{"date only", "2024-01-05", "2024-01-05T00:00:00.000Z"},
		{"midnight with offset keeps the written day", "2024-01-05T00:00:00-05:00", "2024-01-05T00:00:00.000Z"},
		{"offset instant", "2024-01-05T09:00:00-05:00", "2024-01-05T14:00:00.000Z"},
		{"time value", time.Date(2024, 1, 5, 9, 0, 0, 0, newYork(t)), "2024-01-05T14:00:00.000Z"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Canonical(tt.input)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, IsDateOnly(tt.input), IsDateOnly(got))
		})
	}

	_, ok := Canonical("garbage")
	assert.False(t, ok)
}

func TestCalendarDate(t *testing.T) {
	ny := newYork(t)

	got, ok := CalendarDate("2024-01-05", ny)
	require.True(t, ok)
	assert.Equal(t, "2024-01-05", got)

	// 02:00 UTC on the 6th is still the evening of the 5th in New York.
	got, ok = CalendarDate("2024-01-06T02:00:00Z", ny)
	require.True(t, ok)
	assert.Equal(t, "2024-01-05", got)

	_, ok = CalendarDate(nil, ny)
	assert.False(t, ok)
}

func TestLoadZone(t *testing.T) {
	loc, err := LoadZone("")
	require.NoError(t, err)
	assert.Equal(t, DefaultTimezone, loc.String())

	_, err = LoadZone("Mars/Olympus_Mons")
	assert.Error(t, err)

	assert.Equal(t, DefaultTimezone, OrDefault(nil).String())
	assert.Equal(t, time.UTC, OrDefault(time.UTC))
}

func stringPtr(s string) *string { return &s }
