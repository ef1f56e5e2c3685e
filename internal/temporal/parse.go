package temporal

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// maxEpochMillis is the largest magnitude a JavaScript Date can hold.
const maxEpochMillis = 8.64e15

// anchorHour is the UTC hour date-only values are pinned to. Noon UTC lands on
// the same calendar day for every offset between -12:00 and +11:59.
const anchorHour = 12

var (
	pureDatePattern    = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})$`)
	midnightISOPattern = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})T00:00:00(?:\.\d+)?(?:Z|[+-]\d{2}:?\d{2})?$`)
)

const (
	canonicalLayout    = "2006-01-02T15:04:05.000Z"
	calendarDateLayout = "2006-01-02"
)

// layouts are tried in order for strings that are not date-only. Layouts
// without a zone are read as UTC. Fractional seconds after the seconds field
// are accepted by time.Parse even when the layout omits them.
var layouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05Z0700",
	"2006-01-02T15:04Z07:00",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05-07",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	time.RFC1123Z,
	time.RFC1123,
	"Mon Jan 2 2006 15:04:05 GMT-0700",
	"Jan 2, 2006 3:04 PM",
	"Jan 2, 2006",
	"January 2, 2006",
	"01/02/2006 15:04",
	"01/02/2006",
	"2006/01/02",
}

// Parse converts v into an instant. It reports false for absent, empty,
// malformed or out-of-range input and never panics.
//
// Accepted inputs are nil, time.Time, *time.Time, string, *string,
// json.Number and numeric kinds (epoch milliseconds). The zero time.Time is
// treated as invalid.
func Parse(v any) (time.Time, bool) {
	switch x := v.(type) {
	case nil:
		return time.Time{}, false
	case time.Time:
		if x.IsZero() {
			return time.Time{}, false
		}
		return x, true
	case *time.Time:
		if x == nil {
			return time.Time{}, false
		}
		return Parse(*x)
	case string:
		return parseString(x)
	case *string:
		if x == nil {
			return time.Time{}, false
		}
		return parseString(*x)
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return time.Time{}, false
		}
		return fromMillis(f)
	case int:
		return fromMillis(float64(x))
	case int8:
		return fromMillis(float64(x))
	case int16:
		return fromMillis(float64(x))
	case int32:
		return fromMillis(float64(x))
	case int64:
		return fromMillis(float64(x))
	case uint:
		return fromMillis(float64(x))
	case uint8:
		return fromMillis(float64(x))
	case uint16:
		return fromMillis(float64(x))
	case uint32:
		return fromMillis(float64(x))
	case uint64:
		return fromMillis(float64(x))
	case float32:
		return fromMillis(float64(x))
	case float64:
		return fromMillis(x)
	default:
		return time.Time{}, false
	}
}

// IsDateOnly reports whether v is a string carrying only a calendar day:
// "YYYY-MM-DD" or a midnight ISO string such as "2024-01-05T00:00:00.000Z".
// time.Time values always report false since they have lost that distinction.
func IsDateOnly(v any) bool {
	s, ok := stringValue(v)
	if !ok {
		return false
	}
	return pureDatePattern.MatchString(s) || midnightISOPattern.MatchString(s)
}

// Canonical renders v as storage text. Exact instants use the UTC
// millisecond form "2006-01-02T15:04:05.000Z"; date-only values become
// midnight UTC of their day so they read back as date-only.
func Canonical(v any) (string, bool) {
	if s, ok := stringValue(v); ok && IsDateOnly(s) {
		if day, ok := dateOnly(s); ok {
			return time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC).Format(canonicalLayout), true
		}
	}
	t, ok := Parse(v)
	if !ok {
		return "", false
	}
	return t.UTC().Format(canonicalLayout), true
}

// CalendarDate renders the calendar day of v as "YYYY-MM-DD". Date-only
// values keep their written day; exact instants use their day in loc.
func CalendarDate(v any, loc *time.Location) (string, bool) {
	y, m, d, ok := calendarDay(v, loc)
	if !ok {
		return "", false
	}
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Format(calendarDateLayout), true
}

func parseString(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}
	if day, ok := dateOnly(s); ok {
		return day, true
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// dateOnly matches both date-only shapes and returns noon UTC of the written day.
func dateOnly(s string) (time.Time, bool) {
	m := pureDatePattern.FindStringSubmatch(s)
	if m == nil {
		m = midnightISOPattern.FindStringSubmatch(s)
	}
	if m == nil {
		return time.Time{}, false
	}
	year, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	day, _ := strconv.Atoi(m[3])

	t := time.Date(year, time.Month(month), day, anchorHour, 0, 0, 0, time.UTC)
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}

func fromMillis(ms float64) (time.Time, bool) {
	if math.IsNaN(ms) || math.IsInf(ms, 0) || math.Abs(ms) > maxEpochMillis {
		return time.Time{}, false
	}
	return time.UnixMilli(int64(ms)).UTC(), true
}

func stringValue(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		return x, true
	case *string:
		if x == nil {
			return "", false
		}
		return *x, true
	default:
		return "", false
	}
}

// calendarDay resolves the calendar day v represents in loc.
func calendarDay(v any, loc *time.Location) (int, time.Month, int, bool) {
	t, ok := Parse(v)
	if !ok {
		return 0, 0, 0, false
	}
	if IsDateOnly(v) {
		y, m, d := t.UTC().Date()
		return y, m, d, true
	}
	y, m, d := t.In(OrDefault(loc)).Date()
	return y, m, d, true
}
