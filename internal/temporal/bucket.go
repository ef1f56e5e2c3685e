package temporal

import "time"

// DayBucket returns the UTC epoch milliseconds of local midnight in loc for
// the day v falls on. Two values share a bucket exactly when they fall on the
// same calendar day in loc. A nil loc means DefaultLocation.
func DayBucket(v any, loc *time.Location) (int64, bool) {
	loc = OrDefault(loc)
	y, m, d, ok := calendarDay(v, loc)
	if !ok {
		return 0, false
	}
	return time.Date(y, m, d, 0, 0, 0, 0, loc).UnixMilli(), true
}

// DayOf returns the local midnight in loc of the day v falls on.
func DayOf(v any, loc *time.Location) (time.Time, bool) {
	bucket, ok := DayBucket(v, loc)
	if !ok {
		return time.Time{}, false
	}
	return time.UnixMilli(bucket).In(OrDefault(loc)), true
}
