package schedule

import (
	"sort"
	"time"

	"github.com/rezkam/aftermarket/internal/temporal"
)

// Day is one calendar day of grouped items in the formatter's timezone.
type Day[T any] struct {
	Bucket int64  // UTC epoch ms of local midnight
	Date   string // YYYY-MM-DD
	Label  string // Mon Jan 5
	Items  []T
}

// Anchor returns the value that places a record on the calendar: the
// scheduled start when it parses, otherwise the first promised date.
func (r Record) Anchor() (any, bool) {
	if Present(r.ScheduledStart) {
		if _, ok := temporal.Parse(r.ScheduledStart); ok {
			return r.ScheduledStart, true
		}
	}
	if promised, ok := r.Promised(); ok {
		if _, ok := temporal.Parse(promised); ok {
			return promised, true
		}
	}
	return nil, false
}

// GroupByDay buckets items by the local day of their anchor. Days are sorted
// ascending. Within a day, all-day items come first and the rest follow by
// start time. Items without an anchor are returned as unscheduled in input order.
func GroupByDay[T any](f *Formatter, items []T, record func(T) Record) ([]Day[T], []T) {
	type entry struct {
		item   T
		at     time.Time
		allDay bool
	}

	byBucket := make(map[int64][]entry)
	var unscheduled []T

	for _, item := range items {
		rec := record(item)
		anchor, ok := rec.Anchor()
		if !ok {
			unscheduled = append(unscheduled, item)
			continue
		}
		bucket, ok := temporal.DayBucket(anchor, f.loc)
		if !ok {
			unscheduled = append(unscheduled, item)
			continue
		}
		at, _ := temporal.Parse(anchor)
		allDay := temporal.IsDateOnly(anchor) || !Present(rec.ScheduledStart)
		byBucket[bucket] = append(byBucket[bucket], entry{item: item, at: at, allDay: allDay})
	}

	buckets := make([]int64, 0, len(byBucket))
	for bucket := range byBucket {
		buckets = append(buckets, bucket)
	}
	sort.Slice(buckets, func(i, j int) bool { return buckets[i] < buckets[j] })

	days := make([]Day[T], 0, len(buckets))
	for _, bucket := range buckets {
		entries := byBucket[bucket]
		sort.SliceStable(entries, func(i, j int) bool {
			if entries[i].allDay != entries[j].allDay {
				return entries[i].allDay
			}
			if entries[i].allDay {
				return false
			}
			return entries[i].at.Before(entries[j].at)
		})

		dayItems := make([]T, len(entries))
		for i, e := range entries {
			dayItems[i] = e.item
		}

		midnight := time.UnixMilli(bucket).In(f.loc)
		days = append(days, Day[T]{
			Bucket: bucket,
			Date:   midnight.Format("2006-01-02"),
			Label:  formatDay(midnight, WeekdayShort),
			Items:  dayItems,
		})
	}

	return days, unscheduled
}
