// Package schedule renders when a job happens in the dealership timezone.
//
// Labels distinguish three situations dispatchers must never confuse: an exact
// appointment window, a booked day with no time yet, and a promised-by date
// with no appointment at all.
package schedule

import (
	"fmt"
	"strings"
	"time"

	"github.com/rezkam/aftermarket/internal/temporal"
)

// WeekdayStyle selects abbreviated or full weekday names.
type WeekdayStyle int

const (
	WeekdayShort WeekdayStyle = iota
	WeekdayLong
)

const (
	// NoSchedule is the primary label for records with nothing to show.
	NoSchedule = "—"

	// TimeTBD marks a booked day without a time slot.
	TimeTBD = "Time TBD"

	// AllDayTBD prefixes promised-by dates that have no appointment.
	AllDayTBD = "All-day (Time TBD)"

	// BadgeNoTime flags promised-by dates.
	BadgeNoTime = "Scheduled (No Time)"
)

const (
	shortDateLayout = "Mon Jan 2"
	longDateLayout  = "Monday Jan 2"
	clockLayout     = "3:04"
	meridiemLayout  = "PM"
)

var zoneLabels = map[string]string{
	"America/New_York":    "ET",
	"America/Detroit":     "ET",
	"America/Chicago":     "CT",
	"America/Denver":      "MT",
	"America/Phoenix":     "MT",
	"America/Los_Angeles": "PT",
	"UTC":                 "UTC",
}

// Record is the subset of a job the formatter reads. Each field accepts
// anything temporal.Parse accepts; nil and blank strings count as absent.
type Record struct {
	ScheduledStart  any
	ScheduledEnd    any
	PromisedDate    any
	PromisedAt      any
	NextPromisedISO any
}

// Display is the rendered schedule for one record.
type Display struct {
	Primary string `json:"primary"`
	Badge   string `json:"badge"`
}

// Formatter renders schedule labels in a fixed target timezone. It is safe
// for concurrent use.
type Formatter struct {
	loc  *time.Location
	zone string
}

// NewFormatter returns a Formatter for loc. A nil loc means
// temporal.DefaultTimezone and an empty zoneLabel is derived from the zone name.
func NewFormatter(loc *time.Location, zoneLabel string) *Formatter {
	loc = temporal.OrDefault(loc)
	if zoneLabel == "" {
		zoneLabel = ZoneLabel(loc)
	}
	return &Formatter{loc: loc, zone: zoneLabel}
}

// ZoneLabel returns the short label shown after times for loc.
func ZoneLabel(loc *time.Location) string {
	loc = temporal.OrDefault(loc)
	if label, ok := zoneLabels[loc.String()]; ok {
		return label
	}
	return loc.String()
}

// Location returns the target timezone.
func (f *Formatter) Location() *time.Location { return f.loc }

// Zone returns the zone label appended to times.
func (f *Formatter) Zone() string { return f.zone }

// DateLabel formats v as "Mon Jan 5" (or "Monday Jan 5") in the target
// timezone. Date-only values keep their written day. Returns "" when v
// cannot be parsed.
func (f *Formatter) DateLabel(v any, style WeekdayStyle) string {
	day, ok := temporal.DayOf(v, f.loc)
	if !ok {
		return ""
	}
	return formatDay(day, style)
}

// TimeWindow formats an appointment as "Mon Jan 5 • 9:00–11:30 AM ET".
//
// A shared meridiem is printed once. An end that is absent, unparseable or
// before start is ignored. An end on a later day carries its own date label.
// Returns "" when start cannot be parsed.
func (f *Formatter) TimeWindow(start, end any) string {
	st, ok := temporal.Parse(start)
	if !ok {
		return ""
	}
	from := st.In(f.loc)
	label := formatDay(from, WeekdayShort)

	et, ok := temporal.Parse(end)
	if !ok || et.Before(st) {
		return fmt.Sprintf("%s • %s %s %s", label, from.Format(clockLayout), from.Format(meridiemLayout), f.zone)
	}
	to := et.In(f.loc)

	if !sameDay(from, to) {
		return fmt.Sprintf("%s • %s %s–%s %s %s %s",
			label,
			from.Format(clockLayout), from.Format(meridiemLayout),
			formatDay(to, WeekdayShort),
			to.Format(clockLayout), to.Format(meridiemLayout),
			f.zone)
	}

	if from.Format(meridiemLayout) == to.Format(meridiemLayout) {
		return fmt.Sprintf("%s • %s–%s %s %s",
			label, from.Format(clockLayout), to.Format(clockLayout), to.Format(meridiemLayout), f.zone)
	}
	return fmt.Sprintf("%s • %s %s–%s %s %s",
		label, from.Format(clockLayout), from.Format(meridiemLayout),
		to.Format(clockLayout), to.Format(meridiemLayout), f.zone)
}

// Display picks the label for a record:
//
//  1. exact scheduled start: the appointment window
//  2. date-only scheduled start: "<date> • Time TBD"
//  3. promised date only: "All-day (Time TBD) • <date>" with the no-time badge
//  4. nothing: "—"
func (f *Formatter) Display(rec Record) Display {
	if Present(rec.ScheduledStart) {
		if !temporal.IsDateOnly(rec.ScheduledStart) {
			window := f.TimeWindow(rec.ScheduledStart, rec.ScheduledEnd)
			if window == "" {
				return Display{Primary: NoSchedule}
			}
			return Display{Primary: window}
		}

		label := f.DateLabel(rec.ScheduledStart, WeekdayShort)
		if label == "" {
			return Display{Primary: NoSchedule}
		}
		return Display{Primary: label + " • " + TimeTBD}
	}

	if promised, ok := rec.Promised(); ok {
		label := f.DateLabel(promised, WeekdayShort)
		if label == "" {
			return Display{Primary: AllDayTBD, Badge: BadgeNoTime}
		}
		return Display{Primary: AllDayTBD + " • " + label, Badge: BadgeNoTime}
	}

	return Display{Primary: NoSchedule}
}

// Promised returns the first present promised-date field, checked in the
// order PromisedDate, PromisedAt, NextPromisedISO.
func (r Record) Promised() (any, bool) {
	for _, v := range []any{r.PromisedDate, r.PromisedAt, r.NextPromisedISO} {
		if Present(v) {
			return v, true
		}
	}
	return nil, false
}

// Present reports whether a record field carries a value. Nil, nil pointers
// and blank strings are absent.
func Present(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case string:
		return strings.TrimSpace(x) != ""
	case *string:
		return x != nil && strings.TrimSpace(*x) != ""
	case *time.Time:
		return x != nil
	default:
		return true
	}
}

func formatDay(t time.Time, style WeekdayStyle) string {
	if style == WeekdayLong {
		return t.Format(longDateLayout)
	}
	return t.Format(shortDateLayout)
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
