// Package temporal turns loosely typed date/time values into instants without
// shifting calendar days.
//
// Values arrive from storage and JSON as strings, numbers or time.Time. A
// date-only value ("2024-01-05", or a midnight-UTC ISO string that storage
// produced from one) is anchored at 12:00 UTC so that converting it into any
// US timezone keeps the same calendar day.
package temporal

import (
	"fmt"
	"sync"
	"time"

	// Zone data is embedded so the scheduling zone resolves in minimal containers.
	_ "time/tzdata"
)

// DefaultTimezone is the dealership operating zone used when none is configured.
const DefaultTimezone = "America/New_York"

var (
	defaultLocOnce sync.Once
	defaultLoc     *time.Location
)

// LoadZone resolves an IANA zone name. An empty name resolves to DefaultTimezone.
func LoadZone(name string) (*time.Location, error) {
	if name == "" {
		name = DefaultTimezone
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", name, err)
	}
	return loc, nil
}

// DefaultLocation returns the DefaultTimezone location, or UTC if it cannot be loaded.
func DefaultLocation() *time.Location {
	defaultLocOnce.Do(func() {
		loc, err := LoadZone(DefaultTimezone)
		if err != nil {
			loc = time.UTC
		}
		defaultLoc = loc
	})
	return defaultLoc
}

// OrDefault returns loc, or DefaultLocation when loc is nil.
func OrDefault(loc *time.Location) *time.Location {
	if loc == nil {
		return DefaultLocation()
	}
	return loc
}
