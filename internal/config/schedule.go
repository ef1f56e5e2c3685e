package config

import (
	"time"

	"github.com/rezkam/aftermarket/internal/temporal"
)

// ScheduleConfig holds the dealership timezone every label and day boundary uses.
type ScheduleConfig struct {
	// Timezone is an IANA zone name. Empty means America/New_York.
	Timezone string `env:"AFTERMARKET_TIMEZONE"`

	// ZoneLabel is appended to rendered times. Empty derives it from Timezone.
	ZoneLabel string `env:"AFTERMARKET_ZONE_LABEL"`
}

// Validate checks the timezone resolves.
func (c *ScheduleConfig) Validate() error {
	_, err := c.Location()
	return err
}

// Location resolves Timezone.
func (c *ScheduleConfig) Location() (*time.Location, error) {
	return temporal.LoadZone(c.Timezone)
}
