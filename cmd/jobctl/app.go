package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rezkam/aftermarket/internal/config"
	"github.com/rezkam/aftermarket/internal/env"
	"github.com/rezkam/aftermarket/internal/infrastructure/persistence"
	"github.com/rezkam/aftermarket/internal/temporal"
)

// App carries the global flags shared by every command.
type App struct {
	Stdout     io.Writer
	JSONOutput bool
	Timezone   string
	ZoneLabel  string
	Now        string
	SQLitePath string

	// wallClock is replaced in tests.
	wallClock func() time.Time
}

func newApp(stdout io.Writer) *App {
	return &App{
		Stdout:    stdout,
		wallClock: func() time.Time { return time.Now().UTC() },
	}
}

// schedule resolves the dealership zone: flags first, then AFTERMARKET_TIMEZONE
// and AFTERMARKET_ZONE_LABEL.
func (a *App) schedule() (*time.Location, string, error) {
	var cfg config.ScheduleConfig
	if err := env.Load(&cfg); err != nil {
		return nil, "", err
	}
	if a.Timezone != "" {
		cfg.Timezone = a.Timezone
	}
	if a.ZoneLabel != "" {
		cfg.ZoneLabel = a.ZoneLabel
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, "", err
	}
	return loc, cfg.ZoneLabel, nil
}

// clock returns the --now instant when given, the wall clock otherwise.
func (a *App) clock() (func() time.Time, error) {
	if a.Now == "" {
		return a.wallClock, nil
	}
	now, ok := temporal.Parse(scheduleValue(a.Now))
	if !ok {
		return nil, fmt.Errorf("invalid --now %q", a.Now)
	}
	return func() time.Time { return now }, nil
}

// openStore opens --sqlite when given, otherwise the store configured by
// AFTERMARKET_STORAGE_TYPE and friends.
func (a *App) openStore(ctx context.Context) (persistence.Store, error) {
	if a.SQLitePath != "" {
		return persistence.Open(ctx, config.StorageConfig{
			Type:       config.StorageSQLite,
			SQLitePath: a.SQLitePath,
		})
	}
	cfg, err := config.LoadCLIConfig()
	if err != nil {
		return nil, err
	}
	return persistence.Open(ctx, cfg.Storage)
}

func (a *App) write(human string, payload any) error {
	if a.JSONOutput {
		enc := json.NewEncoder(a.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(payload)
	}
	_, err := fmt.Fprintln(a.Stdout, human)
	return err
}

// scheduleValue treats an all-digit flag as epoch milliseconds.
func scheduleValue(s string) any {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if strings.Trim(s, "0123456789") == "" {
		return json.Number(s)
	}
	return s
}
