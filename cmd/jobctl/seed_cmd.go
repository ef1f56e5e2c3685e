package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/rezkam/aftermarket/internal/application/automation"
	"github.com/rezkam/aftermarket/internal/application/jobs"
	"github.com/rezkam/aftermarket/internal/jobstatus"
)

// demoJobs cycles through the schedule shapes the board has to render.
var demoJobs = []struct {
	title    string
	vendor   string
	shape    string
	duration time.Duration
}{
	{"Window tint", "tint-pros", "exact", 2 * time.Hour},
	{"Remote start install", "audio-works", "date-only", 0},
	{"Ceramic coating", "detail-co", "promised", 0},
	{"Running boards", "audio-works", "exact", 90 * time.Minute},
	{"Paint protection film", "tint-pros", "unscheduled", 0},
}

func newSeedCmd(app *App) *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create demo jobs over the next few days",
		RunE: func(cmd *cobra.Command, args []string) error {
			if count <= 0 {
				return fmt.Errorf("--count must be positive")
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			loc, label, err := app.schedule()
			if err != nil {
				return err
			}
			clock, err := app.clock()
			if err != nil {
				return err
			}

			store, err := app.openStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			svc := jobs.NewService(store, jobs.Config{Location: loc, ZoneLabel: label, Clock: clock})
			today := clock().In(loc)

			lines := make([]string, 0, count)
			created := make([]string, 0, count)
			for i := range count {
				input := demoInput(i, today, loc)
				view, err := svc.CreateJob(ctx, input)
				if err != nil {
					return fmt.Errorf("failed to seed job %d: %w", i+1, err)
				}
				created = append(created, view.Job.ID)
				lines = append(lines, fmt.Sprintf("%s  %-24s %s", view.Job.JobNumber, view.Job.Title, view.Display.Primary))
			}

			slog.DebugContext(ctx, "seeded demo jobs", "count", len(created))
			return app.write(strings.Join(lines, "\n"), map[string]any{"created": created})
		},
	}

	cmd.Flags().IntVar(&count, "count", len(demoJobs), "Number of jobs to create")
	cmd.Flags().StringVar(&app.SQLitePath, "sqlite", "", "Seed this sqlite file instead of the configured store")
	return cmd
}

// demoInput builds the i-th demo job, starting on the local day after today.
func demoInput(i int, today time.Time, loc *time.Location) jobs.CreateJobInput {
	demo := demoJobs[i%len(demoJobs)]
	day := time.Date(today.Year(), today.Month(), today.Day()+1+i/len(demoJobs)+i%3, 0, 0, 0, 0, loc)
	vendor := demo.vendor

	input := jobs.CreateJobInput{
		Title:    demo.title,
		VendorID: &vendor,
	}
	switch demo.shape {
	case "exact":
		start := day.Add(time.Duration(8+i%4) * time.Hour)
		input.ScheduledStart = start.UTC().Format(time.RFC3339)
		input.ScheduledEnd = start.Add(demo.duration).UTC().Format(time.RFC3339)
	case "date-only":
		input.ScheduledStart = day.Format(time.DateOnly)
	case "promised":
		input.PromisedDate = day.Format(time.DateOnly)
	}
	return input
}

func newSweepCmd(app *App) *cobra.Command {
	var batchSize int

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Promote started jobs to in_progress once",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			loc, _, err := app.schedule()
			if err != nil {
				return err
			}
			clock, err := app.clock()
			if err != nil {
				return err
			}

			store, err := app.openStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			sweeper := automation.NewSweeper(store, jobstatus.NewRules(loc),
				automation.WithBatchSize(batchSize),
				automation.WithClock(clock))
			result, err := sweeper.RunOnce(ctx)
			if err != nil {
				return err
			}

			human := fmt.Sprintf("scanned %d, promoted %d, skipped %d", result.Scanned, result.Promoted, result.Skipped)
			return app.write(human, map[string]any{
				"scanned":  result.Scanned,
				"promoted": result.Promoted,
				"skipped":  result.Skipped,
			})
		},
	}

	cmd.Flags().IntVar(&batchSize, "batch-size", automation.DefaultBatchSize, "Maximum candidate jobs to load")
	cmd.Flags().StringVar(&app.SQLitePath, "sqlite", "", "Sweep this sqlite file instead of the configured store")
	return cmd
}
