package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rezkam/aftermarket/internal/application/jobs"
	"github.com/rezkam/aftermarket/internal/domain"
	"github.com/rezkam/aftermarket/internal/jobstatus"
	"github.com/rezkam/aftermarket/internal/schedule"
)

func newDisplayCmd(app *App) *cobra.Command {
	var start, end, promised, promisedAt, nextPromised, status string

	cmd := &cobra.Command{
		Use:   "display",
		Short: "Render the schedule label for a raw record",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := previewService(app)
			if err != nil {
				return err
			}

			preview := svc.Preview(schedule.Record{
				ScheduledStart:  scheduleValue(start),
				ScheduledEnd:    scheduleValue(end),
				PromisedDate:    scheduleValue(promised),
				PromisedAt:      scheduleValue(promisedAt),
				NextPromisedISO: scheduleValue(nextPromised),
			}, status)

			lines := []string{preview.Display.Primary}
			if preview.Display.Badge != "" {
				lines = append(lines, "badge: "+preview.Display.Badge)
			}
			if status != "" {
				lines = append(lines, "effective: "+string(preview.EffectiveStatus))
			}

			payload := map[string]any{
				"primary":          preview.Display.Primary,
				"badge":            preview.Display.Badge,
				"date_only":        preview.DateOnly,
				"effective_status": preview.EffectiveStatus,
				"now":              preview.Now,
			}
			return app.write(strings.Join(lines, "\n"), payload)
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "Scheduled start (ISO, YYYY-MM-DD or epoch ms)")
	cmd.Flags().StringVar(&end, "end", "", "Scheduled end")
	cmd.Flags().StringVar(&promised, "promised", "", "Promised date")
	cmd.Flags().StringVar(&promisedAt, "promised-at", "", "Promised instant, used when --promised is empty")
	cmd.Flags().StringVar(&nextPromised, "next-promised", "", "Next promised ISO, the last fallback")
	cmd.Flags().StringVar(&status, "status", "", "Stored status to evaluate")
	return cmd
}

func newStatusCmd(app *App) *cobra.Command {
	var start, status string

	cmd := &cobra.Command{
		Use:   "status --status STATUS",
		Short: "Show the effective status and lifecycle targets for a job",
		RunE: func(cmd *cobra.Command, args []string) error {
			loc, _, err := app.schedule()
			if err != nil {
				return err
			}
			clock, err := app.clock()
			if err != nil {
				return err
			}
			now := clock().UTC()

			rules := jobstatus.NewRules(loc)
			rec := jobstatus.Record{Status: domain.JobStatus(status), ScheduledStart: scheduleValue(start)}
			effective := rules.Effective(rec, now)
			uncomplete := rules.UncompleteTarget(rec, now)
			reopen := rules.ReopenTarget(rec, now)

			human := fmt.Sprintf("effective: %s\nuncomplete → %s\nreopen → %s", effective, uncomplete, reopen)
			return app.write(human, map[string]any{
				"status":            status,
				"effective_status":  effective,
				"uncomplete_target": uncomplete,
				"reopen_target":     reopen,
				"terminal":          domain.JobStatus(status).IsTerminal(),
				"now":               now,
			})
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "Stored status")
	cmd.Flags().StringVar(&start, "start", "", "Scheduled start (ISO, YYYY-MM-DD or epoch ms)")
	_ = cmd.MarkFlagRequired("status")
	return cmd
}

// previewService builds a job service used only for rendering, so it needs
// no repository.
func previewService(app *App) (*jobs.Service, error) {
	loc, label, err := app.schedule()
	if err != nil {
		return nil, err
	}
	clock, err := app.clock()
	if err != nil {
		return nil, err
	}
	return jobs.NewService(nil, jobs.Config{Location: loc, ZoneLabel: label, Clock: clock}), nil
}
