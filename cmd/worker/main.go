package main

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/time/rate"

	"github.com/rezkam/aftermarket/internal/application/automation"
	"github.com/rezkam/aftermarket/internal/config"
	"github.com/rezkam/aftermarket/internal/infrastructure/observability"
	"github.com/rezkam/aftermarket/internal/infrastructure/persistence"
	"github.com/rezkam/aftermarket/internal/jobstatus"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to run: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadWorkerConfig()
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	telemetry, err := observability.Setup(ctx, observability.Config{
		Enabled:     cfg.Observability.OTelEnabled,
		ServiceName: cfg.Observability.ServiceName,
	})
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			fmt.Fprintf(os.Stderr, "failed to shutdown telemetry: %v\n", err)
		}
	}()

	loc, err := cfg.Schedule.Location()
	if err != nil {
		return err
	}

	store, err := persistence.Open(ctx, cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to open job store: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			slog.Error("failed to close store", "error", err)
		}
	}()

	sweeper := automation.NewSweeper(store, jobstatus.NewRules(loc), sweeperOptions(cfg.Automation)...)

	// Start returns after ctx is cancelled and the in-flight sweep drains.
	return sweeper.Start(ctx)
}

// sweeperOptions maps worker configuration onto sweeper options. A zero or
// negative promotion rate leaves writes unpaced.
func sweeperOptions(cfg config.AutomationConfig) []automation.Option {
	opts := []automation.Option{
		automation.WithInterval(cfg.Interval),
		automation.WithOperationTimeout(cfg.OperationTimeout),
		automation.WithBatchSize(cfg.BatchSize),
	}
	if cfg.PromotionsPerSecond > 0 {
		burst := max(1, int(math.Ceil(cfg.PromotionsPerSecond)))
		opts = append(opts, automation.WithRateLimiter(rate.NewLimiter(rate.Limit(cfg.PromotionsPerSecond), burst)))
	}
	return opts
}
