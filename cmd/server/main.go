package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rezkam/aftermarket/internal/application/jobs"
	"github.com/rezkam/aftermarket/internal/application/photos"
	"github.com/rezkam/aftermarket/internal/config"
	"github.com/rezkam/aftermarket/internal/infrastructure/blob"
	httpserver "github.com/rezkam/aftermarket/internal/infrastructure/http"
	"github.com/rezkam/aftermarket/internal/infrastructure/http/handler"
	"github.com/rezkam/aftermarket/internal/infrastructure/observability"
	"github.com/rezkam/aftermarket/internal/infrastructure/persistence"
)

const defaultShutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		// slog may not be initialized if config fails
		fmt.Fprintf(os.Stderr, "failed to run: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadServerConfig()
	if err != nil {
		return err
	}

	// Root context for normal operation; cancelled on SIGTERM/SIGINT.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Configuration via OTEL_* env vars (endpoint, headers, resource attributes)
	telemetry, err := observability.Setup(ctx, observability.Config{
		Enabled:     cfg.Observability.OTelEnabled,
		ServiceName: cfg.Observability.ServiceName,
	})
	if err != nil {
		return err
	}
	defer func() {
		// Bounded so an unreachable collector cannot hang exit.
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
	slog.InfoContext(ctx, "storage initialized",
		"backend", cfg.Storage.Backend(),
		"dsn", maskPassword(cfg.Storage.Database.DSN))

	blobs, err := blob.Open(ctx, cfg.Photos)
	if err != nil {
		_ = store.Close()
		return fmt.Errorf("failed to open photo store: %w", err)
	}
	slog.InfoContext(ctx, "photo storage initialized", "backend", cfg.Photos.BackendName())

	jobService := jobs.NewService(store, jobs.Config{
		Location:        loc,
		ZoneLabel:       cfg.Schedule.ZoneLabel,
		DefaultPageSize: cfg.Jobs.DefaultPageSize,
		MaxPageSize:     cfg.Jobs.MaxPageSize,
	})
	photoService := photos.NewService(blobs, store, photos.WithMaxUploadBytes(cfg.Photos.MaxUploadBytes))

	api := handler.NewRouter(jobService, photoService, handler.RouterConfig{
		MaxBodyBytes:   cfg.HTTP.MaxBodyBytes,
		MaxUploadBytes: cfg.Photos.MaxUploadBytes,
	})
	server := httpserver.NewAPIServer(api, serverConfig(cfg.HTTP))

	cleanup := newCleanup(server, blobs, store)

	errResult := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errResult <- fmt.Errorf("failed to serve HTTP: %w", err)
		}
	}()

	slog.InfoContext(ctx, "aftermarket server started",
		"timezone", loc.String(),
		"port", cfg.HTTP.Port)

	select {
	case <-ctx.Done():
		slog.InfoContext(ctx, "shutting down")
	case err = <-errResult:
	}

	shutdownCtx, cancelShutdown := newShutdownContext(cfg.ShutdownTimeout)
	defer cancelShutdown()
	cleanup(shutdownCtx)

	return err
}

func serverConfig(cfg config.HTTPConfig) httpserver.ServerConfig {
	sc := httpserver.ServerConfig{
		Host:              cfg.Host,
		Port:              cfg.Port,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}
	if cfg.TLSEnabled {
		sc.TLSCertFile = cfg.TLSCertFile
		sc.TLSKeyFile = cfg.TLSKeyFile
	}
	return sc
}

// newShutdownContext starts from Background since the main context is
// already cancelled at shutdown time.
func newShutdownContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		timeout = defaultShutdownTimeout
	}
	return context.WithTimeout(context.Background(), timeout)
}

// maskPassword masks the password in a connection string for logging.
func maskPassword(connStr string) string {
	if connStr == "" {
		return ""
	}
	u, err := url.Parse(connStr)
	if err != nil {
		// If parsing fails, fall back to full redaction to be safe
		return "[REDACTED]"
	}
	if u.User != nil {
		if _, hasPassword := u.User.Password(); hasPassword {
			u.User = url.UserPassword(u.User.Username(), "xxxxxx")
		}
	}
	return u.String()
}
