package main

import (
	"context"
	"io"
	"log/slog"
)

// shutdowner abstracts the HTTP server so tests can verify cleanup order
// without binding a port.
type shutdowner interface {
	Shutdown(context.Context) error
}

// newCleanup builds the shutdown hook: drain in-flight requests first, then
// close the stores they were using, in order.
func newCleanup(server shutdowner, stores ...io.Closer) func(context.Context) {
	return func(ctx context.Context) {
		if server != nil {
			if err := server.Shutdown(ctx); err != nil {
				slog.ErrorContext(ctx, "failed to shut down HTTP server", slog.String("error", err.Error()))
			}
		}

		for _, store := range stores {
			if store == nil {
				continue
			}
			if err := store.Close(); err != nil {
				slog.ErrorContext(ctx, "failed to close store", slog.String("error", err.Error()))
			}
		}
	}
}
