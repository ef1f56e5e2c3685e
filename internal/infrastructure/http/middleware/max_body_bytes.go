// Package middleware holds HTTP middleware shared by the API routes.
package middleware

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/rezkam/aftermarket/internal/infrastructure/http/response"
)

// MaxBodyBytes creates a middleware that limits request body size.
// Uses a two-phase approach:
// 1. Fast path: Check Content-Length header for early rejection
// 2. Slow path: Read and verify body (handles chunked encoding and missing headers)
//
// Returns 413 Request Entity Too Large with standard error format if limit exceeded.
// JSON routes and photo uploads mount it with different limits.
func MaxBodyBytes(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Content-Length of -1 means unknown (chunked encoding), so skip this check
			if r.ContentLength > maxBytes {
				tooLarge(w, r, maxBytes, nil)
				return
			}

			// Content-Length can be missing or spoofed; MaxBytesReader enforces the limit during the read.
			body := http.MaxBytesReader(w, r.Body, maxBytes)
			buf, err := io.ReadAll(body)
			if err != nil {
				var maxErr *http.MaxBytesError
				if !errors.As(err, &maxErr) {
					response.BadRequest(w, "failed to read request body")
					return
				}
				tooLarge(w, r, maxBytes, err)
				return
			}

			// Body is within limit - replace it so handlers can read it
			r.Body = io.NopCloser(bytes.NewReader(buf))
			next.ServeHTTP(w, r)
		})
	}
}

func tooLarge(w http.ResponseWriter, r *http.Request, maxBytes int64, err error) {
	slog.WarnContext(r.Context(), "Request body size limit exceeded",
		"method", r.Method,
		"path", r.URL.Path,
		"content_length", r.ContentLength,
		"limit", maxBytes,
		"error", err)
	response.PayloadTooLarge(w, fmt.Sprintf("request body exceeds %d bytes", maxBytes))
}
