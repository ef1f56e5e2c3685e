// Package handler adapts HTTP requests to the job and photo services.
package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rezkam/aftermarket/internal/application/jobs"
	"github.com/rezkam/aftermarket/internal/application/photos"
	mw "github.com/rezkam/aftermarket/internal/infrastructure/http/middleware"
)

// Handler serves the /v1 API.
type Handler struct {
	jobs   *jobs.Service
	photos *photos.Service
}

// NewHandler creates a new HTTP API handler.
func NewHandler(jobService *jobs.Service, photoService *photos.Service) *Handler {
	return &Handler{
		jobs:   jobService,
		photos: photoService,
	}
}

// RouterConfig bounds request bodies.
type RouterConfig struct {
	MaxBodyBytes   int64 // JSON requests
	MaxUploadBytes int64 // photo uploads
}

// NewRouter mounts every /v1 route. Both production code and tests use it so
// they see identical routing and limits.
func NewRouter(jobService *jobs.Service, photoService *photos.Service, cfg RouterConfig) http.Handler {
	h := NewHandler(jobService, photoService)
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = photoService.MaxUploadBytes()
	}

	r := chi.NewRouter()

	r.Group(func(r chi.Router) {
		if cfg.MaxBodyBytes > 0 {
			r.Use(mw.MaxBodyBytes(cfg.MaxBodyBytes))
		}

		r.Post("/v1/jobs", h.CreateJob)
		r.Get("/v1/jobs", h.ListJobs)
		r.Get("/v1/jobs/{job_id}", h.GetJob)
		r.Patch("/v1/jobs/{job_id}/status", h.UpdateJobStatus)
		r.Post("/v1/jobs/{job_id}/complete", h.CompleteJob)
		r.Post("/v1/jobs/{job_id}/uncomplete", h.UncompleteJob)
		r.Post("/v1/jobs/{job_id}/reopen", h.ReopenJob)

		r.Get("/v1/calendar", h.Calendar)
		r.Post("/v1/schedule/display", h.ScheduleDisplay)

		r.Get("/v1/jobs/{job_id}/photos", h.ListPhotos)
		r.Get("/v1/jobs/{job_id}/photos/{photo_id}", h.GetPhoto)
	})

	// Uploads carry image bytes and get their own, larger limit.
	r.With(mw.MaxBodyBytes(cfg.MaxUploadBytes)).Post("/v1/jobs/{job_id}/photos", h.UploadPhoto)

	return r
}

// decodeJSON decodes a request body, keeping numbers as json.Number so epoch
// millisecond schedule values survive without float rounding.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	return dec.Decode(v)
}
