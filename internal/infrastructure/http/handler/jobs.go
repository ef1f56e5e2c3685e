package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/rezkam/aftermarket/internal/application/jobs"
	"github.com/rezkam/aftermarket/internal/infrastructure/http/response"
	"github.com/rezkam/aftermarket/internal/ptr"
)

// CreateJobRequest books a job. Schedule fields take ISO strings or epoch
// milliseconds.
type CreateJobRequest struct {
	Title              string  `json:"title"`
	JobNumber          *string `json:"job_number"`
	Description        *string `json:"description"`
	VehicleID          *string `json:"vehicle_id"`
	VendorID           *string `json:"vendor_id"`
	Status             *string `json:"status"`
	ScheduledStartTime any     `json:"scheduled_start_time"`
	ScheduledEndTime   any     `json:"scheduled_end_time"`
	PromisedDate       any     `json:"promised_date"`
}

// UpdateJobStatusRequest sets an explicit status.
type UpdateJobStatusRequest struct {
	Status string  `json:"status"`
	Etag   *string `json:"etag"`
}

// JobActionRequest is the optional body of complete/uncomplete/reopen.
type JobActionRequest struct {
	Etag *string `json:"etag"`
}

// CreateJob handles POST /v1/jobs.
func (h *Handler) CreateJob(w http.ResponseWriter, r *http.Request) {
	var req CreateJobRequest
	if err := decodeJSON(r, &req); err != nil {
		response.BadRequest(w, "invalid JSON")
		return
	}

	view, err := h.jobs.CreateJob(r.Context(), jobs.CreateJobInput{
		Title:          req.Title,
		JobNumber:      ptr.Deref(req.JobNumber, ""),
		Description:    req.Description,
		VehicleID:      req.VehicleID,
		VendorID:       req.VendorID,
		Status:         ptr.Deref(req.Status, ""),
		ScheduledStart: req.ScheduledStartTime,
		ScheduledEnd:   req.ScheduledEndTime,
		PromisedDate:   req.PromisedDate,
	})
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to create job via HTTP",
			"title", req.Title,
			"error", err)
		response.FromDomainError(w, r, err)
		return
	}

	slog.InfoContext(r.Context(), "job created via HTTP",
		"job_id", view.Job.ID,
		"job_number", view.Job.JobNumber)

	response.Created(w, JobResponse{Job: MapJobViewToDTO(*view)})
}

// GetJob handles GET /v1/jobs/{job_id}.
func (h *Handler) GetJob(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "job_id")

	view, err := h.jobs.GetJob(r.Context(), jobID)
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}

	response.OK(w, JobResponse{Job: MapJobViewToDTO(*view)})
}

// ListJobs handles GET /v1/jobs?status=&vendor_id=&page_size=&page_token=.
// status may repeat or hold a comma-separated list.
func (h *Handler) ListJobs(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	offset, err := parsePageToken(query.Get("page_token"))
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	pageSize, err := parsePageSize(query.Get("page_size"))
	if err != nil {
		response.ValidationError(w, "page_size", err.Error())
		return
	}

	page, err := h.jobs.ListJobs(r.Context(), jobs.ListJobsInput{
		Statuses: splitList(query["status"]),
		VendorID: ptr.NonZero(query.Get("vendor_id")),
		Limit:    pageSize,
		Offset:   offset,
	})
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}

	response.OK(w, ListJobsResponse{
		Jobs:          MapJobViewsToDTO(page.Jobs),
		TotalCount:    page.TotalCount,
		NextPageToken: generatePageToken(page.Offset+len(page.Jobs), page.HasMore),
	})
}

// UpdateJobStatus handles PATCH /v1/jobs/{job_id}/status.
func (h *Handler) UpdateJobStatus(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "job_id")

	var req UpdateJobStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		response.BadRequest(w, "invalid JSON")
		return
	}

	view, err := h.jobs.UpdateStatus(r.Context(), jobID, req.Status, etagFrom(r, req.Etag))
	if err != nil {
		slog.WarnContext(r.Context(), "failed to update job status via HTTP",
			"job_id", jobID,
			"status", req.Status,
			"error", err)
		response.FromDomainError(w, r, err)
		return
	}

	slog.InfoContext(r.Context(), "job status updated via HTTP",
		"job_id", jobID,
		"status", view.Job.Status)

	response.OK(w, JobResponse{Job: MapJobViewToDTO(*view)})
}

// CompleteJob handles POST /v1/jobs/{job_id}/complete.
func (h *Handler) CompleteJob(w http.ResponseWriter, r *http.Request) {
	h.jobAction(w, r, "complete", h.jobs.CompleteJob)
}

// UncompleteJob handles POST /v1/jobs/{job_id}/uncomplete.
func (h *Handler) UncompleteJob(w http.ResponseWriter, r *http.Request) {
	h.jobAction(w, r, "uncomplete", h.jobs.UncompleteJob)
}

// ReopenJob handles POST /v1/jobs/{job_id}/reopen.
func (h *Handler) ReopenJob(w http.ResponseWriter, r *http.Request) {
	h.jobAction(w, r, "reopen", h.jobs.ReopenJob)
}

// jobAction runs a lifecycle action. The body is optional; an If-Match
// header takes precedence over a body etag.
func (h *Handler) jobAction(w http.ResponseWriter, r *http.Request, action string, run func(context.Context, string, *string) (*jobs.JobView, error)) {
	jobID := chi.URLParam(r, "job_id")

	var req JobActionRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
			response.BadRequest(w, "invalid JSON")
			return
		}
	}

	view, err := run(r.Context(), jobID, etagFrom(r, req.Etag))
	if err != nil {
		slog.WarnContext(r.Context(), "job action failed via HTTP",
			"job_id", jobID,
			"action", action,
			"error", err)
		response.FromDomainError(w, r, err)
		return
	}

	slog.InfoContext(r.Context(), "job action applied via HTTP",
		"job_id", jobID,
		"action", action,
		"status", view.Job.Status)

	response.OK(w, JobResponse{Job: MapJobViewToDTO(*view)})
}

// etagFrom prefers the If-Match header over a body etag.
func etagFrom(r *http.Request, body *string) *string {
	if match := strings.Trim(strings.TrimSpace(r.Header.Get("If-Match")), `"`); match != "" {
		return &match
	}
	return body
}

// splitList flattens repeated and comma-separated query values.
func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
