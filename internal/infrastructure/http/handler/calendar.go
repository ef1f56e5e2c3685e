package handler

import (
	"net/http"

	"github.com/rezkam/aftermarket/internal/application/jobs"
	"github.com/rezkam/aftermarket/internal/infrastructure/http/response"
	"github.com/rezkam/aftermarket/internal/ptr"
	"github.com/rezkam/aftermarket/internal/schedule"
)

// ScheduleDisplayRequest is a raw schedule record to render. Each field takes
// an ISO string or epoch milliseconds.
type ScheduleDisplayRequest struct {
	ScheduledStart  any    `json:"scheduled_start_time"`
	ScheduledEnd    any    `json:"scheduled_end_time"`
	PromisedDate    any    `json:"promised_date"`
	PromisedAt      any    `json:"promisedAt"`
	NextPromisedISO any    `json:"next_promised_iso"`
	Status          string `json:"status"`
}

// Calendar handles GET /v1/calendar?from=YYYY-MM-DD&to=YYYY-MM-DD[&vendor_id=][&status=].
func (h *Handler) Calendar(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	cal, err := h.jobs.Calendar(r.Context(), jobs.CalendarInput{
		From:     query.Get("from"),
		To:       query.Get("to"),
		VendorID: ptr.NonZero(query.Get("vendor_id")),
		Statuses: splitList(query["status"]),
	})
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}

	response.OK(w, MapCalendarToDTO(cal))
}

// ScheduleDisplay handles POST /v1/schedule/display. Unparseable values never
// fail the request; they render as the no-schedule placeholder.
func (h *Handler) ScheduleDisplay(w http.ResponseWriter, r *http.Request) {
	var req ScheduleDisplayRequest
	if err := decodeJSON(r, &req); err != nil {
		response.BadRequest(w, "invalid JSON")
		return
	}

	preview := h.jobs.Preview(schedule.Record{
		ScheduledStart:  req.ScheduledStart,
		ScheduledEnd:    req.ScheduledEnd,
		PromisedDate:    req.PromisedDate,
		PromisedAt:      req.PromisedAt,
		NextPromisedISO: req.NextPromisedISO,
	}, req.Status)

	response.OK(w, ScheduleDisplayResponse{
		Primary:         preview.Display.Primary,
		Badge:           preview.Display.Badge,
		DateOnly:        preview.DateOnly,
		EffectiveStatus: string(preview.EffectiveStatus),
		Now:             preview.Now,
	})
}
