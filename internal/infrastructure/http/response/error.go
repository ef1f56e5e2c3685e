package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/rezkam/aftermarket/internal/domain"
)

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information.
type ErrorDetail struct {
	Code    string       `json:"code"`
	Message string       `json:"message"`
	Details []ErrorField `json:"details,omitempty"`
}

// ErrorField describes a field-specific error.
type ErrorField struct {
	Field string `json:"field"`
	Issue string `json:"issue"`
}

// BadRequest sends a 400 Bad Request error.
func BadRequest(w http.ResponseWriter, message string) {
	Error(w, "INVALID_REQUEST", message, http.StatusBadRequest)
}

// ValidationError sends a 400 validation error with field details.
func ValidationError(w http.ResponseWriter, field, issue string) {
	write(w, http.StatusBadRequest, ErrorResponse{
		Error: ErrorDetail{
			Code:    "VALIDATION_ERROR",
			Message: "validation failed",
			Details: []ErrorField{
				{Field: field, Issue: issue},
			},
		},
	})
}

// NotFound sends a 404 Not Found error.
func NotFound(w http.ResponseWriter, resource string) {
	Error(w, "NOT_FOUND", resource+" not found", http.StatusNotFound)
}

// Conflict sends a 409 Conflict error.
func Conflict(w http.ResponseWriter, message string) {
	Error(w, "CONFLICT", message, http.StatusConflict)
}

// UnsupportedMediaType sends a 415 error.
func UnsupportedMediaType(w http.ResponseWriter, message string) {
	Error(w, "UNSUPPORTED_MEDIA_TYPE", message, http.StatusUnsupportedMediaType)
}

// PayloadTooLarge sends a 413 error.
func PayloadTooLarge(w http.ResponseWriter, message string) {
	Error(w, "PAYLOAD_TOO_LARGE", message, http.StatusRequestEntityTooLarge)
}

// InternalError sends a 500 Internal Server Error.
// Logs the error server-side with request context but returns a generic message to the client to prevent information disclosure.
func InternalError(w http.ResponseWriter, r *http.Request, err error) {
	if err != nil {
		slog.ErrorContext(r.Context(), "Internal server error", "error", err)
	}
	Error(w, "INTERNAL_ERROR", "an internal error occurred", http.StatusInternalServerError)
}

// Error sends a generic error response.
func Error(w http.ResponseWriter, code, message string, statusCode int) {
	write(w, statusCode, ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	})
}

// FromDomainError maps domain errors to HTTP responses.
func FromDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	// Validation errors (400)
	case errors.Is(err, domain.ErrTitleRequired):
		ValidationError(w, "title", "required field missing")
	case errors.Is(err, domain.ErrTitleTooLong):
		ValidationError(w, "title", "must be 255 characters or less")
	case errors.Is(err, domain.ErrInvalidID):
		ValidationError(w, "id", "invalid ID format")
	case errors.Is(err, domain.ErrInvalidJobStatus):
		ValidationError(w, "status", "invalid job status")
	case errors.Is(err, domain.ErrInvalidScheduleTime):
		ValidationError(w, "scheduled_start_time", "unrecognized date or time")
	case errors.Is(err, domain.ErrScheduleEndBeforeStart):
		ValidationError(w, "scheduled_end_time", "must not be before scheduled start")
	case errors.Is(err, domain.ErrInvalidPromisedDate):
		ValidationError(w, "promised_date", "must be a calendar date")
	case errors.Is(err, domain.ErrInvalidDateRange):
		ValidationError(w, "from", err.Error())
	case errors.Is(err, domain.ErrInvalidPageToken):
		ValidationError(w, "page_token", "invalid page token")
	case errors.Is(err, domain.ErrEmptyPhoto):
		ValidationError(w, "body", "photo body is empty")

	// Media errors (413, 415)
	case errors.Is(err, domain.ErrPhotoTooLarge):
		PayloadTooLarge(w, err.Error())
	case errors.Is(err, domain.ErrUnsupportedContentType):
		UnsupportedMediaType(w, "photos must be jpeg, png, webp or heic")

	// Not found errors (404)
	case errors.Is(err, domain.ErrJobNotFound):
		NotFound(w, "job")
	case errors.Is(err, domain.ErrPhotoNotFound):
		NotFound(w, "photo")
	case errors.Is(err, domain.ErrNotFound):
		NotFound(w, "resource")

	// Concurrency and lifecycle errors (409)
	case errors.Is(err, domain.ErrVersionConflict):
		Conflict(w, "job was modified, reload and retry")
	case errors.Is(err, domain.ErrStatusChanged):
		Conflict(w, "job status changed concurrently, reload and retry")
	case errors.Is(err, domain.ErrDuplicateJobNumber):
		Conflict(w, "job number already exists")
	case errors.Is(err, domain.ErrInvalidStatusTransition):
		Conflict(w, err.Error())

	// Unknown errors (500) - Log server-side, return generic message to client
	default:
		InternalError(w, r, err)
	}
}
