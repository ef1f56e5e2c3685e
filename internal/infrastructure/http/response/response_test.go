package response_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezkam/aftermarket/internal/domain"
	"github.com/rezkam/aftermarket/internal/infrastructure/http/response"
)

// unencodableType fails during JSON encoding.
type unencodableType struct{}

func (unencodableType) MarshalJSON() ([]byte, error) {
	return nil, errors.New("cannot encode")
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) response.ErrorResponse {
	t.Helper()
	var body response.ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body), "error body must be valid JSON")
	return body
}

// If JSON marshaling fails we return HTTP 500 with a proper JSON error, not a
// success status with a truncated body.
func TestOK_EncodingFailure_Returns500WithErrorJSON(t *testing.T) {
	for name, send := range map[string]func(http.ResponseWriter, any){
		"OK":      response.OK,
		"Created": response.Created,
	} {
		t.Run(name, func(t *testing.T) {
			w := httptest.NewRecorder()
			send(w, unencodableType{})

			assert.Equal(t, http.StatusInternalServerError, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

			body := decodeError(t, w)
			assert.Equal(t, "INTERNAL_ERROR", body.Error.Code)
			assert.Equal(t, "failed to encode response", body.Error.Message)
		})
	}
}

func TestCreated_Success_ReturnsValidJSON(t *testing.T) {
	w := httptest.NewRecorder()
	response.Created(w, map[string]string{"id": "new-resource-123"})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var decoded map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&decoded))
	assert.Equal(t, "new-resource-123", decoded["id"])
}

func TestValidationError_IncludesFieldDetails(t *testing.T) {
	w := httptest.NewRecorder()
	response.ValidationError(w, "status", "invalid job status")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeError(t, w)
	assert.Equal(t, "VALIDATION_ERROR", body.Error.Code)
	require.Len(t, body.Error.Details, 1)
	assert.Equal(t, response.ErrorField{Field: "status", Issue: "invalid job status"}, body.Error.Details[0])
}

func TestFromDomainError(t *testing.T) {
	tests := []struct {
		err      error
		status   int
		code     string
		field    string
		contains string
	}{
		{domain.ErrTitleRequired, http.StatusBadRequest, "VALIDATION_ERROR", "title", ""},
		{fmt.Errorf("%w: bad", domain.ErrInvalidID), http.StatusBadRequest, "VALIDATION_ERROR", "id", ""},
		{domain.ErrInvalidJobStatus, http.StatusBadRequest, "VALIDATION_ERROR", "status", ""},
		{domain.ErrInvalidScheduleTime, http.StatusBadRequest, "VALIDATION_ERROR", "scheduled_start_time", ""},
		{domain.ErrScheduleEndBeforeStart, http.StatusBadRequest, "VALIDATION_ERROR", "scheduled_end_time", ""},
		{domain.ErrInvalidPageToken, http.StatusBadRequest, "VALIDATION_ERROR", "page_token", ""},
		{domain.ErrPhotoTooLarge, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "", ""},
		{domain.ErrUnsupportedContentType, http.StatusUnsupportedMediaType, "UNSUPPORTED_MEDIA_TYPE", "", ""},
		{fmt.Errorf("%w: x", domain.ErrJobNotFound), http.StatusNotFound, "NOT_FOUND", "", "job not found"},
		{domain.ErrPhotoNotFound, http.StatusNotFound, "NOT_FOUND", "", "photo not found"},
		{domain.ErrVersionConflict, http.StatusConflict, "CONFLICT", "", "modified"},
		{domain.ErrStatusChanged, http.StatusConflict, "CONFLICT", "", "status changed"},
		{domain.ErrDuplicateJobNumber, http.StatusConflict, "CONFLICT", "", "job number"},
		{fmt.Errorf("%w: cannot reopen a pending job", domain.ErrInvalidStatusTransition), http.StatusConflict, "CONFLICT", "", "cannot reopen"},
		{errors.New("connection reset"), http.StatusInternalServerError, "INTERNAL_ERROR", "", "an internal error occurred"},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodGet, "/", nil)

			response.FromDomainError(w, r, tt.err)

			assert.Equal(t, tt.status, w.Code)
			body := decodeError(t, w)
			assert.Equal(t, tt.code, body.Error.Code)
			if tt.field != "" {
				require.Len(t, body.Error.Details, 1)
				assert.Equal(t, tt.field, body.Error.Details[0].Field)
			}
			if tt.contains != "" {
				assert.Contains(t, body.Error.Message, tt.contains)
			}
			assert.NotContains(t, body.Error.Message, "connection reset", "internal details never leak")
		})
	}
}
