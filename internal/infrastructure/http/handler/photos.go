package handler

import (
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/rezkam/aftermarket/internal/domain"
	"github.com/rezkam/aftermarket/internal/infrastructure/http/response"
)

// UploadPhoto handles POST /v1/jobs/{job_id}/photos. The body is the raw
// image and Content-Type names its format.
func (h *Handler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "job_id")

	photo, err := h.photos.Upload(r.Context(), jobID, r.Header.Get("Content-Type"), r.Body)
	if err != nil {
		slog.WarnContext(r.Context(), "failed to upload photo via HTTP",
			"job_id", jobID,
			"content_type", r.Header.Get("Content-Type"),
			"error", err)
		response.FromDomainError(w, r, err)
		return
	}

	response.Created(w, PhotoResponse{Photo: MapPhotoToDTO(photo)})
}

// ListPhotos handles GET /v1/jobs/{job_id}/photos.
func (h *Handler) ListPhotos(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "job_id")

	list, err := h.photos.List(r.Context(), jobID)
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}

	photos := make([]PhotoDTO, 0, len(list))
	for _, photo := range list {
		photos = append(photos, MapPhotoToDTO(photo))
	}
	response.OK(w, ListPhotosResponse{Photos: photos})
}

// GetPhoto handles GET /v1/jobs/{job_id}/photos/{photo_id} and streams the image.
func (h *Handler) GetPhoto(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "job_id")
	photoID := chi.URLParam(r, "photo_id")

	body, photo, err := h.photos.Open(r.Context(), jobID, photoID)
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	defer body.Close()

	writePhoto(w, r, photo, body)
}

func writePhoto(w http.ResponseWriter, r *http.Request, photo *domain.Photo, body io.Reader) {
	w.Header().Set("Content-Type", photo.ContentType)
	w.Header().Set("Content-Length", strconv.FormatInt(photo.Size, 10))
	w.Header().Set("Cache-Control", "private, max-age=86400, immutable")
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, body); err != nil {
		slog.WarnContext(r.Context(), "failed to stream photo",
			"photo_id", photo.ID,
			"error", err)
	}
}
