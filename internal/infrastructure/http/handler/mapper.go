package handler

import (
	"time"

	"github.com/rezkam/aftermarket/internal/application/jobs"
	"github.com/rezkam/aftermarket/internal/domain"
	"github.com/rezkam/aftermarket/internal/schedule"
)

// JobDTO is the wire form of a job view.
type JobDTO struct {
	ID                 string           `json:"id"`
	JobNumber          string           `json:"job_number"`
	Title              string           `json:"title"`
	Description        *string          `json:"description,omitempty"`
	VehicleID          *string          `json:"vehicle_id,omitempty"`
	VendorID           *string          `json:"vendor_id,omitempty"`
	Status             string           `json:"status"`
	EffectiveStatus    string           `json:"effective_status"`
	ScheduledStartTime *string          `json:"scheduled_start_time,omitempty"`
	ScheduledEndTime   *string          `json:"scheduled_end_time,omitempty"`
	PromisedDate       *string          `json:"promised_date,omitempty"`
	DateOnly           bool             `json:"date_only"`
	Display            schedule.Display `json:"display"`
	CompletedAt        *time.Time       `json:"completed_at,omitempty"`
	CreatedAt          time.Time        `json:"created_at"`
	UpdatedAt          time.Time        `json:"updated_at"`
	Etag               string           `json:"etag"`
}

// JobResponse wraps a single job.
type JobResponse struct {
	Job JobDTO `json:"job"`
}

// ListJobsResponse is one page of jobs.
type ListJobsResponse struct {
	Jobs          []JobDTO `json:"jobs"`
	TotalCount    int      `json:"total_count"`
	NextPageToken *string  `json:"next_page_token,omitempty"`
}

// CalendarDayDTO is one local day of the dispatch board.
type CalendarDayDTO struct {
	Date  string   `json:"date"`
	Label string   `json:"label"`
	Jobs  []JobDTO `json:"jobs"`
}

// CalendarResponse is the dispatch board for a date range.
type CalendarResponse struct {
	From string           `json:"from"`
	To   string           `json:"to"`
	Days []CalendarDayDTO `json:"days"`
}

// ScheduleDisplayResponse is the rendering of a raw schedule record.
type ScheduleDisplayResponse struct {
	Primary         string    `json:"primary"`
	Badge           string    `json:"badge"`
	DateOnly        bool      `json:"date_only"`
	EffectiveStatus string    `json:"effective_status,omitempty"`
	Now             time.Time `json:"now"`
}

// PhotoDTO is the wire form of a job photo.
type PhotoDTO struct {
	ID          string    `json:"id"`
	JobID       string    `json:"job_id"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	CreatedAt   time.Time `json:"created_at"`
}

// PhotoResponse wraps a single photo.
type PhotoResponse struct {
	Photo PhotoDTO `json:"photo"`
}

// ListPhotosResponse lists a job's photos, oldest first.
type ListPhotosResponse struct {
	Photos []PhotoDTO `json:"photos"`
}

// MapJobViewToDTO converts a job view to its wire form.
func MapJobViewToDTO(view jobs.JobView) JobDTO {
	job := view.Job
	return JobDTO{
		ID:                 job.ID,
		JobNumber:          job.JobNumber,
		Title:              job.Title,
		Description:        job.Description,
		VehicleID:          job.VehicleID,
		VendorID:           job.VendorID,
		Status:             string(job.Status),
		EffectiveStatus:    string(view.EffectiveStatus),
		ScheduledStartTime: job.ScheduledStartTime,
		ScheduledEndTime:   job.ScheduledEndTime,
		PromisedDate:       job.PromisedDate,
		DateOnly:           view.DateOnly,
		Display:            view.Display,
		CompletedAt:        job.CompletedAt,
		CreatedAt:          job.CreatedAt,
		UpdatedAt:          job.UpdatedAt,
		Etag:               job.Etag(),
	}
}

// MapJobViewsToDTO converts job views, never returning nil so JSON shows [].
func MapJobViewsToDTO(views []jobs.JobView) []JobDTO {
	out := make([]JobDTO, 0, len(views))
	for _, view := range views {
		out = append(out, MapJobViewToDTO(view))
	}
	return out
}

// MapCalendarToDTO converts the grouped board.
func MapCalendarToDTO(cal *jobs.Calendar) CalendarResponse {
	days := make([]CalendarDayDTO, 0, len(cal.Days))
	for _, day := range cal.Days {
		days = append(days, CalendarDayDTO{
			Date:  day.Date,
			Label: day.Label,
			Jobs:  MapJobViewsToDTO(day.Items),
		})
	}
	return CalendarResponse{From: cal.From, To: cal.To, Days: days}
}

// MapPhotoToDTO converts domain.Photo to its wire form.
func MapPhotoToDTO(photo *domain.Photo) PhotoDTO {
	return PhotoDTO{
		ID:          photo.ID,
		JobID:       photo.JobID,
		ContentType: photo.ContentType,
		Size:        photo.Size,
		CreatedAt:   photo.CreatedAt,
	}
}
