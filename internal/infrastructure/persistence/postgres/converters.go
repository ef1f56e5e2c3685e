package postgres

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/rezkam/aftermarket/internal/domain"
	"github.com/rezkam/aftermarket/internal/temporal"
)

const promisedDateLayout = "2006-01-02"

// parseJobID converts a job ID string to pgtype.UUID.
// Both the domain error and the parse error stay in the chain.
func parseJobID(id string) (pgtype.UUID, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return pgtype.UUID{}, fmt.Errorf("%w: %w", domain.ErrInvalidID, err)
	}
	return pgtype.UUID{Bytes: parsed, Valid: true}, nil
}

// pgtypeToUUIDString converts pgtype.UUID to string (empty if invalid).
func pgtypeToUUIDString(id pgtype.UUID) string {
	if !id.Valid {
		return ""
	}
	return uuid.UUID(id.Bytes).String()
}

// timeToPgtype converts time.Time to pgtype.Timestamptz.
func timeToPgtype(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: t, Valid: true}
}

// timePtrToPgtype converts *time.Time to pgtype.Timestamptz (NULL for nil).
func timePtrToPgtype(t *time.Time) pgtype.Timestamptz {
	if t == nil {
		return pgtype.Timestamptz{Valid: false}
	}
	return pgtype.Timestamptz{Time: *t, Valid: true}
}

// pgtypeToTime converts pgtype.Timestamptz to time.Time (zero if invalid).
// Always returns time in UTC location for consistent timezone handling.
func pgtypeToTime(t pgtype.Timestamptz) time.Time {
	if !t.Valid {
		return time.Time{}
	}
	return t.Time.UTC()
}

// pgtypeToTimePtr converts pgtype.Timestamptz to *time.Time (nil if invalid).
func pgtypeToTimePtr(t pgtype.Timestamptz) *time.Time {
	if !t.Valid {
		return nil
	}
	utcTime := t.Time.UTC()
	return &utcTime
}

// scheduleTextToPgtype converts canonical schedule text to a timestamp.
// The text is already exact (date-only values are midnight UTC), so it is
// parsed literally rather than through temporal.Parse, which would anchor
// date-only values at noon.
func scheduleTextToPgtype(s *string) (pgtype.Timestamptz, error) {
	if s == nil {
		return pgtype.Timestamptz{Valid: false}, nil
	}
	t, err := time.Parse(time.RFC3339Nano, *s)
	if err != nil {
		return pgtype.Timestamptz{}, fmt.Errorf("%w: %w", domain.ErrInvalidScheduleTime, err)
	}
	return pgtype.Timestamptz{Time: t.UTC(), Valid: true}, nil
}

// pgtypeToScheduleText renders a stored timestamp as canonical schedule text.
// Midnight UTC comes back as a date-only value.
func pgtypeToScheduleText(t pgtype.Timestamptz) *string {
	if !t.Valid {
		return nil
	}
	text, ok := temporal.Canonical(t.Time.UTC())
	if !ok {
		return nil
	}
	return &text
}

// promisedDateToPgtype converts YYYY-MM-DD text to pgtype.Date.
func promisedDateToPgtype(s *string) (pgtype.Date, error) {
	if s == nil {
		return pgtype.Date{Valid: false}, nil
	}
	t, err := time.Parse(promisedDateLayout, *s)
	if err != nil {
		return pgtype.Date{}, fmt.Errorf("%w: %w", domain.ErrInvalidPromisedDate, err)
	}
	return pgtype.Date{Time: t, Valid: true}, nil
}

// pgtypeToPromisedDate renders pgtype.Date as YYYY-MM-DD (nil if invalid).
func pgtypeToPromisedDate(d pgtype.Date) *string {
	if !d.Valid {
		return nil
	}
	text := d.Time.Format(promisedDateLayout)
	return &text
}

// textToPgtype converts *string to pgtype.Text (NULL for nil).
func textToPgtype(s *string) pgtype.Text {
	if s == nil {
		return pgtype.Text{Valid: false}
	}
	return pgtype.Text{String: *s, Valid: true}
}

// pgtypeToTextPtr converts pgtype.Text to *string (nil if invalid).
func pgtypeToTextPtr(t pgtype.Text) *string {
	if !t.Valid {
		return nil
	}
	s := t.String
	return &s
}

// statusStrings converts statuses to the text[] parameter matched against
// the normalized stored status.
func statusStrings(statuses []domain.JobStatus) []string {
	out := make([]string, len(statuses))
	for i, status := range statuses {
		out[i] = string(status.Normalize())
	}
	return out
}
