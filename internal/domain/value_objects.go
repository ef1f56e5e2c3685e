package domain

import (
	"fmt"
	"strings"
)

// Title is a validated job title value object (1-255 characters).
type Title struct {
	value string
}

// NewTitle creates a new Title, validating the input.
func NewTitle(s string) (Title, error) {
	s = strings.TrimSpace(s)

	if s == "" {
		return Title{}, ErrTitleRequired
	}

	if len(s) > 255 {
		return Title{}, ErrTitleTooLong
	}

	return Title{value: s}, nil
}

// String returns the title value.
func (t Title) String() string {
	return t.value
}

// NewJobStatus validates API input and returns the normalized status.
func NewJobStatus(s string) (JobStatus, error) {
	status := JobStatus(s).Normalize()
	if !status.IsKnown() {
		return "", fmt.Errorf("%w: %s", ErrInvalidJobStatus, s)
	}
	return status, nil
}

// NewJobStatuses validates a status filter. Empty input means no filter.
func NewJobStatuses(values []string) ([]JobStatus, error) {
	if len(values) == 0 {
		return nil, nil
	}
	statuses := make([]JobStatus, 0, len(values))
	seen := make(map[JobStatus]bool, len(values))
	for _, v := range values {
		status, err := NewJobStatus(v)
		if err != nil {
			return nil, err
		}
		if seen[status] {
			continue
		}
		seen[status] = true
		statuses = append(statuses, status)
	}
	return statuses, nil
}
