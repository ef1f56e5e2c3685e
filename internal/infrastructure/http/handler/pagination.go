package handler

import (
	"encoding/base64"
	"fmt"
	"strconv"

	"github.com/rezkam/aftermarket/internal/domain"
)

// generatePageToken creates a pagination token from an offset value.
// Returns nil if there are no more pages.
func generatePageToken(offset int, hasMore bool) *string {
	if !hasMore {
		return nil
	}

	// Encode the next offset as a base64 string
	token := base64.URLEncoding.EncodeToString([]byte(strconv.Itoa(offset)))
	return &token
}

// parsePageToken decodes a pagination token to get the offset.
// An empty token is the first page; anything undecodable or negative is
// rejected rather than silently restarting from the first page.
func parsePageToken(token string) (int, error) {
	if token == "" {
		return 0, nil
	}

	decoded, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", domain.ErrInvalidPageToken, err)
	}

	offset, err := strconv.Atoi(string(decoded))
	if err != nil {
		return 0, fmt.Errorf("%w: %w", domain.ErrInvalidPageToken, err)
	}

	// Reject negative offsets to prevent slice bounds panic
	if offset < 0 {
		return 0, domain.ErrInvalidPageToken
	}

	return offset, nil
}

// parsePageSize returns the requested page size, or 0 if not specified.
// The service layer applies configured defaults and limits.
func parsePageSize(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	size, err := strconv.Atoi(raw)
	if err != nil || size < 0 {
		return 0, fmt.Errorf("page_size must be a non-negative integer")
	}
	return size, nil
}
