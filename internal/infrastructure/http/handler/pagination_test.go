package handler

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezkam/aftermarket/internal/domain"
)

func TestPageToken_RoundTrip(t *testing.T) {
	assert.Nil(t, generatePageToken(25, false))

	token := generatePageToken(25, true)
	require.NotNil(t, token)

	offset, err := parsePageToken(*token)
	require.NoError(t, err)
	assert.Equal(t, 25, offset)
}

func TestParsePageToken_Rejects(t *testing.T) {
	offset, err := parsePageToken("")
	require.NoError(t, err)
	assert.Zero(t, offset)

	for _, token := range []string{
		"!!!",
		base64.URLEncoding.EncodeToString([]byte("abc")),
		base64.URLEncoding.EncodeToString([]byte("-5")),
	} {
		_, err := parsePageToken(token)
		assert.ErrorIs(t, err, domain.ErrInvalidPageToken, token)
	}
}

func TestParsePageSize(t *testing.T) {
	size, err := parsePageSize("")
	require.NoError(t, err)
	assert.Zero(t, size)

	size, err = parsePageSize("50")
	require.NoError(t, err)
	assert.Equal(t, 50, size)

	_, err = parsePageSize("-1")
	assert.Error(t, err)
	_, err = parsePageSize("ten")
	assert.Error(t, err)
}
