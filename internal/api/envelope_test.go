package api

import (
	"encoding/json/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/wishlistapp/wishlist-server/internal/errors"
)

func TestEnvelopeTransformer_Success(t *testing.T) {
	data := map[string]string{"id": "book-123", "title": "Dune"}

	result, err := EnvelopeTransformer(nil, "200", data)
	require.NoError(t, err)

	raw, err := json.Marshal(result)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out))

	assert.Equal(t, true, out["success"])
	assert.Contains(t, out, "data")
	assert.NotContains(t, out, "error")
	assert.NotContains(t, out, "message")

	ts, ok := out["timestamp"].(string)
	require.True(t, ok, "timestamp must be a string")
	_, err = time.Parse(time.RFC3339Nano, ts)
	assert.NoError(t, err, "timestamp must be RFC 3339")
}

func TestEnvelopeTransformer_Error(t *testing.T) {
	apiErr := &APIError{
		Code:    string(apperrors.CodeBookNotFound),
		Message: "book not found",
	}

	result, err := EnvelopeTransformer(nil, "404", apiErr)
	require.NoError(t, err)

	raw, err := json.Marshal(result)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out))

	assert.Equal(t, false, out["success"])
	assert.Equal(t, "BOOK_NOT_FOUND", out["error"])
	assert.Equal(t, "book not found", out["message"])
	assert.NotContains(t, out, "data")
}

func TestEnvelopeTransformer_ErrorDetails(t *testing.T) {
	apiErr := &APIError{
		Code:    string(apperrors.CodeValidation),
		Message: "validation failed",
		Details: map[string]string{"title": "title is required"},
	}

	result, err := EnvelopeTransformer(nil, "400", apiErr)
	require.NoError(t, err)

	env, ok := result.(*Envelope)
	require.True(t, ok)
	assert.Equal(t, map[string]string{"title": "title is required"}, env.Details)
}
