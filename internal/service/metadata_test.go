package service

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	apperrors "github.com/wishlistapp/wishlist-server/internal/errors"
	"github.com/wishlistapp/wishlist-server/internal/metadata/audible"
)

func TestMetadataService_Lookup_BadURL(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	svc := NewMetadataService(audible.New(logger), logger)

	tests := []string{
		"https://example.com/not-audible",
		"https://www.audible.com/search?keywords=x",
		"not a url at all",
	}

	for _, url := range tests {
		_, err := svc.Lookup(context.Background(), url)
		assert.True(t, apperrors.Is(err, apperrors.ErrValidation), "url %q: want VALIDATION_ERROR, got %v", url, err)
	}
}
