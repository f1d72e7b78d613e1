package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	apperrors "github.com/wishlistapp/wishlist-server/internal/errors"
	"github.com/wishlistapp/wishlist-server/internal/metadata/audible"
)

// BookMetadata is the prefill payload returned for an Audible URL.
type BookMetadata struct {
	Title         string   `json:"title"`
	Author        string   `json:"author"`
	Narrator      string   `json:"narrator,omitempty"`
	Description   string   `json:"description,omitempty"`
	CoverImageURL string   `json:"coverImageUrl,omitempty"`
	AudibleURL    string   `json:"audibleUrl"`
	Rating        *float64 `json:"rating,omitempty"`
}

// MetadataService resolves Audible product URLs to book metadata.
// Lookups are advisory: the caller decides what to do with failures.
type MetadataService struct {
	client *audible.Client
	logger *slog.Logger
}

// NewMetadataService creates a metadata service.
func NewMetadataService(client *audible.Client, logger *slog.Logger) *MetadataService {
	return &MetadataService{
		client: client,
		logger: logger,
	}
}

// Lookup fetches metadata for an Audible product URL.
func (s *MetadataService) Lookup(ctx context.Context, productURL string) (*BookMetadata, error) {
	book, err := s.client.Lookup(ctx, productURL)
	if err != nil {
		switch {
		case errors.Is(err, audible.ErrInvalidURL), errors.Is(err, audible.ErrInvalidASIN):
			return nil, apperrors.Validation("not a recognized Audible product URL")
		case errors.Is(err, audible.ErrNotFound):
			return nil, apperrors.Validationf("no Audible product found for %s", productURL)
		default:
			s.logger.Warn("audible lookup failed", "url", productURL, "error", err)
			return nil, apperrors.Wrap(err, apperrors.CodeInternal, "audible lookup failed")
		}
	}

	meta := &BookMetadata{
		Title:         book.Title,
		Author:        strings.Join(book.Authors, ", "),
		Narrator:      strings.Join(book.Narrators, ", "),
		Description:   book.Description,
		CoverImageURL: book.CoverURL,
		AudibleURL:    productURL,
	}
	if book.Rating > 0 {
		rating := float64(book.Rating)
		meta.Rating = &rating
	}

	return meta, nil
}
