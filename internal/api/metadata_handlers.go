package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/wishlistapp/wishlist-server/internal/service"
)

func (s *Server) registerMetadataRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "lookupAudibleMetadata",
		Method:      http.MethodPost,
		Path:        "/metadata/audible",
		Summary:     "Fetch Audible metadata",
		Description: "Looks up book details for an Audible product URL",
		Tags:        []string{"Metadata"},
	}, s.handleLookupAudibleMetadata)
}

// MetadataLookupRequest names the Audible product to look up.
type MetadataLookupRequest struct {
	URL string `json:"url" validate:"required,url" doc:"Audible product URL"`
}

// MetadataLookupInput wraps the lookup request for Huma.
type MetadataLookupInput struct {
	Body MetadataLookupRequest
}

// MetadataLookupOutput wraps the fetched metadata for Huma.
type MetadataLookupOutput struct {
	Body *service.BookMetadata
}

func (s *Server) handleLookupAudibleMetadata(ctx context.Context, input *MetadataLookupInput) (*MetadataLookupOutput, error) {
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	meta, err := s.services.Metadata.Lookup(ctx, input.Body.URL)
	if err != nil {
		return nil, err
	}

	return &MetadataLookupOutput{Body: meta}, nil
}
