package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/wishlistapp/wishlist-server/internal/domain"
)

func (s *Server) registerTagRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listTags",
		Method:      http.MethodGet,
		Path:        "/tags",
		Summary:     "List tags",
		Description: "Returns all tags with usage counts, ordered by name",
		Tags:        []string{"Tags"},
	}, s.handleListTags)

	huma.Register(s.api, huma.Operation{
		OperationID: "createTag",
		Method:      http.MethodPost,
		Path:        "/tags",
		Summary:     "Create tag",
		Description: "Creates a tag; names are unique case-insensitively",
		Tags:        []string{"Tags"},
	}, s.handleCreateTag)
}

// TagListOutput wraps the tag list for Huma.
type TagListOutput struct {
	Body []*domain.Tag
}

// TagOutput wraps a single tag for Huma.
type TagOutput struct {
	Body *domain.Tag
}

// CreateTagRequest is the request body for creating a tag.
type CreateTagRequest struct {
	Name  string `json:"name" validate:"required,max=50" doc:"Tag name"`
	Color string `json:"color,omitempty" validate:"omitempty,hexcolor" doc:"Display color, e.g. #AABBCC"`
}

// CreateTagInput wraps the create request for Huma.
type CreateTagInput struct {
	Body CreateTagRequest
}

func (s *Server) handleListTags(ctx context.Context, _ *struct{}) (*TagListOutput, error) {
	tags, err := s.services.Tags.List(ctx)
	if err != nil {
		return nil, err
	}
	if tags == nil {
		tags = []*domain.Tag{}
	}
	return &TagListOutput{Body: tags}, nil
}

func (s *Server) handleCreateTag(ctx context.Context, input *CreateTagInput) (*TagOutput, error) {
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	tag, err := s.services.Tags.Create(ctx, input.Body.Name, input.Body.Color)
	if err != nil {
		return nil, err
	}

	return &TagOutput{Body: tag}, nil
}
