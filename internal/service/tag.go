package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	tagcolor "github.com/wishlistapp/wishlist-server/internal/color"
	"github.com/wishlistapp/wishlist-server/internal/domain"
	apperrors "github.com/wishlistapp/wishlist-server/internal/errors"
	"github.com/wishlistapp/wishlist-server/internal/id"
	"github.com/wishlistapp/wishlist-server/internal/store"
)

// TagService orchestrates tag catalog operations.
// Tags are shared across the whole wishlist; names are unique system-wide.
type TagService struct {
	store  store.Store
	logger *slog.Logger
}

// NewTagService creates a tag service.
func NewTagService(s store.Store, logger *slog.Logger) *TagService {
	return &TagService{
		store:  s,
		logger: logger,
	}
}

// List returns all tags with derived usage counts, ordered by name.
func (s *TagService) List(ctx context.Context) ([]*domain.Tag, error) {
	return s.store.ListTags(ctx)
}

// Get returns a tag by ID.
func (s *TagService) Get(ctx context.Context, tagID string) (*domain.Tag, error) {
	return s.store.GetTagByID(ctx, tagID)
}

// Create adds a new tag. Duplicate names are a conflict, not a reuse:
// explicit tag creation is different from tagging a book.
func (s *TagService) Create(ctx context.Context, name, color string) (*domain.Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.Validation("tag name must not be empty")
	}
	if len(name) > 50 {
		return nil, apperrors.Validationf("tag name %q exceeds 50 characters", name)
	}
	if color == "" {
		color = tagcolor.ForTag(name)
	}

	now := time.Now().UTC()
	tag := &domain.Tag{
		ID:        id.MustGenerate("tag"),
		Name:      name,
		Color:     color,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.store.CreateTag(ctx, tag); err != nil {
		return nil, err
	}

	s.logger.Info("tag created", "tag_id", tag.ID, "name", tag.Name)
	return tag, nil
}
