// Package service orchestrates wishlist operations between the API layer
// and the store.
package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/wishlistapp/wishlist-server/internal/domain"
	apperrors "github.com/wishlistapp/wishlist-server/internal/errors"
	"github.com/wishlistapp/wishlist-server/internal/id"
	"github.com/wishlistapp/wishlist-server/internal/media/covers"
	"github.com/wishlistapp/wishlist-server/internal/store"
)

// BookService orchestrates wishlist book operations.
type BookService struct {
	store  store.Store
	covers *covers.Service // optional; nil disables cover caching
	logger *slog.Logger
}

// NewBookService creates a book service.
func NewBookService(s store.Store, coverSvc *covers.Service, logger *slog.Logger) *BookService {
	return &BookService{
		store:  s,
		covers: coverSvc,
		logger: logger,
	}
}

// CreateBookInput carries the fields accepted when adding a book.
type CreateBookInput struct {
	Title             string
	Author            string
	Tags              []string // tag names; existing tags are reused
	NarratorRating    *float64
	PerformanceRating *float64
	Description       string
	CoverImageURL     string
	AudibleURL        string
	QueuePosition     *int
}

// UpdateBookInput carries a partial update. Nil fields are left unchanged.
type UpdateBookInput struct {
	Title             *string
	Author            *string
	Tags              *[]string
	NarratorRating    *float64
	PerformanceRating *float64
	Description       *string
	CoverImageURL     *string
	AudibleURL        *string
	QueuePosition     *int
}

// List returns all books, ordered by title.
func (s *BookService) List(ctx context.Context) ([]*domain.Book, error) {
	return s.store.ListBooks(ctx)
}

// Get returns a single book by ID.
func (s *BookService) Get(ctx context.Context, bookID string) (*domain.Book, error) {
	return s.store.GetBook(ctx, bookID)
}

// Create adds a book to the wishlist. The server assigns the canonical ID;
// tag names are resolved against the shared tag catalog, reusing existing
// tags and creating the rest.
func (s *BookService) Create(ctx context.Context, input CreateBookInput) (*domain.Book, error) {
	if err := validateBookFields(input.Title, input.Author, input.NarratorRating, input.PerformanceRating); err != nil {
		return nil, err
	}

	tags, err := s.resolveTags(ctx, input.Tags)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	book := &domain.Book{
		ID:                id.MustGenerate("book"),
		Title:             strings.TrimSpace(input.Title),
		Author:            strings.TrimSpace(input.Author),
		Tags:              tags,
		NarratorRating:    input.NarratorRating,
		PerformanceRating: input.PerformanceRating,
		Description:       input.Description,
		CoverImageURL:     input.CoverImageURL,
		AudibleURL:        input.AudibleURL,
		QueuePosition:     input.QueuePosition,
		DateAdded:         now,
		DateUpdated:       now,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := s.store.CreateBook(ctx, book); err != nil {
		return nil, err
	}

	s.cacheCover(ctx, book)

	s.logger.Info("book created",
		"book_id", book.ID,
		"title", book.Title,
		"tags", len(book.Tags),
	)

	return book, nil
}

// Update applies a partial update to an existing book.
// Client-side temp IDs are rejected: they must never reach the database.
func (s *BookService) Update(ctx context.Context, bookID string, input UpdateBookInput) (*domain.Book, error) {
	if id.IsTemp(bookID) {
		return nil, apperrors.Validationf("temporary id %q cannot be persisted", bookID)
	}

	book, err := s.store.GetBook(ctx, bookID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		book.Title = strings.TrimSpace(*input.Title)
	}
	if input.Author != nil {
		book.Author = strings.TrimSpace(*input.Author)
	}
	if err := validateBookFields(book.Title, book.Author, input.NarratorRating, input.PerformanceRating); err != nil {
		return nil, err
	}

	if input.Tags != nil {
		tags, err := s.resolveTags(ctx, *input.Tags)
		if err != nil {
			return nil, err
		}
		book.Tags = tags
	}
	if input.NarratorRating != nil {
		book.NarratorRating = input.NarratorRating
	}
	if input.PerformanceRating != nil {
		book.PerformanceRating = input.PerformanceRating
	}
	if input.Description != nil {
		book.Description = *input.Description
	}
	if input.AudibleURL != nil {
		book.AudibleURL = *input.AudibleURL
	}
	if input.QueuePosition != nil {
		book.QueuePosition = input.QueuePosition
	}

	coverChanged := input.CoverImageURL != nil && *input.CoverImageURL != book.CoverImageURL
	if coverChanged {
		book.CoverImageURL = *input.CoverImageURL
		book.CoverBlurhash = ""
	}

	book.Touch()

	if err := s.store.UpdateBook(ctx, book); err != nil {
		return nil, err
	}

	if coverChanged {
		s.cacheCover(ctx, book)
	}

	s.logger.Info("book updated", "book_id", book.ID)

	return book, nil
}

// Delete removes a book and its cached cover.
func (s *BookService) Delete(ctx context.Context, bookID string) error {
	if err := s.store.DeleteBook(ctx, bookID); err != nil {
		return err
	}

	if s.covers != nil {
		if err := s.covers.Delete(bookID); err != nil {
			s.logger.Warn("failed to remove cached cover", "book_id", bookID, "error", err)
		}
	}

	s.logger.Info("book deleted", "book_id", bookID)
	return nil
}

// resolveTags maps tag names to tag records, creating missing ones.
// Blank names are dropped; duplicates collapse to one reference.
func (s *BookService) resolveTags(ctx context.Context, names []string) ([]domain.Tag, error) {
	var tags []domain.Tag
	seen := make(map[string]bool)
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true

		if len(name) > 50 {
			return nil, apperrors.Validationf("tag name %q exceeds 50 characters", name)
		}

		tag, _, err := s.store.FindOrCreateTagByName(ctx, name, "")
		if err != nil {
			return nil, err
		}
		tags = append(tags, *tag)
	}
	return tags, nil
}

// cacheCover downloads and caches the book's cover, storing the resulting
// blurhash. Best effort: failures are logged and never fail the mutation.
func (s *BookService) cacheCover(ctx context.Context, book *domain.Book) {
	if s.covers == nil || book.CoverImageURL == "" {
		return
	}

	result, err := s.covers.Download(ctx, book.ID, book.CoverImageURL)
	if err != nil {
		s.logger.Warn("cover download failed",
			"book_id", book.ID,
			"url", book.CoverImageURL,
			"error", err,
		)
		return
	}

	book.CoverBlurhash = result.BlurHash
	if err := s.store.UpdateBook(ctx, book); err != nil {
		s.logger.Warn("failed to persist cover blurhash", "book_id", book.ID, "error", err)
	}
}

// validateBookFields checks the invariants shared by create and update.
func validateBookFields(title, author string, narrator, performance *float64) error {
	if strings.TrimSpace(title) == "" {
		return apperrors.Validation("title must not be empty")
	}
	if strings.TrimSpace(author) == "" {
		return apperrors.Validation("author must not be empty")
	}
	if narrator != nil && !domain.ValidRating(*narrator) {
		return apperrors.Validationf("narrator rating %.1f outside [0,5]", *narrator)
	}
	if performance != nil && !domain.ValidRating(*performance) {
		return apperrors.Validationf("performance rating %.1f outside [0,5]", *performance)
	}
	return nil
}
