package sqlite

import (
	"context"
	"testing"
	"time"

	apperrors "github.com/wishlistapp/wishlist-server/internal/errors"

	"github.com/wishlistapp/wishlist-server/internal/domain"
)

// makeTestBook creates a domain.Book with sensible defaults for testing.
func makeTestBook(id, title string) *domain.Book {
	now := time.Now().UTC()
	return &domain.Book{
		ID:          id,
		Title:       title,
		Author:      "Test Author",
		DateAdded:   now,
		DateUpdated: now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func TestCreateAndGetBook(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	rating := 4.5
	pos := 2
	book := makeTestBook("bk-1", "Project Hail Mary")
	book.Author = "Andy Weir"
	book.Description = "An astronaut wakes up alone."
	book.CoverImageURL = "https://example.com/cover.jpg"
	book.AudibleURL = "https://www.audible.com/pd/B08G9PRS1K"
	book.NarratorRating = &rating
	book.QueuePosition = &pos

	if err := s.CreateBook(ctx, book); err != nil {
		t.Fatalf("CreateBook: %v", err)
	}

	got, err := s.GetBook(ctx, "bk-1")
	if err != nil {
		t.Fatalf("GetBook: %v", err)
	}

	if got.Title != book.Title {
		t.Errorf("Title: got %q, want %q", got.Title, book.Title)
	}
	if got.Author != book.Author {
		t.Errorf("Author: got %q, want %q", got.Author, book.Author)
	}
	if got.Description != book.Description {
		t.Errorf("Description: got %q, want %q", got.Description, book.Description)
	}
	if got.NarratorRating == nil || *got.NarratorRating != rating {
		t.Errorf("NarratorRating: got %v, want %v", got.NarratorRating, rating)
	}
	if got.PerformanceRating != nil {
		t.Errorf("PerformanceRating: got %v, want nil", got.PerformanceRating)
	}
	if got.QueuePosition == nil || *got.QueuePosition != pos {
		t.Errorf("QueuePosition: got %v, want %v", got.QueuePosition, pos)
	}
	if len(got.Tags) != 0 {
		t.Errorf("Tags: got %d, want 0", len(got.Tags))
	}
	if got.CreatedAt.Unix() != book.CreatedAt.Unix() {
		t.Errorf("CreatedAt: got %v, want %v", got.CreatedAt, book.CreatedAt)
	}
}

func TestCreateBook_WithTags(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	tag, _, err := s.FindOrCreateTagByName(ctx, "next", "")
	if err != nil {
		t.Fatalf("FindOrCreateTagByName: %v", err)
	}

	book := makeTestBook("bk-1", "Dune")
	book.Tags = []domain.Tag{*tag}

	if err := s.CreateBook(ctx, book); err != nil {
		t.Fatalf("CreateBook: %v", err)
	}

	got, err := s.GetBook(ctx, "bk-1")
	if err != nil {
		t.Fatalf("GetBook: %v", err)
	}
	if len(got.Tags) != 1 || got.Tags[0].Name != "next" {
		t.Fatalf("expected next tag, got %+v", got.Tags)
	}
	if got.Tags[0].UsageCount != 1 {
		t.Errorf("UsageCount: got %d, want 1", got.Tags[0].UsageCount)
	}
}

func TestGetBook_NotFound(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.GetBook(ctx, "nonexistent")
	if !apperrors.Is(err, apperrors.ErrBookNotFound) {
		t.Fatalf("expected BOOK_NOT_FOUND, got %v", err)
	}
}

func TestListBooks_OrderedByTitle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, title := range []string{"Zebra", "apple", "Banana"} {
		if err := s.CreateBook(ctx, makeTestBook("bk-"+title, title)); err != nil {
			t.Fatalf("CreateBook %s: %v", title, err)
		}
	}

	books, err := s.ListBooks(ctx)
	if err != nil {
		t.Fatalf("ListBooks: %v", err)
	}

	want := []string{"apple", "Banana", "Zebra"}
	if len(books) != len(want) {
		t.Fatalf("expected %d books, got %d", len(want), len(books))
	}
	for i, w := range want {
		if books[i].Title != w {
			t.Errorf("books[%d]: got %q, want %q", i, books[i].Title, w)
		}
	}
}

func TestListBooks_TagsAttached(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	tag, _, err := s.FindOrCreateTagByName(ctx, "next", "")
	if err != nil {
		t.Fatalf("FindOrCreateTagByName: %v", err)
	}

	tagged := makeTestBook("bk-1", "Dune")
	tagged.Tags = []domain.Tag{*tag}
	if err := s.CreateBook(ctx, tagged); err != nil {
		t.Fatalf("CreateBook tagged: %v", err)
	}
	if err := s.CreateBook(ctx, makeTestBook("bk-2", "Hyperion")); err != nil {
		t.Fatalf("CreateBook untagged: %v", err)
	}

	books, err := s.ListBooks(ctx)
	if err != nil {
		t.Fatalf("ListBooks: %v", err)
	}

	for _, b := range books {
		switch b.ID {
		case "bk-1":
			if len(b.Tags) != 1 || b.Tags[0].Name != "next" {
				t.Errorf("bk-1 tags: got %+v", b.Tags)
			}
		case "bk-2":
			if len(b.Tags) != 0 {
				t.Errorf("bk-2 tags: got %+v, want none", b.Tags)
			}
		}
	}
}

func TestUpdateBook(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	book := makeTestBook("bk-1", "Dune")
	if err := s.CreateBook(ctx, book); err != nil {
		t.Fatalf("CreateBook: %v", err)
	}

	tag, _, err := s.FindOrCreateTagByName(ctx, "classic", "")
	if err != nil {
		t.Fatalf("FindOrCreateTagByName: %v", err)
	}

	book.Title = "Dune Messiah"
	book.Tags = []domain.Tag{*tag}
	book.Touch()

	if err := s.UpdateBook(ctx, book); err != nil {
		t.Fatalf("UpdateBook: %v", err)
	}

	got, err := s.GetBook(ctx, "bk-1")
	if err != nil {
		t.Fatalf("GetBook: %v", err)
	}
	if got.Title != "Dune Messiah" {
		t.Errorf("Title: got %q", got.Title)
	}
	if len(got.Tags) != 1 || got.Tags[0].Name != "classic" {
		t.Errorf("Tags: got %+v", got.Tags)
	}
	// Creation timestamps must not move.
	if got.CreatedAt.Unix() != book.CreatedAt.Unix() {
		t.Errorf("CreatedAt changed: got %v, want %v", got.CreatedAt, book.CreatedAt)
	}
}

func TestUpdateBook_NotFound(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	err := s.UpdateBook(ctx, makeTestBook("bk-missing", "Ghost"))
	if !apperrors.Is(err, apperrors.ErrBookNotFound) {
		t.Fatalf("expected BOOK_NOT_FOUND, got %v", err)
	}
}

func TestDeleteBook_CascadesJoinRows(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	tag, _, err := s.FindOrCreateTagByName(ctx, "next", "")
	if err != nil {
		t.Fatalf("FindOrCreateTagByName: %v", err)
	}
	book := makeTestBook("bk-1", "Dune")
	book.Tags = []domain.Tag{*tag}
	if err := s.CreateBook(ctx, book); err != nil {
		t.Fatalf("CreateBook: %v", err)
	}

	if err := s.DeleteBook(ctx, "bk-1"); err != nil {
		t.Fatalf("DeleteBook: %v", err)
	}

	_, err = s.GetBook(ctx, "bk-1")
	if !apperrors.Is(err, apperrors.ErrBookNotFound) {
		t.Fatalf("expected BOOK_NOT_FOUND after delete, got %v", err)
	}

	// Join rows cascade; the tag itself persists with usage 0.
	got, err := s.GetTagByID(ctx, tag.ID)
	if err != nil {
		t.Fatalf("GetTagByID: %v", err)
	}
	if got.UsageCount != 0 {
		t.Errorf("UsageCount after delete: got %d, want 0", got.UsageCount)
	}
}

func TestDeleteBook_NotFound(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	err := s.DeleteBook(ctx, "bk-missing")
	if !apperrors.Is(err, apperrors.ErrBookNotFound) {
		t.Fatalf("expected BOOK_NOT_FOUND, got %v", err)
	}
}
