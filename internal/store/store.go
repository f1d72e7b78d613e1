// Package store defines the persistence interface for the wishlist server.
package store

import (
	"context"

	"github.com/wishlistapp/wishlist-server/internal/domain"
)

// Store is the persistence interface consumed by services and handlers.
// The canonical implementation lives in the sqlite subpackage.
type Store interface {
	// Books
	CreateBook(ctx context.Context, book *domain.Book) error
	GetBook(ctx context.Context, id string) (*domain.Book, error)
	ListBooks(ctx context.Context) ([]*domain.Book, error)
	UpdateBook(ctx context.Context, book *domain.Book) error
	DeleteBook(ctx context.Context, id string) error

	// Tags
	CreateTag(ctx context.Context, tag *domain.Tag) error
	GetTagByID(ctx context.Context, id string) (*domain.Tag, error)
	GetTagByName(ctx context.Context, name string) (*domain.Tag, error)
	ListTags(ctx context.Context) ([]*domain.Tag, error)
	FindOrCreateTagByName(ctx context.Context, name, color string) (tag *domain.Tag, created bool, err error)

	// Book-tag associations
	SetBookTags(ctx context.Context, bookID string, tagIDs []string) error
	GetTagsForBook(ctx context.Context, bookID string) ([]domain.Tag, error)

	Ping(ctx context.Context) error
	Close() error
}
