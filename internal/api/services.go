package api

import (
	"github.com/wishlistapp/wishlist-server/internal/backup"
	"github.com/wishlistapp/wishlist-server/internal/service"
)

// Services groups the application services the handlers depend on.
type Services struct {
	Books    *service.BookService
	Tags     *service.TagService
	Metadata *service.MetadataService
	Backup   *backup.Service
}
