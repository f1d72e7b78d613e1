// Package di provides dependency injection configuration for the wishlist server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/wishlistapp/wishlist-server/internal/backup"
	"github.com/wishlistapp/wishlist-server/internal/config"
	"github.com/wishlistapp/wishlist-server/internal/di/providers"
	"github.com/wishlistapp/wishlist-server/internal/logger"
	"github.com/wishlistapp/wishlist-server/internal/media/covers"
	"github.com/wishlistapp/wishlist-server/internal/metadata/audible"
	"github.com/wishlistapp/wishlist-server/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)

	// Database layer
	do.Provide(injector, providers.ProvideStore)

	// Storage layer
	do.Provide(injector, providers.ProvideCoverStorage)
	do.Provide(injector, providers.ProvideCoverService)

	// Metadata layer
	do.Provide(injector, providers.ProvideAudibleClient)
	do.Provide(injector, providers.ProvideMetadataService)

	// Business services
	do.Provide(injector, providers.ProvideBookService)
	do.Provide(injector, providers.ProvideTagService)
	do.Provide(injector, providers.ProvideBackupService)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)
	do.Provide(injector, providers.ProvideMDNSService)

	return injector
}

// Bootstrap triggers lazy initialization of all services so the server is
// fully wired before the process reports ready.
func Bootstrap(injector *do.RootScope) error {
	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[*providers.StoreHandle](injector)
	_ = do.MustInvoke[*covers.Storage](injector)
	_ = do.MustInvoke[*covers.Service](injector)
	_ = do.MustInvoke[*audible.Client](injector)
	_ = do.MustInvoke[*service.MetadataService](injector)
	_ = do.MustInvoke[*service.BookService](injector)
	_ = do.MustInvoke[*service.TagService](injector)
	_ = do.MustInvoke[*backup.Service](injector)
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)
	_ = do.MustInvoke[*providers.MDNSServiceHandle](injector)

	return nil
}
