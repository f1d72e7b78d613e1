package providers

import (
	"github.com/samber/do/v2"

	"github.com/wishlistapp/wishlist-server/internal/config"
	"github.com/wishlistapp/wishlist-server/internal/logger"
	"github.com/wishlistapp/wishlist-server/internal/media/covers"
)

// ProvideCoverStorage provides the on-disk cover image store.
func ProvideCoverStorage(i do.Injector) (*covers.Storage, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	storage, err := covers.NewStorage(cfg.CoverCachePath())
	if err != nil {
		return nil, err
	}

	log.Info("Cover storage initialized", "path", cfg.CoverCachePath())

	return storage, nil
}

// ProvideCoverService provides the cover download and processing service.
func ProvideCoverService(i do.Injector) (*covers.Service, error) {
	storage := do.MustInvoke[*covers.Storage](i)
	log := do.MustInvoke[*logger.Logger](i)

	return covers.NewService(storage, log.Logger), nil
}
