package providers

import (
	"github.com/samber/do/v2"

	"github.com/wishlistapp/wishlist-server/internal/logger"
	"github.com/wishlistapp/wishlist-server/internal/metadata/audible"
	"github.com/wishlistapp/wishlist-server/internal/service"
)

// ProvideAudibleClient provides the rate-limited Audible catalog client.
func ProvideAudibleClient(i do.Injector) (*audible.Client, error) {
	log := do.MustInvoke[*logger.Logger](i)
	return audible.New(log.Logger), nil
}

// ProvideMetadataService provides the metadata lookup service.
func ProvideMetadataService(i do.Injector) (*service.MetadataService, error) {
	client := do.MustInvoke[*audible.Client](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewMetadataService(client, log.Logger), nil
}
