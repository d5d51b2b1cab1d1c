package ports

import (
	"context"

	"cargo/internal/core/domain/model/catalog"
	"cargo/internal/core/domain/model/kernel"
)

// CatalogRepository reads zone and commodity reference data.
type CatalogRepository interface {
	GetZone(ctx context.Context, id kernel.UUID) (catalog.Zone, error)
	GetCommodity(ctx context.Context, id kernel.UUID) (catalog.Commodity, error)
}
