package catalogrepo

import (
	"context"
	"errors"

	"cargo/internal/core/domain/model/catalog"
	"cargo/internal/core/domain/model/kernel"
	"cargo/internal/pkg/errs"

	"gorm.io/gorm"
)

type GormCatalogRepository struct {
	db *gorm.DB
}

func NewGormCatalogRepository(db *gorm.DB) *GormCatalogRepository {
	return &GormCatalogRepository{db: db}
}

func (r *GormCatalogRepository) GetZone(ctx context.Context, id kernel.UUID) (catalog.Zone, error) {
	if err := id.Validate(); err != nil {
		return catalog.Zone{}, err
	}

	var dto ZoneDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return catalog.Zone{}, errs.NewObjectNotFoundError("zone", id.String())
		}
		return catalog.Zone{}, err
	}
	return zoneToDomain(dto)
}

func (r *GormCatalogRepository) GetCommodity(ctx context.Context, id kernel.UUID) (catalog.Commodity, error) {
	if err := id.Validate(); err != nil {
		return catalog.Commodity{}, err
	}

	var dto CommodityDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return catalog.Commodity{}, errs.NewObjectNotFoundError("commodity", id.String())
		}
		return catalog.Commodity{}, err
	}
	return commodityToDomain(dto)
}
