// Package catalogrepo reads zone and commodity reference data.
package catalogrepo

import (
	"cargo/internal/core/domain/model/catalog"
	"cargo/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ZoneDTO struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Name          string          `gorm:"type:varchar(64);not null;uniqueIndex"`
	Province      string          `gorm:"type:varchar(32);not null;default:''"`
	BaseRatePerKg decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	IsBorder      bool            `gorm:"not null;default:false"`
	RefLat        *float64
	RefLon        *float64
}

func (ZoneDTO) TableName() string {
	return "zones"
}

type CommodityDTO struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name        string    `gorm:"type:varchar(64);not null;uniqueIndex"`
	CustomsCode string    `gorm:"type:varchar(16);not null;default:''"`
	Perishable  bool      `gorm:"not null;default:false"`
}

func (CommodityDTO) TableName() string {
	return "commodities"
}

func zoneToDomain(dto ZoneDTO) (catalog.Zone, error) {
	id, err := kernel.UUIDFromRaw(dto.ID)
	if err != nil {
		return catalog.Zone{}, err
	}

	var point *kernel.GeoPoint
	if dto.RefLat != nil && dto.RefLon != nil {
		p, pErr := kernel.NewGeoPoint(*dto.RefLat, *dto.RefLon)
		if pErr != nil {
			return catalog.Zone{}, pErr
		}
		point = &p
	}

	return catalog.NewZone(id, dto.Name, dto.Province, dto.BaseRatePerKg, dto.IsBorder, point)
}

func commodityToDomain(dto CommodityDTO) (catalog.Commodity, error) {
	id, err := kernel.UUIDFromRaw(dto.ID)
	if err != nil {
		return catalog.Commodity{}, err
	}
	return catalog.NewCommodity(id, dto.Name, dto.CustomsCode, dto.Perishable)
}
