// Package driverrepo persists driver profiles and implements the skip-locked candidate
// claim used by driver assignment.
package driverrepo

import (
	"time"

	"cargo/internal/core/domain/model/driver"
	"cargo/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type DriverDTO struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey"`
	LicenseNumber   string          `gorm:"type:varchar(32);not null;uniqueIndex"`
	VehiclePlate    string          `gorm:"type:varchar(16);not null;uniqueIndex"`
	CapacityKg      decimal.Decimal `gorm:"type:numeric(12,3);not null"`
	LicenseVerified bool            `gorm:"not null;default:false;index:idx_drivers_pool,priority:2"`
	Available       bool            `gorm:"not null;default:false;index:idx_drivers_pool,priority:1"`
	Location        LocationDTO     `gorm:"embedded;embeddedPrefix:location_"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (DriverDTO) TableName() string {
	return "drivers"
}

// LocationDTO is the last reported position. All three columns are null until the
// driver reports for the first time.
type LocationDTO struct {
	Lat *float64
	Lon *float64
	At  *time.Time
}

func fromDomain(p *driver.Profile) DriverDTO {
	dto := DriverDTO{
		ID:              p.ID().Bytes(),
		LicenseNumber:   p.LicenseNumber(),
		VehiclePlate:    p.VehiclePlate(),
		CapacityKg:      p.CapacityKg(),
		LicenseVerified: p.IsLicenseVerified(),
		Available:       p.IsAvailable(),
	}
	if point, at := p.Location(), p.LocationAt(); point != nil && at != nil {
		lat, lon, reported := point.Lat(), point.Lon(), *at
		dto.Location = LocationDTO{Lat: &lat, Lon: &lon, At: &reported}
	}
	return dto
}

func toDomain(dto DriverDTO) (*driver.Profile, error) {
	id, err := kernel.UUIDFromRaw(dto.ID)
	if err != nil {
		return nil, err
	}

	st := driver.State{
		ID:              id,
		LicenseNumber:   dto.LicenseNumber,
		VehiclePlate:    dto.VehiclePlate,
		CapacityKg:      dto.CapacityKg,
		LicenseVerified: dto.LicenseVerified,
		Available:       dto.Available,
	}
	if dto.Location.Lat != nil && dto.Location.Lon != nil && dto.Location.At != nil {
		point, pErr := kernel.NewGeoPoint(*dto.Location.Lat, *dto.Location.Lon)
		if pErr != nil {
			return nil, pErr
		}
		at := dto.Location.At.UTC()
		st.Location = &point
		st.LocationAt = &at
	}

	return driver.RestoreProfile(st)
}

func toDomainList(dtos []DriverDTO) ([]*driver.Profile, error) {
	profiles := make([]*driver.Profile, 0, len(dtos))
	for _, dto := range dtos {
		p, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, nil
}
