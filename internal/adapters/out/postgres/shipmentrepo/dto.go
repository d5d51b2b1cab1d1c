// Package shipmentrepo persists shipment aggregates. Statuses and types are stored by
// name so that read queries and operators see the same values as the API.
package shipmentrepo

import (
	"time"

	"cargo/internal/core/domain/model/kernel"
	"cargo/internal/core/domain/model/shipment"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ShipmentDTO struct {
	ID                  uuid.UUID       `gorm:"type:uuid;primaryKey"`
	TrackingCode        string          `gorm:"type:varchar(12);not null;uniqueIndex"`
	Type                string          `gorm:"type:varchar(16);not null"`
	Status              string          `gorm:"type:varchar(16);not null;index:idx_shipments_status_created,priority:1"`
	SenderID            uuid.UUID       `gorm:"type:uuid;not null;index"`
	DriverID            *uuid.UUID      `gorm:"type:uuid;index"`
	OriginZoneID        uuid.UUID       `gorm:"type:uuid;not null"`
	DestinationZoneID   uuid.UUID       `gorm:"type:uuid;not null"`
	CommodityID         uuid.UUID       `gorm:"type:uuid;not null"`
	WeightKg            decimal.Decimal `gorm:"type:numeric(12,3);not null"`
	DeclaredValue       decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	Tariff              TariffDTO       `gorm:"embedded;embeddedPrefix:tariff_"`
	DestinationCountry  string          `gorm:"type:varchar(2);not null;default:''"`
	CustomsManifest     string          `gorm:"type:text;not null;default:''"`
	TaxReceipt          TaxReceiptDTO   `gorm:"embedded;embeddedPrefix:tax_receipt_"`
	NeedsReconciliation bool            `gorm:"not null;default:false"`
	Notes               string          `gorm:"type:text;not null;default:''"`
	SyncID              *string         `gorm:"type:varchar(128);uniqueIndex"`
	OfflineCreated      bool            `gorm:"not null;default:false"`
	CreatedAt           time.Time       `gorm:"not null;index:idx_shipments_status_created,priority:2"`
	UpdatedAt           time.Time       `gorm:"not null"`
	DeliveredAt         *time.Time
}

func (ShipmentDTO) TableName() string {
	return "shipments"
}

// TariffDTO is null until the shipment is confirmed.
type TariffDTO struct {
	Base      decimal.NullDecimal `gorm:"type:numeric(14,2)"`
	Surcharge decimal.NullDecimal `gorm:"type:numeric(14,2)"`
	VAT       decimal.NullDecimal `gorm:"type:numeric(14,2)"`
	Total     decimal.NullDecimal `gorm:"type:numeric(14,2)"`
}

type TaxReceiptDTO struct {
	Number    *string `gorm:"type:varchar(64)"`
	Signature *string `gorm:"type:text"`
	Fallback  bool    `gorm:"not null;default:false"`
}

func fromDomain(s *shipment.Shipment) ShipmentDTO {
	dto := ShipmentDTO{
		ID:                  s.ID().Bytes(),
		TrackingCode:        s.TrackingCode().String(),
		Type:                s.Type().String(),
		Status:              s.Status().String(),
		SenderID:            s.SenderID().Bytes(),
		OriginZoneID:        s.OriginZoneID().Bytes(),
		DestinationZoneID:   s.DestinationZoneID().Bytes(),
		CommodityID:         s.CommodityID().Bytes(),
		WeightKg:            s.WeightKg(),
		DeclaredValue:       s.DeclaredValue(),
		DestinationCountry:  s.DestinationCountry(),
		CustomsManifest:     s.CustomsManifest(),
		NeedsReconciliation: s.NeedsReconciliation(),
		Notes:               s.Notes(),
		OfflineCreated:      s.IsOfflineCreated(),
		CreatedAt:           s.CreatedAt(),
		UpdatedAt:           s.UpdatedAt(),
		DeliveredAt:         s.DeliveredAt(),
	}

	if s.DriverID() != nil {
		raw := s.DriverID().Bytes()
		dto.DriverID = &raw
	}
	if s.SyncID() != "" {
		syncID := s.SyncID()
		dto.SyncID = &syncID
	}
	if t := s.Tariff(); t != nil {
		dto.Tariff = TariffDTO{
			Base:      decimal.NewNullDecimal(t.Base()),
			Surcharge: decimal.NewNullDecimal(t.Surcharge()),
			VAT:       decimal.NewNullDecimal(t.VAT()),
			Total:     decimal.NewNullDecimal(t.Total()),
		}
	}
	if r := s.TaxReceipt(); r != nil {
		number, signature := r.Number(), r.Signature()
		dto.TaxReceipt = TaxReceiptDTO{Number: &number, Signature: &signature, Fallback: r.IsFallback()}
	}

	return dto
}

func toDomain(dto ShipmentDTO) (*shipment.Shipment, error) {
	id, err := kernel.UUIDFromRaw(dto.ID)
	if err != nil {
		return nil, err
	}
	code, err := shipment.ParseTrackingCode(dto.TrackingCode)
	if err != nil {
		return nil, err
	}
	kind, err := shipment.ParseType(dto.Type)
	if err != nil {
		return nil, err
	}
	status, err := shipment.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	st := shipment.State{
		ID:                  id,
		TrackingCode:        code,
		Type:                kind,
		Status:              status,
		SenderID:            mustUUID(dto.SenderID),
		OriginZoneID:        mustUUID(dto.OriginZoneID),
		DestinationZoneID:   mustUUID(dto.DestinationZoneID),
		CommodityID:         mustUUID(dto.CommodityID),
		WeightKg:            dto.WeightKg,
		DeclaredValue:       dto.DeclaredValue,
		DestinationCountry:  dto.DestinationCountry,
		CustomsManifest:     dto.CustomsManifest,
		NeedsReconciliation: dto.NeedsReconciliation,
		Notes:               dto.Notes,
		OfflineCreated:      dto.OfflineCreated,
		CreatedAt:           dto.CreatedAt.UTC(),
		UpdatedAt:           dto.UpdatedAt.UTC(),
	}

	if dto.DriverID != nil {
		driverID := mustUUID(*dto.DriverID)
		st.DriverID = &driverID
	}
	if dto.SyncID != nil {
		st.SyncID = *dto.SyncID
	}
	if dto.DeliveredAt != nil {
		at := dto.DeliveredAt.UTC()
		st.DeliveredAt = &at
	}
	if dto.Tariff.Total.Valid {
		tariff, tErr := shipment.NewTariff(
			dto.Tariff.Base.Decimal, dto.Tariff.Surcharge.Decimal, dto.Tariff.VAT.Decimal, dto.Tariff.Total.Decimal)
		if tErr != nil {
			return nil, tErr
		}
		st.Tariff = &tariff
	}
	if dto.TaxReceipt.Number != nil {
		var signature string
		if dto.TaxReceipt.Signature != nil {
			signature = *dto.TaxReceipt.Signature
		}
		receipt, rErr := shipment.NewTaxReceipt(*dto.TaxReceipt.Number, signature, dto.TaxReceipt.Fallback)
		if rErr != nil {
			return nil, rErr
		}
		st.TaxReceipt = &receipt
	}

	return shipment.RestoreShipment(st)
}

// mustUUID converts a column already constrained to a non-nil uuid. A nil value
// surfaces later as a validation error from RestoreShipment.
func mustUUID(raw uuid.UUID) kernel.UUID {
	id, _ := kernel.UUIDFromRaw(raw)
	return id
}
