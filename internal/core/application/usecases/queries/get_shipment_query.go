package queries

import (
	"errors"
	"time"

	"cargo/internal/core/domain/model/kernel"
	"cargo/internal/core/domain/model/shipment"
	"cargo/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrGetShipmentQueryIsNotConstructed = errors.New(
	"GetShipmentQuery must be created via NewGetShipmentQuery constructor",
)

// GetShipmentQuery looks a shipment up by its public tracking code.
//
// Example:
//
//	query, err := NewGetShipmentQuery(actor, "ISH-7K2P9QXA")
//	if err != nil {
//	    return err
//	}
//	view, err := handler.Handle(ctx, query)
type GetShipmentQuery struct {
	actor kernel.Actor
	code  shipment.TrackingCode

	guard guard.ConstructorGuard
}

func NewGetShipmentQuery(actor kernel.Actor, trackingCode string) (GetShipmentQuery, error) {
	if err := actor.Validate(); err != nil {
		return GetShipmentQuery{}, err
	}
	code, err := shipment.ParseTrackingCode(trackingCode)
	if err != nil {
		return GetShipmentQuery{}, err
	}

	return GetShipmentQuery{
		actor: actor,
		code:  code,
		guard: guard.NewConstructorGuard(),
	}, nil
}

func (q GetShipmentQuery) Validate() error {
	return q.guard.Validate(ErrGetShipmentQueryIsNotConstructed)
}

func (q GetShipmentQuery) Actor() kernel.Actor {
	return q.actor
}

func (q GetShipmentQuery) TrackingCode() shipment.TrackingCode {
	return q.code
}

// TariffView is the frozen tariff snapshot. It is nil before confirmation.
type TariffView struct {
	Base      decimal.Decimal
	Surcharge decimal.Decimal
	VAT       decimal.Decimal
	Total     decimal.Decimal
}

// ShipmentView is what senders, drivers and back office see of a shipment. The customs
// manifest itself is not part of it, only whether one was issued.
type ShipmentView struct {
	ID                    kernel.UUID
	TrackingCode          string
	Type                  string
	Status                string
	SenderID              kernel.UUID
	DriverID              *kernel.UUID
	OriginZoneID          kernel.UUID
	DestinationZoneID     kernel.UUID
	CommodityID           kernel.UUID
	WeightKg              decimal.Decimal
	DeclaredValue         decimal.Decimal
	DestinationCountry    string
	Tariff                *TariffView
	TaxReceiptNumber      string
	TaxReceiptFallback    bool
	CustomsManifestIssued bool
	NeedsReconciliation   bool
	Notes                 string
	OfflineCreated        bool
	CreatedAt             time.Time
	UpdatedAt             time.Time
	DeliveredAt           *time.Time
}
