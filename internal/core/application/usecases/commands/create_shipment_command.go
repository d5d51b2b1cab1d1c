package commands

import (
	"errors"

	"cargo/internal/core/domain/model/kernel"
	"cargo/internal/core/domain/model/shipment"
	"cargo/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrCreateShipmentCommandIsNotConstructed = errors.New(
	"CreateShipmentCommand must be created via NewCreateShipmentCommand constructor",
)

// CreateShipmentRequest is what a sender submits when booking.
type CreateShipmentRequest struct {
	Type               shipment.Type
	OriginZoneID       kernel.UUID
	DestinationZoneID  kernel.UUID
	CommodityID        kernel.UUID
	WeightKg           decimal.Decimal
	DeclaredValue      decimal.Decimal
	DestinationCountry string
	Notes              string
	SyncID             string
	OfflineCreated     bool
}

// CreateShipmentCommand books a shipment for the acting sender. A non-empty sync id
// makes the command idempotent: replays return the shipment created by the first call.
//
// Example:
//
//	cmd, err := NewCreateShipmentCommand(actor, CreateShipmentRequest{
//	    Type:              shipment.Domestic,
//	    OriginZoneID:      kigali,
//	    DestinationZoneID: huye,
//	    CommodityID:       coffee,
//	    WeightKg:          decimal.NewFromInt(100),
//	    SyncID:            "tablet-7:0042",
//	})
//	result, err := handler.Handle(ctx, cmd)
type CreateShipmentCommand struct {
	actor   kernel.Actor
	booking shipment.Booking

	guard guard.ConstructorGuard
}

// NewCreateShipmentCommand runs every booking check that needs no store, so an invalid
// request never reaches the unit of work.
func NewCreateShipmentCommand(actor kernel.Actor, req CreateShipmentRequest) (CreateShipmentCommand, error) {
	var senderID kernel.UUID
	if id := actor.ID(); id != nil {
		senderID = *id
	}

	booking := shipment.Booking{
		Type:               req.Type,
		SenderID:           senderID,
		OriginZoneID:       req.OriginZoneID,
		DestinationZoneID:  req.DestinationZoneID,
		CommodityID:        req.CommodityID,
		WeightKg:           req.WeightKg,
		DeclaredValue:      req.DeclaredValue,
		DestinationCountry: req.DestinationCountry,
		Notes:              req.Notes,
		SyncID:             req.SyncID,
		OfflineCreated:     req.OfflineCreated,
	}

	if err := actor.Validate(); err != nil {
		return CreateShipmentCommand{}, err
	}
	if err := shipment.ValidateBooking(booking); err != nil {
		return CreateShipmentCommand{}, err
	}

	return CreateShipmentCommand{
		actor:   actor,
		booking: booking,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c CreateShipmentCommand) Validate() error {
	return c.guard.Validate(ErrCreateShipmentCommandIsNotConstructed)
}

func (c CreateShipmentCommand) Actor() kernel.Actor {
	return c.actor
}

func (c CreateShipmentCommand) Booking() shipment.Booking {
	return c.booking
}
