package commands

import (
	"context"
	"errors"
	"log/slog"

	"cargo/internal/core/domain/model/catalog"
	"cargo/internal/core/domain/model/kernel"
	"cargo/internal/core/domain/model/shipment"
	"cargo/internal/core/domain/services"
	"cargo/internal/core/ports"
	"cargo/internal/pkg/errs"
)

const maxTrackingCodeAttempts = 10

// CreateShipmentResult carries the booked shipment. Created is false for an idempotent replay.
type CreateShipmentResult struct {
	Shipment *shipment.Shipment
	Created  bool
}

// CreateShipmentCommandHandler books shipments. Tracking code, DRAFT row, tariff snapshot,
// CONFIRMED status and the audit event are written in one unit of work.
type CreateShipmentCommandHandler struct {
	uowFactory UoWFactory
	calculator services.TariffCalculator
	notifier   Notifier
	logger     *slog.Logger
}

func NewCreateShipmentCommandHandler(
	uowFactory UoWFactory,
	calculator services.TariffCalculator,
	notifier Notifier,
	logger *slog.Logger,
) CreateShipmentCommandHandler {
	return CreateShipmentCommandHandler{
		uowFactory: uowFactory,
		calculator: calculator,
		notifier:   notifier,
		logger:     logger.With("component", "CreateShipmentCommandHandler"),
	}
}

// Handle books the shipment. When two replays with the same sync id race, the loser's
// insert hits the unique index and it returns the winner's shipment instead.
func (h CreateShipmentCommandHandler) Handle(ctx context.Context, cmd CreateShipmentCommand) (CreateShipmentResult, error) {
	if err := cmd.Validate(); err != nil {
		return CreateShipmentResult{}, err
	}
	if err := cmd.Actor().Authorize(kernel.CapBookShipment); err != nil {
		return CreateShipmentResult{}, err
	}

	result, err := h.create(ctx, cmd)
	syncID := cmd.Booking().SyncID
	if syncID != "" && errors.Is(err, errs.ErrObjectAlreadyExists) {
		existing, findErr := h.uowFactory.Create().ShipmentRepository().GetBySyncID(ctx, syncID)
		if findErr == nil {
			h.logger.InfoContext(ctx, "concurrent replay resolved to existing shipment", "sync_id", syncID)
			return CreateShipmentResult{Shipment: existing}, nil
		}
	}
	if err != nil {
		return CreateShipmentResult{}, err
	}

	if result.Created {
		h.logger.InfoContext(ctx, "shipment booked",
			"shipment_id", result.Shipment.ID().String(),
			"tracking_code", result.Shipment.TrackingCode().String())
	}
	return result, nil
}

func (h CreateShipmentCommandHandler) create(ctx context.Context, cmd CreateShipmentCommand) (CreateShipmentResult, error) {
	booking := cmd.Booking()

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return CreateShipmentResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	shipments := uow.ShipmentRepository()

	if booking.SyncID != "" {
		existing, err := shipments.GetBySyncID(ctx, booking.SyncID)
		if err == nil {
			return CreateShipmentResult{Shipment: existing}, nil
		}
		if !errors.Is(err, errs.ErrObjectNotFound) {
			return CreateShipmentResult{}, err
		}
	}

	origin, commodity, err := h.loadReferences(ctx, uow.CatalogRepository(), booking)
	if err != nil {
		return CreateShipmentResult{}, err
	}

	code, err := h.uniqueTrackingCode(ctx, shipments)
	if err != nil {
		return CreateShipmentResult{}, err
	}

	now := utcNow()
	s, err := shipment.NewShipment(kernel.NewUUID(), code, booking, now)
	if err != nil {
		return CreateShipmentResult{}, err
	}
	if err = shipments.Add(ctx, s); err != nil {
		return CreateShipmentResult{}, err
	}

	input, err := services.NewTariffInput(origin.BaseRatePerKg(), s.WeightKg(), s.Type(), commodity.IsPerishable())
	if err != nil {
		return CreateShipmentResult{}, err
	}
	tariff, err := h.calculator.Calculate(input)
	if err != nil {
		return CreateShipmentResult{}, err
	}

	t, err := s.Confirm(tariff, now)
	if err != nil {
		return CreateShipmentResult{}, err
	}
	if err = shipments.Update(ctx, s); err != nil {
		return CreateShipmentResult{}, err
	}
	if err = recordTransition(ctx, uow.AuditTrail(), s, t, cmd.Actor()); err != nil {
		return CreateShipmentResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return CreateShipmentResult{}, err
	}

	h.notifier.StatusChanged(ctx, s, t)
	return CreateShipmentResult{Shipment: s, Created: true}, nil
}

func (h CreateShipmentCommandHandler) loadReferences(
	ctx context.Context,
	repo ports.CatalogRepository,
	booking shipment.Booking,
) (catalog.Zone, catalog.Commodity, error) {
	origin, err := repo.GetZone(ctx, booking.OriginZoneID)
	if err != nil {
		return catalog.Zone{}, catalog.Commodity{}, asInvalidReference("origin zone", err)
	}
	if _, err = repo.GetZone(ctx, booking.DestinationZoneID); err != nil {
		return catalog.Zone{}, catalog.Commodity{}, asInvalidReference("destination zone", err)
	}
	commodity, err := repo.GetCommodity(ctx, booking.CommodityID)
	if err != nil {
		return catalog.Zone{}, catalog.Commodity{}, asInvalidReference("commodity", err)
	}
	return origin, commodity, nil
}

func (h CreateShipmentCommandHandler) uniqueTrackingCode(
	ctx context.Context,
	shipments ports.ShipmentRepository,
) (shipment.TrackingCode, error) {
	for range maxTrackingCodeAttempts {
		code, err := shipment.GenerateTrackingCode()
		if err != nil {
			return shipment.TrackingCode{}, err
		}

		taken, err := shipments.TrackingCodeExists(ctx, code)
		if err != nil {
			return shipment.TrackingCode{}, err
		}
		if !taken {
			return code, nil
		}
	}
	return shipment.TrackingCode{}, ErrTrackingCodeExhausted
}

// asInvalidReference turns a missing reference row into a validation error of the request.
func asInvalidReference(param string, err error) error {
	if errors.Is(err, errs.ErrObjectNotFound) {
		return errs.NewValueIsInvalidErrorWithCause(param, err)
	}
	return err
}
