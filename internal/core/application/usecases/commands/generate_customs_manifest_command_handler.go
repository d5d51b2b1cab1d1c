package commands

import (
	"context"
	"errors"
	"log/slog"

	"cargo/internal/core/domain/model/kernel"
	"cargo/internal/core/domain/model/shipment"
	"cargo/internal/core/ports"
	"cargo/internal/pkg/errs"
)

// GenerateCustomsManifestCommandHandler issues the customs document of an international
// shipment. The document is set once: later calls return it unchanged.
type GenerateCustomsManifestCommandHandler struct {
	uowFactory UoWFactory
	generator  ports.CustomsManifestGenerator
	contacts   ports.ContactDirectory
	logger     *slog.Logger
}

func NewGenerateCustomsManifestCommandHandler(
	uowFactory UoWFactory,
	generator ports.CustomsManifestGenerator,
	contacts ports.ContactDirectory,
	logger *slog.Logger,
) GenerateCustomsManifestCommandHandler {
	return GenerateCustomsManifestCommandHandler{
		uowFactory: uowFactory,
		generator:  generator,
		contacts:   contacts,
		logger:     logger.With("component", "GenerateCustomsManifestCommandHandler"),
	}
}

func (h GenerateCustomsManifestCommandHandler) Handle(
	ctx context.Context,
	cmd GenerateCustomsManifestCommand,
) (string, error) {
	if err := cmd.Validate(); err != nil {
		return "", err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return "", err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	s, err := uow.ShipmentRepository().GetForUpdate(ctx, cmd.ShipmentID())
	if err != nil {
		return "", err
	}
	if err = authorizeOwner(cmd.Actor(), s, kernel.CapGenerateManifest); err != nil {
		return "", err
	}

	err = s.CanGenerateCustomsManifest()
	if errors.Is(err, shipment.ErrCustomsManifestAlreadyAttached) {
		return s.CustomsManifest(), nil
	}
	if err != nil {
		return "", err
	}

	commodity, err := uow.CatalogRepository().GetCommodity(ctx, s.CommodityID())
	if err != nil {
		return "", err
	}

	document, err := h.generator.Generate(ctx, ports.ManifestInput{
		Shipment:  s,
		Commodity: commodity,
		Exporter:  h.exporter(ctx, s),
	})
	if err != nil {
		return "", errs.NewExternalServiceError("customs manifest generator", err)
	}

	if err = s.AttachCustomsManifest(document, utcNow()); err != nil {
		return "", err
	}
	if err = uow.ShipmentRepository().Update(ctx, s); err != nil {
		return "", err
	}

	if err = uow.Commit(ctx); err != nil {
		return "", err
	}

	h.logger.InfoContext(ctx, "customs manifest generated",
		"shipment_id", s.ID().String(),
		"tracking_code", s.TrackingCode().String())
	return document, nil
}

// exporter falls back to an empty contact; the manifest prints UNKNOWN for missing fields.
func (h GenerateCustomsManifestCommandHandler) exporter(ctx context.Context, s *shipment.Shipment) ports.Contact {
	contact, err := h.contacts.Lookup(ctx, s.SenderID())
	if err != nil {
		h.logger.WarnContext(ctx, "exporter contact unavailable",
			"shipment_id", s.ID().String(),
			"sender_id", s.SenderID().String(),
			"error", err)
		return ports.Contact{AgentID: s.SenderID()}
	}
	return contact
}
