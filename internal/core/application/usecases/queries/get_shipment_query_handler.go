package queries

import (
	"context"
	"database/sql"

	"cargo/internal/core/domain/model/kernel"
	"cargo/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GetShipmentQueryHandler reads one shipment by tracking code and applies the
// visibility rule to the row it found.
type GetShipmentQueryHandler struct {
	db *gorm.DB
}

func NewGetShipmentQueryHandler(db *gorm.DB) GetShipmentQueryHandler {
	return GetShipmentQueryHandler{db: db}
}

func (h GetShipmentQueryHandler) Handle(ctx context.Context, query GetShipmentQuery) (ShipmentView, error) {
	if err := query.Validate(); err != nil {
		return ShipmentView{}, err
	}
	if err := query.Actor().Authorize(kernel.CapViewShipment); err != nil {
		return ShipmentView{}, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id, tracking_code, type, status, sender_id, driver_id,
			origin_zone_id, destination_zone_id, commodity_id,
			weight_kg, declared_value, destination_country,
			tariff_base, tariff_surcharge, tariff_vat, tariff_total,
			tax_receipt_number, tax_receipt_fallback,
			customs_manifest <> '' AS customs_manifest_issued,
			needs_reconciliation, notes, offline_created,
			created_at, updated_at, delivered_at
		FROM shipments
		WHERE tracking_code = ?
	`, query.TrackingCode().String()).Rows()
	if err != nil {
		return ShipmentView{}, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err = rows.Err(); err != nil {
			return ShipmentView{}, err
		}
		return ShipmentView{}, errs.NewObjectNotFoundError("shipment", query.TrackingCode().String())
	}

	var (
		view                        ShipmentView
		id, senderID                uuid.UUID
		origin, destination, goods  uuid.UUID
		driverID                    uuid.NullUUID
		base, surcharge, vat, total decimal.NullDecimal
		receiptNumber               sql.NullString
		deliveredAt                 sql.NullTime
	)
	err = rows.Scan(
		&id, &view.TrackingCode, &view.Type, &view.Status, &senderID, &driverID,
		&origin, &destination, &goods,
		&view.WeightKg, &view.DeclaredValue, &view.DestinationCountry,
		&base, &surcharge, &vat, &total,
		&receiptNumber, &view.TaxReceiptFallback,
		&view.CustomsManifestIssued,
		&view.NeedsReconciliation, &view.Notes, &view.OfflineCreated,
		&view.CreatedAt, &view.UpdatedAt, &deliveredAt,
	)
	if err != nil {
		return ShipmentView{}, err
	}

	if view.ID, err = kernel.UUIDFromRaw(id); err != nil {
		return ShipmentView{}, err
	}
	if view.SenderID, err = kernel.UUIDFromRaw(senderID); err != nil {
		return ShipmentView{}, err
	}
	if view.DriverID, err = optionalUUID(driverID); err != nil {
		return ShipmentView{}, err
	}
	if view.OriginZoneID, err = kernel.UUIDFromRaw(origin); err != nil {
		return ShipmentView{}, err
	}
	if view.DestinationZoneID, err = kernel.UUIDFromRaw(destination); err != nil {
		return ShipmentView{}, err
	}
	if view.CommodityID, err = kernel.UUIDFromRaw(goods); err != nil {
		return ShipmentView{}, err
	}

	if total.Valid {
		view.Tariff = &TariffView{
			Base:      base.Decimal,
			Surcharge: surcharge.Decimal,
			VAT:       vat.Decimal,
			Total:     total.Decimal,
		}
	}
	view.TaxReceiptNumber = receiptNumber.String
	if deliveredAt.Valid {
		at := deliveredAt.Time.UTC()
		view.DeliveredAt = &at
	}
	view.CreatedAt = view.CreatedAt.UTC()
	view.UpdatedAt = view.UpdatedAt.UTC()

	if err = authorizeView(query.Actor(), view.SenderID, view.DriverID, view.TrackingCode); err != nil {
		return ShipmentView{}, err
	}
	return view, nil
}
