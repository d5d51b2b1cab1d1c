package http

import (
	"time"

	"cargo/internal/core/application/usecases/commands"
	"cargo/internal/core/application/usecases/queries"
	"cargo/internal/core/domain/model/driver"
	"cargo/internal/core/domain/model/kernel"
	"cargo/internal/core/domain/model/payment"
	"cargo/internal/core/domain/model/shipment"
	"cargo/internal/pkg/settings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type newShipmentRequest struct {
	Type               string          `json:"type" validate:"required,oneof=DOMESTIC INTERNATIONAL"`
	OriginZoneID       uuid.UUID       `json:"origin_zone_id" validate:"required"`
	DestinationZoneID  uuid.UUID       `json:"destination_zone_id" validate:"required"`
	CommodityID        uuid.UUID       `json:"commodity_id" validate:"required"`
	WeightKg           decimal.Decimal `json:"weight_kg"`
	DeclaredValue      decimal.Decimal `json:"declared_value"`
	DestinationCountry string          `json:"destination_country" validate:"omitempty,max=64"`
	Notes              string          `json:"notes"`
	SyncID             string          `json:"sync_id" validate:"omitempty,max=128"`
	OfflineCreated     bool            `json:"offline_created"`
}

func (r newShipmentRequest) toBooking() (commands.CreateShipmentRequest, error) {
	kind, err := shipment.ParseType(r.Type)
	if err != nil {
		return commands.CreateShipmentRequest{}, err
	}
	origin, err := kernel.UUIDFromRaw(r.OriginZoneID)
	if err != nil {
		return commands.CreateShipmentRequest{}, err
	}
	destination, err := kernel.UUIDFromRaw(r.DestinationZoneID)
	if err != nil {
		return commands.CreateShipmentRequest{}, err
	}
	commodity, err := kernel.UUIDFromRaw(r.CommodityID)
	if err != nil {
		return commands.CreateShipmentRequest{}, err
	}

	return commands.CreateShipmentRequest{
		Type:               kind,
		OriginZoneID:       origin,
		DestinationZoneID:  destination,
		CommodityID:        commodity,
		WeightKg:           r.WeightKg,
		DeclaredValue:      r.DeclaredValue,
		DestinationCountry: r.DestinationCountry,
		Notes:              r.Notes,
		SyncID:             r.SyncID,
		OfflineCreated:     r.OfflineCreated,
	}, nil
}

type tariffRequest struct {
	Type         string          `json:"type" validate:"required,oneof=DOMESTIC INTERNATIONAL"`
	OriginZoneID uuid.UUID       `json:"origin_zone_id" validate:"required"`
	CommodityID  uuid.UUID       `json:"commodity_id" validate:"required"`
	WeightKg     decimal.Decimal `json:"weight_kg"`
}

type newPaymentRequest struct {
	Provider   string `json:"provider" validate:"required,oneof=MTN_MOMO AIRTEL"`
	PayerPhone string `json:"payer_phone" validate:"required"`
}

type paymentCallbackRequest struct {
	GatewayRef string `json:"gateway_ref" validate:"required"`
	Status     string `json:"status" validate:"required,oneof=SUCCESS FAILED"`
	Reason     string `json:"reason"`
}

type transitionRequest struct {
	Step string `json:"step" validate:"required"`
}

type cancellationRequest struct {
	Reason string `json:"reason" validate:"required"`
}

type newDriverRequest struct {
	DriverID      *uuid.UUID      `json:"driver_id"`
	LicenseNumber string          `json:"license_number" validate:"required"`
	VehiclePlate  string          `json:"vehicle_plate" validate:"required"`
	CapacityKg    decimal.Decimal `json:"capacity_kg"`
}

type locationRequest struct {
	Lat        float64    `json:"lat" validate:"gte=-90,lte=90"`
	Lon        float64    `json:"lon" validate:"gte=-180,lte=180"`
	ReportedAt *time.Time `json:"reported_at"`
}

type tariffResponse struct {
	Base      decimal.Decimal `json:"base"`
	Surcharge decimal.Decimal `json:"surcharge"`
	VAT       decimal.Decimal `json:"vat"`
	Total     decimal.Decimal `json:"total"`
	Currency  string          `json:"currency"`
}

type shipmentResponse struct {
	ID                    uuid.UUID       `json:"id"`
	TrackingCode          string          `json:"tracking_code"`
	Type                  string          `json:"type"`
	Status                string          `json:"status"`
	SenderID              uuid.UUID       `json:"sender_id"`
	DriverID              *uuid.UUID      `json:"driver_id"`
	OriginZoneID          uuid.UUID       `json:"origin_zone_id"`
	DestinationZoneID     uuid.UUID       `json:"destination_zone_id"`
	CommodityID           uuid.UUID       `json:"commodity_id"`
	WeightKg              decimal.Decimal `json:"weight_kg"`
	DeclaredValue         decimal.Decimal `json:"declared_value"`
	DestinationCountry    string          `json:"destination_country,omitempty"`
	Tariff                *tariffResponse `json:"tariff,omitempty"`
	TaxReceiptNumber      string          `json:"tax_receipt_number,omitempty"`
	CustomsManifestIssued bool            `json:"customs_manifest_issued"`
	NeedsReconciliation   bool            `json:"needs_reconciliation"`
	Notes                 string          `json:"notes,omitempty"`
	OfflineCreated        bool            `json:"offline_created"`
	CreatedAt             time.Time       `json:"created_at"`
	UpdatedAt             time.Time       `json:"updated_at"`
	DeliveredAt           *time.Time      `json:"delivered_at"`
}

func rawID(id *kernel.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	raw := id.Bytes()
	return &raw
}

func newShipmentResponse(s *shipment.Shipment) shipmentResponse {
	resp := shipmentResponse{
		ID:                    s.ID().Bytes(),
		TrackingCode:          s.TrackingCode().String(),
		Type:                  s.Type().String(),
		Status:                s.Status().String(),
		SenderID:              s.SenderID().Bytes(),
		DriverID:              rawID(s.DriverID()),
		OriginZoneID:          s.OriginZoneID().Bytes(),
		DestinationZoneID:     s.DestinationZoneID().Bytes(),
		CommodityID:           s.CommodityID().Bytes(),
		WeightKg:              s.WeightKg(),
		DeclaredValue:         s.DeclaredValue(),
		DestinationCountry:    s.DestinationCountry(),
		CustomsManifestIssued: s.CustomsManifest() != "",
		NeedsReconciliation:   s.NeedsReconciliation(),
		Notes:                 s.Notes(),
		OfflineCreated:        s.IsOfflineCreated(),
		CreatedAt:             s.CreatedAt(),
		UpdatedAt:             s.UpdatedAt(),
		DeliveredAt:           s.DeliveredAt(),
	}
	if t := s.Tariff(); t != nil {
		resp.Tariff = &tariffResponse{
			Base:      t.Base(),
			Surcharge: t.Surcharge(),
			VAT:       t.VAT(),
			Total:     t.Total(),
			Currency:  payment.CurrencyRWF,
		}
	}
	if r := s.TaxReceipt(); r != nil {
		resp.TaxReceiptNumber = r.Number()
	}
	return resp
}

func newShipmentViewResponse(v queries.ShipmentView) shipmentResponse {
	resp := shipmentResponse{
		ID:                    v.ID.Bytes(),
		TrackingCode:          v.TrackingCode,
		Type:                  v.Type,
		Status:                v.Status,
		SenderID:              v.SenderID.Bytes(),
		DriverID:              rawID(v.DriverID),
		OriginZoneID:          v.OriginZoneID.Bytes(),
		DestinationZoneID:     v.DestinationZoneID.Bytes(),
		CommodityID:           v.CommodityID.Bytes(),
		WeightKg:              v.WeightKg,
		DeclaredValue:         v.DeclaredValue,
		DestinationCountry:    v.DestinationCountry,
		TaxReceiptNumber:      v.TaxReceiptNumber,
		CustomsManifestIssued: v.CustomsManifestIssued,
		NeedsReconciliation:   v.NeedsReconciliation,
		Notes:                 v.Notes,
		OfflineCreated:        v.OfflineCreated,
		CreatedAt:             v.CreatedAt,
		UpdatedAt:             v.UpdatedAt,
		DeliveredAt:           v.DeliveredAt,
	}
	if v.Tariff != nil {
		resp.Tariff = &tariffResponse{
			Base:      v.Tariff.Base,
			Surcharge: v.Tariff.Surcharge,
			VAT:       v.Tariff.VAT,
			Total:     v.Tariff.Total,
			Currency:  payment.CurrencyRWF,
		}
	}
	return resp
}

type paymentResponse struct {
	ID         uuid.UUID       `json:"id"`
	ShipmentID uuid.UUID       `json:"shipment_id"`
	Provider   string          `json:"provider"`
	Amount     decimal.Decimal `json:"amount"`
	Currency   string          `json:"currency"`
	GatewayRef string          `json:"gateway_ref"`
	Status     string          `json:"status"`
}

func newPaymentResponse(p *payment.Payment) paymentResponse {
	return paymentResponse{
		ID:         p.ID().Bytes(),
		ShipmentID: p.ShipmentID().Bytes(),
		Provider:   p.Provider().String(),
		Amount:     p.Amount(),
		Currency:   p.Currency(),
		GatewayRef: p.GatewayRef(),
		Status:     p.Status().String(),
	}
}

type assignmentResponse struct {
	Assigned       bool       `json:"assigned"`
	DriverID       *uuid.UUID `json:"driver_id"`
	RetryScheduled bool       `json:"retry_scheduled"`
}

func newAssignmentResponse(a commands.Assignment) assignmentResponse {
	resp := assignmentResponse{RetryScheduled: a.RetryScheduled}
	if a.Driver != nil {
		id := a.Driver.ID().Bytes()
		resp.Assigned = true
		resp.DriverID = &id
	}
	return resp
}

type paymentCallbackResponse struct {
	AlreadyProcessed bool       `json:"already_processed"`
	ShipmentStatus   string     `json:"shipment_status,omitempty"`
	DriverID         *uuid.UUID `json:"driver_id"`
}

func newPaymentCallbackResponse(r commands.PaymentCallbackResult) paymentCallbackResponse {
	resp := paymentCallbackResponse{AlreadyProcessed: r.AlreadyProcessed}
	if r.Shipment != nil {
		resp.ShipmentStatus = r.Shipment.Status().String()
	}
	if r.Assignment.Driver != nil {
		id := r.Assignment.Driver.ID().Bytes()
		resp.DriverID = &id
	}
	return resp
}

type eventResponse struct {
	ID           uuid.UUID  `json:"id"`
	ShipmentID   uuid.UUID  `json:"shipment_id"`
	TrackingCode string     `json:"tracking_code"`
	FromStatus   string     `json:"from_status"`
	ToStatus     string     `json:"to_status"`
	ActorID      *uuid.UUID `json:"actor_id"`
	Note         string     `json:"note,omitempty"`
	OccurredAt   time.Time  `json:"occurred_at"`
}

func newEventResponses(events []queries.EventView) []eventResponse {
	resp := make([]eventResponse, len(events))
	for i, e := range events {
		resp[i] = eventResponse{
			ID:           e.ID.Bytes(),
			ShipmentID:   e.ShipmentID.Bytes(),
			TrackingCode: e.TrackingCode,
			FromStatus:   e.FromStatus,
			ToStatus:     e.ToStatus,
			ActorID:      rawID(e.ActorID),
			Note:         e.Note,
			OccurredAt:   e.OccurredAt,
		}
	}
	return resp
}

type driverResponse struct {
	ID              uuid.UUID       `json:"id"`
	LicenseNumber   string          `json:"license_number"`
	VehiclePlate    string          `json:"vehicle_plate"`
	CapacityKg      decimal.Decimal `json:"capacity_kg"`
	LicenseVerified bool            `json:"license_verified"`
	Available       bool            `json:"available"`
}

func newDriverResponse(p *driver.Profile) driverResponse {
	return driverResponse{
		ID:              p.ID().Bytes(),
		LicenseNumber:   p.LicenseNumber(),
		VehiclePlate:    p.VehiclePlate(),
		CapacityKg:      p.CapacityKg(),
		LicenseVerified: p.IsLicenseVerified(),
		Available:       p.IsAvailable(),
	}
}

type settingsResponse struct {
	MaintenanceMode    bool   `json:"maintenance_mode"`
	MaintenanceMessage string `json:"maintenance_message"`
	AuditRecentLimit   int    `json:"audit_recent_limit"`
}

func newSettingsResponse(s settings.Snapshot) settingsResponse {
	return settingsResponse{
		MaintenanceMode:    s.MaintenanceMode,
		MaintenanceMessage: s.MaintenanceMessage,
		AuditRecentLimit:   s.AuditRecentLimit,
	}
}
