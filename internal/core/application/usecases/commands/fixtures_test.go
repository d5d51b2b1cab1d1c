package commands_test

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"cargo/internal/core/domain/model/catalog"
	"cargo/internal/core/domain/model/driver"
	"cargo/internal/core/domain/model/kernel"
	"cargo/internal/core/domain/model/payment"
	"cargo/internal/core/domain/model/shipment"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var past = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newActor(t *testing.T, role kernel.Role) kernel.Actor {
	t.Helper()
	actor, err := kernel.NewActor(kernel.NewUUID(), role)
	require.NoError(t, err)
	return actor
}

func actorWithID(t *testing.T, id kernel.UUID, role kernel.Role) kernel.Actor {
	t.Helper()
	actor, err := kernel.NewActor(id, role)
	require.NoError(t, err)
	return actor
}

func testZone(t *testing.T, rate string) catalog.Zone {
	t.Helper()
	point, err := kernel.NewGeoPoint(-1.9441, 30.0619)
	require.NoError(t, err)
	zone, err := catalog.NewZone(kernel.NewUUID(), "Kigali", "Kigali City", decimal.RequireFromString(rate), false, &point)
	require.NoError(t, err)
	return zone
}

func testCommodity(t *testing.T, perishable bool) catalog.Commodity {
	t.Helper()
	commodity, err := catalog.NewCommodity(kernel.NewUUID(), "Coffee beans", "0901.11", perishable)
	require.NoError(t, err)
	return commodity
}

func testBooking(senderID kernel.UUID, kind shipment.Type) shipment.Booking {
	booking := shipment.Booking{
		Type:              kind,
		SenderID:          senderID,
		OriginZoneID:      kernel.NewUUID(),
		DestinationZoneID: kernel.NewUUID(),
		CommodityID:       kernel.NewUUID(),
		WeightKg:          decimal.NewFromInt(100),
		DeclaredValue:     decimal.NewFromInt(250000),
	}
	if kind == shipment.International {
		booking.DestinationCountry = "CD"
	}
	return booking
}

func confirmedShipment(t *testing.T, senderID kernel.UUID, kind shipment.Type) *shipment.Shipment {
	t.Helper()
	code, err := shipment.GenerateTrackingCode()
	require.NoError(t, err)
	s, err := shipment.NewShipment(kernel.NewUUID(), code, testBooking(senderID, kind), past)
	require.NoError(t, err)

	tariff, err := shipment.NewTariff(
		decimal.RequireFromString("5000.00"),
		decimal.RequireFromString("0.00"),
		decimal.RequireFromString("900.00"),
		decimal.RequireFromString("5900.00"),
	)
	require.NoError(t, err)
	_, err = s.Confirm(tariff, past)
	require.NoError(t, err)
	return s
}

func paidShipment(t *testing.T, senderID kernel.UUID, kind shipment.Type) *shipment.Shipment {
	t.Helper()
	s := confirmedShipment(t, senderID, kind)
	_, err := s.MarkPaid(past)
	require.NoError(t, err)
	return s
}

func assignedShipment(t *testing.T, senderID, driverID kernel.UUID, kind shipment.Type) *shipment.Shipment {
	t.Helper()
	s := paidShipment(t, senderID, kind)
	_, err := s.AssignDriver(driverID, past)
	require.NoError(t, err)
	return s
}

func verifiedDriver(t *testing.T, license string) *driver.Profile {
	t.Helper()
	d, err := driver.NewProfile(kernel.NewUUID(), license, "RAD 123 A", decimal.NewFromInt(500))
	require.NoError(t, err)
	d.MarkVerified(true)
	return d
}

func pendingPayment(t *testing.T, s *shipment.Shipment, gatewayRef string) *payment.Payment {
	t.Helper()
	p, err := payment.NewPayment(kernel.NewUUID(), s.ID(), payment.MTNMoMo, s.Tariff().Total(), "+250788123456", past)
	require.NoError(t, err)
	require.NoError(t, p.AttachGatewayRef(gatewayRef, past))
	return p
}

func capturedPayment(t *testing.T, s *shipment.Shipment, gatewayRef string) *payment.Payment {
	t.Helper()
	p := pendingPayment(t, s, gatewayRef)
	_, err := p.Resolve(payment.Success, "", past)
	require.NoError(t, err)
	return p
}

func testReceipt(t *testing.T, fallback bool) shipment.TaxReceipt {
	t.Helper()
	receipt, err := shipment.NewTaxReceipt("EBM-2026-000123", "c2lnbmF0dXJl", fallback)
	require.NoError(t, err)
	return receipt
}
