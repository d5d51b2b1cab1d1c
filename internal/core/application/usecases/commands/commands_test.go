package commands_test

import (
	"strings"
	"testing"
	"time"

	"cargo/internal/core/application/usecases/commands"
	"cargo/internal/core/domain/model/kernel"
	"cargo/internal/core/domain/model/payment"
	"cargo/internal/core/domain/model/shipment"
	"cargo/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCreateShipmentCommand(t *testing.T) {
	sender := newActor(t, kernel.RoleSender)
	valid := commands.CreateShipmentRequest{
		Type:              shipment.Domestic,
		OriginZoneID:      kernel.NewUUID(),
		DestinationZoneID: kernel.NewUUID(),
		CommodityID:       kernel.NewUUID(),
		WeightKg:          decimal.NewFromInt(100),
		SyncID:            "tablet-7:0042",
	}

	t.Run("sender becomes the shipment owner", func(t *testing.T) {
		cmd, err := commands.NewCreateShipmentCommand(sender, valid)
		require.NoError(t, err)
		require.NoError(t, cmd.Validate())
		assert.Equal(t, *sender.ID(), cmd.Booking().SenderID)
		assert.Equal(t, "tablet-7:0042", cmd.Booking().SyncID)
	})

	t.Run("same origin and destination is rejected", func(t *testing.T) {
		req := valid
		req.DestinationZoneID = req.OriginZoneID
		_, err := commands.NewCreateShipmentCommand(sender, req)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("international without destination country is rejected", func(t *testing.T) {
		req := valid
		req.Type = shipment.International
		_, err := commands.NewCreateShipmentCommand(sender, req)
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("non-positive weight is rejected", func(t *testing.T) {
		req := valid
		req.WeightKg = decimal.Zero
		_, err := commands.NewCreateShipmentCommand(sender, req)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("zero actor is rejected", func(t *testing.T) {
		_, err := commands.NewCreateShipmentCommand(kernel.Actor{}, valid)
		require.ErrorIs(t, err, kernel.ErrActorIsNotConstructed)
	})
}

func TestNewHandlePaymentCallbackCommand(t *testing.T) {
	cmd, err := commands.NewHandlePaymentCallbackCommand("MOMO-1", payment.Failed, "insufficient funds")
	require.NoError(t, err)
	assert.Equal(t, "MOMO-1", cmd.GatewayRef())
	assert.Equal(t, payment.Failed, cmd.Outcome())
	assert.Equal(t, "insufficient funds", cmd.Reason())

	_, err = commands.NewHandlePaymentCallbackCommand("", payment.Success, "")
	require.ErrorIs(t, err, errs.ErrValueIsRequired)

	_, err = commands.NewHandlePaymentCallbackCommand("MOMO-1", payment.Pending, "")
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestNewAssignDriverCommand(t *testing.T) {
	cmd, err := commands.NewAssignDriverCommand(kernel.SystemActor(), kernel.NewUUID(), 3)
	require.NoError(t, err)
	assert.True(t, cmd.IsRetry())
	assert.Equal(t, 3, cmd.Attempt())

	direct, err := commands.NewAssignDriverCommand(kernel.SystemActor(), kernel.NewUUID(), 0)
	require.NoError(t, err)
	assert.False(t, direct.IsRetry())

	_, err = commands.NewAssignDriverCommand(kernel.SystemActor(), kernel.NewUUID(), -1)
	require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
}

func TestParseTransitStep(t *testing.T) {
	step, err := commands.ParseTransitStep(" reach_border ")
	require.NoError(t, err)
	assert.Equal(t, commands.StepReachBorder, step)
	assert.Equal(t, "REACH_BORDER", step.String())

	_, err = commands.ParseTransitStep("teleport")
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)

	_, err = commands.NewAdvanceShipmentCommand(kernel.SystemActor(), kernel.NewUUID(), commands.StepUnknown)
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestNewCancelShipmentCommand(t *testing.T) {
	admin := newActor(t, kernel.RoleAdmin)

	cmd, err := commands.NewCancelShipmentCommand(admin, kernel.NewUUID(), "  customer request ")
	require.NoError(t, err)
	assert.Equal(t, "customer request", cmd.Reason())

	_, err = commands.NewCancelShipmentCommand(admin, kernel.NewUUID(), " ")
	require.ErrorIs(t, err, errs.ErrValueIsRequired)

	_, err = commands.NewCancelShipmentCommand(admin, kernel.NewUUID(), strings.Repeat("x", 501))
	require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
}

func TestNewRegisterDriverCommand_NormalizesIdentifiers(t *testing.T) {
	id := kernel.NewUUID()
	cmd, err := commands.NewRegisterDriverCommand(actorWithID(t, id, kernel.RoleDriver), id, " dl-778 ", "rad 123 a", decimal.NewFromInt(800))
	require.NoError(t, err)
	assert.Equal(t, "DL-778", cmd.LicenseNumber())
	assert.Equal(t, "RAD123A", cmd.VehiclePlate())

	_, err = commands.NewRegisterDriverCommand(actorWithID(t, id, kernel.RoleDriver), id, "DL-778", "RAD123A", decimal.Zero)
	require.Error(t, err)
}

func TestNewUpdateDriverLocationCommand(t *testing.T) {
	point, err := kernel.NewGeoPoint(-2.5967, 29.7394)
	require.NoError(t, err)

	_, err = commands.NewUpdateDriverLocationCommand(kernel.SystemActor(), kernel.NewUUID(), point, time.Time{})
	require.ErrorIs(t, err, errs.ErrValueIsRequired)

	cmd, err := commands.NewUpdateDriverLocationCommand(kernel.SystemActor(), kernel.NewUUID(), point, past)
	require.NoError(t, err)
	assert.Equal(t, point, cmd.Location())
}

func TestNewAutoFailUnpaidShipmentsCommand(t *testing.T) {
	cmd, err := commands.NewAutoFailUnpaidShipmentsCommand(commands.DefaultPaymentTimeout, 0)
	require.NoError(t, err)
	assert.Equal(t, 30*time.Minute, cmd.Timeout())
	assert.Equal(t, 100, cmd.BatchSize())

	_, err = commands.NewAutoFailUnpaidShipmentsCommand(0, 10)
	require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
}
