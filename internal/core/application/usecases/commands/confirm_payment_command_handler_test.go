package commands_test

import (
	"testing"

	"cargo/internal/core/application/usecases/commands"
	"cargo/internal/core/domain/model/driver"
	"cargo/internal/core/domain/model/kernel"
	"cargo/internal/core/domain/model/payment"
	"cargo/internal/core/domain/model/shipment"
	"cargo/internal/core/domain/services"
	"cargo/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newConfirmPaymentHandler(m *uowMocks, verifier *MockLicenseVerifier, notifier *MockNotifier) commands.ConfirmPaymentCommandHandler {
	pool := commands.NewDriverPool(services.NewFirstFit(), verifier, commands.DefaultAssignmentPolicy(), discardLogger())
	return commands.NewConfirmPaymentCommandHandler(m.factory(), commands.NewPaymentCapture(pool, notifier), discardLogger())
}

func TestConfirmPaymentCommandHandler_Handle_ConfirmsAndQueuesRetryWhenNoDriver(t *testing.T) {
	ctx := t.Context()
	admin := newActor(t, kernel.RoleAdmin)
	s := confirmedShipment(t, kernel.NewUUID(), shipment.Domestic)
	p := pendingPayment(t, s, "MOMO-300")

	m := newUoWMocks()
	notifier := new(MockNotifier)

	mock.InOrder(
		m.uow.On("Begin", ctx).Return(nil).Once(),
		m.payments.On("GetByShipment", ctx, s.ID()).Return(p, nil).Once(),
		m.payments.On("GetByGatewayRefForUpdate", ctx, "MOMO-300").Return(p, nil).Once(),
		m.payments.On("Update", ctx, p).Return(nil).Once(),
		m.shipments.On("GetForUpdate", ctx, s.ID()).Return(s, nil).Once(),
		m.shipments.On("Update", ctx, s).Return(nil).Once(),
		m.trail.On("Record", ctx, mock.Anything).Return(nil).Once(),
		m.tasks.On("Enqueue", ctx, mock.Anything).Return(true, nil).Once(),
		m.catalog.On("GetZone", ctx, s.OriginZoneID()).Return(testZone(t, "50.00"), nil).Once(),
		m.drivers.On("ListCandidates", ctx, mock.Anything, mock.Anything, 20).Return([]*driver.Profile{}, nil).Once(),
		m.tasks.On("Enqueue", ctx, mock.Anything).Return(true, nil).Once(),
		m.uow.On("Commit", ctx).Return(nil).Once(),
		notifier.On("StatusChanged", ctx, s, mock.Anything).Once(),
		m.uow.On("Rollback", ctx).Return(nil).Once(),
	)

	cmd, err := commands.NewConfirmPaymentCommand(admin, s.ID())
	require.NoError(t, err)
	got, err := newConfirmPaymentHandler(m, new(MockLicenseVerifier), notifier).Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, shipment.Paid, got.Status())
	assert.Equal(t, payment.Success, p.Status())
	m.assertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestConfirmPaymentCommandHandler_Handle_ConfirmingTwiceFails(t *testing.T) {
	ctx := t.Context()
	admin := newActor(t, kernel.RoleAdmin)
	s := paidShipment(t, kernel.NewUUID(), shipment.Domestic)
	p := capturedPayment(t, s, "MOMO-301")

	m := newUoWMocks()
	mock.InOrder(
		m.uow.On("Begin", ctx).Return(nil).Once(),
		m.payments.On("GetByShipment", ctx, s.ID()).Return(p, nil).Once(),
		m.payments.On("GetByGatewayRefForUpdate", ctx, "MOMO-301").Return(p, nil).Once(),
		m.shipments.On("GetForUpdate", ctx, s.ID()).Return(s, nil).Once(),
		m.uow.On("Rollback", ctx).Return(nil).Once(),
	)

	cmd, err := commands.NewConfirmPaymentCommand(admin, s.ID())
	require.NoError(t, err)
	_, err = newConfirmPaymentHandler(m, new(MockLicenseVerifier), new(MockNotifier)).Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrInvalidStateTransition)
	m.uow.AssertNotCalled(t, "Commit", ctx)
}

func TestConfirmPaymentCommandHandler_Handle_FailedPaymentCannotBeConfirmed(t *testing.T) {
	ctx := t.Context()
	admin := newActor(t, kernel.RoleAdmin)
	s := confirmedShipment(t, kernel.NewUUID(), shipment.Domestic)
	p := pendingPayment(t, s, "MOMO-302")
	_, err := p.Resolve(payment.Failed, "declined", past)
	require.NoError(t, err)

	m := newUoWMocks()
	mock.InOrder(
		m.uow.On("Begin", ctx).Return(nil).Once(),
		m.payments.On("GetByShipment", ctx, s.ID()).Return(p, nil).Once(),
		m.payments.On("GetByGatewayRefForUpdate", ctx, "MOMO-302").Return(p, nil).Once(),
		m.uow.On("Rollback", ctx).Return(nil).Once(),
	)

	cmd, err := commands.NewConfirmPaymentCommand(admin, s.ID())
	require.NoError(t, err)
	_, err = newConfirmPaymentHandler(m, new(MockLicenseVerifier), new(MockNotifier)).Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrInvalidStateTransition)
	m.shipments.AssertNotCalled(t, "GetForUpdate", mock.Anything, mock.Anything)
}

func TestConfirmPaymentCommandHandler_Handle_OnlyAdmins(t *testing.T) {
	ctx := t.Context()
	m := newUoWMocks()

	cmd, err := commands.NewConfirmPaymentCommand(newActor(t, kernel.RoleSender), kernel.NewUUID())
	require.NoError(t, err)
	_, err = newConfirmPaymentHandler(m, new(MockLicenseVerifier), new(MockNotifier)).Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrAccessDenied)
	m.uow.AssertNotCalled(t, "Begin", ctx)
}
