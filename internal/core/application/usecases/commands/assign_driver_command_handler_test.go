package commands_test

import (
	"testing"
	"time"

	"cargo/internal/core/application/usecases/commands"
	"cargo/internal/core/domain/model/driver"
	"cargo/internal/core/domain/model/kernel"
	"cargo/internal/core/domain/model/shipment"
	"cargo/internal/core/domain/services"
	"cargo/internal/core/ports"
	"cargo/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type assignFixture struct {
	m        *uowMocks
	verifier *MockLicenseVerifier
	notifier *MockNotifier
	handler  commands.AssignDriverCommandHandler
}

func newAssignFixture() assignFixture {
	m := newUoWMocks()
	verifier := new(MockLicenseVerifier)
	notifier := new(MockNotifier)
	pool := commands.NewDriverPool(services.NewFirstFit(), verifier, commands.DefaultAssignmentPolicy(), discardLogger())
	capture := commands.NewPaymentCapture(pool, notifier)
	return assignFixture{
		m:        m,
		verifier: verifier,
		notifier: notifier,
		handler:  commands.NewAssignDriverCommandHandler(m.factory(), capture, discardLogger()),
	}
}

func newAssignDriverCommand(t *testing.T, actor kernel.Actor, shipmentID kernel.UUID, attempt int) commands.AssignDriverCommand {
	t.Helper()
	cmd, err := commands.NewAssignDriverCommand(actor, shipmentID, attempt)
	require.NoError(t, err)
	return cmd
}

func TestAssignDriverCommandHandler_Handle_AssignsFirstEligibleDriver(t *testing.T) {
	ctx := t.Context()
	f := newAssignFixture()
	s := paidShipment(t, kernel.NewUUID(), shipment.Domestic)
	d := verifiedDriver(t, "DL-001")
	zone := testZone(t, "50.00")

	mock.InOrder(
		f.m.uow.On("Begin", ctx).Return(nil).Once(),
		f.m.shipments.On("GetForUpdate", ctx, s.ID()).Return(s, nil).Once(),
		f.m.catalog.On("GetZone", ctx, s.OriginZoneID()).Return(zone, nil).Once(),
		f.m.drivers.On("ListCandidates", ctx, mock.Anything, mock.Anything, 20).Return([]*driver.Profile{d}, nil).Once(),
		f.m.drivers.On("ClaimCandidate", ctx, d.ID(), mock.Anything).Return(d, nil).Once(),
		f.verifier.On("Verify", ctx, "DL-001").Return(true).Once(),
		f.m.drivers.On("Update", ctx, d).Return(nil).Once(),
		f.m.shipments.On("Update", ctx, s).Return(nil).Once(),
		f.m.trail.On("Record", ctx, mock.AnythingOfType("audit.Event")).Return(nil).Once(),
		f.m.uow.On("Commit", ctx).Return(nil).Once(),
		f.notifier.On("DriverAssigned", ctx, s, d).Once(),
		f.m.uow.On("Rollback", ctx).Return(nil).Once(),
	)

	result, err := f.handler.Handle(ctx, newAssignDriverCommand(t, newActor(t, kernel.RoleAdmin), s.ID(), 0))

	require.NoError(t, err)
	require.NotNil(t, result.Driver)
	assert.Equal(t, d.ID(), result.Driver.ID())
	assert.Equal(t, shipment.Assigned, s.Status())
	assert.Equal(t, d.ID(), *s.DriverID())
	assert.False(t, d.IsAvailable())
	f.notifier.AssertNotCalled(t, "CustomsReminder", mock.Anything, mock.Anything)
	f.m.assertExpectations(t)
	f.notifier.AssertExpectations(t)
}

func TestAssignDriverCommandHandler_Handle_InternationalSendsCustomsReminder(t *testing.T) {
	ctx := t.Context()
	f := newAssignFixture()
	s := paidShipment(t, kernel.NewUUID(), shipment.International)
	d := verifiedDriver(t, "DL-002")

	f.m.uow.On("Begin", ctx).Return(nil).Once()
	f.m.shipments.On("GetForUpdate", ctx, s.ID()).Return(s, nil).Once()
	f.m.catalog.On("GetZone", ctx, s.OriginZoneID()).Return(testZone(t, "50.00"), nil).Once()
	f.m.drivers.On("ListCandidates", ctx, mock.Anything, mock.Anything, 20).Return([]*driver.Profile{d}, nil).Once()
	f.m.drivers.On("ClaimCandidate", ctx, d.ID(), mock.Anything).Return(d, nil).Once()
	f.verifier.On("Verify", ctx, "DL-002").Return(true).Once()
	f.m.drivers.On("Update", ctx, d).Return(nil).Once()
	f.m.shipments.On("Update", ctx, s).Return(nil).Once()
	f.m.trail.On("Record", ctx, mock.Anything).Return(nil).Once()
	f.m.uow.On("Commit", ctx).Return(nil).Once()
	f.m.uow.On("Rollback", ctx).Return(nil).Once()
	mock.InOrder(
		f.notifier.On("DriverAssigned", ctx, s, d).Once(),
		f.notifier.On("CustomsReminder", ctx, s).Once(),
	)

	_, err := f.handler.Handle(ctx, newAssignDriverCommand(t, kernel.SystemActor(), s.ID(), 0))

	require.NoError(t, err)
	f.notifier.AssertExpectations(t)
}

func TestAssignDriverCommandHandler_Handle_SkipsRowClaimedByConcurrentAssignment(t *testing.T) {
	ctx := t.Context()
	f := newAssignFixture()
	s := paidShipment(t, kernel.NewUUID(), shipment.Domestic)
	busy := verifiedDriver(t, "DL-003")
	free := verifiedDriver(t, "DL-004")

	mock.InOrder(
		f.m.uow.On("Begin", ctx).Return(nil).Once(),
		f.m.shipments.On("GetForUpdate", ctx, s.ID()).Return(s, nil).Once(),
		f.m.catalog.On("GetZone", ctx, s.OriginZoneID()).Return(testZone(t, "50.00"), nil).Once(),
		f.m.drivers.On("ListCandidates", ctx, mock.Anything, mock.Anything, 20).Return([]*driver.Profile{busy, free}, nil).Once(),
		f.m.drivers.On("ClaimCandidate", ctx, busy.ID(), mock.Anything).Return(nil, errs.NewObjectNotFoundError("driver", busy.ID())).Once(),
		f.m.drivers.On("ClaimCandidate", ctx, free.ID(), mock.Anything).Return(free, nil).Once(),
		f.verifier.On("Verify", ctx, "DL-004").Return(true).Once(),
		f.m.drivers.On("Update", ctx, free).Return(nil).Once(),
		f.m.shipments.On("Update", ctx, s).Return(nil).Once(),
		f.m.trail.On("Record", ctx, mock.Anything).Return(nil).Once(),
		f.m.uow.On("Commit", ctx).Return(nil).Once(),
		f.notifier.On("DriverAssigned", ctx, s, free).Once(),
		f.m.uow.On("Rollback", ctx).Return(nil).Once(),
	)

	result, err := f.handler.Handle(ctx, newAssignDriverCommand(t, kernel.SystemActor(), s.ID(), 0))

	require.NoError(t, err)
	assert.Equal(t, free.ID(), result.Driver.ID())
	f.verifier.AssertNotCalled(t, "Verify", ctx, "DL-003")
	f.m.assertExpectations(t)
}

func TestAssignDriverCommandHandler_Handle_StaleLicenseFallsThroughToNextCandidate(t *testing.T) {
	ctx := t.Context()
	f := newAssignFixture()
	s := paidShipment(t, kernel.NewUUID(), shipment.Domestic)
	stale := verifiedDriver(t, "DL-005")
	valid := verifiedDriver(t, "DL-006")

	mock.InOrder(
		f.m.uow.On("Begin", ctx).Return(nil).Once(),
		f.m.shipments.On("GetForUpdate", ctx, s.ID()).Return(s, nil).Once(),
		f.m.catalog.On("GetZone", ctx, s.OriginZoneID()).Return(testZone(t, "50.00"), nil).Once(),
		f.m.drivers.On("ListCandidates", ctx, mock.Anything, mock.Anything, 20).Return([]*driver.Profile{stale, valid}, nil).Once(),
		f.m.drivers.On("ClaimCandidate", ctx, stale.ID(), mock.Anything).Return(stale, nil).Once(),
		f.verifier.On("Verify", ctx, "DL-005").Return(false).Once(),
		f.m.drivers.On("Update", ctx, stale).Return(nil).Once(),
		f.m.drivers.On("ClaimCandidate", ctx, valid.ID(), mock.Anything).Return(valid, nil).Once(),
		f.verifier.On("Verify", ctx, "DL-006").Return(true).Once(),
		f.m.drivers.On("Update", ctx, valid).Return(nil).Once(),
		f.m.shipments.On("Update", ctx, s).Return(nil).Once(),
		f.m.trail.On("Record", ctx, mock.Anything).Return(nil).Once(),
		f.m.uow.On("Commit", ctx).Return(nil).Once(),
		f.notifier.On("DriverAssigned", ctx, s, valid).Once(),
		f.m.uow.On("Rollback", ctx).Return(nil).Once(),
	)

	result, err := f.handler.Handle(ctx, newAssignDriverCommand(t, kernel.SystemActor(), s.ID(), 0))

	require.NoError(t, err)
	assert.Equal(t, valid.ID(), result.Driver.ID())
	assert.False(t, stale.IsLicenseVerified())
	assert.True(t, stale.IsAvailable())
	f.m.assertExpectations(t)
}

func TestAssignDriverCommandHandler_Handle_NoDriverSchedulesRetry(t *testing.T) {
	ctx := t.Context()
	f := newAssignFixture()
	s := paidShipment(t, kernel.NewUUID(), shipment.Domestic)
	before := time.Now().UTC()

	retryTask := mock.MatchedBy(func(task ports.Task) bool {
		return task.ID == commands.RetryTaskID(s.ID(), 1) &&
			task.Kind == ports.TaskAssignDriverRetry &&
			!task.NotBefore.Before(before.Add(5*time.Minute))
	})

	mock.InOrder(
		f.m.uow.On("Begin", ctx).Return(nil).Once(),
		f.m.shipments.On("GetForUpdate", ctx, s.ID()).Return(s, nil).Once(),
		f.m.catalog.On("GetZone", ctx, s.OriginZoneID()).Return(testZone(t, "50.00"), nil).Once(),
		f.m.drivers.On("ListCandidates", ctx, mock.Anything, mock.Anything, 20).Return([]*driver.Profile{}, nil).Once(),
		f.m.tasks.On("Enqueue", ctx, retryTask).Return(true, nil).Once(),
		f.m.uow.On("Commit", ctx).Return(nil).Once(),
		f.m.uow.On("Rollback", ctx).Return(nil).Once(),
	)

	result, err := f.handler.Handle(ctx, newAssignDriverCommand(t, kernel.SystemActor(), s.ID(), 0))

	require.NoError(t, err)
	assert.Nil(t, result.Driver)
	assert.True(t, result.RetryScheduled)
	assert.Equal(t, shipment.Paid, s.Status())
	f.notifier.AssertNotCalled(t, "DriverAssigned", mock.Anything, mock.Anything, mock.Anything)
	f.m.assertExpectations(t)
}

func TestAssignDriverCommandHandler_Handle_RetryAlreadyQueuedIsNotReportedAsScheduled(t *testing.T) {
	ctx := t.Context()
	f := newAssignFixture()
	s := paidShipment(t, kernel.NewUUID(), shipment.Domestic)

	retryTask := mock.MatchedBy(func(task ports.Task) bool {
		return task.ID == commands.RetryTaskID(s.ID(), 1)
	})

	mock.InOrder(
		f.m.uow.On("Begin", ctx).Return(nil).Once(),
		f.m.shipments.On("GetForUpdate", ctx, s.ID()).Return(s, nil).Once(),
		f.m.catalog.On("GetZone", ctx, s.OriginZoneID()).Return(testZone(t, "50.00"), nil).Once(),
		f.m.drivers.On("ListCandidates", ctx, mock.Anything, mock.Anything, 20).Return([]*driver.Profile{}, nil).Once(),
		f.m.tasks.On("Enqueue", ctx, retryTask).Return(false, nil).Once(),
		f.m.uow.On("Commit", ctx).Return(nil).Once(),
		f.m.uow.On("Rollback", ctx).Return(nil).Once(),
	)

	result, err := f.handler.Handle(ctx, newAssignDriverCommand(t, newActor(t, kernel.RoleAdmin), s.ID(), 0))

	require.NoError(t, err)
	assert.Nil(t, result.Driver)
	assert.False(t, result.RetryScheduled)
	assert.Equal(t, shipment.Paid, s.Status())
	f.m.assertExpectations(t)
}

func TestAssignDriverCommandHandler_Handle_RetriesExhaustedLeavesShipmentPaid(t *testing.T) {
	ctx := t.Context()
	f := newAssignFixture()
	s := paidShipment(t, kernel.NewUUID(), shipment.Domestic)

	mock.InOrder(
		f.m.uow.On("Begin", ctx).Return(nil).Once(),
		f.m.shipments.On("GetForUpdate", ctx, s.ID()).Return(s, nil).Once(),
		f.m.catalog.On("GetZone", ctx, s.OriginZoneID()).Return(testZone(t, "50.00"), nil).Once(),
		f.m.drivers.On("ListCandidates", ctx, mock.Anything, mock.Anything, 20).Return([]*driver.Profile{}, nil).Once(),
		f.m.uow.On("Commit", ctx).Return(nil).Once(),
		f.m.uow.On("Rollback", ctx).Return(nil).Once(),
	)

	result, err := f.handler.Handle(ctx, newAssignDriverCommand(t, kernel.SystemActor(), s.ID(), 5))

	require.NoError(t, err)
	assert.False(t, result.RetryScheduled)
	assert.Equal(t, shipment.Paid, s.Status())
	f.m.tasks.AssertNotCalled(t, "Enqueue", mock.Anything, mock.Anything)
	f.m.assertExpectations(t)
}

func TestAssignDriverCommandHandler_Handle_RetryForMovedShipmentIsNoop(t *testing.T) {
	ctx := t.Context()
	f := newAssignFixture()
	s := assignedShipment(t, kernel.NewUUID(), kernel.NewUUID(), shipment.Domestic)

	mock.InOrder(
		f.m.uow.On("Begin", ctx).Return(nil).Once(),
		f.m.shipments.On("GetForUpdate", ctx, s.ID()).Return(s, nil).Once(),
		f.m.uow.On("Rollback", ctx).Return(nil).Once(),
	)

	result, err := f.handler.Handle(ctx, newAssignDriverCommand(t, kernel.SystemActor(), s.ID(), 2))

	require.NoError(t, err)
	assert.Nil(t, result.Driver)
	f.m.drivers.AssertNotCalled(t, "ListCandidates", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.m.uow.AssertNotCalled(t, "Commit", ctx)
}

func TestAssignDriverCommandHandler_Handle_DirectCallRequiresPaidShipment(t *testing.T) {
	ctx := t.Context()
	f := newAssignFixture()
	s := confirmedShipment(t, kernel.NewUUID(), shipment.Domestic)

	f.m.uow.On("Begin", ctx).Return(nil).Once()
	f.m.shipments.On("GetForUpdate", ctx, s.ID()).Return(s, nil).Once()
	f.m.uow.On("Rollback", ctx).Return(nil).Once()

	_, err := f.handler.Handle(ctx, newAssignDriverCommand(t, newActor(t, kernel.RoleAdmin), s.ID(), 0))

	require.ErrorIs(t, err, errs.ErrInvalidStateTransition)
	f.m.uow.AssertNotCalled(t, "Commit", ctx)
}

func TestAssignDriverCommandHandler_Handle_SenderIsDenied(t *testing.T) {
	ctx := t.Context()
	f := newAssignFixture()

	_, err := f.handler.Handle(ctx, newAssignDriverCommand(t, newActor(t, kernel.RoleSender), kernel.NewUUID(), 0))

	require.ErrorIs(t, err, errs.ErrAccessDenied)
	f.m.uow.AssertNotCalled(t, "Begin", ctx)
}
