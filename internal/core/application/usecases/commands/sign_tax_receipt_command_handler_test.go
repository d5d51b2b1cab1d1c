package commands_test

import (
	"errors"
	"testing"

	"cargo/internal/core/application/usecases/commands"
	"cargo/internal/core/domain/model/kernel"
	"cargo/internal/core/domain/model/shipment"
	"cargo/internal/core/ports"
	"cargo/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestSignTaxReceiptCommandHandler_Handle_DomesticShipment(t *testing.T) {
	ctx := t.Context()
	s := paidShipment(t, kernel.NewUUID(), shipment.Domestic)
	p := capturedPayment(t, s, "MOMO-500")
	receipt := testReceipt(t, false)

	m := newUoWMocks()
	signer := new(MockTaxReceiptSigner)

	mock.InOrder(
		m.payments.On("Get", ctx, p.ID()).Return(p, nil).Once(),
		signer.On("Sign", ctx, p).Return(receipt, nil).Once(),
		m.uow.On("Begin", ctx).Return(nil).Once(),
		m.payments.On("GetByGatewayRefForUpdate", ctx, "MOMO-500").Return(p, nil).Once(),
		m.shipments.On("GetForUpdate", ctx, s.ID()).Return(s, nil).Once(),
		m.shipments.On("Update", ctx, s).Return(nil).Once(),
		m.payments.On("Update", ctx, p).Return(nil).Once(),
		m.uow.On("Commit", ctx).Return(nil).Once(),
		m.uow.On("Rollback", ctx).Return(nil).Once(),
	)

	cmd, err := commands.NewSignTaxReceiptCommand(p.ID())
	require.NoError(t, err)
	err = commands.NewSignTaxReceiptCommandHandler(m.factory(), signer, discardLogger()).Handle(ctx, cmd)

	require.NoError(t, err)
	require.NotNil(t, s.TaxReceipt())
	assert.Equal(t, receipt.Number(), s.TaxReceipt().Number())
	assert.False(t, s.NeedsReconciliation())
	assert.True(t, p.IsTaxReceiptSigned())
	m.tasks.AssertNotCalled(t, "Enqueue", mock.Anything, mock.Anything)
	m.assertExpectations(t)
}

func TestSignTaxReceiptCommandHandler_Handle_InternationalQueuesManifest(t *testing.T) {
	ctx := t.Context()
	s := paidShipment(t, kernel.NewUUID(), shipment.International)
	p := capturedPayment(t, s, "MOMO-501")

	m := newUoWMocks()
	signer := new(MockTaxReceiptSigner)

	mock.InOrder(
		m.payments.On("Get", ctx, p.ID()).Return(p, nil).Once(),
		signer.On("Sign", ctx, p).Return(testReceipt(t, true), nil).Once(),
		m.uow.On("Begin", ctx).Return(nil).Once(),
		m.payments.On("GetByGatewayRefForUpdate", ctx, "MOMO-501").Return(p, nil).Once(),
		m.shipments.On("GetForUpdate", ctx, s.ID()).Return(s, nil).Once(),
		m.shipments.On("Update", ctx, s).Return(nil).Once(),
		m.tasks.On("Enqueue", ctx, mock.MatchedBy(func(task ports.Task) bool {
			return task.ID == commands.CustomsManifestTaskID(s.ID()) &&
				task.Kind == ports.TaskGenerateCustomsManifest
		})).Return(true, nil).Once(),
		m.payments.On("Update", ctx, p).Return(nil).Once(),
		m.uow.On("Commit", ctx).Return(nil).Once(),
		m.uow.On("Rollback", ctx).Return(nil).Once(),
	)

	cmd, err := commands.NewSignTaxReceiptCommand(p.ID())
	require.NoError(t, err)
	err = commands.NewSignTaxReceiptCommandHandler(m.factory(), signer, discardLogger()).Handle(ctx, cmd)

	require.NoError(t, err)
	assert.True(t, s.NeedsReconciliation())
	m.assertExpectations(t)
}

func TestSignTaxReceiptCommandHandler_Handle_AlreadySignedIsNoop(t *testing.T) {
	ctx := t.Context()
	s := paidShipment(t, kernel.NewUUID(), shipment.Domestic)
	p := capturedPayment(t, s, "MOMO-502")
	require.NoError(t, p.MarkTaxReceiptSigned(past))

	m := newUoWMocks()
	signer := new(MockTaxReceiptSigner)
	m.payments.On("Get", ctx, p.ID()).Return(p, nil).Once()

	cmd, err := commands.NewSignTaxReceiptCommand(p.ID())
	require.NoError(t, err)
	err = commands.NewSignTaxReceiptCommandHandler(m.factory(), signer, discardLogger()).Handle(ctx, cmd)

	require.NoError(t, err)
	signer.AssertNotCalled(t, "Sign", mock.Anything, mock.Anything)
	m.uow.AssertNotCalled(t, "Begin", mock.Anything)
}

func TestSignTaxReceiptCommandHandler_Handle_SignerErrorIsRetryable(t *testing.T) {
	ctx := t.Context()
	s := paidShipment(t, kernel.NewUUID(), shipment.Domestic)
	p := capturedPayment(t, s, "MOMO-503")

	m := newUoWMocks()
	signer := new(MockTaxReceiptSigner)
	m.payments.On("Get", ctx, p.ID()).Return(p, nil).Once()
	signer.On("Sign", ctx, p).Return(shipment.TaxReceipt{}, errors.New("signer unavailable")).Once()

	cmd, err := commands.NewSignTaxReceiptCommand(p.ID())
	require.NoError(t, err)
	err = commands.NewSignTaxReceiptCommandHandler(m.factory(), signer, discardLogger()).Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrExternalService)
	assert.False(t, p.IsTaxReceiptSigned())
	m.uow.AssertNotCalled(t, "Begin", mock.Anything)
}
