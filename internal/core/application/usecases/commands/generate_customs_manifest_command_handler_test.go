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

func receiptedShipment(t *testing.T, senderID kernel.UUID, kind shipment.Type) *shipment.Shipment {
	t.Helper()
	s := paidShipment(t, senderID, kind)
	require.NoError(t, s.AttachTaxReceipt(testReceipt(t, false), past))
	return s
}

func newManifestCommand(t *testing.T, actor kernel.Actor, id kernel.UUID) commands.GenerateCustomsManifestCommand {
	t.Helper()
	cmd, err := commands.NewGenerateCustomsManifestCommand(actor, id)
	require.NoError(t, err)
	return cmd
}

func TestGenerateCustomsManifestCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	exporter := actorWithID(t, kernel.NewUUID(), kernel.RoleExporter)
	s := receiptedShipment(t, *exporter.ID(), shipment.International)
	commodity := testCommodity(t, false)
	contact := ports.Contact{AgentID: *exporter.ID(), FullName: "Umutoni Grace", Phone: "+250788000111"}

	m := newUoWMocks()
	generator := new(MockManifestGenerator)
	contacts := new(MockContactDirectory)

	mock.InOrder(
		m.uow.On("Begin", ctx).Return(nil).Once(),
		m.shipments.On("GetForUpdate", ctx, s.ID()).Return(s, nil).Once(),
		m.catalog.On("GetCommodity", ctx, s.CommodityID()).Return(commodity, nil).Once(),
		contacts.On("Lookup", ctx, s.SenderID()).Return(contact, nil).Once(),
		generator.On("Generate", ctx, ports.ManifestInput{Shipment: s, Commodity: commodity, Exporter: contact}).
			Return("<manifest/>", nil).Once(),
		m.shipments.On("Update", ctx, s).Return(nil).Once(),
		m.uow.On("Commit", ctx).Return(nil).Once(),
		m.uow.On("Rollback", ctx).Return(nil).Once(),
	)

	handler := commands.NewGenerateCustomsManifestCommandHandler(m.factory(), generator, contacts, discardLogger())
	document, err := handler.Handle(ctx, newManifestCommand(t, exporter, s.ID()))

	require.NoError(t, err)
	assert.Equal(t, "<manifest/>", document)
	assert.Equal(t, "<manifest/>", s.CustomsManifest())
	m.assertExpectations(t)
	generator.AssertExpectations(t)
}

func TestGenerateCustomsManifestCommandHandler_Handle_MissingContactStillGenerates(t *testing.T) {
	ctx := t.Context()
	s := receiptedShipment(t, kernel.NewUUID(), shipment.International)

	m := newUoWMocks()
	generator := new(MockManifestGenerator)
	contacts := new(MockContactDirectory)

	m.uow.On("Begin", ctx).Return(nil).Once()
	m.shipments.On("GetForUpdate", ctx, s.ID()).Return(s, nil).Once()
	m.catalog.On("GetCommodity", ctx, s.CommodityID()).Return(testCommodity(t, true), nil).Once()
	contacts.On("Lookup", ctx, s.SenderID()).Return(ports.Contact{}, errs.NewObjectNotFoundError("agent", s.SenderID())).Once()
	generator.On("Generate", ctx, mock.MatchedBy(func(in ports.ManifestInput) bool {
		return in.Exporter.AgentID == s.SenderID() && in.Exporter.FullName == ""
	})).Return("<manifest/>", nil).Once()
	m.shipments.On("Update", ctx, s).Return(nil).Once()
	m.uow.On("Commit", ctx).Return(nil).Once()
	m.uow.On("Rollback", ctx).Return(nil).Once()

	handler := commands.NewGenerateCustomsManifestCommandHandler(m.factory(), generator, contacts, discardLogger())
	_, err := handler.Handle(ctx, newManifestCommand(t, newActor(t, kernel.RoleAdmin), s.ID()))

	require.NoError(t, err)
	generator.AssertExpectations(t)
}

func TestGenerateCustomsManifestCommandHandler_Handle_ExistingDocumentIsReturned(t *testing.T) {
	ctx := t.Context()
	s := receiptedShipment(t, kernel.NewUUID(), shipment.International)
	require.NoError(t, s.AttachCustomsManifest("<existing/>", past))

	m := newUoWMocks()
	generator := new(MockManifestGenerator)
	m.uow.On("Begin", ctx).Return(nil).Once()
	m.shipments.On("GetForUpdate", ctx, s.ID()).Return(s, nil).Once()
	m.uow.On("Rollback", ctx).Return(nil).Once()

	handler := commands.NewGenerateCustomsManifestCommandHandler(m.factory(), generator, new(MockContactDirectory), discardLogger())
	document, err := handler.Handle(ctx, newManifestCommand(t, newActor(t, kernel.RoleAdmin), s.ID()))

	require.NoError(t, err)
	assert.Equal(t, "<existing/>", document)
	generator.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
}

func TestGenerateCustomsManifestCommandHandler_Handle_DomesticIsRejected(t *testing.T) {
	ctx := t.Context()
	s := receiptedShipment(t, kernel.NewUUID(), shipment.Domestic)

	m := newUoWMocks()
	m.uow.On("Begin", ctx).Return(nil).Once()
	m.shipments.On("GetForUpdate", ctx, s.ID()).Return(s, nil).Once()
	m.uow.On("Rollback", ctx).Return(nil).Once()

	handler := commands.NewGenerateCustomsManifestCommandHandler(m.factory(), new(MockManifestGenerator), new(MockContactDirectory), discardLogger())
	_, err := handler.Handle(ctx, newManifestCommand(t, newActor(t, kernel.RoleAdmin), s.ID()))

	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestGenerateCustomsManifestCommandHandler_Handle_GeneratorFailure(t *testing.T) {
	ctx := t.Context()
	s := receiptedShipment(t, kernel.NewUUID(), shipment.International)

	m := newUoWMocks()
	generator := new(MockManifestGenerator)
	contacts := new(MockContactDirectory)
	m.uow.On("Begin", ctx).Return(nil).Once()
	m.shipments.On("GetForUpdate", ctx, s.ID()).Return(s, nil).Once()
	m.catalog.On("GetCommodity", ctx, s.CommodityID()).Return(testCommodity(t, false), nil).Once()
	contacts.On("Lookup", ctx, s.SenderID()).Return(ports.Contact{AgentID: s.SenderID()}, nil).Once()
	generator.On("Generate", ctx, mock.Anything).Return("", errors.New("template error")).Once()
	m.uow.On("Rollback", ctx).Return(nil).Once()

	handler := commands.NewGenerateCustomsManifestCommandHandler(m.factory(), generator, contacts, discardLogger())
	_, err := handler.Handle(ctx, newManifestCommand(t, newActor(t, kernel.RoleAdmin), s.ID()))

	require.ErrorIs(t, err, errs.ErrExternalService)
	assert.Empty(t, s.CustomsManifest())
}
