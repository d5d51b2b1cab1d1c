package commands_test

import (
	"context"
	"time"

	"cargo/internal/core/application/usecases/commands"
	"cargo/internal/core/domain/model/audit"
	"cargo/internal/core/domain/model/catalog"
	"cargo/internal/core/domain/model/driver"
	"cargo/internal/core/domain/model/kernel"
	"cargo/internal/core/domain/model/payment"
	"cargo/internal/core/domain/model/shipment"
	"cargo/internal/core/ports"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type MockShipmentRepository struct{ mock.Mock }

func (m *MockShipmentRepository) Add(ctx context.Context, s *shipment.Shipment) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockShipmentRepository) Update(ctx context.Context, s *shipment.Shipment) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockShipmentRepository) Get(ctx context.Context, id kernel.UUID) (*shipment.Shipment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shipment.Shipment), args.Error(1)
}

func (m *MockShipmentRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*shipment.Shipment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shipment.Shipment), args.Error(1)
}

func (m *MockShipmentRepository) GetByTrackingCode(ctx context.Context, code shipment.TrackingCode) (*shipment.Shipment, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shipment.Shipment), args.Error(1)
}

func (m *MockShipmentRepository) GetBySyncID(ctx context.Context, syncID string) (*shipment.Shipment, error) {
	args := m.Called(ctx, syncID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shipment.Shipment), args.Error(1)
}

func (m *MockShipmentRepository) TrackingCodeExists(ctx context.Context, code shipment.TrackingCode) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockShipmentRepository) ListStaleConfirmed(
	ctx context.Context,
	olderThan time.Time,
	limit int,
) ([]*shipment.Shipment, error) {
	args := m.Called(ctx, olderThan, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*shipment.Shipment), args.Error(1)
}

type MockPaymentRepository struct{ mock.Mock }

func (m *MockPaymentRepository) Add(ctx context.Context, p *payment.Payment) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPaymentRepository) Update(ctx context.Context, p *payment.Payment) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPaymentRepository) Get(ctx context.Context, id kernel.UUID) (*payment.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Payment), args.Error(1)
}

func (m *MockPaymentRepository) GetByShipment(ctx context.Context, shipmentID kernel.UUID) (*payment.Payment, error) {
	args := m.Called(ctx, shipmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Payment), args.Error(1)
}

func (m *MockPaymentRepository) GetByGatewayRefForUpdate(ctx context.Context, gatewayRef string) (*payment.Payment, error) {
	args := m.Called(ctx, gatewayRef)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Payment), args.Error(1)
}

type MockDriverRepository struct{ mock.Mock }

func (m *MockDriverRepository) Add(ctx context.Context, d *driver.Profile) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockDriverRepository) Update(ctx context.Context, d *driver.Profile) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockDriverRepository) Get(ctx context.Context, id kernel.UUID) (*driver.Profile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*driver.Profile), args.Error(1)
}

func (m *MockDriverRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*driver.Profile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*driver.Profile), args.Error(1)
}

func (m *MockDriverRepository) ListCandidates(
	ctx context.Context,
	minCapacityKg decimal.Decimal,
	exclude []kernel.UUID,
	limit int,
) ([]*driver.Profile, error) {
	args := m.Called(ctx, minCapacityKg, exclude, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*driver.Profile), args.Error(1)
}

func (m *MockDriverRepository) ClaimCandidate(
	ctx context.Context,
	id kernel.UUID,
	minCapacityKg decimal.Decimal,
) (*driver.Profile, error) {
	args := m.Called(ctx, id, minCapacityKg)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*driver.Profile), args.Error(1)
}

func (m *MockDriverRepository) ListUnverified(ctx context.Context, limit int) ([]*driver.Profile, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*driver.Profile), args.Error(1)
}

type MockCatalogRepository struct{ mock.Mock }

func (m *MockCatalogRepository) GetZone(ctx context.Context, id kernel.UUID) (catalog.Zone, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(catalog.Zone), args.Error(1)
}

func (m *MockCatalogRepository) GetCommodity(ctx context.Context, id kernel.UUID) (catalog.Commodity, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(catalog.Commodity), args.Error(1)
}

type MockAuditTrail struct{ mock.Mock }

func (m *MockAuditTrail) Record(ctx context.Context, event audit.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

type MockTaskQueue struct{ mock.Mock }

func (m *MockTaskQueue) Enqueue(ctx context.Context, task ports.Task) (bool, error) {
	args := m.Called(ctx, task)
	return args.Bool(0), args.Error(1)
}

func (m *MockTaskQueue) Cancel(ctx context.Context, ids ...string) error {
	args := m.Called(ctx, ids)
	return args.Error(0)
}

func (m *MockTaskQueue) ClaimDue(ctx context.Context, now time.Time, lease time.Duration, limit int) ([]ports.Task, error) {
	args := m.Called(ctx, now, lease, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ports.Task), args.Error(1)
}

func (m *MockTaskQueue) Complete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTaskQueue) Fail(ctx context.Context, id string, reason string) error {
	args := m.Called(ctx, id, reason)
	return args.Error(0)
}

type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) ShipmentRepository() ports.ShipmentRepository {
	args := m.Called()
	return args.Get(0).(ports.ShipmentRepository)
}

func (m *MockUoW) PaymentRepository() ports.PaymentRepository {
	args := m.Called()
	return args.Get(0).(ports.PaymentRepository)
}

func (m *MockUoW) DriverRepository() ports.DriverRepository {
	args := m.Called()
	return args.Get(0).(ports.DriverRepository)
}

func (m *MockUoW) CatalogRepository() ports.CatalogRepository {
	args := m.Called()
	return args.Get(0).(ports.CatalogRepository)
}

func (m *MockUoW) AuditTrail() ports.AuditTrail {
	args := m.Called()
	return args.Get(0).(ports.AuditTrail)
}

func (m *MockUoW) TaskQueue() ports.TaskQueue {
	args := m.Called()
	return args.Get(0).(ports.TaskQueue)
}

type MockUoWFactory struct{ mock.Mock }

func (m *MockUoWFactory) Create() commands.UoW {
	args := m.Called()
	return args.Get(0).(commands.UoW)
}

type MockDriverUoW struct{ mock.Mock }

func (m *MockDriverUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockDriverUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockDriverUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockDriverUoW) DriverRepository() ports.DriverRepository {
	args := m.Called()
	return args.Get(0).(ports.DriverRepository)
}

type MockDriverUoWFactory struct{ mock.Mock }

func (m *MockDriverUoWFactory) Create() commands.DriverUoW {
	args := m.Called()
	return args.Get(0).(commands.DriverUoW)
}

type MockLicenseVerifier struct{ mock.Mock }

func (m *MockLicenseVerifier) Verify(ctx context.Context, licenseNumber string) bool {
	args := m.Called(ctx, licenseNumber)
	return args.Bool(0)
}

type MockNotifier struct{ mock.Mock }

func (m *MockNotifier) StatusChanged(ctx context.Context, s *shipment.Shipment, t shipment.Transition) {
	m.Called(ctx, s, t)
}

func (m *MockNotifier) DriverAssigned(ctx context.Context, s *shipment.Shipment, d *driver.Profile) {
	m.Called(ctx, s, d)
}

func (m *MockNotifier) CustomsReminder(ctx context.Context, s *shipment.Shipment) {
	m.Called(ctx, s)
}

type MockPaymentGateway struct{ mock.Mock }

func (m *MockPaymentGateway) Initiate(ctx context.Context, p *payment.Payment) (ports.GatewayResponse, error) {
	args := m.Called(ctx, p)
	return args.Get(0).(ports.GatewayResponse), args.Error(1)
}

type MockTaxReceiptSigner struct{ mock.Mock }

func (m *MockTaxReceiptSigner) Sign(ctx context.Context, p *payment.Payment) (shipment.TaxReceipt, error) {
	args := m.Called(ctx, p)
	return args.Get(0).(shipment.TaxReceipt), args.Error(1)
}

type MockManifestGenerator struct{ mock.Mock }

func (m *MockManifestGenerator) Generate(ctx context.Context, in ports.ManifestInput) (string, error) {
	args := m.Called(ctx, in)
	return args.String(0), args.Error(1)
}

type MockContactDirectory struct{ mock.Mock }

func (m *MockContactDirectory) Lookup(ctx context.Context, agentID kernel.UUID) (ports.Contact, error) {
	args := m.Called(ctx, agentID)
	return args.Get(0).(ports.Contact), args.Error(1)
}

type MockNotificationSender struct{ mock.Mock }

func (m *MockNotificationSender) SendSMS(ctx context.Context, phone, message string) bool {
	args := m.Called(ctx, phone, message)
	return args.Bool(0)
}

func (m *MockNotificationSender) SendEmail(ctx context.Context, to, subject, body string) bool {
	args := m.Called(ctx, to, subject, body)
	return args.Bool(0)
}

// uowMocks bundles a MockUoW with every repository it hands out. Accessors may be
// called any number of times; tests pin the order of the calls that matter.
type uowMocks struct {
	uow       *MockUoW
	shipments *MockShipmentRepository
	payments  *MockPaymentRepository
	drivers   *MockDriverRepository
	catalog   *MockCatalogRepository
	trail     *MockAuditTrail
	tasks     *MockTaskQueue
}

func newUoWMocks() *uowMocks {
	m := &uowMocks{
		uow:       new(MockUoW),
		shipments: new(MockShipmentRepository),
		payments:  new(MockPaymentRepository),
		drivers:   new(MockDriverRepository),
		catalog:   new(MockCatalogRepository),
		trail:     new(MockAuditTrail),
		tasks:     new(MockTaskQueue),
	}
	m.uow.On("ShipmentRepository").Return(m.shipments).Maybe()
	m.uow.On("PaymentRepository").Return(m.payments).Maybe()
	m.uow.On("DriverRepository").Return(m.drivers).Maybe()
	m.uow.On("CatalogRepository").Return(m.catalog).Maybe()
	m.uow.On("AuditTrail").Return(m.trail).Maybe()
	m.uow.On("TaskQueue").Return(m.tasks).Maybe()
	return m
}

func (m *uowMocks) factory() *MockUoWFactory {
	f := new(MockUoWFactory)
	f.On("Create").Return(m.uow)
	return f
}

func (m *uowMocks) assertExpectations(t mock.TestingT) {
	m.uow.AssertExpectations(t)
	m.shipments.AssertExpectations(t)
	m.payments.AssertExpectations(t)
	m.drivers.AssertExpectations(t)
	m.catalog.AssertExpectations(t)
	m.trail.AssertExpectations(t)
	m.tasks.AssertExpectations(t)
}
