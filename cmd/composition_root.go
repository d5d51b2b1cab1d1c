package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	httpadapter "cargo/internal/adapters/in/http"
	"cargo/internal/adapters/out/govtech"
	"cargo/internal/adapters/out/kafka"
	"cargo/internal/adapters/out/mobilemoney"
	"cargo/internal/adapters/out/postgres"
	"cargo/internal/adapters/out/postgres/catalogrepo"
	"cargo/internal/adapters/out/postgres/contactrepo"
	"cargo/internal/adapters/out/postgres/taskqueue"
	"cargo/internal/adapters/out/rabbitmq"
	"cargo/internal/core/application/usecases/commands"
	"cargo/internal/core/application/usecases/queries"
	"cargo/internal/core/domain/services"
	"cargo/internal/jobs"
	"cargo/internal/pkg/settings"

	"gorm.io/gorm"
)

// CompositionRoot owns the long-lived adapters and builds every handler from them.
type CompositionRoot struct {
	config     Config
	gormDB     *gorm.DB
	logger     *slog.Logger
	uowFactory *postgres.GormUnitOfWorkFactory

	publisher  *kafka.EventPublisher
	sender     *rabbitmq.NotificationSender
	httpClient *http.Client
	settings   *settings.Store
}

func NewCompositionRoot(config Config, gormDB *gorm.DB, logger *slog.Logger) (*CompositionRoot, error) {
	publisher := kafka.NewEventPublisher(strings.Split(config.KafkaHost, ","), config.KafkaAuditTopic)
	sender, err := rabbitmq.NewNotificationSender(config.RabbitMQURL, logger)
	if err != nil {
		_ = publisher.Close()
		return nil, err
	}

	store := settings.NewStore(config.SettingsFile)
	if _, err = store.Reload(); err != nil {
		_ = publisher.Close()
		_ = sender.Close()
		return nil, err
	}

	return &CompositionRoot{
		config:     config,
		gormDB:     gormDB,
		logger:     logger,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB, publisher, logger),
		publisher:  publisher,
		sender:     sender,
		httpClient: &http.Client{Timeout: govtech.DefaultTimeout},
		settings:   store,
	}, nil
}

// Close releases the broker connections.
func (c *CompositionRoot) Close() error {
	return errors.Join(c.publisher.Close(), c.sender.Close())
}

func (c *CompositionRoot) uow() commands.UoWFactory {
	return FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) driverUoW() commands.DriverUoWFactory {
	return FuncDriverUoWFactory(func() commands.DriverUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) licenseVerifier() *govtech.LicenseVerifier {
	return govtech.NewLicenseVerifier(c.config.LicensingBaseURL, c.httpClient, c.logger)
}

func (c *CompositionRoot) notifier() commands.Notifier {
	return commands.NewShipmentNotifier(contactrepo.NewGormContactDirectory(c.gormDB), c.sender, c.logger)
}

func (c *CompositionRoot) driverPool() commands.DriverPool {
	policy := commands.AssignmentPolicy{
		RetryDelay: c.config.DriverRetryDelay,
		MaxRetries: c.config.DriverRetryLimit,
	}
	return commands.NewDriverPool(services.NewNearest(), c.licenseVerifier(), policy, c.logger)
}

func (c *CompositionRoot) paymentCapture() commands.PaymentCapture {
	return commands.NewPaymentCapture(c.driverPool(), c.notifier())
}

func (c *CompositionRoot) CreateCreateShipmentCommandHandler() commands.CreateShipmentCommandHandler {
	return commands.NewCreateShipmentCommandHandler(c.uow(), services.NewTariffCalculator(), c.notifier(), c.logger)
}

func (c *CompositionRoot) CreateInitiatePaymentCommandHandler() commands.InitiatePaymentCommandHandler {
	return commands.NewInitiatePaymentCommandHandler(c.uow(), mobilemoney.NewSandboxGateway(c.logger), c.logger)
}

func (c *CompositionRoot) CreateHandlePaymentCallbackCommandHandler() commands.HandlePaymentCallbackCommandHandler {
	return commands.NewHandlePaymentCallbackCommandHandler(c.uow(), c.paymentCapture(), c.logger)
}

func (c *CompositionRoot) CreateConfirmPaymentCommandHandler() commands.ConfirmPaymentCommandHandler {
	return commands.NewConfirmPaymentCommandHandler(c.uow(), c.paymentCapture(), c.logger)
}

func (c *CompositionRoot) CreateAssignDriverCommandHandler() commands.AssignDriverCommandHandler {
	return commands.NewAssignDriverCommandHandler(c.uow(), c.paymentCapture(), c.logger)
}

func (c *CompositionRoot) CreateAdvanceShipmentCommandHandler() commands.AdvanceShipmentCommandHandler {
	return commands.NewAdvanceShipmentCommandHandler(c.uow(), c.notifier(), c.logger)
}

func (c *CompositionRoot) CreateCancelShipmentCommandHandler() commands.CancelShipmentCommandHandler {
	return commands.NewCancelShipmentCommandHandler(c.uow(), c.driverPool(), c.notifier(), c.logger)
}

func (c *CompositionRoot) CreateAutoFailUnpaidShipmentsCommandHandler() commands.AutoFailUnpaidShipmentsCommandHandler {
	return commands.NewAutoFailUnpaidShipmentsCommandHandler(c.uow(), c.paymentCapture(), c.logger)
}

func (c *CompositionRoot) CreateSignTaxReceiptCommandHandler() commands.SignTaxReceiptCommandHandler {
	signer := govtech.NewTaxReceiptSigner(c.config.TaxSignerBaseURL, c.config.TaxSignerSecret, c.httpClient, c.logger)
	return commands.NewSignTaxReceiptCommandHandler(c.uow(), signer, c.logger)
}

func (c *CompositionRoot) CreateGenerateCustomsManifestCommandHandler() commands.GenerateCustomsManifestCommandHandler {
	return commands.NewGenerateCustomsManifestCommandHandler(c.uow(), govtech.NewCustomsManifestGenerator(),
		contactrepo.NewGormContactDirectory(c.gormDB), c.logger)
}

func (c *CompositionRoot) CreateRegisterDriverCommandHandler() commands.RegisterDriverCommandHandler {
	return commands.NewRegisterDriverCommandHandler(c.driverUoW(), c.licenseVerifier(), c.logger)
}

func (c *CompositionRoot) CreateUpdateDriverLocationCommandHandler() commands.UpdateDriverLocationCommandHandler {
	return commands.NewUpdateDriverLocationCommandHandler(c.driverUoW(), c.logger)
}

func (c *CompositionRoot) CreateReverifyLicensesCommandHandler() commands.ReverifyLicensesCommandHandler {
	return commands.NewReverifyLicensesCommandHandler(c.driverUoW(), c.licenseVerifier(), c.logger)
}

func (c *CompositionRoot) CreateGetShipmentQueryHandler() queries.GetShipmentQueryHandler {
	return queries.NewGetShipmentQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetShipmentEventsQueryHandler() queries.GetShipmentEventsQueryHandler {
	return queries.NewGetShipmentEventsQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetRecentEventsQueryHandler() queries.GetRecentEventsQueryHandler {
	return queries.NewGetRecentEventsQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateEstimateTariffQueryHandler() queries.EstimateTariffQueryHandler {
	return queries.NewEstimateTariffQueryHandler(catalogrepo.NewGormCatalogRepository(c.gormDB), services.NewTariffCalculator())
}

func (c *CompositionRoot) CreateHTTPServer(ctx context.Context) (*httpadapter.Server, error) {
	return httpadapter.NewServer(ctx, httpadapter.Handlers{
		CreateShipment:    c.CreateCreateShipmentCommandHandler(),
		InitiatePayment:   c.CreateInitiatePaymentCommandHandler(),
		PaymentCallback:   c.CreateHandlePaymentCallbackCommandHandler(),
		ConfirmPayment:    c.CreateConfirmPaymentCommandHandler(),
		AssignDriver:      c.CreateAssignDriverCommandHandler(),
		AdvanceShipment:   c.CreateAdvanceShipmentCommandHandler(),
		CancelShipment:    c.CreateCancelShipmentCommandHandler(),
		GenerateManifest:  c.CreateGenerateCustomsManifestCommandHandler(),
		RegisterDriver:    c.CreateRegisterDriverCommandHandler(),
		UpdateLocation:    c.CreateUpdateDriverLocationCommandHandler(),
		GetShipment:       c.CreateGetShipmentQueryHandler(),
		GetShipmentEvents: c.CreateGetShipmentEventsQueryHandler(),
		GetRecentEvents:   c.CreateGetRecentEventsQueryHandler(),
		EstimateTariff:    c.CreateEstimateTariffQueryHandler(),
	}, mobilemoney.NewHMACVerifier(c.config.WebhookSecret), c.settings, c.logger)
}

// CreateJobManager wires the background jobs. wakes may be nil when LISTEN/NOTIFY is
// unavailable; the dispatcher then relies on its tick alone.
func (c *CompositionRoot) CreateJobManager(wakes jobs.WakeSource) *jobs.JobManager {
	policy := jobs.DefaultDispatchPolicy()
	policy.MaxAttempts = taskqueue.MaxAttempts

	routes := jobs.NewTaskRoutes(
		c.CreateAssignDriverCommandHandler(),
		c.CreateSignTaxReceiptCommandHandler(),
		c.CreateGenerateCustomsManifestCommandHandler(),
	)

	return jobs.NewJobManager(
		jobs.NewPaymentTimeoutJob(c.CreateAutoFailUnpaidShipmentsCommandHandler(),
			c.config.PaymentTimeoutSpec, c.config.PaymentTimeout, 0, c.logger),
		jobs.NewTaskDispatchJob(taskqueue.NewGormTaskQueue(c.gormDB), routes, wakes,
			c.config.TaskDispatchSpec, policy, c.logger),
		jobs.NewLicenseReverificationJob(c.CreateReverifyLicensesCommandHandler(),
			c.config.LicenseReverifySpec, 0, c.logger),
	)
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}

type FuncDriverUoWFactory func() commands.DriverUoW

func (f FuncDriverUoWFactory) Create() commands.DriverUoW {
	return f()
}
