package postgres

import (
	"context"

	"cargo/internal/adapters/out/postgres/auditrepo"
	"cargo/internal/adapters/out/postgres/catalogrepo"
	"cargo/internal/adapters/out/postgres/contactrepo"
	"cargo/internal/adapters/out/postgres/driverrepo"
	"cargo/internal/adapters/out/postgres/paymentrepo"
	"cargo/internal/adapters/out/postgres/shipmentrepo"
	"cargo/internal/adapters/out/postgres/taskqueue"

	"gorm.io/gorm"
)

// Migrate creates or extends every table the service owns. It only adds; columns that
// are no longer mapped are left in place.
func Migrate(ctx context.Context, db *gorm.DB) error {
	return db.WithContext(ctx).AutoMigrate(
		&catalogrepo.ZoneDTO{},
		&catalogrepo.CommodityDTO{},
		&contactrepo.AgentDTO{},
		&driverrepo.DriverDTO{},
		&shipmentrepo.ShipmentDTO{},
		&paymentrepo.PaymentDTO{},
		&auditrepo.EventDTO{},
		&taskqueue.TaskDTO{},
	)
}
