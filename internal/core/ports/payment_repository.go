package ports

import (
	"context"

	"cargo/internal/core/domain/model/kernel"
	"cargo/internal/core/domain/model/payment"
)

// PaymentRepository defines the persistence contract for payment aggregates.
// A shipment has at most one payment, and a gateway reference belongs to one payment.
type PaymentRepository interface {
	Add(ctx context.Context, aggregate *payment.Payment) error

	Update(ctx context.Context, aggregate *payment.Payment) error

	Get(ctx context.Context, id kernel.UUID) (*payment.Payment, error)

	GetByShipment(ctx context.Context, shipmentID kernel.UUID) (*payment.Payment, error)

	// GetByGatewayRefForUpdate locks the payment row. Concurrent deliveries of the same
	// gateway callback queue up here and observe each other's resolution.
	GetByGatewayRefForUpdate(ctx context.Context, gatewayRef string) (*payment.Payment, error)
}
