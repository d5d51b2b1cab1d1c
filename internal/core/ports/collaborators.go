package ports

import (
	"context"

	"cargo/internal/core/domain/model/audit"
	"cargo/internal/core/domain/model/catalog"
	"cargo/internal/core/domain/model/kernel"
	"cargo/internal/core/domain/model/payment"
	"cargo/internal/core/domain/model/shipment"
)

// GatewayResponse is the synchronous answer of a collection request.
type GatewayResponse struct {
	GatewayRef string
	Status     payment.Status
}

// PaymentGateway asks a mobile money provider to collect a payment. The outcome arrives
// later as a signed callback carrying the same gateway reference.
type PaymentGateway interface {
	Initiate(ctx context.Context, p *payment.Payment) (GatewayResponse, error)
}

// CallbackVerifier authenticates a raw gateway callback body.
type CallbackVerifier interface {
	Verify(body []byte, signature string) bool
}

// LicenseVerifier answers false on any error, timeout or unreachable authority.
type LicenseVerifier interface {
	Verify(ctx context.Context, licenseNumber string) bool
}

// TaxReceiptSigner never fails for an unreachable authority: it returns a locally signed
// fallback receipt instead. An error means the payment itself cannot be receipted.
type TaxReceiptSigner interface {
	Sign(ctx context.Context, p *payment.Payment) (shipment.TaxReceipt, error)
}

// NotificationSender is best effort. False means the message was not handed over.
type NotificationSender interface {
	SendSMS(ctx context.Context, phone, message string) bool
	SendEmail(ctx context.Context, to, subject, body string) bool
}

// ManifestInput is everything a customs manifest prints.
type ManifestInput struct {
	Shipment  *shipment.Shipment
	Commodity catalog.Commodity
	Exporter  Contact
}

// CustomsManifestGenerator renders the customs document of an international shipment.
// Callers check shipment.CanGenerateCustomsManifest first.
type CustomsManifestGenerator interface {
	Generate(ctx context.Context, in ManifestInput) (string, error)
}

// EventPublisher streams committed audit events to downstream consumers.
type EventPublisher interface {
	Publish(ctx context.Context, events []audit.Event) error
}

// Contact is what notifications and manifests need to know about an agent.
type Contact struct {
	AgentID    kernel.UUID
	FullName   string
	Phone      string
	Email      string
	NationalID string
}

// ContactDirectory reads agent contact details. Identity storage is owned elsewhere.
type ContactDirectory interface {
	Lookup(ctx context.Context, agentID kernel.UUID) (Contact, error)
}
