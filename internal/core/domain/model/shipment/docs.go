// Package shipment provides the Shipment aggregate root of the booking core together
// with its lifecycle state machine.
//
// The package includes:
//   - Shipment: identity, cargo, route, tariff snapshot and compliance documents
//   - Status: the lifecycle states and the only legal moves between them
//   - Type: DOMESTIC or INTERNATIONAL
//   - TrackingCode: the human-readable ISH-XXXXXXXX identifier
//   - Tariff: the write-once cost breakdown taken at confirmation
//   - TaxReceipt: the signed fiscal receipt attached after payment
//
// Every mutating method returns a Transition describing the status change it made,
// which callers append to the audit trail in the same unit of work.
//
// Key business rules:
//   - Origin and destination zones differ
//   - International shipments carry an ISO 3166 alpha-2 destination country, domestic ones do not
//   - Tariff fields are set exactly once, on DRAFT -> CONFIRMED
//   - Tax receipt and customs manifest are set once; the manifest needs the receipt first
//   - Terminal states (DELIVERED, CANCELLED, FAILED) accept no further transitions
package shipment
