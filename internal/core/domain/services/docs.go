// Package services provides the stateless domain services of the booking core.
//
// The package includes:
//   - TariffCalculator: computes the cost breakdown of a shipment from a TariffInput
//   - CandidateSelector: ranks available drivers for an assignment (FirstFit, Nearest)
//
// Both are pure: no I/O, no clock, deterministic for identical inputs. Locking and
// persistence of the chosen driver live in the application layer.
package services
