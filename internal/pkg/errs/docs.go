// Package errs provides the error taxonomy shared by the booking core and its adapters.
//
// Every error kind follows the same shape:
//   - a sentinel variable (e.g. ErrValueIsRequired) for errors.Is checks
//   - a struct carrying the details of the failure
//   - constructors with and without a cause
//   - an Unwrap method returning the sentinel
//
// Validation failures (ValueIsRequired, ValueIsInvalid, ValueIsOutOfRange) are raised
// before any state is mutated. InvalidStateTransition reports a violated status
// precondition, AccessDenied a missing capability, and ExternalService a collaborator
// that could not serve a request whose outcome the caller must learn about.
package errs
