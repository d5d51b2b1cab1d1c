// Package queries is the read side of the booking core. Handlers run raw SQL against the
// store and return flat response structs; they never load aggregates or take locks.
package queries
