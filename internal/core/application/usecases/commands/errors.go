package commands

import "errors"

var (
	ErrPaymentAlreadyExists    = errors.New("payment already exists for shipment")
	ErrDriverAlreadyRegistered = errors.New("driver is already registered")
	ErrTrackingCodeExhausted   = errors.New("could not generate a unique tracking code")
)
