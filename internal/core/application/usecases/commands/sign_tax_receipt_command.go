package commands

import (
	"errors"

	"cargo/internal/core/domain/model/kernel"
	"cargo/internal/pkg/guard"
)

var ErrSignTaxReceiptCommandIsNotConstructed = errors.New(
	"SignTaxReceiptCommand must be created via NewSignTaxReceiptCommand constructor",
)

// SignTaxReceiptCommand is produced by the work queue once a payment is captured.
type SignTaxReceiptCommand struct {
	paymentID kernel.UUID

	guard guard.ConstructorGuard
}

func NewSignTaxReceiptCommand(paymentID kernel.UUID) (SignTaxReceiptCommand, error) {
	if err := paymentID.Validate(); err != nil {
		return SignTaxReceiptCommand{}, err
	}

	return SignTaxReceiptCommand{
		paymentID: paymentID,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c SignTaxReceiptCommand) Validate() error {
	return c.guard.Validate(ErrSignTaxReceiptCommandIsNotConstructed)
}

func (c SignTaxReceiptCommand) PaymentID() kernel.UUID {
	return c.paymentID
}
