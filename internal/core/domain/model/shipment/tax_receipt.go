package shipment

import (
	"errors"
	"strings"

	"cargo/internal/pkg/errs"
	"cargo/internal/pkg/guard"
)

var ErrTaxReceiptIsNotConstructed = errs.NewValueIsRequiredError("tax receipt must be created via NewTaxReceipt")

// TaxReceipt is the fiscal receipt signed for a captured payment. Fallback receipts were
// signed locally while the revenue authority was unreachable and need reconciliation.
type TaxReceipt struct {
	number    string
	signature string
	fallback  bool
	guard     guard.ConstructorGuard
}

func NewTaxReceipt(number, signature string, fallback bool) (TaxReceipt, error) {
	number = strings.TrimSpace(number)
	signature = strings.TrimSpace(signature)

	var errNumber, errSignature error
	if number == "" {
		errNumber = errs.NewValueIsRequiredError("receipt number")
	}
	if signature == "" {
		errSignature = errs.NewValueIsRequiredError("receipt signature")
	}
	if err := errors.Join(errNumber, errSignature); err != nil {
		return TaxReceipt{}, err
	}

	return TaxReceipt{
		number:    number,
		signature: signature,
		fallback:  fallback,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (r TaxReceipt) Validate() error {
	return r.guard.Validate(ErrTaxReceiptIsNotConstructed)
}

func (r TaxReceipt) Number() string {
	return r.number
}

func (r TaxReceipt) Signature() string {
	return r.signature
}

func (r TaxReceipt) IsFallback() bool {
	return r.fallback
}
