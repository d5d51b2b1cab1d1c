package shipment

import (
	"errors"
	"fmt"

	"cargo/internal/pkg/errs"
	"cargo/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrTariffIsNotConstructed = errs.NewValueIsRequiredError("tariff must be created via NewTariff")

// Tariff is the cost breakdown snapshotted when a shipment is confirmed.
// Amounts carry two decimal places and always satisfy total = base + surcharge + vat.
type Tariff struct {
	base      decimal.Decimal
	surcharge decimal.Decimal
	vat       decimal.Decimal
	total     decimal.Decimal
	guard     guard.ConstructorGuard
}

func NewTariff(base, surcharge, vat, total decimal.Decimal) (Tariff, error) {
	if err := errors.Join(
		nonNegative("base tariff", base),
		nonNegative("surcharge", surcharge),
		nonNegative("vat", vat),
		nonNegative("total", total),
	); err != nil {
		return Tariff{}, err
	}

	if sum := base.Add(surcharge).Add(vat); !sum.Equal(total) {
		return Tariff{}, errs.NewValueIsInvalidErrorWithCause("total",
			fmt.Errorf("%s is not base + surcharge + vat (%s)", total.StringFixed(2), sum.StringFixed(2)))
	}

	return Tariff{
		base:      base,
		surcharge: surcharge,
		vat:       vat,
		total:     total,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (t Tariff) Validate() error {
	return t.guard.Validate(ErrTariffIsNotConstructed)
}

func (t Tariff) Base() decimal.Decimal {
	return t.base
}

func (t Tariff) Surcharge() decimal.Decimal {
	return t.surcharge
}

func (t Tariff) VAT() decimal.Decimal {
	return t.vat
}

func (t Tariff) Total() decimal.Decimal {
	return t.total
}

func (t Tariff) Subtotal() decimal.Decimal {
	return t.base.Add(t.surcharge)
}

func nonNegative(param string, d decimal.Decimal) error {
	if d.IsNegative() {
		return errs.NewValueIsInvalidErrorWithCause(param, fmt.Errorf("%s is negative", d.String()))
	}
	return nil
}
