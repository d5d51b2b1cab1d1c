package services

import (
	"errors"
	"fmt"

	"cargo/internal/core/domain/model/shipment"
	"cargo/internal/pkg/errs"
	"cargo/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

const moneyPlaces = 2

var (
	ErrTariffInputIsNotConstructed = errs.NewValueIsRequiredError("tariff input must be created via NewTariffInput")

	internationalSurchargeRate = decimal.RequireFromString("0.15")
	perishableSurchargeRate    = decimal.RequireFromString("0.10")
	vatRate                    = decimal.RequireFromString("0.18")
)

// TariffInput is the immutable set of facts a tariff depends on. The booking path
// and the estimate query both build one explicitly from the origin zone and commodity.
type TariffInput struct {
	originRate decimal.Decimal
	weightKg   decimal.Decimal
	kind       shipment.Type
	perishable bool
	guard      guard.ConstructorGuard
}

// NewTariffInput checks the calculator preconditions: rate >= 0 and weight > 0.
func NewTariffInput(originRate, weightKg decimal.Decimal, kind shipment.Type, perishable bool) (TariffInput, error) {
	var errRate, errWeight error
	if originRate.IsNegative() {
		errRate = errs.NewValueIsInvalidErrorWithCause("origin rate",
			fmt.Errorf("%s per kg is negative", originRate.String()))
	}
	if !weightKg.IsPositive() {
		errWeight = errs.NewValueIsInvalidErrorWithCause("weight",
			fmt.Errorf("%s kg is not greater than 0", weightKg.String()))
	}
	if err := errors.Join(errRate, errWeight, kind.Validate()); err != nil {
		return TariffInput{}, err
	}

	return TariffInput{
		originRate: originRate,
		weightKg:   weightKg,
		kind:       kind,
		perishable: perishable,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (in TariffInput) Validate() error {
	return in.guard.Validate(ErrTariffInputIsNotConstructed)
}

func (in TariffInput) OriginRate() decimal.Decimal {
	return in.originRate
}

func (in TariffInput) WeightKg() decimal.Decimal {
	return in.weightKg
}

func (in TariffInput) Type() shipment.Type {
	return in.kind
}

func (in TariffInput) IsPerishable() bool {
	return in.perishable
}

// TariffCalculator computes shipment tariffs.
//
// Rules:
//   - base = originRate * weight
//   - surcharge = 15% of base for international + 10% of base for perishable goods
//   - vat = 18% of (base + surcharge)
//   - total = base + surcharge + vat
//
// Every named amount is rounded half-up to two places before it feeds the next one.
// Amounts are non-negative, so decimal.Round (half away from zero) is half-up here.
type TariffCalculator struct{}

func NewTariffCalculator() TariffCalculator {
	return TariffCalculator{}
}

// Calculate returns the tariff breakdown for in.
//
// Example:
//
//	in, _ := services.NewTariffInput(decimal.RequireFromString("50.00"), decimal.NewFromInt(100), shipment.International, false)
//	tariff, _ := services.NewTariffCalculator().Calculate(in)
//	tariff.Total() // 6785.00
func (TariffCalculator) Calculate(in TariffInput) (shipment.Tariff, error) {
	if err := in.Validate(); err != nil {
		return shipment.Tariff{}, err
	}

	base := in.originRate.Mul(in.weightKg).Round(moneyPlaces)

	surchargeRate := decimal.Zero
	if in.kind == shipment.International {
		surchargeRate = surchargeRate.Add(internationalSurchargeRate)
	}
	if in.perishable {
		surchargeRate = surchargeRate.Add(perishableSurchargeRate)
	}
	surcharge := base.Mul(surchargeRate).Round(moneyPlaces)

	subtotal := base.Add(surcharge)
	vat := subtotal.Mul(vatRate).Round(moneyPlaces)
	total := subtotal.Add(vat).Round(moneyPlaces)

	return shipment.NewTariff(base, surcharge, vat, total)
}
