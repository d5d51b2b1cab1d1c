package queries

import (
	"errors"
	"fmt"

	"cargo/internal/core/domain/model/kernel"
	"cargo/internal/core/domain/model/shipment"
	"cargo/internal/pkg/errs"
	"cargo/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrEstimateTariffQueryIsNotConstructed = errors.New(
	"EstimateTariffQuery must be created via NewEstimateTariffQuery constructor",
)

// EstimateTariffQuery prices a prospective shipment without booking it.
//
// Example:
//
//	query, err := NewEstimateTariffQuery(actor, kigali, coffee, shipment.Domestic, decimal.NewFromInt(250))
//	estimate, err := handler.Handle(ctx, query)
//	fmt.Println(estimate.Total)
type EstimateTariffQuery struct {
	actor        kernel.Actor
	originZoneID kernel.UUID
	commodityID  kernel.UUID
	kind         shipment.Type
	weightKg     decimal.Decimal

	guard guard.ConstructorGuard
}

func NewEstimateTariffQuery(
	actor kernel.Actor,
	originZoneID, commodityID kernel.UUID,
	kind shipment.Type,
	weightKg decimal.Decimal,
) (EstimateTariffQuery, error) {
	var errWeight error
	if !weightKg.IsPositive() {
		errWeight = errs.NewValueIsInvalidErrorWithCause("weight",
			fmt.Errorf("%s kg is not greater than 0", weightKg.String()))
	}
	if err := errors.Join(
		actor.Validate(),
		originZoneID.Validate(),
		commodityID.Validate(),
		kind.Validate(),
		errWeight,
	); err != nil {
		return EstimateTariffQuery{}, err
	}

	return EstimateTariffQuery{
		actor:        actor,
		originZoneID: originZoneID,
		commodityID:  commodityID,
		kind:         kind,
		weightKg:     weightKg,
		guard:        guard.NewConstructorGuard(),
	}, nil
}

func (q EstimateTariffQuery) Validate() error {
	return q.guard.Validate(ErrEstimateTariffQueryIsNotConstructed)
}

func (q EstimateTariffQuery) Actor() kernel.Actor {
	return q.actor
}

func (q EstimateTariffQuery) OriginZoneID() kernel.UUID {
	return q.originZoneID
}

func (q EstimateTariffQuery) CommodityID() kernel.UUID {
	return q.commodityID
}

func (q EstimateTariffQuery) Type() shipment.Type {
	return q.kind
}

func (q EstimateTariffQuery) WeightKg() decimal.Decimal {
	return q.weightKg
}

// TariffEstimate is the price the booking path would snapshot for the same input.
type TariffEstimate struct {
	Base      decimal.Decimal
	Surcharge decimal.Decimal
	VAT       decimal.Decimal
	Total     decimal.Decimal
	Currency  string
}
