package queries

import (
	"context"
	"errors"

	"cargo/internal/core/domain/model/kernel"
	"cargo/internal/core/domain/model/payment"
	"cargo/internal/core/domain/services"
	"cargo/internal/core/ports"
	"cargo/internal/pkg/errs"
)

// EstimateTariffQueryHandler builds the same TariffInput as booking does and runs the
// calculator on it. Nothing is persisted.
type EstimateTariffQueryHandler struct {
	catalog    ports.CatalogRepository
	calculator services.TariffCalculator
}

func NewEstimateTariffQueryHandler(catalog ports.CatalogRepository, calculator services.TariffCalculator) EstimateTariffQueryHandler {
	return EstimateTariffQueryHandler{catalog: catalog, calculator: calculator}
}

func (h EstimateTariffQueryHandler) Handle(ctx context.Context, query EstimateTariffQuery) (TariffEstimate, error) {
	if err := query.Validate(); err != nil {
		return TariffEstimate{}, err
	}
	if err := query.Actor().Authorize(kernel.CapEstimateTariff); err != nil {
		return TariffEstimate{}, err
	}

	zone, err := h.catalog.GetZone(ctx, query.OriginZoneID())
	if err != nil {
		return TariffEstimate{}, invalidReference("origin zone", err)
	}
	commodity, err := h.catalog.GetCommodity(ctx, query.CommodityID())
	if err != nil {
		return TariffEstimate{}, invalidReference("commodity", err)
	}

	input, err := services.NewTariffInput(zone.BaseRatePerKg(), query.WeightKg(), query.Type(), commodity.IsPerishable())
	if err != nil {
		return TariffEstimate{}, err
	}
	tariff, err := h.calculator.Calculate(input)
	if err != nil {
		return TariffEstimate{}, err
	}

	return TariffEstimate{
		Base:      tariff.Base(),
		Surcharge: tariff.Surcharge(),
		VAT:       tariff.VAT(),
		Total:     tariff.Total(),
		Currency:  payment.CurrencyRWF,
	}, nil
}

func invalidReference(param string, err error) error {
	if errors.Is(err, errs.ErrObjectNotFound) {
		return errs.NewValueIsInvalidErrorWithCause(param, err)
	}
	return err
}
