// Package catalog holds the reference data shared by all shipments: logistics zones
// and commodity categories. Operations staff own it; the booking core only reads it.
package catalog

import (
	"errors"
	"fmt"
	"strings"

	"cargo/internal/core/domain/model/kernel"
	"cargo/internal/pkg/errs"
	"cargo/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrZoneIsNotConstructed = errors.New("Zone must be created via NewZone")

// Zone is a named logistics region with its own per-kg base rate.
type Zone struct {
	id             kernel.UUID
	name           string
	province       string
	baseRatePerKg  decimal.Decimal
	isBorder       bool
	referencePoint *kernel.GeoPoint

	guard guard.ConstructorGuard
}

// NewZone builds a zone. referencePoint is optional and only feeds distance ranking.
func NewZone(
	id kernel.UUID,
	name, province string,
	baseRatePerKg decimal.Decimal,
	isBorder bool,
	referencePoint *kernel.GeoPoint,
) (Zone, error) {
	name = strings.TrimSpace(name)
	province = strings.TrimSpace(province)

	var errName, errRate, errPoint error
	if name == "" {
		errName = errs.NewValueIsRequiredError("zone name")
	}
	if baseRatePerKg.IsNegative() {
		errRate = errs.NewValueIsInvalidErrorWithCause("base rate",
			fmt.Errorf("%s per kg is negative", baseRatePerKg.String()))
	}
	if referencePoint != nil {
		errPoint = referencePoint.Validate()
	}
	if err := errors.Join(id.Validate(), errName, errRate, errPoint); err != nil {
		return Zone{}, err
	}

	return Zone{
		id:             id,
		name:           name,
		province:       province,
		baseRatePerKg:  baseRatePerKg,
		isBorder:       isBorder,
		referencePoint: referencePoint,
		guard:          guard.NewConstructorGuard(),
	}, nil
}

func (z Zone) Validate() error {
	return z.guard.Validate(ErrZoneIsNotConstructed)
}

func (z Zone) ID() kernel.UUID {
	return z.id
}

func (z Zone) Name() string {
	return z.name
}

func (z Zone) Province() string {
	return z.province
}

func (z Zone) BaseRatePerKg() decimal.Decimal {
	return z.baseRatePerKg
}

func (z Zone) IsBorder() bool {
	return z.isBorder
}

// ReferencePoint is nil when the zone has no surveyed centre.
func (z Zone) ReferencePoint() *kernel.GeoPoint {
	return z.referencePoint
}
