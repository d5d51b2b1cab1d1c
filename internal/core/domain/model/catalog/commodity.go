package catalog

import (
	"errors"
	"strings"

	"cargo/internal/core/domain/model/kernel"
	"cargo/internal/pkg/errs"
	"cargo/internal/pkg/guard"
)

// DefaultCustomsCode is printed on manifests for commodities without a tariff heading.
const DefaultCustomsCode = "0000.00"

var ErrCommodityIsNotConstructed = errors.New("Commodity must be created via NewCommodity")

type Commodity struct {
	id          kernel.UUID
	name        string
	customsCode string
	perishable  bool

	guard guard.ConstructorGuard
}

func NewCommodity(id kernel.UUID, name, customsCode string, perishable bool) (Commodity, error) {
	name = strings.TrimSpace(name)

	var errName error
	if name == "" {
		errName = errs.NewValueIsRequiredError("commodity name")
	}
	if err := errors.Join(id.Validate(), errName); err != nil {
		return Commodity{}, err
	}

	return Commodity{
		id:          id,
		name:        name,
		customsCode: strings.TrimSpace(customsCode),
		perishable:  perishable,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

func (c Commodity) Validate() error {
	return c.guard.Validate(ErrCommodityIsNotConstructed)
}

func (c Commodity) ID() kernel.UUID {
	return c.id
}

func (c Commodity) Name() string {
	return c.name
}

func (c Commodity) CustomsCode() string {
	return c.customsCode
}

// CustomsCodeOrDefault falls back to DefaultCustomsCode.
func (c Commodity) CustomsCodeOrDefault() string {
	if c.customsCode == "" {
		return DefaultCustomsCode
	}
	return c.customsCode
}

func (c Commodity) IsPerishable() bool {
	return c.perishable
}
