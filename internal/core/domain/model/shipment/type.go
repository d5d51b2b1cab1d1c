package shipment

import (
	"fmt"
	"strings"

	"cargo/internal/pkg/errs"
)

type Type int

const (
	TypeUnknown Type = iota
	Domestic
	International
)

func (t Type) String() string {
	switch t {
	case Domestic:
		return "DOMESTIC"
	case International:
		return "INTERNATIONAL"
	default:
		return "UNKNOWN"
	}
}

func ParseType(s string) (Type, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DOMESTIC":
		return Domestic, nil
	case "INTERNATIONAL":
		return International, nil
	default:
		return TypeUnknown, errs.NewValueIsInvalidErrorWithCause("shipment type",
			fmt.Errorf("%q is neither DOMESTIC nor INTERNATIONAL", s))
	}
}

func (t Type) Validate() error {
	if t != Domestic && t != International {
		return errs.NewValueIsInvalidErrorWithCause("shipment type", fmt.Errorf("%d is not a valid type", t))
	}
	return nil
}
