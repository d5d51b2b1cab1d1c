package payment

import (
	"fmt"
	"strings"

	"cargo/internal/pkg/errs"
)

// Status of a payment attempt.
//
//	PENDING ──> SUCCESS ──> REFUNDED
//	   └──────> FAILED
type Status int

const (
	StatusUnknown Status = iota
	Pending
	Success
	Failed
	Refunded
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		StatusUnknown: "UNKNOWN",
		Pending:       "PENDING",
		Success:       "SUCCESS",
		Failed:        "FAILED",
		Refunded:      "REFUNDED",
	}
}

func ParseStatus(s string) (Status, error) {
	needle := strings.ToUpper(strings.TrimSpace(s))
	for status, name := range getStatusStrings() {
		if status != StatusUnknown && name == needle {
			return status, nil
		}
	}
	return StatusUnknown, errs.NewValueIsInvalidErrorWithCause("payment status",
		fmt.Errorf("%q is not a valid payment status", s))
}

func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}

func (s Status) Validate() error {
	if s <= StatusUnknown || s > Refunded {
		return errs.NewValueIsInvalidErrorWithCause("payment status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

func (s Status) IsPending() bool {
	return s == Pending
}

// Provider is the mobile money network that collects the payment.
type Provider int

const (
	ProviderUnknown Provider = iota
	MTNMoMo
	Airtel
)

func (p Provider) String() string {
	switch p {
	case MTNMoMo:
		return "MTN_MOMO"
	case Airtel:
		return "AIRTEL"
	default:
		return "UNKNOWN"
	}
}

func ParseProvider(s string) (Provider, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "MTN_MOMO":
		return MTNMoMo, nil
	case "AIRTEL":
		return Airtel, nil
	default:
		return ProviderUnknown, errs.NewValueIsInvalidErrorWithCause("provider",
			fmt.Errorf("%q is neither MTN_MOMO nor AIRTEL", s))
	}
}

func (p Provider) Validate() error {
	if p != MTNMoMo && p != Airtel {
		return errs.NewValueIsInvalidErrorWithCause("provider", fmt.Errorf("%d is not a valid provider", p))
	}
	return nil
}
