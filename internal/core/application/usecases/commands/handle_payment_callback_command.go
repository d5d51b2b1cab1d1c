package commands

import (
	"errors"
	"fmt"
	"strings"

	"cargo/internal/core/domain/model/payment"
	"cargo/internal/pkg/errs"
	"cargo/internal/pkg/guard"
)

var ErrHandlePaymentCallbackCommandIsNotConstructed = errors.New(
	"HandlePaymentCallbackCommand must be created via NewHandlePaymentCallbackCommand constructor",
)

// HandlePaymentCallbackCommand carries one authenticated gateway callback.
type HandlePaymentCallbackCommand struct {
	gatewayRef string
	outcome    payment.Status
	reason     string

	guard guard.ConstructorGuard
}

func NewHandlePaymentCallbackCommand(gatewayRef string, outcome payment.Status, reason string) (HandlePaymentCallbackCommand, error) {
	var errRef, errOutcome error
	gatewayRef = strings.TrimSpace(gatewayRef)
	if gatewayRef == "" {
		errRef = errs.NewValueIsRequiredError("gateway reference")
	}
	if outcome != payment.Success && outcome != payment.Failed {
		errOutcome = errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%s is neither SUCCESS nor FAILED", outcome))
	}
	if err := errors.Join(errRef, errOutcome); err != nil {
		return HandlePaymentCallbackCommand{}, err
	}

	return HandlePaymentCallbackCommand{
		gatewayRef: gatewayRef,
		outcome:    outcome,
		reason:     strings.TrimSpace(reason),
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c HandlePaymentCallbackCommand) Validate() error {
	return c.guard.Validate(ErrHandlePaymentCallbackCommandIsNotConstructed)
}

func (c HandlePaymentCallbackCommand) GatewayRef() string {
	return c.gatewayRef
}

func (c HandlePaymentCallbackCommand) Outcome() payment.Status {
	return c.outcome
}

func (c HandlePaymentCallbackCommand) Reason() string {
	return c.reason
}
