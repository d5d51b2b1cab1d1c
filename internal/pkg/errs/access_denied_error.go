package errs

import (
	"errors"
	"fmt"
)

var ErrAccessDenied = errors.New("access denied")

// AccessDeniedError reports an actor lacking the capability an operation requires.
type AccessDeniedError struct {
	Actor      string
	Capability string
}

func NewAccessDeniedError(actor, capability string) *AccessDeniedError {
	return &AccessDeniedError{
		Actor:      actor,
		Capability: capability,
	}
}

func (e *AccessDeniedError) Error() string {
	return fmt.Sprintf("%s: %s lacks %s", ErrAccessDenied, sanitize(e.Actor), e.Capability)
}

func (e *AccessDeniedError) Unwrap() error {
	return ErrAccessDenied
}
