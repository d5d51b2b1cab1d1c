package shipment

import (
	"fmt"
	"strings"

	"cargo/internal/pkg/errs"
)

// Status is the lifecycle state of a shipment.
//
// State transitions:
//
//	DRAFT ──> CONFIRMED ──> PAID ──> ASSIGNED ──> IN_TRANSIT ──┬──────────────> DELIVERED
//	              │                                            └─> AT_BORDER ──┘ (international)
//	              └──> FAILED
//
//	any non-terminal state ──> CANCELLED
type Status int

const (
	Unknown Status = iota
	Draft
	Confirmed
	Paid
	Assigned
	InTransit
	AtBorder
	Delivered
	Cancelled
	Failed
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:   "UNKNOWN",
		Draft:     "DRAFT",
		Confirmed: "CONFIRMED",
		Paid:      "PAID",
		Assigned:  "ASSIGNED",
		InTransit: "IN_TRANSIT",
		AtBorder:  "AT_BORDER",
		Delivered: "DELIVERED",
		Cancelled: "CANCELLED",
		Failed:    "FAILED",
	}
}

// ParseStatus maps the persisted name back to a Status.
func ParseStatus(s string) (Status, error) {
	needle := strings.ToUpper(s)
	for status, name := range getStatusStrings() {
		if status != Unknown && name == needle {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid status", s))
}

func (s Status) Validate() error {
	if s <= Unknown || s > Failed {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}

// IsTerminal reports DELIVERED, CANCELLED and FAILED.
func (s Status) IsTerminal() bool {
	return s == Delivered || s == Cancelled || s == Failed
}

// IsPaid reports whether payment has been captured for a shipment in this state.
func (s Status) IsPaid() bool {
	switch s {
	case Paid, Assigned, InTransit, AtBorder, Delivered:
		return true
	default:
		return false
	}
}

// HasDriver reports the states in which a driver reference is mandatory.
func (s Status) HasDriver() bool {
	return s == Assigned || s == InTransit || s == AtBorder || s == Delivered
}

func (s Status) Confirm() (Status, error) {
	return s.move(Draft, Confirmed)
}

func (s Status) Pay() (Status, error) {
	return s.move(Confirmed, Paid)
}

func (s Status) Assign() (Status, error) {
	return s.move(Paid, Assigned)
}

func (s Status) StartTransit() (Status, error) {
	return s.move(Assigned, InTransit)
}

// ReachBorder is legal for international shipments only.
func (s Status) ReachBorder(t Type) (Status, error) {
	if t != International {
		return Unknown, errs.NewInvalidStateTransitionErrorWithCause(
			entityName, s.String(), AtBorder.String(),
			fmt.Errorf("%s shipments do not stop at the border", t),
		)
	}
	return s.move(InTransit, AtBorder)
}

// Deliver completes domestic shipments from IN_TRANSIT and international ones from AT_BORDER.
func (s Status) Deliver(t Type) (Status, error) {
	if t == International {
		return s.move(AtBorder, Delivered)
	}
	return s.move(InTransit, Delivered)
}

// Fail is the payment failure or timeout branch.
func (s Status) Fail() (Status, error) {
	return s.move(Confirmed, Failed)
}

func (s Status) Cancel() (Status, error) {
	if err := s.Validate(); err != nil {
		return Unknown, err
	}
	if s.IsTerminal() {
		return Unknown, errs.NewInvalidStateTransitionError(entityName, s.String(), Cancelled.String())
	}
	return Cancelled, nil
}

func (s Status) move(from, to Status) (Status, error) {
	if s != from {
		return Unknown, errs.NewInvalidStateTransitionError(entityName, s.String(), to.String())
	}
	return to, nil
}
