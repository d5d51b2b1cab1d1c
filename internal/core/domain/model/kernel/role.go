package kernel

import (
	"fmt"
	"strings"

	"cargo/internal/pkg/errs"
)

// Role is the closed set of agent kinds known to the booking core.
type Role int

const (
	RoleUnknown Role = iota
	RoleSender
	RoleDriver
	RoleExporter
	RoleInspector
	RoleAdmin
)

func getRoleStrings() map[Role]string {
	return map[Role]string{
		RoleUnknown:   "UNKNOWN",
		RoleSender:    "SENDER",
		RoleDriver:    "DRIVER",
		RoleExporter:  "EXPORTER",
		RoleInspector: "INSPECTOR",
		RoleAdmin:     "ADMIN",
	}
}

// ParseRole accepts the upper-case role names, case-insensitively.
func ParseRole(s string) (Role, error) {
	needle := strings.ToUpper(strings.TrimSpace(s))
	for role, name := range getRoleStrings() {
		if role != RoleUnknown && name == needle {
			return role, nil
		}
	}
	return RoleUnknown, errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%q is not a known role", s))
}

func (r Role) String() string {
	if s, ok := getRoleStrings()[r]; ok {
		return s
	}
	return "UNKNOWN"
}

func (r Role) Validate() error {
	if r <= RoleUnknown || r > RoleAdmin {
		return errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%d is not a valid role", r))
	}
	return nil
}

// Capability names one permission checked at the entry of a use case.
type Capability int

const (
	CapBookShipment Capability = iota + 1
	CapPayShipment
	CapViewShipment
	CapEstimateTariff
	CapConfirmPayment
	CapAssignDriver
	CapAdvanceShipment
	CapCancelShipment
	CapGenerateManifest
	CapViewAuditTrail
	CapManageDrivers
	CapManageSettings
)

func getCapabilityStrings() map[Capability]string {
	return map[Capability]string{
		CapBookShipment:     "BookShipment",
		CapPayShipment:      "PayShipment",
		CapViewShipment:     "ViewShipment",
		CapEstimateTariff:   "EstimateTariff",
		CapConfirmPayment:   "ConfirmPayment",
		CapAssignDriver:     "AssignDriver",
		CapAdvanceShipment:  "AdvanceShipment",
		CapCancelShipment:   "CancelShipment",
		CapGenerateManifest: "GenerateManifest",
		CapViewAuditTrail:   "ViewAuditTrail",
		CapManageDrivers:    "ManageDrivers",
		CapManageSettings:   "ManageSettings",
	}
}

func (c Capability) String() string {
	if s, ok := getCapabilityStrings()[c]; ok {
		return s
	}
	return "Unknown"
}

// roleCapabilities is the whole authorization table. Anything absent is denied.
func roleCapabilities() map[Role][]Capability {
	return map[Role][]Capability{
		RoleSender: {
			CapBookShipment, CapPayShipment, CapViewShipment, CapEstimateTariff,
		},
		RoleExporter: {
			CapBookShipment, CapPayShipment, CapViewShipment, CapEstimateTariff, CapGenerateManifest,
		},
		RoleDriver: {
			CapViewShipment, CapEstimateTariff, CapAdvanceShipment, CapManageDrivers,
		},
		RoleInspector: {
			CapViewShipment, CapEstimateTariff, CapViewAuditTrail,
		},
		RoleAdmin: {
			CapBookShipment, CapPayShipment, CapViewShipment, CapEstimateTariff, CapConfirmPayment,
			CapAssignDriver, CapAdvanceShipment, CapCancelShipment, CapGenerateManifest,
			CapViewAuditTrail, CapManageDrivers, CapManageSettings,
		},
	}
}

// Can reports whether the role grants c.
func (r Role) Can(c Capability) bool {
	for _, granted := range roleCapabilities()[r] {
		if granted == c {
			return true
		}
	}
	return false
}
