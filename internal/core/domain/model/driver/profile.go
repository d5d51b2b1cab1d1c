package driver

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"cargo/internal/core/domain/model/kernel"
	"cargo/internal/pkg/errs"
	"cargo/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

const maxIdentifierLen = 32

var (
	ErrProfileIsNotConstructed = errors.New("Profile must be created via NewProfile or RestoreProfile")
	ErrDriverNotAvailable      = errors.New("driver is not available")
	ErrLicenseNotVerified      = errors.New("driver license is not verified")
)

// Profile is one-to-one with a driver identity. Shipments reference it, they never own it.
type Profile struct {
	id              kernel.UUID
	licenseNumber   string
	vehiclePlate    string
	capacityKg      decimal.Decimal
	licenseVerified bool
	available       bool
	location        *kernel.GeoPoint
	locationAt      *time.Time

	guard guard.ConstructorGuard
}

// NewProfile registers a driver as unverified and unavailable. Callers check the
// license with the licensing authority and call MarkVerified before dispatching.
func NewProfile(id kernel.UUID, licenseNumber, vehiclePlate string, capacityKg decimal.Decimal) (*Profile, error) {
	p := &Profile{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		p.setID(id),
		p.setLicenseNumber(licenseNumber),
		p.setVehiclePlate(vehiclePlate),
		p.setCapacity(capacityKg),
	); err != nil {
		return nil, err
	}

	return p, nil
}

// State is the persisted form of a Profile.
type State struct {
	ID              kernel.UUID
	LicenseNumber   string
	VehiclePlate    string
	CapacityKg      decimal.Decimal
	LicenseVerified bool
	Available       bool
	Location        *kernel.GeoPoint
	LocationAt      *time.Time
}

func RestoreProfile(st State) (*Profile, error) {
	p := &Profile{
		licenseVerified: st.LicenseVerified,
		available:       st.Available,
		guard:           guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		p.setID(st.ID),
		p.setLicenseNumber(st.LicenseNumber),
		p.setVehiclePlate(st.VehiclePlate),
		p.setCapacity(st.CapacityKg),
	); err != nil {
		return nil, err
	}

	if st.Location != nil && st.LocationAt != nil {
		if err := p.UpdateLocation(*st.Location, *st.LocationAt); err != nil {
			return nil, err
		}
	}

	return p, nil
}

func (p *Profile) Validate() error {
	if p == nil {
		return ErrProfileIsNotConstructed
	}
	return p.guard.Validate(ErrProfileIsNotConstructed)
}

func (p *Profile) IsEqual(other *Profile) bool {
	return other != nil && p.id.IsEqual(other.id)
}

func (p *Profile) ID() kernel.UUID {
	return p.id
}

func (p *Profile) LicenseNumber() string {
	return p.licenseNumber
}

func (p *Profile) VehiclePlate() string {
	return p.vehiclePlate
}

func (p *Profile) CapacityKg() decimal.Decimal {
	return p.capacityKg
}

func (p *Profile) IsLicenseVerified() bool {
	return p.licenseVerified
}

func (p *Profile) IsAvailable() bool {
	return p.available
}

// Location is nil until the driver reports a position.
func (p *Profile) Location() *kernel.GeoPoint {
	return p.location
}

func (p *Profile) LocationAt() *time.Time {
	return p.locationAt
}

func (p *Profile) CanCarry(weightKg decimal.Decimal) bool {
	return p.capacityKg.GreaterThanOrEqual(weightKg)
}

// IsEligibleFor is the candidate filter of driver assignment.
func (p *Profile) IsEligibleFor(weightKg decimal.Decimal) bool {
	return p.available && p.licenseVerified && p.CanCarry(weightKg)
}

// Claim takes the driver out of the pool for an assignment.
func (p *Profile) Claim() error {
	if !p.licenseVerified {
		return ErrLicenseNotVerified
	}
	if !p.available {
		return ErrDriverNotAvailable
	}
	p.available = false
	return nil
}

// Release returns the driver to the pool after delivery or cancellation.
func (p *Profile) Release() {
	p.available = true
}

// MarkVerified records a successful license check. The driver joins the pool only
// when goAvailable is set, so a re-check never frees a driver who is on a trip.
func (p *Profile) MarkVerified(goAvailable bool) {
	p.licenseVerified = true
	if goAvailable {
		p.available = true
	}
}

// RevokeVerification is the outcome of a failed or unreachable license check.
// The driver stays out of the candidate pool until a later check succeeds.
func (p *Profile) RevokeVerification() {
	p.licenseVerified = false
}

func (p *Profile) UpdateLocation(point kernel.GeoPoint, at time.Time) error {
	if err := point.Validate(); err != nil {
		return err
	}
	if at.IsZero() {
		return errs.NewValueIsRequiredError("location timestamp")
	}
	if p.locationAt != nil && at.Before(*p.locationAt) {
		return errs.NewValueIsInvalidErrorWithCause("location timestamp",
			fmt.Errorf("%s is older than the last report %s",
				at.Format(time.RFC3339), p.locationAt.Format(time.RFC3339)))
	}

	p.location = &point
	p.locationAt = &at
	return nil
}

func (p *Profile) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	p.id = id
	return nil
}

func (p *Profile) setLicenseNumber(licenseNumber string) error {
	licenseNumber = strings.ToUpper(strings.TrimSpace(licenseNumber))
	if licenseNumber == "" {
		return errs.NewValueIsRequiredError("license number")
	}
	if len(licenseNumber) > maxIdentifierLen {
		return errs.NewValueIsOutOfRangeError("license number length", len(licenseNumber), 1, maxIdentifierLen)
	}
	p.licenseNumber = licenseNumber
	return nil
}

func (p *Profile) setVehiclePlate(plate string) error {
	plate = strings.ToUpper(strings.Join(strings.Fields(plate), ""))
	if plate == "" {
		return errs.NewValueIsRequiredError("vehicle plate")
	}
	if len(plate) > maxIdentifierLen {
		return errs.NewValueIsOutOfRangeError("vehicle plate length", len(plate), 1, maxIdentifierLen)
	}
	p.vehiclePlate = plate
	return nil
}

func (p *Profile) setCapacity(capacityKg decimal.Decimal) error {
	if !capacityKg.IsPositive() {
		return errs.NewValueIsInvalidErrorWithCause("capacity",
			fmt.Errorf("%s kg is not greater than 0", capacityKg.String()))
	}
	p.capacityKg = capacityKg
	return nil
}
