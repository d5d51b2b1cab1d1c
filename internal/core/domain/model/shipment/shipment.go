package shipment

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"cargo/internal/core/domain/model/kernel"
	"cargo/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

const (
	entityName   = "shipment"
	maxSyncIDLen = 64
	maxNotesLen  = 2000
)

var (
	ErrShipmentIsNotConstructed = errors.New("Shipment must be created via NewShipment or RestoreShipment")

	// ErrTaxReceiptAlreadyAttached and ErrCustomsManifestAlreadyAttached report write-once
	// fields that are already set. Callers replaying a task treat them as "already done".
	ErrTaxReceiptAlreadyAttached      = errors.New("tax receipt is already attached")
	ErrCustomsManifestAlreadyAttached = errors.New("customs manifest is already attached")

	countryCodePattern = regexp.MustCompile(`^[A-Z]{2}$`)
)

// Booking carries what a sender supplies when requesting a shipment.
type Booking struct {
	Type               Type
	SenderID           kernel.UUID
	OriginZoneID       kernel.UUID
	DestinationZoneID  kernel.UUID
	CommodityID        kernel.UUID
	WeightKg           decimal.Decimal
	DeclaredValue      decimal.Decimal
	DestinationCountry string
	Notes              string
	SyncID             string
	OfflineCreated     bool
}

// Shipment is the aggregate root of the booking core. It is created in DRAFT,
// confirmed with a tariff snapshot, and driven through its lifecycle by payment
// events, driver assignment and transit updates. Shipments are never deleted.
type Shipment struct {
	id                  kernel.UUID
	trackingCode        TrackingCode
	shipmentType        Type
	status              Status
	senderID            kernel.UUID
	driverID            *kernel.UUID
	originZoneID        kernel.UUID
	destinationZoneID   kernel.UUID
	commodityID         kernel.UUID
	weightKg            decimal.Decimal
	declaredValue       decimal.Decimal
	tariff              *Tariff
	destinationCountry  string
	customsManifest     string
	taxReceipt          *TaxReceipt
	needsReconciliation bool
	notes               string
	syncID              string
	offlineCreated      bool
	createdAt           time.Time
	updatedAt           time.Time
	deliveredAt         *time.Time

	isConstructed bool
}

// NewShipment validates a booking and returns a DRAFT shipment. Validation covers
// every rule that can be checked without the store: zone pair, weight, declared value,
// destination country and sync id length.
//
// Example:
//
//	code, _ := shipment.GenerateTrackingCode()
//	s, err := shipment.NewShipment(kernel.NewUUID(), code, booking, time.Now())
//	if err != nil {
//	    return err // nothing was persisted
//	}
func NewShipment(id kernel.UUID, code TrackingCode, booking Booking, now time.Time) (*Shipment, error) {
	s := &Shipment{
		status:         Draft,
		notes:          strings.TrimSpace(booking.Notes),
		offlineCreated: booking.OfflineCreated,
		createdAt:      now,
		updatedAt:      now,
		isConstructed:  true,
	}

	if err := errors.Join(
		s.setID(id),
		s.setTrackingCode(code),
		s.setSender(booking.SenderID),
		s.setRoute(booking.Type, booking.OriginZoneID, booking.DestinationZoneID, booking.DestinationCountry),
		s.setCargo(booking.CommodityID, booking.WeightKg, booking.DeclaredValue),
		s.setSyncID(booking.SyncID),
		s.checkNotes(),
	); err != nil {
		return nil, err
	}

	return s, nil
}

// ValidateBooking runs the booking checks of NewShipment without building a shipment.
func ValidateBooking(booking Booking) error {
	s := &Shipment{notes: strings.TrimSpace(booking.Notes)}
	return errors.Join(
		s.setSender(booking.SenderID),
		s.setRoute(booking.Type, booking.OriginZoneID, booking.DestinationZoneID, booking.DestinationCountry),
		s.setCargo(booking.CommodityID, booking.WeightKg, booking.DeclaredValue),
		s.setSyncID(booking.SyncID),
		s.checkNotes(),
	)
}

// State is the persisted form of a Shipment, used by repositories to rebuild the aggregate.
type State struct {
	ID                  kernel.UUID
	TrackingCode        TrackingCode
	Type                Type
	Status              Status
	SenderID            kernel.UUID
	DriverID            *kernel.UUID
	OriginZoneID        kernel.UUID
	DestinationZoneID   kernel.UUID
	CommodityID         kernel.UUID
	WeightKg            decimal.Decimal
	DeclaredValue       decimal.Decimal
	Tariff              *Tariff
	DestinationCountry  string
	CustomsManifest     string
	TaxReceipt          *TaxReceipt
	NeedsReconciliation bool
	Notes               string
	SyncID              string
	OfflineCreated      bool
	CreatedAt           time.Time
	UpdatedAt           time.Time
	DeliveredAt         *time.Time
}

// RestoreShipment rebuilds a shipment from storage and re-checks the invariants
// that tie status to the tariff snapshot and driver reference.
func RestoreShipment(st State) (*Shipment, error) {
	s := &Shipment{
		status:              st.Status,
		driverID:            st.DriverID,
		tariff:              st.Tariff,
		customsManifest:     st.CustomsManifest,
		taxReceipt:          st.TaxReceipt,
		needsReconciliation: st.NeedsReconciliation,
		notes:               st.Notes,
		offlineCreated:      st.OfflineCreated,
		createdAt:           st.CreatedAt,
		updatedAt:           st.UpdatedAt,
		deliveredAt:         st.DeliveredAt,
		isConstructed:       true,
	}

	if err := errors.Join(
		s.setID(st.ID),
		s.setTrackingCode(st.TrackingCode),
		s.setSender(st.SenderID),
		s.setRoute(st.Type, st.OriginZoneID, st.DestinationZoneID, st.DestinationCountry),
		s.setCargo(st.CommodityID, st.WeightKg, st.DeclaredValue),
		s.setSyncID(st.SyncID),
		st.Status.Validate(),
		s.checkSnapshot(),
	); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *Shipment) Validate() error {
	if s == nil || !s.isConstructed {
		return ErrShipmentIsNotConstructed
	}
	return nil
}

func (s *Shipment) ID() kernel.UUID {
	return s.id
}

func (s *Shipment) TrackingCode() TrackingCode {
	return s.trackingCode
}

func (s *Shipment) Type() Type {
	return s.shipmentType
}

func (s *Shipment) Status() Status {
	return s.status
}

func (s *Shipment) SenderID() kernel.UUID {
	return s.senderID
}

func (s *Shipment) OriginZoneID() kernel.UUID {
	return s.originZoneID
}

func (s *Shipment) DestinationZoneID() kernel.UUID {
	return s.destinationZoneID
}

func (s *Shipment) CommodityID() kernel.UUID {
	return s.commodityID
}

func (s *Shipment) WeightKg() decimal.Decimal {
	return s.weightKg
}

func (s *Shipment) DeclaredValue() decimal.Decimal {
	return s.declaredValue
}

func (s *Shipment) DestinationCountry() string {
	return s.destinationCountry
}

func (s *Shipment) CustomsManifest() string {
	return s.customsManifest
}

func (s *Shipment) NeedsReconciliation() bool {
	return s.needsReconciliation
}

func (s *Shipment) Notes() string {
	return s.notes
}

func (s *Shipment) SyncID() string {
	return s.syncID
}

func (s *Shipment) IsOfflineCreated() bool {
	return s.offlineCreated
}

func (s *Shipment) CreatedAt() time.Time {
	return s.createdAt
}

func (s *Shipment) UpdatedAt() time.Time {
	return s.updatedAt
}

func (s *Shipment) DeliveredAt() *time.Time {
	return s.deliveredAt
}

// DriverID is nil until a driver is assigned.
func (s *Shipment) DriverID() *kernel.UUID {
	return s.driverID
}

// Tariff is nil while the shipment is in DRAFT.
func (s *Shipment) Tariff() *Tariff {
	return s.tariff
}

// TaxReceipt is nil until the payment has been fiscally signed.
func (s *Shipment) TaxReceipt() *TaxReceipt {
	return s.taxReceipt
}

func (s *Shipment) IsInternational() bool {
	return s.shipmentType == International
}

// Confirm snapshots the tariff and moves DRAFT -> CONFIRMED. The tariff can never be replaced.
func (s *Shipment) Confirm(tariff Tariff, now time.Time) (Transition, error) {
	if err := tariff.Validate(); err != nil {
		return Transition{}, err
	}
	if s.tariff != nil {
		return Transition{}, errs.NewValueIsInvalidErrorWithCause("tariff", errors.New("tariff is already set"))
	}

	next, err := s.status.Confirm()
	if err != nil {
		return Transition{}, err
	}

	s.tariff = &tariff
	return s.apply(next, "Tariff calculated", now), nil
}

func (s *Shipment) MarkPaid(now time.Time) (Transition, error) {
	next, err := s.status.Pay()
	if err != nil {
		return Transition{}, err
	}
	return s.apply(next, "Payment confirmed", now), nil
}

func (s *Shipment) AssignDriver(driverID kernel.UUID, now time.Time) (Transition, error) {
	if err := driverID.Validate(); err != nil {
		return Transition{}, err
	}

	next, err := s.status.Assign()
	if err != nil {
		return Transition{}, err
	}

	s.driverID = &driverID
	return s.apply(next, "Driver assigned", now), nil
}

func (s *Shipment) StartTransit(now time.Time) (Transition, error) {
	next, err := s.status.StartTransit()
	if err != nil {
		return Transition{}, err
	}
	return s.apply(next, "Picked up", now), nil
}

func (s *Shipment) ReachBorder(now time.Time) (Transition, error) {
	next, err := s.status.ReachBorder(s.shipmentType)
	if err != nil {
		return Transition{}, err
	}
	return s.apply(next, "Arrived at border post", now), nil
}

func (s *Shipment) Deliver(now time.Time) (Transition, error) {
	next, err := s.status.Deliver(s.shipmentType)
	if err != nil {
		return Transition{}, err
	}

	delivered := now
	s.deliveredAt = &delivered
	return s.apply(next, "Delivered", now), nil
}

// Fail moves CONFIRMED -> FAILED and records the reason in the notes.
// Failing an already failed shipment is a no-op: the returned Transition has IsChange() == false.
func (s *Shipment) Fail(reason string, now time.Time) (Transition, error) {
	if s.status == Failed {
		return Transition{From: Failed, To: Failed, Note: reason, At: now}, nil
	}

	next, err := s.status.Fail()
	if err != nil {
		return Transition{}, err
	}

	s.appendNote(reason)
	return s.apply(next, reason, now), nil
}

// Cancel is the administrative exit from any non-terminal state.
func (s *Shipment) Cancel(reason string, now time.Time) (Transition, error) {
	next, err := s.status.Cancel()
	if err != nil {
		return Transition{}, err
	}

	s.appendNote(reason)
	return s.apply(next, reason, now), nil
}

// AttachTaxReceipt stores the signed receipt once payment has been captured.
// A fallback receipt flags the shipment for reconciliation.
func (s *Shipment) AttachTaxReceipt(receipt TaxReceipt, now time.Time) error {
	if err := receipt.Validate(); err != nil {
		return err
	}
	if s.taxReceipt != nil {
		return ErrTaxReceiptAlreadyAttached
	}
	if !s.status.IsPaid() && s.status != Cancelled {
		return errs.NewValueIsInvalidErrorWithCause("tax receipt",
			fmt.Errorf("%s shipment has no captured payment", s.status))
	}

	s.taxReceipt = &receipt
	if receipt.IsFallback() {
		s.needsReconciliation = true
	}
	s.updatedAt = now
	return nil
}

// AttachCustomsManifest stores the customs document of an international shipment.
// The tax receipt has to be attached first.
func (s *Shipment) AttachCustomsManifest(document string, now time.Time) error {
	if err := s.CanGenerateCustomsManifest(); err != nil {
		return err
	}
	if strings.TrimSpace(document) == "" {
		return errs.NewValueIsRequiredError("customs manifest")
	}

	s.customsManifest = document
	s.updatedAt = now
	return nil
}

// CanGenerateCustomsManifest checks the preconditions of manifest generation.
func (s *Shipment) CanGenerateCustomsManifest() error {
	if !s.IsInternational() {
		return errs.NewValueIsInvalidErrorWithCause("customs manifest",
			errors.New("customs manifests are issued for international shipments only"))
	}
	if s.customsManifest != "" {
		return ErrCustomsManifestAlreadyAttached
	}
	if s.taxReceipt == nil {
		return errs.NewValueIsRequiredErrorWithCause("tax receipt",
			errors.New("customs manifest requires a signed tax receipt"))
	}
	return nil
}

func (s *Shipment) apply(next Status, note string, now time.Time) Transition {
	t := Transition{From: s.status, To: next, Note: note, At: now}
	s.status = next
	s.updatedAt = now
	return t
}

func (s *Shipment) appendNote(note string) {
	note = strings.TrimSpace(note)
	if note == "" {
		return
	}
	if s.notes == "" {
		s.notes = note
		return
	}
	s.notes = s.notes + "\n" + note
}

func (s *Shipment) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	s.id = id
	return nil
}

func (s *Shipment) setTrackingCode(code TrackingCode) error {
	if err := code.Validate(); err != nil {
		return err
	}
	s.trackingCode = code
	return nil
}

func (s *Shipment) setSender(senderID kernel.UUID) error {
	if err := senderID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("sender", err)
	}
	s.senderID = senderID
	return nil
}

func (s *Shipment) setRoute(t Type, origin, destination kernel.UUID, country string) error {
	if err := errors.Join(t.Validate(), origin.Validate(), destination.Validate()); err != nil {
		return err
	}
	if origin.IsEqual(destination) {
		return errs.NewValueIsInvalidErrorWithCause("destination zone",
			errors.New("origin and destination zones must differ"))
	}

	country = strings.ToUpper(strings.TrimSpace(country))
	switch {
	case t == International && country == "":
		return errs.NewValueIsRequiredErrorWithCause("destination country",
			errors.New("international shipments must name a destination country"))
	case t == International && !countryCodePattern.MatchString(country):
		return errs.NewValueIsInvalidErrorWithCause("destination country",
			fmt.Errorf("%q is not an ISO 3166 alpha-2 code", country))
	case t == Domestic && country != "":
		return errs.NewValueIsInvalidErrorWithCause("destination country",
			errors.New("domestic shipments do not carry a destination country"))
	}

	s.shipmentType = t
	s.originZoneID = origin
	s.destinationZoneID = destination
	s.destinationCountry = country
	return nil
}

func (s *Shipment) setCargo(commodityID kernel.UUID, weightKg, declaredValue decimal.Decimal) error {
	var errList []error
	if err := commodityID.Validate(); err != nil {
		errList = append(errList, errs.NewValueIsRequiredErrorWithCause("commodity", err))
	}
	if !weightKg.IsPositive() {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause("weight",
			fmt.Errorf("%s kg is not greater than 0", weightKg.String())))
	}
	if declaredValue.IsNegative() {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause("declared value",
			fmt.Errorf("%s is negative", declaredValue.String())))
	}
	if err := errors.Join(errList...); err != nil {
		return err
	}

	s.commodityID = commodityID
	s.weightKg = weightKg
	s.declaredValue = declaredValue
	return nil
}

func (s *Shipment) setSyncID(syncID string) error {
	syncID = strings.TrimSpace(syncID)
	if len(syncID) > maxSyncIDLen {
		return errs.NewValueIsOutOfRangeError("sync id length", len(syncID), 0, maxSyncIDLen)
	}
	s.syncID = syncID
	return nil
}

func (s *Shipment) checkNotes() error {
	if len(s.notes) > maxNotesLen {
		return errs.NewValueIsOutOfRangeError("notes length", len(s.notes), 0, maxNotesLen)
	}
	return nil
}

func (s *Shipment) checkSnapshot() error {
	if s.status == Draft && s.tariff != nil {
		return errs.NewValueIsInvalidErrorWithCause("tariff", errors.New("draft shipment cannot carry a tariff"))
	}
	if s.status != Draft && s.tariff == nil {
		return errs.NewValueIsRequiredErrorWithCause("tariff",
			fmt.Errorf("%s shipment must carry a tariff snapshot", s.status))
	}
	if s.status.HasDriver() && s.driverID == nil {
		return errs.NewValueIsRequiredErrorWithCause("driver",
			fmt.Errorf("%s shipment must reference a driver", s.status))
	}
	if s.driverID != nil && !s.status.HasDriver() && s.status != Cancelled {
		return errs.NewValueIsInvalidErrorWithCause("driver",
			fmt.Errorf("%s shipment cannot reference a driver", s.status))
	}
	return nil
}
