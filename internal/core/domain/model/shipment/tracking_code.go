package shipment

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"regexp"

	"cargo/internal/pkg/errs"
	"cargo/internal/pkg/guard"
)

const (
	trackingCodePrefix   = "ISH-"
	trackingCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	trackingCodeLength   = 8
)

var (
	trackingCodePattern = regexp.MustCompile(`^ISH-[A-Z0-9]{8}$`)

	ErrTrackingCodeIsNotConstructed = errs.NewValueIsRequiredError(
		"tracking code must be created via GenerateTrackingCode or ParseTrackingCode")
)

// TrackingCode is the human-readable shipment identifier, "ISH-" followed by
// eight characters from [A-Z0-9].
type TrackingCode struct {
	value string
	guard guard.ConstructorGuard
}

// GenerateTrackingCode draws a fresh code from crypto/rand. Uniqueness is checked
// by the caller against the store before use.
func GenerateTrackingCode() (TrackingCode, error) {
	buf := make([]byte, trackingCodeLength)
	limit := big.NewInt(int64(len(trackingCodeAlphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return TrackingCode{}, fmt.Errorf("generate tracking code: %w", err)
		}
		buf[i] = trackingCodeAlphabet[n.Int64()]
	}
	return TrackingCode{value: trackingCodePrefix + string(buf), guard: guard.NewConstructorGuard()}, nil
}

func ParseTrackingCode(s string) (TrackingCode, error) {
	if !trackingCodePattern.MatchString(s) {
		return TrackingCode{}, errs.NewValueIsInvalidErrorWithCause("tracking code",
			fmt.Errorf("%q does not match ISH-XXXXXXXX", s))
	}
	return TrackingCode{value: s, guard: guard.NewConstructorGuard()}, nil
}

func (c TrackingCode) Validate() error {
	return c.guard.Validate(ErrTrackingCodeIsNotConstructed)
}

func (c TrackingCode) String() string {
	return c.value
}

func (c TrackingCode) IsEqual(other TrackingCode) bool {
	return c.value == other.value
}
