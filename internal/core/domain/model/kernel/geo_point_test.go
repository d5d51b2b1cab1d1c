package kernel_test

import (
	"testing"

	"cargo/internal/core/domain/model/kernel"
	"cargo/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGeoPoint(t *testing.T) {
	t.Run("valid coordinates", func(t *testing.T) {
		p, err := kernel.NewGeoPoint(-1.9441, 30.0619)

		require.NoError(t, err)
		assert.InDelta(t, -1.9441, p.Lat(), 1e-9)
		assert.InDelta(t, 30.0619, p.Lon(), 1e-9)
	})

	t.Run("out of range coordinates", func(t *testing.T) {
		_, err := kernel.NewGeoPoint(91, 200)

		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
		assert.Contains(t, err.Error(), "latitude")
		assert.Contains(t, err.Error(), "longitude")
	})
}

func TestGeoPoint_DistanceKm(t *testing.T) {
	kigali, _ := kernel.NewGeoPoint(-1.9441, 30.0619)
	huye, _ := kernel.NewGeoPoint(-2.5967, 29.7394)

	km, err := kigali.DistanceKm(huye)
	require.NoError(t, err)
	assert.InDelta(t, 80.9, km, 2.0)

	back, err := huye.DistanceKm(kigali)
	require.NoError(t, err)
	assert.InDelta(t, km, back, 1e-9)

	self, err := kigali.DistanceKm(kigali)
	require.NoError(t, err)
	assert.InDelta(t, 0, self, 1e-9)

	var zero kernel.GeoPoint
	_, err = kigali.DistanceKm(zero)
	require.ErrorIs(t, err, errs.ErrValueIsRequired)
}
