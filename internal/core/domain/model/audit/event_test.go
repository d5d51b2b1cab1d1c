package audit_test

import (
	"testing"
	"time"

	"cargo/internal/core/domain/model/audit"
	"cargo/internal/core/domain/model/kernel"
	"cargo/internal/core/domain/model/shipment"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEvent(t *testing.T) {
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	tr := shipment.Transition{From: shipment.Confirmed, To: shipment.Paid, Note: "Payment confirmed", At: at}
	shipmentID := kernel.NewUUID()

	t.Run("system actor is recorded as nil", func(t *testing.T) {
		e, err := audit.NewEvent(shipmentID, tr, kernel.SystemActor())

		require.NoError(t, err)
		assert.Nil(t, e.ActorID())
		assert.Equal(t, shipment.Confirmed, e.From())
		assert.Equal(t, shipment.Paid, e.To())
		assert.Equal(t, at, e.OccurredAt())
	})

	t.Run("human actor keeps its identity", func(t *testing.T) {
		adminID := kernel.NewUUID()
		admin, err := kernel.NewActor(adminID, kernel.RoleAdmin)
		require.NoError(t, err)

		e, err := audit.NewEvent(shipmentID, tr, admin)

		require.NoError(t, err)
		require.NotNil(t, e.ActorID())
		assert.True(t, adminID.IsEqual(*e.ActorID()))
	})

	t.Run("rejects a transition without a timestamp", func(t *testing.T) {
		_, err := audit.NewEvent(shipmentID, shipment.Transition{From: shipment.Draft, To: shipment.Confirmed}, kernel.SystemActor())
		require.Error(t, err)
	})
}
