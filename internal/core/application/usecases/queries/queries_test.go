package queries_test

import (
	"testing"

	"cargo/internal/core/application/usecases/queries"
	"cargo/internal/core/domain/model/kernel"
	"cargo/internal/core/domain/model/shipment"
	"cargo/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newActor(t *testing.T, role kernel.Role) kernel.Actor {
	t.Helper()
	actor, err := kernel.NewActor(kernel.NewUUID(), role)
	require.NoError(t, err)
	return actor
}

func TestNewGetShipmentQuery(t *testing.T) {
	actor := newActor(t, kernel.RoleSender)

	query, err := queries.NewGetShipmentQuery(actor, "ISH-7K2P9QXA")
	require.NoError(t, err)
	require.NoError(t, query.Validate())
	assert.Equal(t, "ISH-7K2P9QXA", query.TrackingCode().String())

	_, err = queries.NewGetShipmentQuery(actor, "7K2P9QXA")
	assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestGetShipmentQuery_NotConstructedViaConstructor(t *testing.T) {
	err := queries.GetShipmentQuery{}.Validate()
	assert.ErrorIs(t, err, queries.ErrGetShipmentQueryIsNotConstructed)
}

func TestNewGetShipmentEventsQuery_RequiresShipmentID(t *testing.T) {
	_, err := queries.NewGetShipmentEventsQuery(newActor(t, kernel.RoleAdmin), kernel.UUID{})
	assert.Error(t, err)

	err = queries.GetShipmentEventsQuery{}.Validate()
	assert.ErrorIs(t, err, queries.ErrGetShipmentEventsQueryIsNotConstructed)
}

func TestNewGetRecentEventsQuery_Limits(t *testing.T) {
	actor := newActor(t, kernel.RoleInspector)

	tests := []struct {
		name    string
		limit   int
		want    int
		wantErr bool
	}{
		{name: "zero means default", limit: 0, want: queries.DefaultRecentEventsLimit},
		{name: "explicit", limit: 25, want: 25},
		{name: "maximum", limit: queries.MaxRecentEventsLimit, want: queries.MaxRecentEventsLimit},
		{name: "over maximum", limit: queries.MaxRecentEventsLimit + 1, wantErr: true},
		{name: "negative", limit: -1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, err := queries.NewGetRecentEventsQuery(actor, tt.limit)
			if tt.wantErr {
				assert.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, query.Limit())
		})
	}
}

func TestNewEstimateTariffQuery_RejectsNonPositiveWeight(t *testing.T) {
	_, err := queries.NewEstimateTariffQuery(newActor(t, kernel.RoleSender),
		kernel.NewUUID(), kernel.NewUUID(), shipment.Domestic, decimal.Zero)
	assert.ErrorIs(t, err, errs.ErrValueIsInvalid)

	err = queries.EstimateTariffQuery{}.Validate()
	assert.ErrorIs(t, err, queries.ErrEstimateTariffQueryIsNotConstructed)
}
