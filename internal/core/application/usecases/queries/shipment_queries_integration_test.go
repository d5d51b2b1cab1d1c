package queries_test

import (
	"context"
	"testing"
	"time"

	"cargo/internal/adapters/out/postgres/auditrepo"
	"cargo/internal/adapters/out/postgres/pgtest"
	"cargo/internal/adapters/out/postgres/shipmentrepo"
	"cargo/internal/core/application/usecases/queries"
	"cargo/internal/core/domain/model/audit"
	"cargo/internal/core/domain/model/kernel"
	"cargo/internal/core/domain/model/shipment"
	"cargo/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type discardTracker struct{}

func (discardTracker) TrackAggregate(kernel.UUID, any) {}

type ShipmentQueriesTestSuite struct {
	suite.Suite
	pg        *pgtest.Database
	shipments *shipmentrepo.GormShipmentRepository
	trail     *auditrepo.GormAuditTrail
}

func (suite *ShipmentQueriesTestSuite) SetupSuite() {
	pg, err := pgtest.Start(context.Background())
	suite.Require().NoError(err)
	suite.pg = pg
	suite.shipments = shipmentrepo.NewGormShipmentRepository(pg.DB, discardTracker{})
	suite.trail = auditrepo.NewGormAuditTrail(pg.DB, discardTracker{})
}

func (suite *ShipmentQueriesTestSuite) SetupTest() {
	suite.Require().NoError(suite.pg.Truncate(context.Background()))
}

func (suite *ShipmentQueriesTestSuite) TearDownSuite() {
	suite.Require().NoError(suite.pg.Terminate(context.Background()))
}

func (suite *ShipmentQueriesTestSuite) actor(id kernel.UUID, role kernel.Role) kernel.Actor {
	actor, err := kernel.NewActor(id, role)
	suite.Require().NoError(err)
	return actor
}

// book stores a shipment that went DRAFT -> CONFIRMED -> PAID -> ASSIGNED, with one
// audit event per transition recorded a minute apart.
func (suite *ShipmentQueriesTestSuite) book(senderID, driverID kernel.UUID) *shipment.Shipment {
	ctx := context.Background()
	start := time.Now().UTC().Add(-time.Hour).Truncate(time.Microsecond)

	code, err := shipment.GenerateTrackingCode()
	suite.Require().NoError(err)
	s, err := shipment.NewShipment(kernel.NewUUID(), code, shipment.Booking{
		Type:              shipment.Domestic,
		SenderID:          senderID,
		OriginZoneID:      kernel.NewUUID(),
		DestinationZoneID: kernel.NewUUID(),
		CommodityID:       kernel.NewUUID(),
		WeightKg:          decimal.NewFromInt(80),
		DeclaredValue:     decimal.NewFromInt(90000),
	}, start)
	suite.Require().NoError(err)

	tariff, err := shipment.NewTariff(decimal.RequireFromString("4000.00"), decimal.Zero,
		decimal.RequireFromString("720.00"), decimal.RequireFromString("4720.00"))
	suite.Require().NoError(err)

	transitions := make([]shipment.Transition, 0, 3)
	t, err := s.Confirm(tariff, start)
	suite.Require().NoError(err)
	transitions = append(transitions, t)
	t, err = s.MarkPaid(start.Add(time.Minute))
	suite.Require().NoError(err)
	transitions = append(transitions, t)
	t, err = s.AssignDriver(driverID, start.Add(2*time.Minute))
	suite.Require().NoError(err)
	transitions = append(transitions, t)

	suite.Require().NoError(suite.shipments.Add(ctx, s))
	for _, t := range transitions {
		event, err := audit.NewEvent(s.ID(), t, kernel.SystemActor())
		suite.Require().NoError(err)
		suite.Require().NoError(suite.trail.Record(ctx, event))
	}
	return s
}

func (suite *ShipmentQueriesTestSuite) TestGetShipment_VisibleToOwnerDriverAndBackOffice() {
	ctx := context.Background()
	senderID, driverID := kernel.NewUUID(), kernel.NewUUID()
	s := suite.book(senderID, driverID)
	handler := queries.NewGetShipmentQueryHandler(suite.pg.DB)

	for _, actor := range []kernel.Actor{
		suite.actor(senderID, kernel.RoleSender),
		suite.actor(driverID, kernel.RoleDriver),
		suite.actor(kernel.NewUUID(), kernel.RoleInspector),
	} {
		query, err := queries.NewGetShipmentQuery(actor, s.TrackingCode().String())
		suite.Require().NoError(err)

		view, err := handler.Handle(ctx, query)
		suite.Require().NoError(err, actor.String())
		suite.Equal(s.ID(), view.ID)
		suite.Equal("ASSIGNED", view.Status)
		suite.Require().NotNil(view.DriverID)
		suite.Equal(driverID, *view.DriverID)
		suite.Require().NotNil(view.Tariff)
		suite.True(view.Tariff.Total.Equal(decimal.RequireFromString("4720.00")))
		suite.False(view.CustomsManifestIssued)
	}
}

func (suite *ShipmentQueriesTestSuite) TestGetShipment_OtherSenderIsDenied() {
	s := suite.book(kernel.NewUUID(), kernel.NewUUID())

	query, err := queries.NewGetShipmentQuery(suite.actor(kernel.NewUUID(), kernel.RoleSender), s.TrackingCode().String())
	suite.Require().NoError(err)

	_, err = queries.NewGetShipmentQueryHandler(suite.pg.DB).Handle(context.Background(), query)
	suite.ErrorIs(err, errs.ErrAccessDenied)
}

func (suite *ShipmentQueriesTestSuite) TestGetShipment_UnknownCode() {
	query, err := queries.NewGetShipmentQuery(suite.actor(kernel.NewUUID(), kernel.RoleAdmin), "ISH-00000000")
	suite.Require().NoError(err)

	_, err = queries.NewGetShipmentQueryHandler(suite.pg.DB).Handle(context.Background(), query)
	suite.ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *ShipmentQueriesTestSuite) TestGetShipmentEvents_InOccurrenceOrder() {
	senderID := kernel.NewUUID()
	s := suite.book(senderID, kernel.NewUUID())
	suite.book(kernel.NewUUID(), kernel.NewUUID())

	query, err := queries.NewGetShipmentEventsQuery(suite.actor(senderID, kernel.RoleSender), s.ID())
	suite.Require().NoError(err)

	events, err := queries.NewGetShipmentEventsQueryHandler(suite.pg.DB).Handle(context.Background(), query)
	suite.Require().NoError(err)
	suite.Require().Len(events, 3)
	suite.Equal([]string{"CONFIRMED", "PAID", "ASSIGNED"},
		[]string{events[0].ToStatus, events[1].ToStatus, events[2].ToStatus})
	suite.Equal("DRAFT", events[0].FromStatus)
	suite.Nil(events[0].ActorID)
	suite.Equal(s.TrackingCode().String(), events[2].TrackingCode)
}

func (suite *ShipmentQueriesTestSuite) TestGetShipmentEvents_DriverOfAnotherShipmentIsDenied() {
	s := suite.book(kernel.NewUUID(), kernel.NewUUID())

	query, err := queries.NewGetShipmentEventsQuery(suite.actor(kernel.NewUUID(), kernel.RoleDriver), s.ID())
	suite.Require().NoError(err)

	_, err = queries.NewGetShipmentEventsQueryHandler(suite.pg.DB).Handle(context.Background(), query)
	suite.ErrorIs(err, errs.ErrAccessDenied)
}

func (suite *ShipmentQueriesTestSuite) TestGetRecentEvents_NewestFirstAcrossShipments() {
	suite.book(kernel.NewUUID(), kernel.NewUUID())
	suite.book(kernel.NewUUID(), kernel.NewUUID())
	handler := queries.NewGetRecentEventsQueryHandler(suite.pg.DB)

	query, err := queries.NewGetRecentEventsQuery(suite.actor(kernel.NewUUID(), kernel.RoleInspector), 4)
	suite.Require().NoError(err)
	events, err := handler.Handle(context.Background(), query)
	suite.Require().NoError(err)
	suite.Require().Len(events, 4)
	for i := 1; i < len(events); i++ {
		suite.False(events[i].OccurredAt.After(events[i-1].OccurredAt))
	}

	senderQuery, err := queries.NewGetRecentEventsQuery(suite.actor(kernel.NewUUID(), kernel.RoleSender), 0)
	suite.Require().NoError(err)
	_, err = handler.Handle(context.Background(), senderQuery)
	suite.ErrorIs(err, errs.ErrAccessDenied)
}

func TestShipmentQueriesTestSuite(t *testing.T) {
	suite.Run(t, new(ShipmentQueriesTestSuite))
}
