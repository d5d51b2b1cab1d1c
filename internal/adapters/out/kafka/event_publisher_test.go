package kafka_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"cargo/internal/adapters/out/kafka"
	"cargo/internal/core/domain/model/audit"
	"cargo/internal/core/domain/model/kernel"
	"cargo/internal/core/domain/model/shipment"

	skafka "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockWriter struct {
	mock.Mock
}

func (m *MockWriter) WriteMessages(ctx context.Context, msgs ...skafka.Message) error {
	return m.Called(ctx, msgs).Error(0)
}

func (m *MockWriter) Close() error {
	return m.Called().Error(0)
}

func newEvent(t *testing.T, actor kernel.Actor) audit.Event {
	t.Helper()
	e, err := audit.NewEvent(kernel.NewUUID(), shipment.Transition{
		From: shipment.Paid,
		To:   shipment.Assigned,
		Note: "driver RW-DL-00042",
		At:   time.Date(2026, 5, 2, 8, 0, 0, 0, time.UTC),
	}, actor)
	require.NoError(t, err)
	return e
}

func TestEventPublisher_Publish_KeysByShipment(t *testing.T) {
	admin, err := kernel.NewActor(kernel.NewUUID(), kernel.RoleAdmin)
	require.NoError(t, err)
	byAdmin := newEvent(t, admin)
	bySystem := newEvent(t, kernel.SystemActor())

	var written []skafka.Message
	writer := &MockWriter{}
	writer.On("WriteMessages", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { written = args.Get(1).([]skafka.Message) }).
		Return(nil).Once()

	err = kafka.NewEventPublisherWithWriter(writer).Publish(context.Background(), []audit.Event{byAdmin, bySystem})
	require.NoError(t, err)
	require.Len(t, written, 2)

	assert.Equal(t, byAdmin.ShipmentID().String(), string(written[0].Key))

	var first, second kafka.EventMessage
	require.NoError(t, json.Unmarshal(written[0].Value, &first))
	require.NoError(t, json.Unmarshal(written[1].Value, &second))
	assert.Equal(t, "PAID", first.FromStatus)
	assert.Equal(t, "ASSIGNED", first.ToStatus)
	require.NotNil(t, first.ActorID)
	assert.Equal(t, admin.ID().String(), *first.ActorID)
	assert.Nil(t, second.ActorID)
}

func TestEventPublisher_Publish_NothingToSend(t *testing.T) {
	writer := &MockWriter{}
	require.NoError(t, kafka.NewEventPublisherWithWriter(writer).Publish(context.Background(), nil))
	writer.AssertNotCalled(t, "WriteMessages", mock.Anything, mock.Anything)
}

func TestEventPublisher_Publish_WriterError(t *testing.T) {
	writer := &MockWriter{}
	writer.On("WriteMessages", mock.Anything, mock.Anything).Return(errors.New("leader not available")).Once()

	err := kafka.NewEventPublisherWithWriter(writer).Publish(context.Background(), []audit.Event{newEvent(t, kernel.SystemActor())})
	assert.EqualError(t, err, "leader not available")
}
