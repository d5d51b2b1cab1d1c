// Package kafka streams committed shipment events to downstream consumers.
package kafka

import (
	"context"
	"encoding/json"
	"time"

	"cargo/internal/core/domain/model/audit"

	skafka "github.com/segmentio/kafka-go"
)

// Writer is the part of kafka.Writer the publisher uses.
type Writer interface {
	WriteMessages(ctx context.Context, msgs ...skafka.Message) error
	Close() error
}

// EventMessage is the JSON value of a record on the shipment events topic.
type EventMessage struct {
	EventID    string    `json:"event_id"`
	ShipmentID string    `json:"shipment_id"`
	FromStatus string    `json:"from_status"`
	ToStatus   string    `json:"to_status"`
	ActorID    *string   `json:"actor_id"`
	Note       string    `json:"note,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// EventPublisher implements ports.EventPublisher. Records are keyed by shipment id so a
// consumer sees the events of one shipment in order.
type EventPublisher struct {
	writer Writer
}

func NewEventPublisher(brokers []string, topic string) *EventPublisher {
	return NewEventPublisherWithWriter(&skafka.Writer{
		Addr:                   skafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &skafka.Hash{},
		RequiredAcks:           skafka.RequireOne,
		AllowAutoTopicCreation: true,
		BatchTimeout:           50 * time.Millisecond,
	})
}

func NewEventPublisherWithWriter(w Writer) *EventPublisher {
	return &EventPublisher{writer: w}
}

func (p *EventPublisher) Publish(ctx context.Context, events []audit.Event) error {
	if len(events) == 0 {
		return nil
	}

	msgs := make([]skafka.Message, 0, len(events))
	for _, e := range events {
		value, err := json.Marshal(toMessage(e))
		if err != nil {
			return err
		}
		msgs = append(msgs, skafka.Message{
			Key:   []byte(e.ShipmentID().String()),
			Value: value,
			Time:  e.OccurredAt(),
		})
	}

	return p.writer.WriteMessages(ctx, msgs...)
}

func (p *EventPublisher) Close() error {
	return p.writer.Close()
}

func toMessage(e audit.Event) EventMessage {
	msg := EventMessage{
		EventID:    e.ID().String(),
		ShipmentID: e.ShipmentID().String(),
		FromStatus: e.From().String(),
		ToStatus:   e.To().String(),
		Note:       e.Note(),
		OccurredAt: e.OccurredAt().UTC(),
	}
	if actor := e.ActorID(); actor != nil {
		id := actor.String()
		msg.ActorID = &id
	}
	return msg
}
