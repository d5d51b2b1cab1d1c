// Package rabbitmq hands SMS and email notifications to the delivery workers through
// durable queues.
package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	SMSQueue   = "sms_jobs"
	EmailQueue = "email_jobs"

	publishTimeout = 5 * time.Second
)

// Channel is the part of amqp.Channel the sender uses.
type Channel interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

type SMSJob struct {
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

type EmailJob struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// NotificationSender implements ports.NotificationSender. A channel is not safe for
// concurrent publishing, so publishes are serialized.
type NotificationSender struct {
	conn    *amqp.Connection
	channel Channel
	mu      sync.Mutex
	logger  *slog.Logger
}

// NewNotificationSender dials the broker and declares both job queues.
func NewNotificationSender(url string, logger *slog.Logger) (*NotificationSender, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open rabbitmq channel: %w", err)
	}

	sender, err := NewNotificationSenderWithChannel(ch, logger)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	sender.conn = conn
	return sender, nil
}

func NewNotificationSenderWithChannel(ch Channel, logger *slog.Logger) (*NotificationSender, error) {
	for _, queue := range []string{SMSQueue, EmailQueue} {
		if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
			return nil, fmt.Errorf("declare queue %s: %w", queue, err)
		}
	}
	return &NotificationSender{
		channel: ch,
		logger:  logger.With("component", "NotificationSender"),
	}, nil
}

func (s *NotificationSender) SendSMS(ctx context.Context, phone, message string) bool {
	return s.publish(ctx, SMSQueue, SMSJob{Phone: phone, Message: message})
}

func (s *NotificationSender) SendEmail(ctx context.Context, to, subject, body string) bool {
	return s.publish(ctx, EmailQueue, EmailJob{To: to, Subject: subject, Body: body})
}

func (s *NotificationSender) Close() error {
	if err := s.channel.Close(); err != nil {
		return err
	}
	if s.conn != nil {
		return s.conn.Close()
	}
	return nil
}

func (s *NotificationSender) publish(ctx context.Context, queue string, job any) bool {
	body, err := json.Marshal(job)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to encode notification job", "queue", queue, "error", err)
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	s.mu.Lock()
	defer s.mu.Unlock()

	err = s.channel.PublishWithContext(ctx, "", queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
	if err != nil {
		s.logger.WarnContext(ctx, "failed to publish notification job", "queue", queue, "error", err)
		return false
	}
	return true
}
