package commands

import (
	"context"
	"fmt"
	"log/slog"

	"cargo/internal/core/domain/model/driver"
	"cargo/internal/core/domain/model/kernel"
	"cargo/internal/core/domain/model/shipment"
	"cargo/internal/core/ports"
)

// Notifier tells agents about committed shipment changes. Implementations are best
// effort: they log failures and never report them to the handler.
type Notifier interface {
	StatusChanged(ctx context.Context, s *shipment.Shipment, t shipment.Transition)
	DriverAssigned(ctx context.Context, s *shipment.Shipment, d *driver.Profile)
	CustomsReminder(ctx context.Context, s *shipment.Shipment)
}

// ShipmentNotifier resolves contacts through the directory and hands messages to the sender.
type ShipmentNotifier struct {
	contacts ports.ContactDirectory
	sender   ports.NotificationSender
	logger   *slog.Logger
}

func NewShipmentNotifier(
	contacts ports.ContactDirectory,
	sender ports.NotificationSender,
	logger *slog.Logger,
) *ShipmentNotifier {
	return &ShipmentNotifier{
		contacts: contacts,
		sender:   sender,
		logger:   logger.With("component", "ShipmentNotifier"),
	}
}

func (n *ShipmentNotifier) StatusChanged(ctx context.Context, s *shipment.Shipment, t shipment.Transition) {
	if !t.IsChange() {
		return
	}

	code := s.TrackingCode().String()
	var msg string
	switch t.To {
	case shipment.Confirmed:
		msg = fmt.Sprintf("Shipment %s booked. Amount due: RWF %s.", code, s.Tariff().Total().StringFixed(2))
	case shipment.Paid:
		msg = fmt.Sprintf("Payment received for shipment %s. We are assigning a driver.", code)
	case shipment.InTransit:
		msg = fmt.Sprintf("Shipment %s has been picked up and is on its way.", code)
	case shipment.AtBorder:
		msg = fmt.Sprintf("Shipment %s has arrived at the border post.", code)
	case shipment.Delivered:
		msg = fmt.Sprintf("Shipment %s has been delivered.", code)
	case shipment.Failed:
		msg = fmt.Sprintf("Shipment %s could not proceed: %s", code, t.Note)
	case shipment.Cancelled:
		msg = fmt.Sprintf("Shipment %s has been cancelled: %s", code, t.Note)
	default:
		msg = fmt.Sprintf("Shipment %s is now %s.", code, t.To)
	}

	n.notify(ctx, s.SenderID(), "Shipment "+code, msg)
}

func (n *ShipmentNotifier) DriverAssigned(ctx context.Context, s *shipment.Shipment, d *driver.Profile) {
	code := s.TrackingCode().String()
	n.notify(ctx, s.SenderID(), "Shipment "+code,
		fmt.Sprintf("Driver with vehicle %s is assigned to shipment %s.", d.VehiclePlate(), code))
	n.notify(ctx, d.ID(), "New assignment "+code,
		fmt.Sprintf("You are assigned to shipment %s (%s kg).", code, s.WeightKg().String()))
}

func (n *ShipmentNotifier) CustomsReminder(ctx context.Context, s *shipment.Shipment) {
	code := s.TrackingCode().String()
	n.notify(ctx, s.SenderID(), "Customs documents for "+code,
		fmt.Sprintf("Shipment %s to %s needs its customs manifest before it reaches the border.",
			code, s.DestinationCountry()))
}

func (n *ShipmentNotifier) notify(ctx context.Context, agentID kernel.UUID, subject, msg string) {
	contact, err := n.contacts.Lookup(ctx, agentID)
	if err != nil {
		n.logger.WarnContext(ctx, "contact lookup failed, notification skipped",
			"agent_id", agentID.String(), "error", err)
		return
	}

	if contact.Phone != "" && !n.sender.SendSMS(ctx, contact.Phone, msg) {
		n.logger.WarnContext(ctx, "sms not sent", "agent_id", agentID.String())
	}
	if contact.Email != "" && !n.sender.SendEmail(ctx, contact.Email, subject, msg) {
		n.logger.WarnContext(ctx, "email not sent", "agent_id", agentID.String())
	}
}
