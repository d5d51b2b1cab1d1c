package commands

import (
	"context"
	"time"

	"cargo/internal/core/domain/model/audit"
	"cargo/internal/core/domain/model/kernel"
	"cargo/internal/core/domain/model/shipment"
	"cargo/internal/core/ports"
	"cargo/internal/pkg/errs"
)

// recordTransition appends the audit event of t in the caller's unit of work.
// No-op transitions are not recorded.
func recordTransition(
	ctx context.Context,
	trail ports.AuditTrail,
	s *shipment.Shipment,
	t shipment.Transition,
	actor kernel.Actor,
) error {
	if !t.IsChange() {
		return nil
	}

	event, err := audit.NewEvent(s.ID(), t, actor)
	if err != nil {
		return err
	}
	return trail.Record(ctx, event)
}

// afterCommit collects side effects that may only run once the unit of work committed.
type afterCommit []func(ctx context.Context)

func (a *afterCommit) add(fn func(ctx context.Context)) {
	*a = append(*a, fn)
}

func (a afterCommit) run(ctx context.Context) {
	for _, fn := range a {
		fn(ctx)
	}
}

// authorizeOwner lets admins and the system through and restricts other roles to the
// shipments they booked (senders, exporters) or drive (drivers).
func authorizeOwner(actor kernel.Actor, s *shipment.Shipment, capability kernel.Capability) error {
	if err := actor.Authorize(capability); err != nil {
		return err
	}
	if actor.IsSystem() || actor.Is(kernel.RoleAdmin) {
		return nil
	}

	switch {
	case actor.Is(kernel.RoleDriver):
		if s.DriverID() != nil && actor.IsIdentity(*s.DriverID()) {
			return nil
		}
	case actor.IsIdentity(s.SenderID()):
		return nil
	}
	return errs.NewAccessDeniedError(actor.String(), capability.String()+" on shipment "+s.TrackingCode().String())
}

func utcNow() time.Time {
	return time.Now().UTC()
}
