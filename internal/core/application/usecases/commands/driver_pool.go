package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"cargo/internal/core/domain/model/driver"
	"cargo/internal/core/domain/model/kernel"
	"cargo/internal/core/domain/model/shipment"
	"cargo/internal/core/domain/services"
	"cargo/internal/core/ports"
	"cargo/internal/pkg/errs"
)

const (
	candidatePageSize = 20
	maxCandidatePages = 10
)

// AssignmentPolicy bounds the retry loop of driver assignment.
type AssignmentPolicy struct {
	RetryDelay time.Duration
	MaxRetries int
}

func DefaultAssignmentPolicy() AssignmentPolicy {
	return AssignmentPolicy{
		RetryDelay: 5 * time.Minute,
		MaxRetries: 5,
	}
}

// RetryAssignmentPayload is the payload of an assign_driver_retry task.
type RetryAssignmentPayload struct {
	ShipmentID string `json:"shipment_id"`
	Attempt    int    `json:"attempt"`
}

// RetryTaskID names the retry task of one attempt, so that concurrent producers of the
// same attempt enqueue it once.
func RetryTaskID(shipmentID kernel.UUID, attempt int) string {
	return fmt.Sprintf("assign-driver:%s:%d", shipmentID.String(), attempt)
}

// Assignment is the outcome of DriverPool.Assign. Driver is nil when nobody was available.
type Assignment struct {
	Driver         *driver.Profile
	Transition     shipment.Transition
	RetryScheduled bool
}

// DriverPool claims one available driver for a PAID shipment.
//
// Algorithm, inside the caller's unit of work:
//   - read a page of candidates without locks and rank them with the CandidateSelector
//   - claim the best one with SKIP LOCKED; a row held by a concurrent assignment is skipped
//   - re-verify the license while the row is held; on failure revoke the cached flag and
//     move to the next candidate
//   - flip availability, assign the shipment and record the event
//
// When no candidate is left a retry task is enqueued in the same unit of work.
type DriverPool struct {
	selector services.CandidateSelector
	verifier ports.LicenseVerifier
	policy   AssignmentPolicy
	logger   *slog.Logger
}

func NewDriverPool(
	selector services.CandidateSelector,
	verifier ports.LicenseVerifier,
	policy AssignmentPolicy,
	logger *slog.Logger,
) DriverPool {
	return DriverPool{
		selector: selector,
		verifier: verifier,
		policy:   policy,
		logger:   logger.With("component", "DriverPool"),
	}
}

// Assign runs the assignment algorithm. attempt counts the retries already made for s.
func (p DriverPool) Assign(
	ctx context.Context,
	uow UoW,
	s *shipment.Shipment,
	actor kernel.Actor,
	attempt int,
	now time.Time,
) (Assignment, error) {
	target, err := p.target(ctx, uow, s)
	if err != nil {
		return Assignment{}, err
	}

	drivers := uow.DriverRepository()
	exclude := make([]kernel.UUID, 0, candidatePageSize)

	for range maxCandidatePages {
		pool, err := drivers.ListCandidates(ctx, s.WeightKg(), exclude, candidatePageSize)
		if err != nil {
			return Assignment{}, err
		}
		if len(pool) == 0 {
			break
		}

		for len(pool) > 0 {
			pick := p.selector.Select(pool, target)
			if pick == nil {
				break
			}
			pool = without(pool, pick)
			exclude = append(exclude, pick.ID())

			claimed, err := drivers.ClaimCandidate(ctx, pick.ID(), s.WeightKg())
			if errors.Is(err, errs.ErrObjectNotFound) {
				continue
			}
			if err != nil {
				return Assignment{}, err
			}

			if !p.verifier.Verify(ctx, claimed.LicenseNumber()) {
				claimed.RevokeVerification()
				if err = drivers.Update(ctx, claimed); err != nil {
					return Assignment{}, err
				}
				p.logger.WarnContext(ctx, "license re-verification failed, driver removed from pool",
					"driver_id", claimed.ID().String(),
					"shipment_id", s.ID().String())
				continue
			}

			return p.bind(ctx, uow, s, claimed, actor, now)
		}

		for _, rest := range pool {
			exclude = append(exclude, rest.ID())
		}
	}

	return p.scheduleRetry(ctx, uow, s, attempt, now)
}

func (p DriverPool) bind(
	ctx context.Context,
	uow UoW,
	s *shipment.Shipment,
	d *driver.Profile,
	actor kernel.Actor,
	now time.Time,
) (Assignment, error) {
	if err := d.Claim(); err != nil {
		return Assignment{}, err
	}
	if err := uow.DriverRepository().Update(ctx, d); err != nil {
		return Assignment{}, err
	}

	t, err := s.AssignDriver(d.ID(), now)
	if err != nil {
		return Assignment{}, err
	}
	if err = uow.ShipmentRepository().Update(ctx, s); err != nil {
		return Assignment{}, err
	}
	if err = recordTransition(ctx, uow.AuditTrail(), s, t, actor); err != nil {
		return Assignment{}, err
	}

	p.logger.InfoContext(ctx, "driver assigned",
		"shipment_id", s.ID().String(),
		"driver_id", d.ID().String())
	return Assignment{Driver: d, Transition: t}, nil
}

func (p DriverPool) scheduleRetry(
	ctx context.Context,
	uow UoW,
	s *shipment.Shipment,
	attempt int,
	now time.Time,
) (Assignment, error) {
	next := attempt + 1
	if next > p.policy.MaxRetries {
		p.logger.ErrorContext(ctx, "driver assignment retries exhausted, shipment needs manual dispatch",
			"alert", true,
			"shipment_id", s.ID().String(),
			"tracking_code", s.TrackingCode().String(),
			"attempts", attempt)
		return Assignment{}, nil
	}

	payload, err := json.Marshal(RetryAssignmentPayload{ShipmentID: s.ID().String(), Attempt: next})
	if err != nil {
		return Assignment{}, err
	}

	inserted, err := uow.TaskQueue().Enqueue(ctx, ports.Task{
		ID:        RetryTaskID(s.ID(), next),
		Kind:      ports.TaskAssignDriverRetry,
		Payload:   string(payload),
		NotBefore: now.Add(p.policy.RetryDelay),
	})
	if err != nil {
		return Assignment{}, err
	}
	if !inserted {
		p.logger.InfoContext(ctx, "no driver available, retry already queued",
			"shipment_id", s.ID().String(),
			"attempt", next)
		return Assignment{}, nil
	}

	p.logger.InfoContext(ctx, "no driver available, assignment retry scheduled",
		"shipment_id", s.ID().String(),
		"attempt", next)
	return Assignment{RetryScheduled: true}, nil
}

func (p DriverPool) target(ctx context.Context, uow UoW, s *shipment.Shipment) (services.Target, error) {
	zone, err := uow.CatalogRepository().GetZone(ctx, s.OriginZoneID())
	if err != nil {
		return services.Target{}, err
	}
	return services.Target{WeightKg: s.WeightKg(), Origin: zone.ReferencePoint()}, nil
}

// retryTaskIDs lists every retry task a shipment can have.
func (p DriverPool) retryTaskIDs(shipmentID kernel.UUID) []string {
	ids := make([]string, 0, p.policy.MaxRetries)
	for attempt := 1; attempt <= p.policy.MaxRetries; attempt++ {
		ids = append(ids, RetryTaskID(shipmentID, attempt))
	}
	return ids
}

func without(pool []*driver.Profile, drop *driver.Profile) []*driver.Profile {
	rest := make([]*driver.Profile, 0, len(pool))
	for _, candidate := range pool {
		if !candidate.IsEqual(drop) {
			rest = append(rest, candidate)
		}
	}
	return rest
}
