package commands

import (
	"context"
	"log/slog"

	"cargo/internal/core/domain/model/kernel"
)

const paymentTimeoutReason = "Payment timeout"

// AutoFailUnpaidShipmentsCommandHandler is the payment timeout sweep. It fails CONFIRMED
// shipments whose payment did not arrive in time, one batch per unit of work.
//
// Shipments locked by an in-flight payment callback are skipped and picked up by the
// next run if the callback did not move them.
type AutoFailUnpaidShipmentsCommandHandler struct {
	uowFactory UoWFactory
	capture    PaymentCapture
	logger     *slog.Logger
}

func NewAutoFailUnpaidShipmentsCommandHandler(
	uowFactory UoWFactory,
	capture PaymentCapture,
	logger *slog.Logger,
) AutoFailUnpaidShipmentsCommandHandler {
	return AutoFailUnpaidShipmentsCommandHandler{
		uowFactory: uowFactory,
		capture:    capture,
		logger:     logger.With("component", "AutoFailUnpaidShipmentsCommandHandler"),
	}
}

// Handle returns the number of shipments moved to FAILED.
func (h AutoFailUnpaidShipmentsCommandHandler) Handle(ctx context.Context, cmd AutoFailUnpaidShipmentsCommand) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	now := utcNow()
	stale, err := uow.ShipmentRepository().ListStaleConfirmed(ctx, now.Add(-cmd.Timeout()), cmd.BatchSize())
	if err != nil {
		return 0, err
	}
	if len(stale) == 0 {
		return 0, nil
	}

	var (
		effects afterCommit
		failed  int
		actor   = kernel.SystemActor()
	)
	for _, s := range stale {
		changed, err := h.capture.Fail(ctx, uow, s, paymentTimeoutReason, actor, now, &effects)
		if err != nil {
			return 0, err
		}
		if changed {
			failed++
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return 0, err
	}

	h.logger.InfoContext(ctx, "unpaid shipments failed", "count", failed)
	effects.run(ctx)
	return failed, nil
}
