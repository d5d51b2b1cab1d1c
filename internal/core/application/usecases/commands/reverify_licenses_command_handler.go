package commands

import (
	"context"
	"log/slog"

	"cargo/internal/core/domain/model/kernel"
	"cargo/internal/core/ports"
)

// ReverifyLicensesCommandHandler restores drivers whose license check failed earlier.
//
// Licenses are checked without holding any row; each restored profile is then updated in
// its own short unit of work so a slow authority never blocks assignment.
type ReverifyLicensesCommandHandler struct {
	uowFactory DriverUoWFactory
	verifier   ports.LicenseVerifier
	logger     *slog.Logger
}

func NewReverifyLicensesCommandHandler(
	uowFactory DriverUoWFactory,
	verifier ports.LicenseVerifier,
	logger *slog.Logger,
) ReverifyLicensesCommandHandler {
	return ReverifyLicensesCommandHandler{
		uowFactory: uowFactory,
		verifier:   verifier,
		logger:     logger.With("component", "ReverifyLicensesCommandHandler"),
	}
}

// Handle returns the number of restored drivers.
func (h ReverifyLicensesCommandHandler) Handle(ctx context.Context, cmd ReverifyLicensesCommand) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	unverified, err := h.uowFactory.Create().DriverRepository().ListUnverified(ctx, cmd.BatchSize())
	if err != nil {
		return 0, err
	}

	restored := 0
	for _, candidate := range unverified {
		if ctx.Err() != nil {
			return restored, ctx.Err()
		}
		if !h.verifier.Verify(ctx, candidate.LicenseNumber()) {
			continue
		}
		if err = h.restore(ctx, candidate.ID()); err != nil {
			h.logger.ErrorContext(ctx, "failed to restore verified driver",
				"driver_id", candidate.ID().String(),
				"error", err)
			continue
		}
		restored++
	}

	if restored > 0 {
		h.logger.InfoContext(ctx, "driver licenses re-verified", "restored", restored, "checked", len(unverified))
	}
	return restored, nil
}

// restore re-reads the profile under lock. Unverified drivers are never on a trip, so a
// confirmed license puts them back in the pool.
func (h ReverifyLicensesCommandHandler) restore(ctx context.Context, id kernel.UUID) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	drivers := uow.DriverRepository()
	d, err := drivers.GetForUpdate(ctx, id)
	if err != nil {
		return err
	}
	if d.IsLicenseVerified() {
		return nil
	}

	d.MarkVerified(true)
	if err = drivers.Update(ctx, d); err != nil {
		return err
	}
	return uow.Commit(ctx)
}
