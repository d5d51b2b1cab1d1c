package commands

import (
	"context"
	"errors"
	"log/slog"

	"cargo/internal/core/domain/model/driver"
	"cargo/internal/core/domain/model/kernel"
	"cargo/internal/core/ports"
	"cargo/internal/pkg/errs"
)

type RegisterDriverCommandHandler struct {
	uowFactory DriverUoWFactory
	verifier   ports.LicenseVerifier
	logger     *slog.Logger
}

func NewRegisterDriverCommandHandler(
	uowFactory DriverUoWFactory,
	verifier ports.LicenseVerifier,
	logger *slog.Logger,
) RegisterDriverCommandHandler {
	return RegisterDriverCommandHandler{
		uowFactory: uowFactory,
		verifier:   verifier,
		logger:     logger.With("component", "RegisterDriverCommandHandler"),
	}
}

// Handle verifies the license with the licensing authority before the profile is
// stored. An unverified profile is kept out of the pool until the re-verification job
// confirms the license.
func (h RegisterDriverCommandHandler) Handle(ctx context.Context, cmd RegisterDriverCommand) (*driver.Profile, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	if err := authorizeSelf(cmd.Actor(), cmd.DriverID(), kernel.CapManageDrivers); err != nil {
		return nil, err
	}

	profile, err := driver.NewProfile(cmd.DriverID(), cmd.LicenseNumber(), cmd.VehiclePlate(), cmd.CapacityKg())
	if err != nil {
		return nil, err
	}

	verified := h.verifier.Verify(ctx, profile.LicenseNumber())
	if verified {
		profile.MarkVerified(true)
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	err = uow.DriverRepository().Add(ctx, profile)
	if errors.Is(err, errs.ErrObjectAlreadyExists) {
		return nil, errors.Join(ErrDriverAlreadyRegistered, err)
	}
	if err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	h.logger.InfoContext(ctx, "driver registered",
		"driver_id", profile.ID().String(),
		"license_verified", verified)
	return profile, nil
}

// authorizeSelf lets admins and the system act on any driver and drivers on their own
// profile only.
func authorizeSelf(actor kernel.Actor, driverID kernel.UUID, capability kernel.Capability) error {
	if err := actor.Authorize(capability); err != nil {
		return err
	}
	if actor.IsSystem() || actor.Is(kernel.RoleAdmin) || actor.IsIdentity(driverID) {
		return nil
	}
	return errs.NewAccessDeniedError(actor.String(), capability.String()+" on driver "+driverID.String())
}
