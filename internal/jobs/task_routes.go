package jobs

import (
	"context"
	"encoding/json"
	"fmt"

	"cargo/internal/core/application/usecases/commands"
	"cargo/internal/core/domain/model/kernel"
	"cargo/internal/core/ports"
	"cargo/internal/pkg/errs"
)

// NewTaskRoutes binds every task kind to its command handler. Queued work always runs
// as the system actor.
func NewTaskRoutes(
	assign commands.AssignDriverCommandHandler,
	sign commands.SignTaxReceiptCommandHandler,
	manifest commands.GenerateCustomsManifestCommandHandler,
) map[ports.TaskKind]TaskHandler {
	return map[ports.TaskKind]TaskHandler{
		ports.TaskAssignDriverRetry: func(ctx context.Context, task ports.Task) error {
			var payload commands.RetryAssignmentPayload
			shipmentID, err := decodePayload(task, &payload, func() string { return payload.ShipmentID })
			if err != nil {
				return err
			}
			cmd, err := commands.NewAssignDriverCommand(kernel.SystemActor(), shipmentID, payload.Attempt)
			if err != nil {
				return err
			}
			_, err = assign.Handle(ctx, cmd)
			return err
		},
		ports.TaskSignTaxReceipt: func(ctx context.Context, task ports.Task) error {
			var payload commands.SignTaxReceiptPayload
			paymentID, err := decodePayload(task, &payload, func() string { return payload.PaymentID })
			if err != nil {
				return err
			}
			cmd, err := commands.NewSignTaxReceiptCommand(paymentID)
			if err != nil {
				return err
			}
			return sign.Handle(ctx, cmd)
		},
		ports.TaskGenerateCustomsManifest: func(ctx context.Context, task ports.Task) error {
			var payload commands.CustomsManifestPayload
			shipmentID, err := decodePayload(task, &payload, func() string { return payload.ShipmentID })
			if err != nil {
				return err
			}
			cmd, err := commands.NewGenerateCustomsManifestCommand(kernel.SystemActor(), shipmentID)
			if err != nil {
				return err
			}
			_, err = manifest.Handle(ctx, cmd)
			return err
		},
	}
}

// decodePayload unmarshals the task payload into dst and parses the id it names.
func decodePayload(task ports.Task, dst any, id func() string) (kernel.UUID, error) {
	if err := json.Unmarshal([]byte(task.Payload), dst); err != nil {
		return kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause("payload",
			fmt.Errorf("task %s: %w", task.ID, err))
	}
	return kernel.UUIDFromString(id())
}
