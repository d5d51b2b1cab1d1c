package commands

import (
	"errors"

	"cargo/internal/pkg/guard"
)

const defaultReverifyBatchSize = 200

var ErrReverifyLicensesCommandIsNotConstructed = errors.New(
	"ReverifyLicensesCommand must be created via NewReverifyLicensesCommand constructor",
)

type ReverifyLicensesCommand struct {
	batchSize int

	guard guard.ConstructorGuard
}

// NewReverifyLicensesCommand falls back to the default batch size for batchSize <= 0.
func NewReverifyLicensesCommand(batchSize int) (ReverifyLicensesCommand, error) {
	if batchSize <= 0 {
		batchSize = defaultReverifyBatchSize
	}
	return ReverifyLicensesCommand{
		batchSize: batchSize,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c ReverifyLicensesCommand) Validate() error {
	return c.guard.Validate(ErrReverifyLicensesCommandIsNotConstructed)
}

func (c ReverifyLicensesCommand) BatchSize() int {
	return c.batchSize
}
