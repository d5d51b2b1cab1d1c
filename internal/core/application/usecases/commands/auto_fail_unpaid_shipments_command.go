package commands

import (
	"errors"
	"time"

	"cargo/internal/pkg/errs"
	"cargo/internal/pkg/guard"
)

const (
	DefaultPaymentTimeout = 30 * time.Minute
	defaultSweepBatchSize = 100
)

var ErrAutoFailUnpaidShipmentsCommandIsNotConstructed = errors.New(
	"AutoFailUnpaidShipmentsCommand must be created via NewAutoFailUnpaidShipmentsCommand constructor",
)

type AutoFailUnpaidShipmentsCommand struct {
	timeout   time.Duration
	batchSize int

	guard guard.ConstructorGuard
}

func NewAutoFailUnpaidShipmentsCommand(timeout time.Duration, batchSize int) (AutoFailUnpaidShipmentsCommand, error) {
	if timeout <= 0 {
		return AutoFailUnpaidShipmentsCommand{}, errs.NewValueIsOutOfRangeError("timeout", timeout, "1ns", "unbounded")
	}
	if batchSize <= 0 {
		batchSize = defaultSweepBatchSize
	}

	return AutoFailUnpaidShipmentsCommand{
		timeout:   timeout,
		batchSize: batchSize,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c AutoFailUnpaidShipmentsCommand) Validate() error {
	return c.guard.Validate(ErrAutoFailUnpaidShipmentsCommandIsNotConstructed)
}

func (c AutoFailUnpaidShipmentsCommand) Timeout() time.Duration {
	return c.timeout
}

func (c AutoFailUnpaidShipmentsCommand) BatchSize() int {
	return c.batchSize
}
