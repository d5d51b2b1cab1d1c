package jobs

import (
	"context"
	"log/slog"
	"time"

	"cargo/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

const DefaultPaymentTimeoutSpec = "0 * * * * *"

// PaymentTimeoutJob fails shipments that stayed CONFIRMED longer than the payment timeout.
type PaymentTimeoutJob struct {
	handler   commands.AutoFailUnpaidShipmentsCommandHandler
	spec      string
	timeout   time.Duration
	batchSize int
	cron      *cron.Cron
	logger    *slog.Logger
}

func NewPaymentTimeoutJob(
	handler commands.AutoFailUnpaidShipmentsCommandHandler,
	spec string,
	timeout time.Duration,
	batchSize int,
	logger *slog.Logger,
) *PaymentTimeoutJob {
	if spec == "" {
		spec = DefaultPaymentTimeoutSpec
	}
	return &PaymentTimeoutJob{
		handler:   handler,
		spec:      spec,
		timeout:   timeout,
		batchSize: batchSize,
		cron:      cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger:    logger.With("component", "payment_timeout_job"),
	}
}

func (j *PaymentTimeoutJob) Start(ctx context.Context) error {
	cmd, err := commands.NewAutoFailUnpaidShipmentsCommand(j.timeout, j.batchSize)
	if err != nil {
		return err
	}

	_, err = j.cron.AddFunc(j.spec, func() {
		failed, err := j.handler.Handle(ctx, cmd)
		if err != nil {
			j.logger.ErrorContext(ctx, "Payment timeout sweep failed", "error", err)
			return
		}
		if failed > 0 {
			j.logger.InfoContext(ctx, "Payment timeout sweep failed unpaid shipments", "count", failed)
		}
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(ctx, "Payment timeout job started", "spec", j.spec, "timeout", j.timeout.String())
	return nil
}

func (j *PaymentTimeoutJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info("Payment timeout job stopped")
}
