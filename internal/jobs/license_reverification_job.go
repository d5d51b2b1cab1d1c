package jobs

import (
	"context"
	"log/slog"

	"cargo/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

const DefaultLicenseReverificationSpec = "0 0 * * * *"

// LicenseReverificationJob asks the licensing authority again about every driver whose
// license flag is false.
type LicenseReverificationJob struct {
	handler   commands.ReverifyLicensesCommandHandler
	spec      string
	batchSize int
	cron      *cron.Cron
	logger    *slog.Logger
}

func NewLicenseReverificationJob(
	handler commands.ReverifyLicensesCommandHandler,
	spec string,
	batchSize int,
	logger *slog.Logger,
) *LicenseReverificationJob {
	if spec == "" {
		spec = DefaultLicenseReverificationSpec
	}
	return &LicenseReverificationJob{
		handler:   handler,
		spec:      spec,
		batchSize: batchSize,
		cron:      cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger:    logger.With("component", "license_reverification_job"),
	}
}

func (j *LicenseReverificationJob) Start(ctx context.Context) error {
	cmd, err := commands.NewReverifyLicensesCommand(j.batchSize)
	if err != nil {
		return err
	}

	_, err = j.cron.AddFunc(j.spec, func() {
		restored, err := j.handler.Handle(ctx, cmd)
		if err != nil {
			j.logger.ErrorContext(ctx, "License re-verification failed", "error", err)
			return
		}
		j.logger.InfoContext(ctx, "License re-verification finished", "restored", restored)
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(ctx, "License re-verification job started", "spec", j.spec)
	return nil
}

func (j *LicenseReverificationJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info("License re-verification job stopped")
}
