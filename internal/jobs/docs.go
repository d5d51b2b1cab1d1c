// Package jobs provides the scheduled background work of the booking service.
//
// Jobs are cron-based (github.com/robfig/cron/v3, six-field specs with seconds):
//
//  1. PaymentTimeoutJob fails CONFIRMED shipments whose payment never arrived.
//  2. TaskDispatchJob drains the durable work queue: driver assignment retries, tax
//     receipt signing and customs manifests. Besides its tick it is woken by
//     LISTEN/NOTIFY whenever a task is committed.
//  3. LicenseReverificationJob restores drivers whose license verifies again.
//
// # Usage
//
//	jobManager := jobs.NewJobManager(paymentTimeoutJob, taskDispatchJob, reverificationJob)
//	if err := jobManager.StartAll(ctx); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Error Handling
//
// Expected outcomes (nothing to sweep, no driver yet) are not logged as errors. A task
// whose handler fails is handed back to the queue, which reschedules it with backoff.
package jobs
