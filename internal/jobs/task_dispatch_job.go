package jobs

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"cargo/internal/core/ports"

	"github.com/robfig/cron/v3"
)

const DefaultTaskDispatchSpec = "*/15 * * * * *"

// TaskHandler runs one claimed task. A returned error hands the task back to the queue.
type TaskHandler func(ctx context.Context, task ports.Task) error

// WakeSource signals that new tasks may be due, e.g. a LISTEN/NOTIFY listener.
type WakeSource interface {
	Run(ctx context.Context, wake func())
}

// DispatchPolicy bounds one dispatch round.
type DispatchPolicy struct {
	Lease     time.Duration
	BatchSize int
	// MaxAttempts is the attempt count at which the queue parks a failing task.
	MaxAttempts int
}

func DefaultDispatchPolicy() DispatchPolicy {
	return DispatchPolicy{Lease: 2 * time.Minute, BatchSize: 20, MaxAttempts: 5}
}

// TaskDispatchJob claims due tasks and routes them by kind. Rounds never overlap: a
// wake-up arriving during a round is folded into one follow-up round.
type TaskDispatchJob struct {
	queue  ports.TaskQueue
	routes map[ports.TaskKind]TaskHandler
	wakes  WakeSource
	spec   string
	policy DispatchPolicy
	cron   *cron.Cron
	logger *slog.Logger

	mu      sync.Mutex
	pending chan struct{}
	cancel  context.CancelFunc
	done    sync.WaitGroup
}

// NewTaskDispatchJob creates the dispatcher. wakes may be nil, then only the cron tick
// drives it.
func NewTaskDispatchJob(
	queue ports.TaskQueue,
	routes map[ports.TaskKind]TaskHandler,
	wakes WakeSource,
	spec string,
	policy DispatchPolicy,
	logger *slog.Logger,
) *TaskDispatchJob {
	if spec == "" {
		spec = DefaultTaskDispatchSpec
	}
	return &TaskDispatchJob{
		queue:   queue,
		routes:  routes,
		wakes:   wakes,
		spec:    spec,
		policy:  policy,
		cron:    cron.New(cron.WithSeconds()),
		logger:  logger.With("component", "task_dispatch_job"),
		pending: make(chan struct{}, 1),
	}
}

func (j *TaskDispatchJob) Start(ctx context.Context) error {
	if _, err := j.cron.AddFunc(j.spec, j.Wake); err != nil {
		return err
	}

	ctx, j.cancel = context.WithCancel(ctx)

	j.done.Add(1)
	go func() {
		defer j.done.Done()
		j.loop(ctx)
	}()

	if j.wakes != nil {
		j.done.Add(1)
		go func() {
			defer j.done.Done()
			j.wakes.Run(ctx, j.Wake)
		}()
	}

	j.cron.Start()
	j.Wake()
	j.logger.InfoContext(ctx, "Task dispatch job started", "spec", j.spec, "listening", j.wakes != nil)
	return nil
}

func (j *TaskDispatchJob) Stop() {
	<-j.cron.Stop().Done()
	if j.cancel != nil {
		j.cancel()
	}
	j.done.Wait()
	j.logger.Info("Task dispatch job stopped")
}

// Wake requests a dispatch round without blocking.
func (j *TaskDispatchJob) Wake() {
	select {
	case j.pending <- struct{}{}:
	default:
	}
}

func (j *TaskDispatchJob) loop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-j.pending:
			for {
				n := j.Dispatch(ctx)
				// A full batch means more may be due right now.
				if n < j.policy.BatchSize || ctx.Err() != nil {
					break
				}
			}
		}
	}
}

// Dispatch runs one round and returns the number of tasks it claimed.
func (j *TaskDispatchJob) Dispatch(ctx context.Context) int {
	j.mu.Lock()
	defer j.mu.Unlock()

	tasks, err := j.queue.ClaimDue(ctx, time.Now().UTC(), j.policy.Lease, j.policy.BatchSize)
	if err != nil {
		j.logger.ErrorContext(ctx, "Claiming due tasks failed", "error", err)
		return 0
	}

	for _, task := range tasks {
		j.run(ctx, task)
	}
	return len(tasks)
}

func (j *TaskDispatchJob) run(ctx context.Context, task ports.Task) {
	logger := j.logger.With("task_id", task.ID, "kind", string(task.Kind), "attempt", task.Attempts)

	handler, ok := j.routes[task.Kind]
	if !ok {
		logger.ErrorContext(ctx, "No handler for task kind", "alert", true)
		j.fail(ctx, logger, task, "no handler for task kind")
		return
	}

	if err := handler(ctx, task); err != nil {
		logger.WarnContext(ctx, "Task failed", "error", err)
		j.fail(ctx, logger, task, err.Error())
		return
	}

	if err := j.queue.Complete(ctx, task.ID); err != nil {
		// The lease runs out and the task is replayed; handlers are idempotent.
		logger.ErrorContext(ctx, "Completing task failed", "error", err)
	}
}

func (j *TaskDispatchJob) fail(ctx context.Context, logger *slog.Logger, task ports.Task, reason string) {
	if err := j.queue.Fail(ctx, task.ID, reason); err != nil {
		logger.ErrorContext(ctx, "Failing task failed", "error", err)
		return
	}
	if j.policy.MaxAttempts > 0 && task.Attempts >= j.policy.MaxAttempts {
		logger.ErrorContext(ctx, "Task gave up after max attempts", "alert", true, "reason", reason)
	}
}
