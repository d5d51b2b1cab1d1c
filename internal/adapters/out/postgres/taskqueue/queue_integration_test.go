package taskqueue_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"cargo/internal/adapters/out/postgres/pgtest"
	"cargo/internal/adapters/out/postgres/taskqueue"
	"cargo/internal/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type TaskQueueIntegrationTestSuite struct {
	suite.Suite
	pg    *pgtest.Database
	queue *taskqueue.GormTaskQueue
}

func (suite *TaskQueueIntegrationTestSuite) SetupSuite() {
	pg, err := pgtest.Start(context.Background())
	suite.Require().NoError(err)
	suite.pg = pg
}

func (suite *TaskQueueIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.pg.Truncate(context.Background()))
	suite.queue = taskqueue.NewGormTaskQueue(suite.pg.DB)
}

func (suite *TaskQueueIntegrationTestSuite) TearDownSuite() {
	suite.Require().NoError(suite.pg.Terminate(context.Background()))
}

func (suite *TaskQueueIntegrationTestSuite) stored(id string) taskqueue.TaskDTO {
	var dto taskqueue.TaskDTO
	suite.Require().NoError(suite.pg.DB.Take(&dto, "id = ?", id).Error)
	return dto
}

func (suite *TaskQueueIntegrationTestSuite) enqueue(ctx context.Context, task ports.Task) {
	inserted, err := suite.queue.Enqueue(ctx, task)
	suite.Require().NoError(err)
	suite.Require().True(inserted)
}

func (suite *TaskQueueIntegrationTestSuite) TestEnqueue_IsIdempotent() {
	ctx := context.Background()
	now := time.Now().UTC()
	task := ports.Task{ID: "sign-tax-receipt:p1", Kind: ports.TaskSignTaxReceipt, Payload: "p1", NotBefore: now}

	inserted, err := suite.queue.Enqueue(ctx, task)
	suite.Require().NoError(err)
	suite.True(inserted)

	task.Payload = "changed"
	inserted, err = suite.queue.Enqueue(ctx, task)
	suite.Require().NoError(err)
	suite.False(inserted)

	suite.Equal("p1", suite.stored(task.ID).Payload)
}

func (suite *TaskQueueIntegrationTestSuite) TestClaimDue_OnlyDueTasks() {
	ctx := context.Background()
	now := time.Now().UTC()
	suite.enqueue(ctx, ports.Task{ID: "due", Kind: ports.TaskAssignDriverRetry, NotBefore: now.Add(-time.Second)})
	suite.enqueue(ctx, ports.Task{ID: "later", Kind: ports.TaskAssignDriverRetry, NotBefore: now.Add(time.Hour)})

	claimed, err := suite.queue.ClaimDue(ctx, now, time.Minute, 10)
	suite.Require().NoError(err)
	suite.Require().Len(claimed, 1)
	suite.Equal("due", claimed[0].ID)
	suite.Equal(1, claimed[0].Attempts)

	// a leased task is not handed out twice
	again, err := suite.queue.ClaimDue(ctx, now, time.Minute, 10)
	suite.Require().NoError(err)
	suite.Empty(again)
}

func (suite *TaskQueueIntegrationTestSuite) TestClaimDue_ExpiredLeaseIsReclaimed() {
	ctx := context.Background()
	now := time.Now().UTC()
	suite.enqueue(ctx, ports.Task{ID: "t1", Kind: ports.TaskSignTaxReceipt, NotBefore: now})

	_, err := suite.queue.ClaimDue(ctx, now, time.Minute, 10)
	suite.Require().NoError(err)

	reclaimed, err := suite.queue.ClaimDue(ctx, now.Add(2*time.Minute), time.Minute, 10)
	suite.Require().NoError(err)
	suite.Require().Len(reclaimed, 1)
	suite.Equal(2, reclaimed[0].Attempts)
}

func (suite *TaskQueueIntegrationTestSuite) TestCancel_LeavesClaimedTasks() {
	ctx := context.Background()
	now := time.Now().UTC()
	suite.enqueue(ctx, ports.Task{ID: "a", Kind: ports.TaskAssignDriverRetry, NotBefore: now})
	suite.enqueue(ctx, ports.Task{ID: "b", Kind: ports.TaskAssignDriverRetry, NotBefore: now.Add(time.Hour)})
	_, err := suite.queue.ClaimDue(ctx, now, time.Minute, 10)
	suite.Require().NoError(err)

	suite.Require().NoError(suite.queue.Cancel(ctx, "a", "b", "missing"))

	var n int64
	suite.Require().NoError(suite.pg.DB.Model(&taskqueue.TaskDTO{}).Count(&n).Error)
	suite.Equal(int64(1), n)
	suite.Equal("RUNNING", suite.stored("a").Status)
}

func (suite *TaskQueueIntegrationTestSuite) TestCompleteAndFail() {
	ctx := context.Background()
	now := time.Now().UTC()
	suite.enqueue(ctx, ports.Task{ID: "ok", Kind: ports.TaskSignTaxReceipt, NotBefore: now})
	suite.enqueue(ctx, ports.Task{ID: "bad", Kind: ports.TaskSignTaxReceipt, NotBefore: now})
	_, err := suite.queue.ClaimDue(ctx, now, time.Minute, 10)
	suite.Require().NoError(err)

	suite.Require().NoError(suite.queue.Complete(ctx, "ok"))
	suite.Require().NoError(suite.queue.Fail(ctx, "bad", "signer unavailable"))

	suite.Equal("DONE", suite.stored("ok").Status)
	bad := suite.stored("bad")
	suite.Equal("PENDING", bad.Status)
	suite.Equal("signer unavailable", bad.LastError)
	suite.WithinDuration(now.Add(taskqueue.FailDelay(1)), bad.NotBefore, 30*time.Second)
}

func (suite *TaskQueueIntegrationTestSuite) TestFail_ParksTaskAfterMaxAttempts() {
	ctx := context.Background()
	suite.enqueue(ctx, ports.Task{ID: "flaky", Kind: ports.TaskGenerateCustomsManifest, NotBefore: time.Now().UTC()})
	suite.Require().NoError(suite.pg.DB.Model(&taskqueue.TaskDTO{}).
		Where("id = ?", "flaky").Update("attempts", taskqueue.MaxAttempts).Error)

	suite.Require().NoError(suite.queue.Fail(ctx, "flaky", "boom"))
	suite.Equal("FAILED", suite.stored("flaky").Status)
}

func (suite *TaskQueueIntegrationTestSuite) TestListener_WakesOnCommittedEnqueue() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	listener, err := taskqueue.NewListener(suite.pg.DSN, slog.New(slog.NewTextHandler(io.Discard, nil)))
	suite.Require().NoError(err)
	defer func() { _ = listener.Close() }()

	woke := make(chan struct{}, 1)
	go listener.Run(ctx, func() {
		select {
		case woke <- struct{}{}:
		default:
		}
	})

	suite.enqueue(ctx, ports.Task{ID: "wake", Kind: ports.TaskSignTaxReceipt, NotBefore: time.Now().UTC()})

	select {
	case <-woke:
	case <-ctx.Done():
		suite.Fail("listener was not woken")
	}
}

func TestFailDelay_DoublesUpToCap(t *testing.T) {
	assert.Equal(t, time.Minute, taskqueue.FailDelay(1))
	assert.Equal(t, 2*time.Minute, taskqueue.FailDelay(2))
	assert.Equal(t, 4*time.Minute, taskqueue.FailDelay(3))
	assert.Equal(t, 30*time.Minute, taskqueue.FailDelay(10))
}

func TestTaskQueueIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(TaskQueueIntegrationTestSuite))
}
