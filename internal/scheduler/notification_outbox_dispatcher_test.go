package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"advisormatch_backend/internal/notification/outbox"
	"advisormatch_backend/platform/logger"
)

type fakeClaimer struct {
	records   []outbox.Record
	claimErr  error
	lastLimit int
	requeued  map[uuid.UUID]string
}

func (c *fakeClaimer) ClaimPending(_ context.Context, limit int) ([]outbox.Record, error) {
	c.lastLimit = limit
	if c.claimErr != nil {
		return nil, c.claimErr
	}
	return c.records, nil
}

func (c *fakeClaimer) MarkPending(_ context.Context, id uuid.UUID, lastError *string) error {
	if c.requeued == nil {
		c.requeued = make(map[uuid.UUID]string)
	}
	msg := ""
	if lastError != nil {
		msg = *lastError
	}
	c.requeued[id] = msg
	return nil
}

type fakeEnqueuer struct {
	tasks []*asynq.Task
	err   error
}

func (e *fakeEnqueuer) EnqueueContext(_ context.Context, task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	if e.err != nil {
		return nil, e.err
	}
	e.tasks = append(e.tasks, task)
	return &asynq.TaskInfo{}, nil
}

func newTestDispatcher(claimer *fakeClaimer, enqueuer *fakeEnqueuer) *NotificationOutboxDispatcher {
	return &NotificationOutboxDispatcher{
		enqueuer:     enqueuer,
		queue:        "default",
		repo:         claimer,
		pollInterval: time.Second,
		batchSize:    25,
		log:          logger.New("test"),
	}
}

func TestDispatchDue_EnqueuesEachClaimedRecord(t *testing.T) {
	claimer := &fakeClaimer{records: []outbox.Record{
		{ID: uuid.New(), Kind: "lead.new", RunAt: time.Now().UTC()},
		{ID: uuid.New(), Kind: "lead.assigned", RunAt: time.Now().UTC()},
	}}
	enqueuer := &fakeEnqueuer{}
	d := newTestDispatcher(claimer, enqueuer)

	d.dispatchDue(context.Background())

	if claimer.lastLimit != 25 {
		t.Fatalf("expected claim limit 25, got %d", claimer.lastLimit)
	}
	if len(enqueuer.tasks) != 2 {
		t.Fatalf("expected 2 enqueued tasks, got %d", len(enqueuer.tasks))
	}
	for _, task := range enqueuer.tasks {
		if task.Type() != TaskNotificationOutboxDue {
			t.Fatalf("expected task type %q, got %q", TaskNotificationOutboxDue, task.Type())
		}
	}
	if len(claimer.requeued) != 0 {
		t.Fatalf("expected no requeued records, got %d", len(claimer.requeued))
	}
}

func TestDispatchDue_ReturnsRecordToPendingOnEnqueueFailure(t *testing.T) {
	rec := outbox.Record{ID: uuid.New(), Kind: "lead.new", RunAt: time.Now().UTC()}
	claimer := &fakeClaimer{records: []outbox.Record{rec}}
	enqueuer := &fakeEnqueuer{err: errors.New("redis unavailable")}
	d := newTestDispatcher(claimer, enqueuer)

	d.dispatchDue(context.Background())

	msg, ok := claimer.requeued[rec.ID]
	if !ok {
		t.Fatal("expected the record back in pending after enqueue failure")
	}
	if msg != "redis unavailable" {
		t.Fatalf("expected the enqueue error recorded, got %q", msg)
	}
}

func TestDispatchDue_SkipsBatchOnClaimFailure(t *testing.T) {
	claimer := &fakeClaimer{claimErr: errors.New("connection reset")}
	enqueuer := &fakeEnqueuer{}
	d := newTestDispatcher(claimer, enqueuer)

	d.dispatchDue(context.Background())

	if len(enqueuer.tasks) != 0 {
		t.Fatalf("expected no enqueued tasks, got %d", len(enqueuer.tasks))
	}
}
