package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"

	"advisormatch_backend/internal/notification/outbox"
	"advisormatch_backend/platform/config"
	"advisormatch_backend/platform/logger"
)

const (
	defaultPollInterval = 2 * time.Second
	defaultBatchSize    = 50
)

// outboxClaimer is the slice of the outbox repository the dispatcher uses.
type outboxClaimer interface {
	ClaimPending(ctx context.Context, limit int) ([]outbox.Record, error)
	MarkPending(ctx context.Context, id uuid.UUID, lastError *string) error
}

// taskEnqueuer matches the asynq client method the dispatcher calls.
type taskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// NotificationOutboxDispatcher polls the notification outbox for pending
// records and hands them to asynq. Claimed records move to enqueued so
// concurrent dispatchers never double-enqueue; a record that cannot be
// handed off is returned to pending with the error recorded.
type NotificationOutboxDispatcher struct {
	client       *asynq.Client
	enqueuer     taskEnqueuer
	queue        string
	repo         outboxClaimer
	pollInterval time.Duration
	batchSize    int
	log          *logger.Logger
}

func NewNotificationOutboxDispatcher(cfg config.SchedulerConfig, pool *pgxpool.Pool, log *logger.Logger) (*NotificationOutboxDispatcher, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}
	pollInterval := cfg.GetOutboxPollInterval()
	if pollInterval <= 0 {
		pollInterval = defaultPollInterval
	}
	batchSize := cfg.GetOutboxBatchSize()
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}

	client := asynq.NewClient(opt)
	return &NotificationOutboxDispatcher{
		client:       client,
		enqueuer:     client,
		queue:        queue,
		repo:         outbox.New(pool),
		pollInterval: pollInterval,
		batchSize:    batchSize,
		log:          log,
	}, nil
}

func (d *NotificationOutboxDispatcher) Close() error {
	if d == nil || d.client == nil {
		return nil
	}
	return d.client.Close()
}

// Run polls until the context is cancelled.
func (d *NotificationOutboxDispatcher) Run(ctx context.Context) {
	if d == nil || d.enqueuer == nil || d.repo == nil {
		return
	}

	ticker := time.NewTicker(d.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		d.dispatchDue(ctx)
	}
}

// dispatchDue claims one batch of due notification records and enqueues a
// delivery task per record, honoring each record's run-at time.
func (d *NotificationOutboxDispatcher) dispatchDue(ctx context.Context) {
	records, err := d.repo.ClaimPending(ctx, d.batchSize)
	if err != nil {
		d.log.Warn("failed to claim due notification records", "error", err)
		return
	}

	for _, rec := range records {
		task, err := NewNotificationOutboxDueTask(NotificationOutboxDuePayload{
			OutboxID: rec.ID.String(),
		})
		if err != nil {
			d.requeue(ctx, rec, err)
			continue
		}

		if _, err := d.enqueuer.EnqueueContext(ctx, task, asynq.ProcessAt(rec.RunAt), asynq.Queue(d.queue)); err != nil {
			d.requeue(ctx, rec, err)
		}
	}
}

// requeue returns a claimed record to pending so the next poll retries it.
func (d *NotificationOutboxDispatcher) requeue(ctx context.Context, rec outbox.Record, cause error) {
	d.log.Warn("failed to hand notification to the task queue",
		"outboxId", rec.ID.String(), "kind", rec.Kind, "error", cause)
	msg := cause.Error()
	if err := d.repo.MarkPending(ctx, rec.ID, &msg); err != nil {
		d.log.Warn("failed to return notification record to pending",
			"outboxId", rec.ID.String(), "error", err)
	}
}
