package notification

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"notiq/internal/common"

	"github.com/hibiken/asynq"
)

// Worker processes delivery tasks from the queue. Per job it marks the
// record processing, dispatches to the channel deliverer, and records
// the terminal outcome. It is the only component allowed to finalize
// status and to consume delivery quota, and every failure path lands on
// a failed transition so no notification is left stuck in processing.
type Worker struct {
	store      Store
	limiter    DeliveryLimiter
	deliverers map[Channel]Deliverer
}

// NewWorker creates a new delivery worker.
func NewWorker(store Store, limiter DeliveryLimiter, deliverers ...Deliverer) *Worker {
	dm := make(map[Channel]Deliverer, len(deliverers))
	for _, d := range deliverers {
		dm[d.Channel()] = d
	}
	return &Worker{
		store:      store,
		limiter:    limiter,
		deliverers: dm,
	}
}

// ProcessTask handles one delivery task from the queue.
func (w *Worker) ProcessTask(ctx context.Context, p *DeliveryPayload) error {
	start := time.Now()

	n, err := w.store.GetByJobID(ctx, p.JobID)
	if err != nil {
		return fmt.Errorf("fetching notification %s: %w", p.JobID, err)
	}
	if n == nil {
		slog.Error("notification record not found", "job_id", p.JobID)
		return fmt.Errorf("notification record not found %s: %w", p.JobID, asynq.SkipRetry)
	}

	// The queue is at-least-once, so the same job can arrive twice.
	// Terminal records stay terminal.
	if n.Status.Terminal() {
		slog.Info("skipping already-finalized notification",
			"job_id", p.JobID,
			"status", n.Status,
		)
		return nil
	}

	if err := w.store.UpdateStatus(ctx, p.JobID, StatusProcessing, ""); err != nil {
		slog.Error("failed to update status to processing", "job_id", p.JobID, "error", err)
	}

	// Re-parse the channel from the raw payload. The API already
	// validated it, but a malformed or stale payload must not reach a
	// deliverer.
	channel, err := ParseChannel(p.DeliveryType)
	if err != nil {
		w.fail(ctx, p.JobID, err.Error())
		return fmt.Errorf("parsing channel for %s: %v: %w", p.JobID, err, asynq.SkipRetry)
	}

	deliverer, ok := w.deliverers[channel]
	if !ok {
		errMsg := fmt.Sprintf("no deliverer registered for channel: %s", channel)
		w.fail(ctx, p.JobID, errMsg)
		return fmt.Errorf("%s: %w", errMsg, asynq.SkipRetry)
	}

	msg := &OutboundMessage{
		UserID: p.UserID,
		Body:   p.Message,
	}

	if err := deliverer.Deliver(ctx, msg); err != nil {
		w.fail(ctx, p.JobID, err.Error())

		slog.Error("notification delivery failed",
			"job_id", p.JobID,
			"user_id", p.UserID,
			"channel", channel,
			"error", err,
			"duration", time.Since(start),
		)
		return common.NewDeliveryError(string(channel), err.Error())
	}

	if err := w.store.UpdateStatus(ctx, p.JobID, StatusDelivered, ""); err != nil {
		slog.Error("failed to update status to delivered", "job_id", p.JobID, "error", err)
	}

	// Quota is consumed only on confirmed success. An increment failure
	// under-counts the quota; it never fails the delivery.
	if err := w.limiter.Increment(ctx, p.UserID); err != nil {
		slog.Error("failed to increment delivery quota", "user_id", p.UserID, "error", err)
	}

	slog.Info("notification delivered",
		"job_id", p.JobID,
		"user_id", p.UserID,
		"channel", channel,
		"duration", time.Since(start),
	)

	return nil
}

// fail transitions a notification to failed with the given error text.
func (w *Worker) fail(ctx context.Context, jobID, errMsg string) {
	if err := w.store.UpdateStatus(ctx, jobID, StatusFailed, errMsg); err != nil {
		slog.Error("failed to update status to failed",
			"job_id", jobID,
			"cause", errMsg,
			"error", err,
		)
	}
}
