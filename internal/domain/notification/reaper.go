package notification

import (
	"context"
	"log/slog"
	"time"
)

// ReaperConfig holds configuration for the stale record reaper.
type ReaperConfig struct {
	// Interval is how often the reaper scans for stale records.
	Interval time.Duration

	// StaleThreshold is how long a record can stay in pending/processing
	// before the reaper considers it stale and re-enqueues it.
	StaleThreshold time.Duration

	// BatchSize is the maximum number of stale records to recover per cycle.
	BatchSize int
}

// Reaper periodically scans the notification store for records stuck in
// a non-terminal state and re-enqueues them. The insert-then-enqueue
// sequence at submission has no shared transaction, so a crash between
// the two leaves a pending record with no queued job; the store is the
// source of truth and the reaper reconciles the queue against it.
type Reaper struct {
	store    Store
	enqueuer Enqueuer
	config   ReaperConfig
}

// NewReaper creates a new stale record reaper.
func NewReaper(store Store, enqueuer Enqueuer, cfg ReaperConfig) *Reaper {
	if cfg.Interval <= 0 {
		cfg.Interval = 5 * time.Minute
	}
	if cfg.StaleThreshold <= 0 {
		cfg.StaleThreshold = 10 * time.Minute
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 50
	}

	return &Reaper{
		store:    store,
		enqueuer: enqueuer,
		config:   cfg,
	}
}

// Run starts the reaper loop. It blocks until the context is cancelled.
// Should be called in a goroutine.
func (r *Reaper) Run(ctx context.Context) {
	slog.Info("reaper started",
		"interval", r.config.Interval,
		"stale_threshold", r.config.StaleThreshold,
		"batch_size", r.config.BatchSize,
	)

	ticker := time.NewTicker(r.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("reaper stopped")
			return
		case <-ticker.C:
			r.sweep(ctx)
		}
	}
}

// sweep performs one reaper cycle: find stale records and re-enqueue them.
func (r *Reaper) sweep(ctx context.Context) {
	olderThan := time.Now().Add(-r.config.StaleThreshold)

	stale, err := r.store.ListStale(ctx, olderThan, r.config.BatchSize)
	if err != nil {
		slog.Error("reaper: failed to list stale notifications", "error", err)
		return
	}

	if len(stale) == 0 {
		return // Nothing to do — the common case
	}

	slog.Warn("reaper: found stale notifications", "count", len(stale))

	recovered := 0
	for _, n := range stale {
		// Reset to pending before re-enqueuing so the worker picks the
		// record up cleanly.
		if err := r.store.UpdateStatus(ctx, n.JobID, StatusPending, ""); err != nil {
			slog.Error("reaper: failed to reset status",
				"job_id", n.JobID,
				"error", err,
			)
			continue
		}

		if err := r.enqueuer.EnqueueDelivery(n); err != nil {
			slog.Error("reaper: failed to re-enqueue notification",
				"job_id", n.JobID,
				"error", err,
			)
			continue
		}

		recovered++
		slog.Info("reaper: recovered stale notification",
			"job_id", n.JobID,
			"original_status", n.Status,
			"age", time.Since(n.UpdatedAt).Round(time.Second),
		)
	}

	if recovered > 0 {
		slog.Info("reaper: sweep complete", "recovered", recovered, "total_stale", len(stale))
	}
}
