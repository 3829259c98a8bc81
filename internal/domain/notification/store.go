package notification

import (
	"context"
	"time"
)

// Store defines the contract for persisting notification records.
// Implementations live in infra/store/ (e.g., Supabase).
type Store interface {
	// Create inserts a new notification record and fills in the
	// store-assigned ID and timestamps.
	Create(ctx context.Context, n *Notification) error

	// GetByJobID retrieves a notification by its job_id.
	// Returns nil, nil if no record is found.
	GetByJobID(ctx context.Context, jobID string) (*Notification, error)

	// ListByUser retrieves up to limit notifications for a user,
	// ordered newest-first by creation time.
	ListByUser(ctx context.Context, userID int64, limit int) ([]*Notification, error)

	// UpdateStatus sets the status of a notification unconditionally,
	// bumping updated_at. errMsg is recorded only when non-empty.
	UpdateStatus(ctx context.Context, jobID string, status Status, errMsg string) error

	// ListStale retrieves notifications stuck in pending/processing for
	// longer than the given threshold. Used by the reaper.
	ListStale(ctx context.Context, olderThan time.Time, limit int) ([]*Notification, error)
}
