package notification

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"notiq/internal/common"

	"github.com/google/uuid"
)

// recentLimit caps how many notifications GetRecentByUser returns.
const recentLimit = 10

// Enqueuer defines the contract for enqueuing delivery tasks.
// This allows the service to be decoupled from the specific queue implementation.
type Enqueuer interface {
	EnqueueDelivery(n *Notification) error
}

// Service orchestrates the submission side of the pipeline:
// validate channel → check quota → persist pending record → enqueue.
type Service struct {
	store    Store
	enqueuer Enqueuer
	limiter  DeliveryLimiter
}

// NewService creates a new notification service.
func NewService(store Store, enqueuer Enqueuer, limiter DeliveryLimiter) *Service {
	return &Service{
		store:    store,
		enqueuer: enqueuer,
		limiter:  limiter,
	}
}

// Submit validates a notification request, checks the user's delivery
// quota, persists a pending record, and enqueues the delivery task.
//
// The quota check is advisory: it counts confirmed deliveries, so a user
// can have several submissions in flight before any completes. A limiter
// error fails the request — an unreachable counter store is not treated
// as permission to send.
func (s *Service) Submit(ctx context.Context, req *SendRequest) (*SendResponse, error) {
	// An unknown channel fails the request before any record or job
	// exists. It surfaces as a plain 500 on this endpoint, matching the
	// established public surface (200 | 429 | 500).
	channel, err := ParseChannel(req.DeliveryType)
	if err != nil {
		return nil, fmt.Errorf("parsing delivery_type: %w", err)
	}

	allowed, err := s.limiter.Check(ctx, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("checking delivery quota: %w", err)
	}
	if !allowed {
		return nil, common.NewRateLimitError(req.UserID)
	}

	n := &Notification{
		JobID:   uuid.New().String(),
		UserID:  req.UserID,
		Message: req.Message,
		Channel: channel,
		Status:  StatusPending,
	}

	if err := s.store.Create(ctx, n); err != nil {
		return nil, fmt.Errorf("creating notification: %w", err)
	}

	// The insert above and this enqueue are two separate operations with
	// no shared transaction. If the enqueue returns an error we mark the
	// record failed; a crash between the two leaves a pending orphan that
	// the reaper later re-enqueues.
	if err := s.enqueuer.EnqueueDelivery(n); err != nil {
		_ = s.store.UpdateStatus(ctx, n.JobID, StatusFailed, "failed to enqueue: "+err.Error())
		return nil, fmt.Errorf("enqueuing delivery: %w", err)
	}

	slog.Info("notification queued",
		"job_id", n.JobID,
		"user_id", n.UserID,
		"channel", channel,
	)

	return &SendResponse{
		Message: "Notification queued successfully!",
		JobID:   n.JobID,
	}, nil
}

// GetStatus retrieves a notification by its job_id.
func (s *Service) GetStatus(ctx context.Context, jobID string) (*Notification, error) {
	n, err := s.store.GetByJobID(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("fetching notification: %w", err)
	}
	if n == nil {
		return nil, common.NewNotFoundError("notification", jobID)
	}
	return n, nil
}

// GetRecentByUser retrieves the user's most recent notifications,
// newest first, capped at recentLimit. A user with no notifications is
// a not-found condition rather than an empty result.
func (s *Service) GetRecentByUser(ctx context.Context, userID int64) ([]*Notification, error) {
	notifications, err := s.store.ListByUser(ctx, userID, recentLimit)
	if err != nil {
		return nil, fmt.Errorf("listing notifications: %w", err)
	}
	if len(notifications) == 0 {
		return nil, common.NewNotFoundError("notifications for user", strconv.FormatInt(userID, 10))
	}
	return notifications, nil
}
