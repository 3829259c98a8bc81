package notification

import "context"

// DeliveryLimiter defines the contract for per-user delivery quotas.
// Check runs at submission time; Increment runs only after a confirmed
// successful delivery, so in-flight submissions never consume quota.
// Implementations live in infra/ratelimit/.
type DeliveryLimiter interface {
	// Check reports whether the user is under their quota for the
	// current window.
	Check(ctx context.Context, userID int64) (bool, error)

	// Increment bumps the user's counter and resets its expiry to
	// now + window.
	Increment(ctx context.Context, userID int64) error
}
