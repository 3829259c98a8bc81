package delivery

import (
	"context"
	"errors"
	"log/slog"

	"notiq/internal/domain/notification"
)

var _ notification.Deliverer = (*EmailDeliverer)(nil)

// EmailDeliverer is the email channel capability. Actual provider
// integration is out of scope; delivery is simulated, with an optional
// always-fail switch for exercising the failure path end to end.
type EmailDeliverer struct {
	fail bool
}

// NewEmailDeliverer creates a new email deliverer.
// When fail is true every delivery attempt reports failure.
func NewEmailDeliverer(fail bool) *EmailDeliverer {
	return &EmailDeliverer{fail: fail}
}

// Channel returns the email channel identifier.
func (d *EmailDeliverer) Channel() notification.Channel {
	return notification.ChannelEmail
}

// Deliver simulates sending an email notification.
func (d *EmailDeliverer) Deliver(ctx context.Context, msg *notification.OutboundMessage) error {
	if d.fail {
		return errors.New("failed to deliver email notification")
	}

	slog.Info("email notification delivered", "user_id", msg.UserID)
	return nil
}
