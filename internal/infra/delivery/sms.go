package delivery

import (
	"context"
	"errors"
	"log/slog"

	"notiq/internal/domain/notification"
)

var _ notification.Deliverer = (*SMSDeliverer)(nil)

// SMSDeliverer is the SMS channel capability. Like email, provider
// integration is out of scope and delivery is simulated.
type SMSDeliverer struct {
	fail bool
}

// NewSMSDeliverer creates a new SMS deliverer.
// When fail is true every delivery attempt reports failure.
func NewSMSDeliverer(fail bool) *SMSDeliverer {
	return &SMSDeliverer{fail: fail}
}

// Channel returns the SMS channel identifier.
func (d *SMSDeliverer) Channel() notification.Channel {
	return notification.ChannelSMS
}

// Deliver simulates sending an SMS notification.
func (d *SMSDeliverer) Deliver(ctx context.Context, msg *notification.OutboundMessage) error {
	if d.fail {
		return errors.New("failed to deliver sms notification")
	}

	slog.Info("sms notification delivered", "user_id", msg.UserID)
	return nil
}
