package notification

import "context"

// OutboundMessage is the unit of work handed to a channel deliverer.
type OutboundMessage struct {
	UserID int64
	Body   string
}

// Deliverer defines the contract for a delivery channel capability.
// Implementations live in infra/delivery/.
type Deliverer interface {
	// Deliver attempts to deliver the message to the user.
	Deliver(ctx context.Context, msg *OutboundMessage) error

	// Channel returns which delivery channel this deliverer handles.
	Channel() Channel
}
