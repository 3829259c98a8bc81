package notification

import (
	"fmt"
	"strings"
	"time"
)

// Channel represents a notification delivery channel.
type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelSMS   Channel = "sms"
)

// ParseChannel converts a raw delivery_type value into a Channel.
// Unknown values are rejected here so nothing downstream ever
// string-matches on an unvalidated channel.
func ParseChannel(raw string) (Channel, error) {
	switch Channel(strings.ToLower(raw)) {
	case ChannelEmail:
		return ChannelEmail, nil
	case ChannelSMS:
		return ChannelSMS, nil
	default:
		return "", fmt.Errorf("invalid delivery_type: %s (must be one of [email sms])", raw)
	}
}

// Status represents the lifecycle state of a notification.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusDelivered  Status = "delivered"
	StatusFailed     Status = "failed"
)

// Terminal reports whether the status is final. Terminal notifications
// are never mutated again; a failed delivery must be resubmitted as a
// new notification.
func (s Status) Terminal() bool {
	return s == StatusDelivered || s == StatusFailed
}

// Notification is a persisted notification record. The numeric ID is
// assigned by the store; JobID is the opaque identifier exposed to
// clients and is unique and immutable once assigned.
type Notification struct {
	ID           int64     `json:"id"`
	JobID        string    `json:"job_id"`
	UserID       int64     `json:"user_id"`
	Message      string    `json:"message"`
	Channel      Channel   `json:"delivery_type"`
	Status       Status    `json:"status"`
	ErrorMessage string    `json:"error_message,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// SendRequest is the API request payload for submitting a notification.
type SendRequest struct {
	Message      string `json:"message" binding:"required"`
	UserID       int64  `json:"user_id" binding:"required"`
	DeliveryType string `json:"delivery_type" binding:"required"`
}

// SendResponse is the API response payload after a notification is enqueued.
type SendResponse struct {
	Message string `json:"message"`
	JobID   string `json:"job_id"`
}

// Response is the client-facing representation of a notification.
type Response struct {
	ID           int64  `json:"id"`
	JobID        string `json:"job_id"`
	UserID       int64  `json:"user_id"`
	Message      string `json:"message"`
	DeliveryType string `json:"delivery_type"`
	Status       string `json:"status"`
}

// UserNotificationsResponse wraps a user's recent notifications.
type UserNotificationsResponse struct {
	Notifications []Response `json:"notifications"`
}

// ToResponse converts a Notification into its client-facing form.
func ToResponse(n *Notification) Response {
	return Response{
		ID:           n.ID,
		JobID:        n.JobID,
		UserID:       n.UserID,
		Message:      n.Message,
		DeliveryType: string(n.Channel),
		Status:       string(n.Status),
	}
}
