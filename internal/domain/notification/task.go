package notification

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

// TaskTypeDeliver is the asynq task type for delivering notifications.
const TaskTypeDeliver = "notification:deliver"

// DeliveryPayload is the serialized payload for a delivery task. It
// carries everything the worker needs to execute delivery without a
// round trip for the message body. DeliveryType stays a raw string on
// the wire and is re-parsed by the worker as a defensive second check.
type DeliveryPayload struct {
	JobID          string `json:"job_id"`
	UserID         int64  `json:"user_id"`
	NotificationID int64  `json:"notification_id"`
	Message        string `json:"message"`
	DeliveryType   string `json:"delivery_type"`
}

// NewDeliveryTask creates a new asynq task for delivering a notification.
func NewDeliveryTask(n *Notification) (*asynq.Task, error) {
	payload, err := json.Marshal(DeliveryPayload{
		JobID:          n.JobID,
		UserID:         n.UserID,
		NotificationID: n.ID,
		Message:        n.Message,
		DeliveryType:   string(n.Channel),
	})
	if err != nil {
		return nil, fmt.Errorf("marshaling task payload: %w", err)
	}
	return asynq.NewTask(TaskTypeDeliver, payload), nil
}

// ParseDeliveryPayload deserializes the task payload.
func ParseDeliveryPayload(data []byte) (*DeliveryPayload, error) {
	var p DeliveryPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("unmarshaling task payload: %w", err)
	}
	return &p, nil
}
