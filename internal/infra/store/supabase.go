package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"notiq/internal/domain/notification"

	"github.com/supabase-community/postgrest-go"
	supa "github.com/supabase-community/supabase-go"
)

const notificationsTable = "notifications"

var _ notification.Store = (*SupabaseStore)(nil)

// SupabaseStore implements notification.Store using the Supabase Go SDK.
// The notifications table carries a serial primary key, a unique index
// on job_id, and server-assigned created_at/updated_at timestamps.
type SupabaseStore struct {
	client *supa.Client
}

// NewSupabaseStore creates a new Supabase-backed notification store.
func NewSupabaseStore(supabaseURL, serviceKey string) (*SupabaseStore, error) {
	client, err := supa.NewClient(supabaseURL, serviceKey, nil)
	if err != nil {
		return nil, fmt.Errorf("creating supabase client: %w", err)
	}
	return &SupabaseStore{client: client}, nil
}

// notificationRow is the internal representation for PostgREST insert/update.
type notificationRow struct {
	ID           int64   `json:"id,omitempty"`
	JobID        string  `json:"job_id"`
	UserID       int64   `json:"user_id"`
	Message      string  `json:"message"`
	DeliveryType string  `json:"delivery_type"`
	Status       string  `json:"status"`
	ErrorMessage *string `json:"error_message,omitempty"`
	CreatedAt    string  `json:"created_at,omitempty"`
	UpdatedAt    string  `json:"updated_at,omitempty"`
}

// Create inserts a new notification record and fills in the
// store-assigned ID and timestamps.
func (s *SupabaseStore) Create(ctx context.Context, n *notification.Notification) error {
	row := notificationRow{
		JobID:        n.JobID,
		UserID:       n.UserID,
		Message:      n.Message,
		DeliveryType: string(n.Channel),
		Status:       string(n.Status),
	}

	// Insert and get the created row back
	data, _, err := s.client.From(notificationsTable).Insert(row, false, "", "representation", "").Execute()
	if err != nil {
		return fmt.Errorf("inserting notification: %w", err)
	}

	var results []notificationRow
	if err := json.Unmarshal(data, &results); err != nil {
		return fmt.Errorf("parsing insert response: %w", err)
	}

	if len(results) > 0 {
		n.ID = results[0].ID
		if t, err := time.Parse(time.RFC3339Nano, results[0].CreatedAt); err == nil {
			n.CreatedAt = t
		}
		if t, err := time.Parse(time.RFC3339Nano, results[0].UpdatedAt); err == nil {
			n.UpdatedAt = t
		}
	}

	return nil
}

// GetByJobID retrieves a notification by its job_id.
// Returns nil, nil if no record is found.
func (s *SupabaseStore) GetByJobID(ctx context.Context, jobID string) (*notification.Notification, error) {
	data, _, err := s.client.From(notificationsTable).Select("*", "exact", false).Eq("job_id", jobID).Execute()
	if err != nil {
		return nil, fmt.Errorf("fetching notification: %w", err)
	}

	var rows []notificationRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("parsing notification: %w", err)
	}

	if len(rows) == 0 {
		return nil, nil
	}

	return rowToNotification(&rows[0]), nil
}

// ListByUser retrieves up to limit notifications for a user,
// ordered newest-first by creation time.
func (s *SupabaseStore) ListByUser(ctx context.Context, userID int64, limit int) ([]*notification.Notification, error) {
	if limit <= 0 {
		limit = 10
	}

	data, _, err := s.client.From(notificationsTable).
		Select("*", "exact", false).
		Eq("user_id", strconv.FormatInt(userID, 10)).
		Order("created_at", &postgrest.OrderOpts{Ascending: false}).
		Range(0, limit-1, "").
		Execute()
	if err != nil {
		return nil, fmt.Errorf("listing notifications for user: %w", err)
	}

	var rows []notificationRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("parsing notification list: %w", err)
	}

	notifications := make([]*notification.Notification, len(rows))
	for i, row := range rows {
		notifications[i] = rowToNotification(&row)
	}

	return notifications, nil
}

// UpdateStatus sets the status of a notification, bumping updated_at.
func (s *SupabaseStore) UpdateStatus(ctx context.Context, jobID string, status notification.Status, errMsg string) error {
	update := map[string]any{
		"status":     string(status),
		"updated_at": time.Now().UTC().Format(time.RFC3339Nano),
	}

	if errMsg != "" {
		update["error_message"] = errMsg
	}

	_, _, err := s.client.From(notificationsTable).Update(update, "", "").Eq("job_id", jobID).Execute()
	if err != nil {
		return fmt.Errorf("updating notification status: %w", err)
	}

	return nil
}

// ListStale retrieves notifications stuck in pending/processing for longer than olderThan.
func (s *SupabaseStore) ListStale(ctx context.Context, olderThan time.Time, limit int) ([]*notification.Notification, error) {
	if limit <= 0 {
		limit = 50
	}

	threshold := olderThan.UTC().Format(time.RFC3339Nano)

	data, _, err := s.client.From(notificationsTable).
		Select("*", "exact", false).
		In("status", []string{string(notification.StatusPending), string(notification.StatusProcessing)}).
		Lt("updated_at", threshold).
		Order("updated_at", &postgrest.OrderOpts{Ascending: true}).
		Range(0, limit-1, "").
		Execute()
	if err != nil {
		return nil, fmt.Errorf("listing stale notifications: %w", err)
	}

	var rows []notificationRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("parsing stale notifications: %w", err)
	}

	notifications := make([]*notification.Notification, len(rows))
	for i, row := range rows {
		notifications[i] = rowToNotification(&row)
	}

	return notifications, nil
}

// rowToNotification converts a notificationRow to a Notification.
func rowToNotification(row *notificationRow) *notification.Notification {
	n := &notification.Notification{
		ID:      row.ID,
		JobID:   row.JobID,
		UserID:  row.UserID,
		Message: row.Message,
		Channel: notification.Channel(row.DeliveryType),
		Status:  notification.Status(row.Status),
	}

	if row.ErrorMessage != nil {
		n.ErrorMessage = *row.ErrorMessage
	}

	if row.CreatedAt != "" {
		if t, err := time.Parse(time.RFC3339Nano, row.CreatedAt); err == nil {
			n.CreatedAt = t
		}
	}
	if row.UpdatedAt != "" {
		if t, err := time.Parse(time.RFC3339Nano, row.UpdatedAt); err == nil {
			n.UpdatedAt = t
		}
	}

	return n
}
