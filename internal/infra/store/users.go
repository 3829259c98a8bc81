package store

import (
	"context"
	"encoding/json"
	"fmt"

	"notiq/internal/domain/user"

	supa "github.com/supabase-community/supabase-go"
)

const usersTable = "users"

var _ user.Store = (*SupabaseUserStore)(nil)

// SupabaseUserStore implements user.Store using the Supabase Go SDK.
// The users table carries a serial primary key and a unique index on email.
type SupabaseUserStore struct {
	client *supa.Client
}

// NewSupabaseUserStore creates a new Supabase-backed user store.
func NewSupabaseUserStore(supabaseURL, serviceKey string) (*SupabaseUserStore, error) {
	client, err := supa.NewClient(supabaseURL, serviceKey, nil)
	if err != nil {
		return nil, fmt.Errorf("creating supabase client: %w", err)
	}
	return &SupabaseUserStore{client: client}, nil
}

// userRow is the internal representation for PostgREST insert/select.
type userRow struct {
	ID       int64  `json:"id,omitempty"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Create inserts a new user record and fills in the store-assigned ID.
func (s *SupabaseUserStore) Create(ctx context.Context, u *user.User) error {
	row := userRow{
		Name:     u.Name,
		Email:    u.Email,
		Password: u.Password,
	}

	data, _, err := s.client.From(usersTable).Insert(row, false, "", "representation", "").Execute()
	if err != nil {
		return fmt.Errorf("inserting user: %w", err)
	}

	var results []userRow
	if err := json.Unmarshal(data, &results); err != nil {
		return fmt.Errorf("parsing insert response: %w", err)
	}

	if len(results) > 0 {
		u.ID = results[0].ID
	}

	return nil
}

// GetByEmail retrieves a user by email.
// Returns nil, nil if no record is found.
func (s *SupabaseUserStore) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	data, _, err := s.client.From(usersTable).Select("*", "exact", false).Eq("email", email).Execute()
	if err != nil {
		return nil, fmt.Errorf("fetching user: %w", err)
	}

	var rows []userRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("parsing user: %w", err)
	}

	if len(rows) == 0 {
		return nil, nil
	}

	return &user.User{
		ID:       rows[0].ID,
		Name:     rows[0].Name,
		Email:    rows[0].Email,
		Password: rows[0].Password,
	}, nil
}
