package user

import "context"

// Store defines the contract for persisting user records.
// Implementations live in infra/store/.
type Store interface {
	// Create inserts a new user record and fills in the store-assigned ID.
	Create(ctx context.Context, u *User) error

	// GetByEmail retrieves a user by email.
	// Returns nil, nil if no record is found.
	GetByEmail(ctx context.Context, email string) (*User, error)
}
