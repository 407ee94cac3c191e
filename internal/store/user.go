package store

import (
	"context"

	"github.com/phrazzld/users-api/internal/domain"
)

// UserStore defines the interface for user data persistence.
type UserStore interface {
	// Create saves a new user to the store and assigns its ID and timestamps.
	// Returns an error wrapping ErrInvalidEntity and domain.ErrValidation if the name is invalid.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by their unique ID.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id int64) (*domain.User, error)

	// ListOrderedByName returns every user sorted ascending by name using
	// case-sensitive byte ordering. Users with equal names are ordered by ID.
	ListOrderedByName(ctx context.Context) ([]*domain.User, error)

	// Update persists the mutable fields of an existing user.
	// Returns ErrUserNotFound if the user no longer exists.
	Update(ctx context.Context, user *domain.User) error

	// Delete removes a user from the store by their ID.
	// Returns ErrUserNotFound if the user does not exist.
	// This operation is permanent and cannot be undone.
	Delete(ctx context.Context, id int64) error

	// Count returns the number of stored users.
	Count(ctx context.Context) (int, error)
}
