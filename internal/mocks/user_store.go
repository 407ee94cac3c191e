package mocks

import (
	"context"

	"github.com/phrazzld/users-api/internal/domain"
	"github.com/phrazzld/users-api/internal/store"
)

// MockUserStore implements store.UserStore for testing.
// Each method delegates to its function field when set and otherwise
// returns the matching default error (nil values for lookups).
type MockUserStore struct {
	CreateFn            func(ctx context.Context, user *domain.User) error
	GetByIDFn           func(ctx context.Context, id int64) (*domain.User, error)
	ListOrderedByNameFn func(ctx context.Context) ([]*domain.User, error)
	UpdateFn            func(ctx context.Context, user *domain.User) error
	DeleteFn            func(ctx context.Context, id int64) error
	CountFn             func(ctx context.Context) (int, error)

	// Err is returned by every method without a function field.
	Err error
}

var _ store.UserStore = (*MockUserStore)(nil)

// Create implements the UserStore interface
func (m *MockUserStore) Create(ctx context.Context, user *domain.User) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, user)
	}
	return m.Err
}

// GetByID implements the UserStore interface
func (m *MockUserStore) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	if m.Err != nil {
		return nil, m.Err
	}
	return nil, store.ErrUserNotFound
}

// ListOrderedByName implements the UserStore interface
func (m *MockUserStore) ListOrderedByName(ctx context.Context) ([]*domain.User, error) {
	if m.ListOrderedByNameFn != nil {
		return m.ListOrderedByNameFn(ctx)
	}
	return []*domain.User{}, m.Err
}

// Update implements the UserStore interface
func (m *MockUserStore) Update(ctx context.Context, user *domain.User) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, user)
	}
	return m.Err
}

// Delete implements the UserStore interface
func (m *MockUserStore) Delete(ctx context.Context, id int64) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	return m.Err
}

// Count implements the UserStore interface
func (m *MockUserStore) Count(ctx context.Context) (int, error) {
	if m.CountFn != nil {
		return m.CountFn(ctx)
	}
	return 0, m.Err
}
