package memory

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/phrazzld/users-api/internal/domain"
	"github.com/phrazzld/users-api/internal/platform/logger"
	"github.com/phrazzld/users-api/internal/store"
)

// UserStore keeps users in a map guarded by a RWMutex.
// IDs start at 1 and are never reused.
type UserStore struct {
	mu     sync.RWMutex
	users  map[int64]domain.User
	nextID int64
	logger *slog.Logger
}

var _ store.UserStore = (*UserStore)(nil)

// NewUserStore returns an empty store. A nil logger falls back to slog.Default.
func NewUserStore(logger *slog.Logger) *UserStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &UserStore{
		users:  make(map[int64]domain.User),
		nextID: 1,
		logger: logger.With(slog.String("component", "memory_user_store")),
	}
}

// Create implements store.UserStore.Create
func (s *UserStore) Create(ctx context.Context, user *domain.User) error {
	if err := domain.ValidateName(user.Name); err != nil {
		return store.InvalidEntity(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	user.ID = s.nextID
	user.CreatedAt = now
	user.UpdatedAt = now
	s.nextID++
	s.users[user.ID] = *user

	logger.FromContextOrDefault(ctx, s.logger).
		Debug("user created", slog.Int64("user_id", user.ID))
	return nil
}

// GetByID implements store.UserStore.GetByID
func (s *UserStore) GetByID(_ context.Context, id int64) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	return &user, nil
}

// ListOrderedByName implements store.UserStore.ListOrderedByName.
// Go string comparison is byte-wise, which matches COLLATE "C".
func (s *UserStore) ListOrderedByName(_ context.Context) ([]*domain.User, error) {
	s.mu.RLock()
	users := make([]*domain.User, 0, len(s.users))
	for _, u := range s.users {
		u := u
		users = append(users, &u)
	}
	s.mu.RUnlock()

	sort.Slice(users, func(i, j int) bool {
		if users[i].Name != users[j].Name {
			return users[i].Name < users[j].Name
		}
		return users[i].ID < users[j].ID
	})
	return users, nil
}

// Update implements store.UserStore.Update
func (s *UserStore) Update(ctx context.Context, user *domain.User) error {
	if err := user.Validate(); err != nil {
		return store.InvalidEntity(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.users[user.ID]
	if !ok {
		return store.ErrUserNotFound
	}

	existing.Name = user.Name
	existing.UpdatedAt = time.Now().UTC()
	s.users[user.ID] = existing
	user.CreatedAt = existing.CreatedAt
	user.UpdatedAt = existing.UpdatedAt

	logger.FromContextOrDefault(ctx, s.logger).
		Debug("user updated", slog.Int64("user_id", user.ID))
	return nil
}

// Delete implements store.UserStore.Delete
func (s *UserStore) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return store.ErrUserNotFound
	}
	delete(s.users, id)

	logger.FromContextOrDefault(ctx, s.logger).
		Debug("user deleted", slog.Int64("user_id", id))
	return nil
}

// Count implements store.UserStore.Count
func (s *UserStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users), nil
}
