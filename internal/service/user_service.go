package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/users-api/internal/domain"
	"github.com/phrazzld/users-api/internal/platform/logger"
	"github.com/phrazzld/users-api/internal/store"
)

// UserService provides the user use cases exposed by the HTTP API.
type UserService interface {
	// GetUser retrieves a user by their ID
	GetUser(ctx context.Context, userID int64) (*domain.User, error)

	// ListUsers returns every user ordered by name
	ListUsers(ctx context.Context) ([]*domain.User, error)

	// CreateUser validates name and stores a new user
	CreateUser(ctx context.Context, name string) (*domain.User, error)

	// RenameUser changes the name of an existing user.
	// The full user is loaded first, the name replaced, and the complete
	// object handed back to the store.
	RenameUser(ctx context.Context, userID int64, name string) (*domain.User, error)

	// DeleteUser deletes a user by their ID
	DeleteUser(ctx context.Context, userID int64) error
}

// UserServiceImpl implements the UserService interface
type UserServiceImpl struct {
	userStore store.UserStore
	logger    *slog.Logger
}

var _ UserService = (*UserServiceImpl)(nil)

// NewUserService creates a new UserService
func NewUserService(userStore store.UserStore, logger *slog.Logger) UserService {
	if userStore == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("userStore cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &UserServiceImpl{
		userStore: userStore,
		logger:    logger.With("component", "user_service"),
	}
}

// GetUser retrieves a user by their ID
func (s *UserServiceImpl) GetUser(ctx context.Context, userID int64) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := s.userStore.GetByID(ctx, userID)
	if err != nil {
		logStoreError(log, "failed to retrieve user", err, userID)
		return nil, fmt.Errorf("failed to retrieve user: %w", err)
	}

	log.Debug("retrieved user successfully", "user_id", userID)
	return user, nil
}

// ListUsers returns every user ordered by name
func (s *UserServiceImpl) ListUsers(ctx context.Context) ([]*domain.User, error) {
	users, err := s.userStore.ListOrderedByName(ctx)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list users", "error", err)
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// CreateUser validates name and stores a new user
func (s *UserServiceImpl) CreateUser(ctx context.Context, name string) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := domain.NewUser(name)
	if err != nil {
		log.Debug("rejected user creation", "error", err)
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if err := s.userStore.Create(ctx, user); err != nil {
		log.Error("failed to save user", "error", err)
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	log.Info("user created", "user_id", user.ID)
	return user, nil
}

// RenameUser changes the name of an existing user
func (s *UserServiceImpl) RenameUser(ctx context.Context, userID int64, name string) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := s.userStore.GetByID(ctx, userID)
	if err != nil {
		logStoreError(log, "failed to retrieve user for rename", err, userID)
		return nil, fmt.Errorf("failed to retrieve user for update: %w", err)
	}

	if err := user.Rename(name); err != nil {
		log.Debug("rejected rename", "error", err, "user_id", userID)
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	if err := s.userStore.Update(ctx, user); err != nil {
		logStoreError(log, "failed to update user", err, userID)
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	log.Info("user renamed", "user_id", userID)
	return user, nil
}

// DeleteUser deletes a user by their ID
func (s *UserServiceImpl) DeleteUser(ctx context.Context, userID int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := s.userStore.Delete(ctx, userID); err != nil {
		logStoreError(log, "failed to delete user", err, userID)
		return fmt.Errorf("failed to delete user: %w", err)
	}

	log.Info("user deleted", "user_id", userID)
	return nil
}

// logStoreError logs missing users at debug level and everything else as an error.
func logStoreError(log *slog.Logger, msg string, err error, userID int64) {
	if store.IsNotFoundError(err) {
		log.Debug(msg, "error", err, "user_id", userID)
		return
	}
	log.Error(msg, "error", err, "user_id", userID)
}
