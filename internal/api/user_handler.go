package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/users-api/internal/api/middleware"
	"github.com/phrazzld/users-api/internal/api/shared"
	"github.com/phrazzld/users-api/internal/config"
	"github.com/phrazzld/users-api/internal/platform/logger"
	"github.com/phrazzld/users-api/internal/service"
	"github.com/phrazzld/users-api/internal/service/auth"
)

// UserHandler handles user-related HTTP requests.
type UserHandler struct {
	users            service.UserService
	tokens           auth.TokenService
	issueTokenOnRead bool
	deletePolicy     middleware.Policy
	logger           *slog.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(
	users service.UserService,
	tokens auth.TokenService,
	cfg config.AuthConfig,
	logger *slog.Logger,
) *UserHandler {
	if users == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("users cannot be nil for UserHandler")
	}
	if tokens == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("tokens cannot be nil for UserHandler")
	}
	if logger == nil {
		logger = slog.Default()
	}

	deletePolicy := middleware.PolicyNone
	if cfg.RequireAuthForDelete {
		deletePolicy = middleware.PolicyRequired
	}

	return &UserHandler{
		users:            users,
		tokens:           tokens,
		issueTokenOnRead: cfg.IssueTokenOnRead,
		deletePolicy:     deletePolicy,
		logger:           logger.With(slog.String("component", "user_handler")),
	}
}

// GetUser handles GET /users/{id}.
// The response carries a token for the fetched user when token-on-read is
// enabled, or when the caller is already authenticated as that user.
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request, identity auth.Identity) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, err := getPathID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	user, err := h.users.GetUser(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get user")
		return
	}

	resp := newUserResponse(user)
	if h.issueTokenOnRead || identity.Is(user.ID) {
		token, err := h.tokens.GenerateToken(r.Context(), user.ID)
		if err != nil {
			HandleAPIError(w, r, err, "Failed to generate token")
			return
		}
		resp.Token = token
	}

	log.Debug("user retrieved",
		slog.Int64("user_id", user.ID),
		slog.Bool("token_issued", resp.Token != ""))

	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

// ListUsers handles GET /users.
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request, identity auth.Identity) {
	users, err := h.users.ListUsers(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list users")
		return
	}

	items := make([]UserListItem, 0, len(users))
	for _, u := range users {
		items = append(items, UserListItem{
			ID:   u.ID,
			Name: u.Name,
			Self: identity.Is(u.ID),
		})
	}

	shared.RespondWithJSON(w, r, http.StatusOK, items)
}

// CreateUser handles POST /users.
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request, _ auth.Identity) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req CreateUserRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	user, err := h.users.CreateUser(r.Context(), req.Name)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create user")
		return
	}

	log.Info("user created", slog.Int64("user_id", user.ID))

	shared.RespondWithJSON(w, r, http.StatusCreated, newUserResponse(user))
}

// UpdateMe handles PATCH /users/me. The target is always the authenticated
// user; an id in the body has no effect.
func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request, identity auth.Identity) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := identity.UserID()
	if !ok {
		shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized, "Authentication required", auth.ErrMissingToken)
		return
	}

	var req UpdateUserRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	user, err := h.users.RenameUser(r.Context(), userID, req.Name)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update user")
		return
	}

	log.Info("user renamed", slog.Int64("user_id", user.ID))

	shared.RespondWithJSON(w, r, http.StatusOK, newUserResponse(user))
}

// DeleteUser handles DELETE /users/{id}. Success has an empty body.
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request, identity auth.Identity) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, err := getPathID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if err := h.users.DeleteUser(r.Context(), id); err != nil {
		HandleAPIError(w, r, err, "Failed to delete user")
		return
	}

	callerID, _ := identity.UserID()
	log.Info("user deleted",
		slog.Int64("user_id", id),
		slog.Int64("caller_id", callerID))

	shared.RespondWithStatus(w, http.StatusOK)
}

// DeletePolicy is the policy DELETE /users/{id} is registered with.
func (h *UserHandler) DeletePolicy() middleware.Policy {
	return h.deletePolicy
}
