package api

import "github.com/phrazzld/users-api/internal/domain"

// CreateUserRequest defines the payload for POST /users.
type CreateUserRequest struct {
	Name string `json:"name" validate:"required,max=255"`
}

// UpdateUserRequest defines the payload for PATCH /users/me.
// Only the name can change; an id in the body is ignored.
type UpdateUserRequest struct {
	Name string `json:"name" validate:"required,max=255"`
}

// UserResponse is the representation of a single user.
type UserResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`

	// Token authenticates as this user. Only present on GET /users/{id}.
	Token string `json:"token,omitempty"`
}

// UserListItem is one row of GET /users.
type UserListItem struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`

	// Self is true when the caller is authenticated as this user.
	Self bool `json:"self"`
}

func newUserResponse(u *domain.User) UserResponse {
	return UserResponse{ID: u.ID, Name: u.Name}
}
