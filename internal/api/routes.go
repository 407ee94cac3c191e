package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/users-api/internal/api/middleware"
	"github.com/phrazzld/users-api/internal/api/shared"
)

// Route is one entry of the route catalog. The router and the API document
// are both built from the catalog, so a route is served with exactly the
// policy it is documented with.
type Route struct {
	Method      string
	Pattern     string
	OperationID string
	Summary     string
	Tag         string
	Policy      middleware.Policy

	// Request is a zero value of the JSON body type, or nil when the route takes no body.
	Request interface{}

	// Responses maps status codes to a zero value of the body type; nil means no body.
	Responses map[int]interface{}

	Handler middleware.IdentityHandlerFunc
}

// Routes returns the user route catalog bound to h.
func Routes(h *UserHandler) []Route {
	errorBody := shared.ErrorResponse{}

	return []Route{
		{
			Method:      http.MethodGet,
			Pattern:     "/users",
			OperationID: "listUsers",
			Summary:     "List all users ordered by name",
			Tag:         "users",
			Policy:      middleware.PolicyOptional,
			Responses: map[int]interface{}{
				http.StatusOK: []UserListItem{},
			},
			Handler: h.ListUsers,
		},
		{
			Method:      http.MethodPost,
			Pattern:     "/users",
			OperationID: "createUser",
			Summary:     "Create a user",
			Tag:         "users",
			Policy:      middleware.PolicyNone,
			Request:     CreateUserRequest{},
			Responses: map[int]interface{}{
				http.StatusCreated:    UserResponse{},
				http.StatusBadRequest: errorBody,
			},
			Handler: h.CreateUser,
		},
		{
			Method:      http.MethodPatch,
			Pattern:     "/users/me",
			OperationID: "updateMe",
			Summary:     "Rename the authenticated user",
			Tag:         "users",
			Policy:      middleware.PolicyRequired,
			Request:     UpdateUserRequest{},
			Responses: map[int]interface{}{
				http.StatusOK:           UserResponse{},
				http.StatusBadRequest:   errorBody,
				http.StatusUnauthorized: errorBody,
				http.StatusNotFound:     errorBody,
			},
			Handler: h.UpdateMe,
		},
		{
			Method:      http.MethodGet,
			Pattern:     "/users/{id}",
			OperationID: "getUser",
			Summary:     "Get a user by id",
			Tag:         "users",
			Policy:      middleware.PolicyOptional,
			Responses: map[int]interface{}{
				http.StatusOK:         UserResponse{},
				http.StatusBadRequest: errorBody,
				http.StatusNotFound:   errorBody,
			},
			Handler: h.GetUser,
		},
		{
			Method:      http.MethodDelete,
			Pattern:     "/users/{id}",
			OperationID: "deleteUser",
			Summary:     "Delete a user by id",
			Tag:         "users",
			Policy:      h.DeletePolicy(),
			Responses: map[int]interface{}{
				http.StatusOK:         nil,
				http.StatusBadRequest: errorBody,
				http.StatusNotFound:   errorBody,
			},
			Handler: h.DeleteUser,
		},
	}
}

// Register mounts every route on r behind its declared policy.
func Register(r chi.Router, routes []Route, mw *middleware.AuthMiddleware) {
	for _, route := range routes {
		r.Method(route.Method, route.Pattern, mw.Wrap(route.Policy, route.Handler))
	}
}
