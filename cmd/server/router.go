package main

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/users-api/internal/api"
	apiMiddleware "github.com/phrazzld/users-api/internal/api/middleware"
	"github.com/phrazzld/users-api/internal/api/shared"
)

// apiVersion is reported in the OpenAPI document.
const apiVersion = "1.0.0"

// readinessTimeout bounds the store check of /health/ready.
const readinessTimeout = 2 * time.Second

// setupRouter creates and configures the application router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	// Apply standard middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(apiMiddleware.NewTraceMiddleware(app.logger))
	r.Use(middleware.Recoverer)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		shared.RespondWithError(w, r, http.StatusNotFound, "Resource not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		shared.RespondWithError(w, r, http.StatusMethodNotAllowed, "Method not allowed")
	})

	userHandler := api.NewUserHandler(app.userService, app.tokenService, app.config.Auth, app.logger)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.tokenService)
	routes := api.Routes(userHandler)

	r.Route("/api", func(r chi.Router) {
		api.Register(r, routes, authMiddleware)
	})

	doc := api.BuildOpenAPI(routes, api.Info{
		Title:       "Users API",
		Version:     apiVersion,
		Description: "CRUD for users with bearer token authentication",
	})
	r.Get("/api-docs/openapi.json", api.OpenAPIHandler(doc))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})
	r.Get("/health/ready", app.handleReady)

	return r
}

// readinessResponse is the body of /health/ready.
type readinessResponse struct {
	Status    string `json:"status"`
	Driver    string `json:"driver"`
	UserCount int    `json:"user_count"`
}

// handleReady reports whether the user store answers queries.
func (app *application) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
	defer cancel()

	count, err := app.userStore.Count(ctx)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusServiceUnavailable, "User store unavailable", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, readinessResponse{
		Status:    "ready",
		Driver:    app.config.Database.Driver,
		UserCount: count,
	})
}
