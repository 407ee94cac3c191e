package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/users-api/internal/config"
	"github.com/phrazzld/users-api/internal/platform/memory"
	"github.com/phrazzld/users-api/internal/platform/postgres"
	"github.com/phrazzld/users-api/internal/service"
	"github.com/phrazzld/users-api/internal/service/auth"
	"github.com/phrazzld/users-api/internal/store"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config

	logger *slog.Logger
	db     *sql.DB // nil with the memory driver

	userStore    store.UserStore
	tokenService auth.TokenService
	userService  service.UserService
}

// newApplication wires stores and services. db must be non-nil unless the
// memory driver is configured.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.tokenService, err = auth.NewTokenService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token service: %w", err)
	}
	logger.Info("Token service initialized",
		"issuer", cfg.Auth.Issuer,
		"token_lifetime_hours", cfg.Auth.TokenLifetimeHours)

	switch cfg.Database.Driver {
	case config.DriverMemory:
		app.userStore = memory.NewUserStore(logger)
	case config.DriverPostgres:
		if db == nil {
			return nil, fmt.Errorf("postgres driver requires a database connection")
		}
		app.userStore = postgres.NewPostgresUserStore(db, logger)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}

	app.userService = service.NewUserService(app.userStore, logger)

	logger.Info("Application initialized successfully", "database_driver", cfg.Database.Driver)
	return app, nil
}

// Run starts the application server, handling lifecycle and cleanup.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}
