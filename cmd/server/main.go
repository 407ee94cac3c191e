// Package main implements the entry point for the users API server,
// which exposes CRUD operations on users guarded by bearer tokens.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
)

func main() {
	migrateCmd := flag.String("migrate", "",
		"Run database migrations and exit (up|down|reset|status|version)")
	flag.Parse()

	if err := run(context.Background(), *migrateCmd); err != nil {
		log.Printf("fatal: %v", err)
		os.Exit(1)
	}
}

// run loads configuration, sets up logging and then either executes the
// requested migration command or serves HTTP until shutdown.
func run(ctx context.Context, migrateCmd string) error {
	cfg, err := loadAppConfig()
	if err != nil {
		return err
	}

	logger, err := setupAppLogger(cfg)
	if err != nil {
		return err
	}

	if migrateCmd != "" {
		return handleMigrations(ctx, cfg, migrateCmd, logger)
	}

	db, err := setupAppDatabase(ctx, cfg, logger)
	if err != nil {
		return err
	}

	app, err := newApplication(cfg, logger, db)
	if err != nil {
		if db != nil {
			_ = db.Close()
		}
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	return app.Run(ctx)
}
