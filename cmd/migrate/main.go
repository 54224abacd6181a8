package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"codeberg.org/architai/server/architai/sessions"
	"codeberg.org/architai/server/internal/config"
	"codeberg.org/architai/server/internal/logger"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: migrate <command> [options]")
		fmt.Println("Commands:")
		fmt.Println("  init  - create the sessions table")
		fmt.Println("  drop  - drop the sessions table (requires --force)")
		fmt.Println("\nOptions:")
		fmt.Println("  --database-url <url>  - Session store connection string (default $DATABASE_URL)")
		fmt.Println("  --force               - Drop existing data (init recreates the table)")
		os.Exit(1)
	}

	command := os.Args[1]
	if command != "init" && command != "drop" {
		fmt.Printf("Unknown command: %s\n", command)
		os.Exit(1)
	}

	// pick up DATABASE_URL from .env the same way the server does
	if err := config.LoadDotEnv(); err != nil {
		logger.FatalErr(err, "failed to load environment")
	}

	flags := config.ParseMigrateFlags(command, os.Args[2:])

	if err := run(command, flags); err != nil {
		logger.FatalErr(err, "migrate failed", "command", command)
	}
}

// opens the store, runs the subcommand and always closes the store
func run(command string, flags config.Flags) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	store, closeStore, err := sessions.Open(ctx, flags.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to open session store: %w", err)
	}

	defer closeStore()

	switch command {
	case "init":
		return Init(ctx, store, flags)
	case "drop":
		return Drop(ctx, store, flags)
	default:
		return fmt.Errorf("unknown command: %s", command)
	}
}

// creates the sessions table, recreating it when forced
func Init(ctx context.Context, store sessions.Migrator, flags config.Flags) error {
	if flags.Force {
		logger.Warn("dropping sessions table before init")

		if err := store.Drop(ctx); err != nil {
			return err
		}
	}

	if err := store.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	logger.Info("sessions table ready")
	return nil
}

// drops the sessions table, refusing without --force
func Drop(ctx context.Context, store sessions.Migrator, flags config.Flags) error {
	if !flags.Force {
		return fmt.Errorf("refusing to drop sessions without --force")
	}

	if err := store.Drop(ctx); err != nil {
		return fmt.Errorf("failed to drop schema: %w", err)
	}

	logger.Info("sessions table dropped")
	return nil
}
