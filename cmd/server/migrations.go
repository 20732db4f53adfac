package main

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/arcana-app/arcana-api/migrations"
	"github.com/pressly/goose/v3"
)

// runMigrations applies the embedded migrations with goose. Supported
// commands are "up" and "down".
func runMigrations(db *sql.DB, command string) error {
	goose.SetBaseFS(migrations.FS)
	goose.SetLogger(&gooseSlogAdapter{})

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}

	switch command {
	case "up":
		if err := goose.Up(db, "."); err != nil {
			return fmt.Errorf("failed to apply migrations: %w", err)
		}
	case "down":
		if err := goose.Down(db, "."); err != nil {
			return fmt.Errorf("failed to roll back migration: %w", err)
		}
	default:
		return fmt.Errorf("unknown migration command %q", command)
	}

	slog.Info("Migrations complete", "command", command)
	return nil
}

// gooseSlogAdapter routes goose output through slog.
type gooseSlogAdapter struct{}

func (*gooseSlogAdapter) Fatalf(format string, v ...interface{}) {
	slog.Error(fmt.Sprintf(format, v...))
}

func (*gooseSlogAdapter) Printf(format string, v ...interface{}) {
	slog.Info(fmt.Sprintf(format, v...))
}
