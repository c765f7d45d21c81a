package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"

	"github.com/orbis-25/orbis-projects-backend/config"
)

// DriverName maps the configured driver to the database/sql driver name.
// lib/pq registers "postgres", pgx/v5/stdlib registers "pgx".
func DriverName(driver string) (string, error) {
	switch driver {
	case "", "postgres":
		return "postgres", nil
	case "pgx":
		return "pgx", nil
	}
	return "", fmt.Errorf("unsupported database driver %q", driver)
}

// NewConnection opens the relational store used by the post, project and
// invoice repositories.
func NewConnection(ctx context.Context, cfg *config.DatabaseConfig) (*sql.DB, error) {
	driver, err := DriverName(cfg.Driver)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(driver, DSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxIdleTime(5 * time.Minute)

	return db, nil
}
