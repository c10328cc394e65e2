// Package postgres implements the repositories on PostgreSQL. Relational
// records go through bun; coding questions are JSONB documents read with pgx.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"

	"interview-assessment-service/internal/infra/postgres/migrations"
)

// Open returns a bun handle for dsn. The connection is established lazily.
func Open(dsn string) *bun.DB {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	return bun.NewDB(sqldb, pgdialect.New())
}

// Migrate applies every pending migration and returns the applied group name,
// or an empty string when the schema was already current.
func Migrate(ctx context.Context, db *bun.DB) (string, error) {
	migrator := migrate.NewMigrator(db, migrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		return "", fmt.Errorf("init migrations: %w", err)
	}
	group, err := migrator.Migrate(ctx)
	if err != nil {
		return "", fmt.Errorf("migrate: %w", err)
	}
	if group.IsZero() {
		return "", nil
	}
	return group.String(), nil
}

func notFound(err, sentinel error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return sentinel
	}
	return err
}
