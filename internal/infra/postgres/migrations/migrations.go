// Package migrations holds the schema history applied by the migrate command.
package migrations

import (
	"context"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"
)

var Migrations = migrate.NewMigrations()

// exec returns a migration func running each statement in order.
func exec(statements ...string) migrate.MigrationFunc {
	return func(ctx context.Context, db *bun.DB) error {
		for _, stmt := range statements {
			if _, err := db.ExecContext(ctx, stmt); err != nil {
				return err
			}
		}
		return nil
	}
}
