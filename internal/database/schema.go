package database

import (
	"context"
	"fmt"
	"io/fs"
	"sort"

	"github.com/jmoiron/sqlx"

	"github.com/at-ishikawa/chat2dutch/schemas"
)

// Migrate runs the embedded migration files in name order. Each file only creates
// missing tables, so running it again is a no-op.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	names, err := fs.Glob(schemas.Migrations, "migrations/*.sql")
	if err != nil {
		return fmt.Errorf("fs.Glob > %w", err)
	}
	sort.Strings(names)

	for _, name := range names {
		statements, err := fs.ReadFile(schemas.Migrations, name)
		if err != nil {
			return fmt.Errorf("fs.ReadFile(%s) > %w", name, err)
		}
		if _, err := db.ExecContext(ctx, string(statements)); err != nil {
			return fmt.Errorf("db.ExecContext(%s) > %w", name, err)
		}
	}
	return nil
}
