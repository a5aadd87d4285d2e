// pkg/db/migrate.go
package db

import (
	"context"
	"embed"
	"fmt"

	"github.com/jmoiron/sqlx"
)

//go:embed schema/*.sql
var schemaFS embed.FS

// Migrate creates the tables used by the application if they do not exist yet.
// The DDL is picked by the driver the connection was opened with.
func Migrate(ctx context.Context, conn *sqlx.DB) error {
	file := "schema/postgres.sql"
	if conn.DriverName() == DriverSQLite {
		file = "schema/sqlite.sql"
	}

	ddl, err := schemaFS.ReadFile(file)
	if err != nil {
		return fmt.Errorf("failed to read schema %s: %w", file, err)
	}
	if _, err := conn.ExecContext(ctx, string(ddl)); err != nil {
		return fmt.Errorf("failed to apply schema %s: %w", file, err)
	}
	return nil
}
