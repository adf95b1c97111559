package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/kmehta/imagebin"
)

// quoteIdentifier safely quotes a SQLite identifier
func quoteIdentifier(name string) string {
	return `"` + name + `"`
}

type TableMigration struct {
	TableName string
	Up        func(ctx context.Context, db *sql.DB) error
	Down      func(ctx context.Context, db *sql.DB) error
}

func getTableMigrations(tables imagebin.Tables) []TableMigration {
	migrations := []TableMigration{}

	migrations = append(migrations, TableMigration{
		TableName: tables.Metadata,
		Up:        createImageTable(tables.Metadata),
		Down:      dropTable(tables.Metadata),
	})

	return migrations
}

func Migrate(ctx context.Context, db *sql.DB, tables imagebin.Tables) error {
	if err := tables.Validate(); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	migrations := getTableMigrations(tables)

	for _, migration := range migrations {
		if err := migration.Up(ctx, db); err != nil {
			return fmt.Errorf("migrate up %s: %w", migration.TableName, err)
		}
	}

	return nil
}

func DropTables(ctx context.Context, db *sql.DB, tables imagebin.Tables) error {
	migrations := getTableMigrations(tables)

	for i := len(migrations) - 1; i >= 0; i-- {
		migration := migrations[i]
		if err := migration.Down(ctx, db); err != nil {
			return fmt.Errorf("migrate down %s: %w", migration.TableName, err)
		}
	}

	return nil
}

func createImageTable(tableName string) func(context.Context, *sql.DB) error {
	return func(ctx context.Context, db *sql.DB) error {
		quotedTable := quoteIdentifier(tableName)
		indexOwnerCreated := quoteIdentifier(fmt.Sprintf("idx_%s_owner_created", tableName))
		indexCreatedAt := quoteIdentifier(fmt.Sprintf("idx_%s_created_at", tableName))

		createTableSQL := fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				image_id TEXT NOT NULL PRIMARY KEY,
				owner_id TEXT NOT NULL,
				storage_key TEXT NOT NULL,
				filename TEXT NOT NULL,
				content_type TEXT NOT NULL,
				title TEXT NOT NULL DEFAULT '',
				description TEXT NOT NULL DEFAULT '',
				tags TEXT NOT NULL DEFAULT '[]',
				file_size INTEGER NOT NULL,
				created_at TEXT NOT NULL,
				updated_at TEXT NOT NULL
			)
		`, quotedTable)

		if _, err := db.ExecContext(ctx, createTableSQL); err != nil {
			return fmt.Errorf("create table: %w", err)
		}

		indexSQL := fmt.Sprintf(`
			CREATE INDEX IF NOT EXISTS %s ON %s (owner_id, created_at DESC)
		`, indexOwnerCreated, quotedTable)

		if _, err := db.ExecContext(ctx, indexSQL); err != nil {
			return fmt.Errorf("create index owner_created: %w", err)
		}

		indexSQL = fmt.Sprintf(`
			CREATE INDEX IF NOT EXISTS %s ON %s (created_at DESC)
		`, indexCreatedAt, quotedTable)

		if _, err := db.ExecContext(ctx, indexSQL); err != nil {
			return fmt.Errorf("create index created_at: %w", err)
		}

		return nil
	}
}

func dropTable(tableName string) func(context.Context, *sql.DB) error {
	return func(ctx context.Context, db *sql.DB) error {
		quotedTable := quoteIdentifier(tableName)
		dropSQL := fmt.Sprintf("DROP TABLE IF EXISTS %s", quotedTable)

		_, err := db.ExecContext(ctx, dropSQL)
		return err
	}
}
