package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kmehta/imagebin"
)

func createImageTable(ctx context.Context, pool *pgxpool.Pool, tableName string) error {
	quotedTable := pgx.Identifier{tableName}.Sanitize()
	indexOwnerCreated := pgx.Identifier{fmt.Sprintf("idx_%s_owner_created", tableName)}.Sanitize()
	indexCreatedAt := pgx.Identifier{fmt.Sprintf("idx_%s_created_at", tableName)}.Sanitize()

	sql := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			image_id TEXT PRIMARY KEY,
			owner_id TEXT NOT NULL,
			storage_key TEXT NOT NULL,
			filename TEXT NOT NULL,
			content_type TEXT NOT NULL,
			title TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			tags TEXT[] NOT NULL DEFAULT '{}',
			file_size BIGINT NOT NULL,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS %s
		ON %s (owner_id, created_at DESC);

		CREATE INDEX IF NOT EXISTS %s
		ON %s (created_at DESC);
	`,
		quotedTable,
		indexOwnerCreated, quotedTable,
		indexCreatedAt, quotedTable,
	)

	_, err := pool.Exec(ctx, sql)
	if err != nil {
		return fmt.Errorf("create image table: %w", err)
	}
	return nil
}

// Migrate creates the metadata tables if they do not exist.
func Migrate(ctx context.Context, pool *pgxpool.Pool, tables imagebin.Tables) error {
	if err := tables.Validate(); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	if err := createImageTable(ctx, pool, tables.Metadata); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	return nil
}
