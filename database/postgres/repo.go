// Package postgres implements the metadata repo on PostgreSQL.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kmehta/imagebin"
)

// Tables is an alias for imagebin.Tables for package compatibility.
type Tables = imagebin.Tables

type Repo struct {
	pool      *pgxpool.Pool
	tableName string
}

func NewRepo(pool *pgxpool.Pool, tables Tables) (*Repo, error) {
	if err := tables.Validate(); err != nil {
		return nil, fmt.Errorf("new repo: %w", err)
	}

	return &Repo{pool: pool, tableName: tables.Metadata}, nil
}

// Ping verifies database connectivity
func (r *Repo) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

func (r *Repo) Get(ctx context.Context, imageID string) (imagebin.ImageRecord, error) {
	query := fmt.Sprintf(`
		SELECT image_id, owner_id, storage_key, filename, content_type,
			title, description, tags, file_size, created_at, updated_at
		FROM %s
		WHERE image_id = $1
	`, r.tableName)

	var rec imagebin.ImageRecord
	err := r.pool.QueryRow(ctx, query, imageID).Scan(
		&rec.ImageID, &rec.OwnerID, &rec.StorageKey, &rec.Filename, &rec.ContentType,
		&rec.Title, &rec.Description, &rec.Tags, &rec.FileSize, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return imagebin.ImageRecord{}, imagebin.ErrNotFound
		}
		return imagebin.ImageRecord{}, fmt.Errorf("get: %w", err)
	}

	return rec, nil
}

func (r *Repo) Put(ctx context.Context, rec imagebin.ImageRecord) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (image_id, owner_id, storage_key, filename, content_type,
			title, description, tags, file_size, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, r.tableName)

	// pgx encodes a nil slice as SQL NULL, which the NOT NULL column
	// rejects; store an empty array instead.
	tags := rec.Tags
	if tags == nil {
		tags = []string{}
	}

	_, err := r.pool.Exec(ctx, query,
		rec.ImageID, rec.OwnerID, rec.StorageKey, rec.Filename, rec.ContentType,
		rec.Title, rec.Description, tags, rec.FileSize, rec.CreatedAt, rec.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("put: %w", err)
	}

	return nil
}

func (r *Repo) Delete(ctx context.Context, imageID string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE image_id = $1`, r.tableName)

	result, err := r.pool.Exec(ctx, query, imageID)
	if err != nil {
		return fmt.Errorf("delete: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("delete: %w", imagebin.ErrNotFound)
	}

	return nil
}

func (r *Repo) Scan(ctx context.Context, limit int) ([]imagebin.ImageRecord, error) {
	query := fmt.Sprintf(`
		SELECT image_id, owner_id, storage_key, filename, content_type,
			title, description, tags, file_size, created_at, updated_at
		FROM %s
		ORDER BY created_at DESC, image_id
		LIMIT $1
	`, r.tableName)

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	defer rows.Close()

	records := make([]imagebin.ImageRecord, 0, limit)
	for rows.Next() {
		var rec imagebin.ImageRecord
		if err := rows.Scan(
			&rec.ImageID, &rec.OwnerID, &rec.StorageKey, &rec.Filename, &rec.ContentType,
			&rec.Title, &rec.Description, &rec.Tags, &rec.FileSize, &rec.CreatedAt, &rec.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan: row: %w", err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scan: rows: %w", err)
	}

	return records, nil
}
