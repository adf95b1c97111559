// Package sqlite implements the metadata repo using SQLite
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/kmehta/imagebin"
)

type Repo struct {
	db        *sql.DB
	tableName string
}

func NewRepo(db *sql.DB, tables imagebin.Tables) (*Repo, error) {
	if err := tables.Validate(); err != nil {
		return nil, fmt.Errorf("new repo: %w", err)
	}

	return &Repo{db: db, tableName: tables.Metadata}, nil
}

// encodeTags stores tags as a JSON array; SQLite has no native list type.
func encodeTags(tags []string) (string, error) {
	if tags == nil {
		tags = []string{}
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return "", fmt.Errorf("encode tags: %w", err)
	}
	return string(b), nil
}

func decodeTags(raw string) ([]string, error) {
	var tags []string
	if err := json.Unmarshal([]byte(raw), &tags); err != nil {
		return nil, fmt.Errorf("decode tags: %w", err)
	}
	return tags, nil
}

func (r *Repo) Get(ctx context.Context, imageID string) (imagebin.ImageRecord, error) {
	query := fmt.Sprintf( //nolint:gosec // G201: table name is validated
		`SELECT image_id, owner_id, storage_key, filename, content_type,
			title, description, tags, file_size, created_at, updated_at
		FROM %s
		WHERE image_id = ?`, r.tableName)

	var rec imagebin.ImageRecord
	var rawTags string

	err := r.db.QueryRowContext(ctx, query, imageID).Scan(
		&rec.ImageID, &rec.OwnerID, &rec.StorageKey, &rec.Filename, &rec.ContentType,
		&rec.Title, &rec.Description, &rawTags, &rec.FileSize, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return imagebin.ImageRecord{}, imagebin.ErrNotFound
		}
		return imagebin.ImageRecord{}, fmt.Errorf("get: %w", err)
	}

	rec.Tags, err = decodeTags(rawTags)
	if err != nil {
		return imagebin.ImageRecord{}, fmt.Errorf("get: %w", err)
	}

	return rec, nil
}

func (r *Repo) Put(ctx context.Context, rec imagebin.ImageRecord) error {
	rawTags, err := encodeTags(rec.Tags)
	if err != nil {
		return fmt.Errorf("put: %w", err)
	}

	query := fmt.Sprintf( //nolint:gosec // G201: table name is validated
		`INSERT INTO %s (image_id, owner_id, storage_key, filename, content_type,
			title, description, tags, file_size, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, r.tableName)

	_, err = r.db.ExecContext(ctx, query,
		rec.ImageID, rec.OwnerID, rec.StorageKey, rec.Filename, rec.ContentType,
		rec.Title, rec.Description, rawTags, rec.FileSize, rec.CreatedAt, rec.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("put: %w", err)
	}

	return nil
}

func (r *Repo) Delete(ctx context.Context, imageID string) error {
	query := fmt.Sprintf( //nolint:gosec // G201: table name is validated
		`DELETE FROM %s WHERE image_id = ?`, r.tableName)

	result, err := r.db.ExecContext(ctx, query, imageID)
	if err != nil {
		return fmt.Errorf("delete: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete: rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("delete: %w", imagebin.ErrNotFound)
	}

	return nil
}

func (r *Repo) Scan(ctx context.Context, limit int) ([]imagebin.ImageRecord, error) {
	query := fmt.Sprintf( //nolint:gosec // G201: table name is validated
		`SELECT image_id, owner_id, storage_key, filename, content_type,
			title, description, tags, file_size, created_at, updated_at
		FROM %s
		ORDER BY created_at DESC, image_id
		LIMIT ?`, r.tableName)

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	defer func() { _ = rows.Close() }()

	records := make([]imagebin.ImageRecord, 0, limit)
	for rows.Next() {
		var rec imagebin.ImageRecord
		var rawTags string

		if scanErr := rows.Scan(
			&rec.ImageID, &rec.OwnerID, &rec.StorageKey, &rec.Filename, &rec.ContentType,
			&rec.Title, &rec.Description, &rawTags, &rec.FileSize, &rec.CreatedAt, &rec.UpdatedAt,
		); scanErr != nil {
			return nil, fmt.Errorf("scan: row: %w", scanErr)
		}

		rec.Tags, err = decodeTags(rawTags)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}

		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scan: rows: %w", err)
	}

	return records, nil
}
