package sqlite_test

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/kmehta/imagebin"
	"github.com/kmehta/imagebin/database/sqlite"
	"github.com/stretchr/testify/assert"
)

func TestNewRepo_RejectsInvalidTableName(t *testing.T) {
	_, err := sqlite.NewRepo(nil, imagebin.Tables{Metadata: "Bad-Name"})
	assert.Error(t, err)

	_, err = sqlite.NewRepo(nil, imagebin.Tables{})
	assert.Error(t, err)
}

func TestRepo_PutGet(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	rec := testRecord("img-1", "user123", "2026-01-01T10:00:00Z")
	assert.NoError(t, repo.Put(ctx, rec))

	got, err := repo.Get(ctx, "img-1")
	assert.NoError(t, err)
	assert.Equal(t, rec, got)
}

func TestRepo_PutNilTagsComeBackEmpty(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	rec := testRecord("img-1", "user123", "2026-01-01T10:00:00Z")
	rec.Tags = nil
	assert.NoError(t, repo.Put(ctx, rec))

	got, err := repo.Get(ctx, "img-1")
	assert.NoError(t, err)
	assert.NotNil(t, got.Tags)
	assert.Empty(t, got.Tags)
}

func TestRepo_GetNotFound(t *testing.T) {
	repo := setupTestRepo(t)

	_, err := repo.Get(context.Background(), "does-not-exist")
	assert.ErrorIs(t, err, imagebin.ErrNotFound)
}

func TestRepo_PutDuplicateID(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	rec := testRecord("img-1", "user123", "2026-01-01T10:00:00Z")
	assert.NoError(t, repo.Put(ctx, rec))
	assert.Error(t, repo.Put(ctx, rec))
}

func TestRepo_Delete(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	rec := testRecord("img-1", "user123", "2026-01-01T10:00:00Z")
	assert.NoError(t, repo.Put(ctx, rec))
	assert.NoError(t, repo.Delete(ctx, "img-1"))

	_, err := repo.Get(ctx, "img-1")
	assert.ErrorIs(t, err, imagebin.ErrNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, "img-1"), imagebin.ErrNotFound)
}

func TestRepo_ScanNewestFirst(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	for i := range 5 {
		rec := testRecord(
			fmt.Sprintf("img-%d", i),
			"user123",
			fmt.Sprintf("2026-01-0%dT10:00:00Z", i+1),
		)
		assert.NoError(t, repo.Put(ctx, rec))
	}

	records, err := repo.Scan(ctx, 10)
	assert.NoError(t, err)
	assert.Len(t, records, 5)
	assert.Equal(t, "img-4", records[0].ImageID)
	assert.Equal(t, "img-0", records[4].ImageID)
}

func TestRepo_ScanHonorsLimit(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	for i := range 5 {
		rec := testRecord(
			fmt.Sprintf("img-%d", i),
			"user123",
			fmt.Sprintf("2026-01-0%dT10:00:00Z", i+1),
		)
		assert.NoError(t, repo.Put(ctx, rec))
	}

	records, err := repo.Scan(ctx, 2)
	assert.NoError(t, err)
	assert.Len(t, records, 2)
	assert.Equal(t, "img-4", records[0].ImageID)
}

func TestRepo_ScanEmptyTable(t *testing.T) {
	repo := setupTestRepo(t)

	records, err := repo.Scan(context.Background(), 10)
	assert.NoError(t, err)
	assert.Empty(t, records)
}

func TestValidateSchema_MissingTable(t *testing.T) {
	db, err := sql.Open("sqlite", ":memory:")
	assert.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	err = sqlite.ValidateSchema(context.Background(), db, imagebin.Tables{Metadata: "images_missing"})
	assert.ErrorContains(t, err, "does not exist")
}

func TestDropTables(t *testing.T) {
	ctx := context.Background()
	tables := imagebin.Tables{Metadata: fmt.Sprintf("images_%s", getRandomString(t))}

	db, err := sql.Open("sqlite", ":memory:")
	assert.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	assert.NoError(t, sqlite.Migrate(ctx, db, tables))
	assert.NoError(t, sqlite.DropTables(ctx, db, tables))

	err = sqlite.ValidateSchema(ctx, db, tables)
	assert.ErrorContains(t, err, "does not exist")
}
