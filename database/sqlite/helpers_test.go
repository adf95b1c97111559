package sqlite_test

import (
	"context"
	"crypto/rand"
	"database/sql"
	"fmt"
	"math"
	"math/big"
	"testing"

	"github.com/kmehta/imagebin"
	"github.com/kmehta/imagebin/database/sqlite"
	"github.com/stretchr/testify/assert"

	_ "modernc.org/sqlite"
)

func getRandomString(t *testing.T) string {
	t.Helper()
	n, err := rand.Int(rand.Reader, big.NewInt(math.MaxInt64))
	assert.NoError(t, err, "random string")
	return fmt.Sprintf("test%x", n.Int64())
}

// setupTestRepo migrates a uniquely named table on an in-memory database
// and returns a repo bound to it.
func setupTestRepo(t *testing.T) *sqlite.Repo {
	t.Helper()

	ctx := context.Background()
	tables := imagebin.Tables{Metadata: fmt.Sprintf("images_%s", getRandomString(t))}

	db, err := sql.Open("sqlite", ":memory:")
	assert.NoError(t, err, "failed to open database")
	t.Cleanup(func() { _ = db.Close() })

	err = sqlite.Migrate(ctx, db, tables)
	assert.NoError(t, err, "failed to migrate")

	err = sqlite.ValidateSchema(ctx, db, tables)
	assert.NoError(t, err, "schema validation failed")

	repo, err := sqlite.NewRepo(db, tables)
	assert.NoError(t, err, "failed to create repo")

	return repo
}

func testRecord(id, owner, createdAt string) imagebin.ImageRecord {
	return imagebin.ImageRecord{
		ImageID:     id,
		OwnerID:     owner,
		StorageKey:  fmt.Sprintf("%s/%s.png", owner, id),
		Filename:    "photo.png",
		ContentType: "image/png",
		Title:       "A Photo",
		Description: "taken on holiday",
		Tags:        []string{"holiday", "beach"},
		FileSize:    2048,
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}
}
