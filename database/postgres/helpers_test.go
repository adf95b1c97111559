package postgres_test

import (
	"context"
	"crypto/rand"
	"fmt"
	"math"
	"math/big"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kmehta/imagebin"
	"github.com/kmehta/imagebin/database/postgres"
	"github.com/stretchr/testify/assert"
	"github.com/testcontainers/testcontainers-go"
	pgcontainer "github.com/testcontainers/testcontainers-go/modules/postgres"
)

var (
	testPool     *pgxpool.Pool
	testPoolOnce sync.Once
	testCleanup  func()
)

// getSharedTestDatabase returns a shared database pool for all tests.
// Reusing the same container keeps the suite fast; each test isolates
// itself with a unique table name instead.
func getSharedTestDatabase(t *testing.T) *pgxpool.Pool {
	t.Helper()

	testPoolOnce.Do(func() {
		ctx := context.Background()

		pgContainer, err := pgcontainer.Run(ctx,
			"postgres:18-alpine",
			pgcontainer.WithDatabase("testdb"),
			pgcontainer.WithUsername("testuser"),
			pgcontainer.WithPassword("testpass"),
			pgcontainer.BasicWaitStrategies(),
		)
		if err != nil {
			t.Fatalf("failed to start postgres container: %v", err)
		}

		// The reaper tears the container down when the test binary exits.
		testCleanup = func() {
			if testPool != nil {
				testPool.Close()
			}
			if err := testcontainers.TerminateContainer(pgContainer); err != nil {
				t.Logf("failed to terminate container: %s", err)
			}
		}

		connectionStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
		if err != nil {
			t.Fatalf("failed to get connection string: %v", err)
		}

		pool, err := pgxpool.New(ctx, connectionStr)
		if err != nil {
			t.Fatalf("could not connect to database: %v", err)
		}

		testPool = pool
	})

	return testPool
}

// getRandomString generates a random string for unique test identifiers.
func getRandomString(t *testing.T) string {
	t.Helper()
	n, err := rand.Int(rand.Reader, big.NewInt(math.MaxInt64))
	assert.NoError(t, err, "random string")
	return fmt.Sprintf("test%x", n.Int64())
}

// setupTestRepo migrates a uniquely named table on the shared pool and
// returns a repo bound to it.
func setupTestRepo(t *testing.T) *postgres.Repo {
	t.Helper()

	ctx := context.Background()
	pool := getSharedTestDatabase(t)

	tables := imagebin.Tables{Metadata: fmt.Sprintf("images_%s", getRandomString(t))}

	err := postgres.Migrate(ctx, pool, tables)
	assert.NoError(t, err, "failed to migrate")

	err = postgres.ValidateSchema(ctx, pool, tables)
	assert.NoError(t, err, "schema validation failed")

	repo, err := postgres.NewRepo(pool, tables)
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
