// Package pgtest provides migrated PostgreSQL pools for integration tests.
//
// The database comes from TEST_DATABASE_URL when set. Otherwise a throwaway
// postgres container is started with testcontainers. Tests are skipped when
// neither is available.
package pgtest

import (
	"context"
	"os"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/pokemania/pokemania/internal/postgres"
)

const image = "postgres:16-alpine"

var (
	containerOnce sync.Once
	containerDSN  string
	containerErr  error
)

// NewPool returns a pool on a migrated database with empty pokemon tables.
// The pool is closed when the test finishes.
func NewPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	ctx := context.Background()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		dsn = startContainer(t)
	}

	if err := postgres.Migrate(ctx, dsn); err != nil {
		t.Skipf("skipping: cannot migrate test database: %v", err)
	}

	pool, err := postgres.NewPool(ctx, dsn, postgres.PoolOptions{MaxConns: 4})
	if err != nil {
		t.Skipf("skipping: cannot connect to test database: %v", err)
	}
	t.Cleanup(pool.Close)

	if _, err := pool.Exec(ctx, "TRUNCATE TABLE pokemon_team, pokemon RESTART IDENTITY CASCADE"); err != nil {
		t.Fatalf("truncating pokemon tables: %v", err)
	}

	return pool
}

// startContainer starts one postgres container per test binary. It is left
// to the testcontainers reaper to remove once the process exits.
func startContainer(t *testing.T) string {
	t.Helper()

	testcontainers.SkipIfProviderIsNotHealthy(t)

	containerOnce.Do(func() {
		ctx := context.Background()
		ctr, err := tcpostgres.Run(ctx, image,
			tcpostgres.WithDatabase("pokemania_test"),
			tcpostgres.WithUsername("pokemania"),
			tcpostgres.WithPassword("pokemania"),
			tcpostgres.BasicWaitStrategies(),
		)
		if err != nil {
			containerErr = err
			return
		}
		containerDSN, containerErr = ctr.ConnectionString(ctx, "sslmode=disable")
	})

	if containerErr != nil {
		t.Skipf("skipping: cannot start postgres container: %v", containerErr)
	}
	return containerDSN
}
