// Package dbtest starts a throwaway Postgres with the schema applied, for
// adapter tests. Tests are skipped when no container runtime is available.
package dbtest

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

// NewPostgres returns a pool connected to a fresh database with every file
// under migrations/ applied in name order.
func NewPostgres(t *testing.T) *pgxpool.Pool {
	t.Helper()
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	ctr, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("otpgate"),
		postgres.WithUsername("otpgate"),
		postgres.WithPassword("otpgate"),
		postgres.BasicWaitStrategies(),
	)
	testcontainers.CleanupContainer(t, ctr)
	if err != nil {
		t.Fatalf("start postgres: %v", err)
	}

	dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("postgres dsn: %v", err)
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect postgres: %v", err)
	}
	t.Cleanup(pool.Close)

	for _, file := range migrationFiles(t) {
		raw, err := os.ReadFile(file)
		if err != nil {
			t.Fatalf("read %s: %v", file, err)
		}
		if _, err := pool.Exec(ctx, string(raw)); err != nil {
			t.Fatalf("apply %s: %v", filepath.Base(file), err)
		}
	}

	return pool
}

// SeedUser inserts a bare user row so rows referencing users can be created.
func SeedUser(t *testing.T, pool *pgxpool.Pool, id int64, username string) {
	t.Helper()

	_, err := pool.Exec(context.Background(), `
		INSERT INTO users (id, username, email, password_hash)
		VALUES ($1, $2, $3, 'x')`, id, username, username+"@example.test")
	if err != nil {
		t.Fatalf("seed user %d: %v", id, err)
	}
}

func migrationFiles(t *testing.T) []string {
	t.Helper()

	_, self, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatalf("locate migrations: runtime caller unavailable")
	}
	root := filepath.Join(filepath.Dir(self), "..", "..", "..")

	files, err := filepath.Glob(filepath.Join(root, "migrations", "*.sql"))
	if err != nil || len(files) == 0 {
		t.Fatalf("no migrations found under %s: %v", root, err)
	}
	sort.Strings(files)
	return files
}
