//go:build integration

// Package containers manages throwaway backing services for integration
// tests. Suites share one PostgreSQL container per test binary; Ryuk cleans
// up after the run.
package containers

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// schema mirrors the production tables the read-only engine queries.
const schema = `
CREATE TABLE IF NOT EXISTS region (
	id       TEXT PRIMARY KEY,
	name     TEXT NOT NULL,
	geometry TEXT
);

CREATE TABLE IF NOT EXISTS disease (
	id           TEXT PRIMARY KEY,
	name         TEXT NOT NULL,
	long_name    TEXT NOT NULL,
	description  TEXT NOT NULL DEFAULT '',
	reinfectable BOOLEAN NOT NULL DEFAULT FALSE,
	popularity   REAL NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS disease_stats (
	disease    TEXT NOT NULL,
	region     TEXT NOT NULL,
	date       DATE NOT NULL,
	cases      BIGINT,
	deaths     BIGINT,
	recoveries BIGINT
);

CREATE TABLE IF NOT EXISTS disease_link (
	disease     TEXT NOT NULL,
	uri         TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	region      TEXT
);

CREATE TABLE IF NOT EXISTS region_population (
	region     TEXT NOT NULL,
	date       DATE NOT NULL,
	population BIGINT
);
`

// PostgresContainer wraps a testcontainers PostgreSQL instance with an open
// pool and the engine schema applied.
type PostgresContainer struct {
	Container *tcpostgres.PostgresContainer
	DB        *sql.DB
}

var (
	mu        sync.Mutex
	singleton *PostgresContainer
)

// GetPostgres returns the shared container, starting it on first use.
func GetPostgres(t *testing.T) *PostgresContainer {
	t.Helper()

	mu.Lock()
	defer mu.Unlock()
	if singleton != nil {
		return singleton
	}

	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("epiwatch"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to get postgres connection string: %v", err)
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to open postgres pool: %v", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		_ = container.Terminate(ctx)
		t.Fatalf("failed to apply schema: %v", err)
	}

	singleton = &PostgresContainer{Container: container, DB: db}
	return singleton
}

// TruncateTables empties the given tables between tests.
func (p *PostgresContainer) TruncateTables(ctx context.Context, tables ...string) error {
	if len(tables) == 0 {
		return nil
	}
	_, err := p.DB.ExecContext(ctx, fmt.Sprintf("TRUNCATE %s", strings.Join(tables, ", ")))
	return err
}
