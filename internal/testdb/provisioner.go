// Package testdb gives every integration test its own freshly migrated
// database on a shared Postgres server.
package testdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/Nazarious-ucu/newsletter-api/internal/config"
	"github.com/Nazarious-ucu/newsletter-api/internal/storage"
)

const (
	namePrefix       = "test_"
	provisionTimeout = 30 * time.Second
)

var ErrProvision = errors.New("provision test database")

// Database is a migrated database owned by a single test.
type Database struct {
	Name   string
	Config config.Database
	Pool   *storage.Pool
}

// SavedSubscription is a subscriptions row as read back by tests.
type SavedSubscription struct {
	ID           uuid.UUID `db:"id"`
	Email        string    `db:"email"`
	Name         string    `db:"name"`
	SubscribedAt time.Time `db:"subscribed_at"`
}

// NewName returns a database name that is a valid unquoted identifier and
// never repeats.
func NewName() string {
	return namePrefix + strings.ReplaceAll(uuid.NewString(), "-", "")
}

// Provision creates a uniquely named database on the server described by
// base, connects a pool to it and applies every migration.
func Provision(ctx context.Context, base config.Database) (*Database, error) {
	name := NewName()

	if err := createDatabase(ctx, base, name); err != nil {
		return nil, fmt.Errorf("%w: create %s: %w", ErrProvision, name, err)
	}

	cfg := base.WithName(name)
	pool, err := storage.Open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: connect: %w", ErrProvision, err)
	}

	if _, err := storage.Migrate(ctx, pool.DB); err != nil {
		_ = pool.Close()
		return nil, fmt.Errorf("%w: migrate %s: %w", ErrProvision, name, err)
	}

	return &Database{Name: name, Config: cfg, Pool: pool}, nil
}

// MustProvision is Provision for tests. Any failure aborts the test, and the
// pool is closed when the test ends. The database itself is left in place.
func MustProvision(t testing.TB, base config.Database) *Database {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), provisionTimeout)
	defer cancel()

	db, err := Provision(ctx, base)
	if err != nil {
		t.Fatalf("failed to provision test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Pool.Close() })

	return db
}

// Subscriptions returns every stored row, oldest first.
func (d *Database) Subscriptions(ctx context.Context) ([]SavedSubscription, error) {
	var rows []SavedSubscription
	err := sqlx.NewDb(d.Pool.DB, "pgx").SelectContext(ctx, &rows,
		`SELECT id, email, name, subscribed_at FROM subscriptions ORDER BY subscribed_at, id`)
	if err != nil {
		return nil, fmt.Errorf("select subscriptions: %w", err)
	}
	return rows, nil
}

func createDatabase(ctx context.Context, base config.Database, name string) error {
	db, err := sql.Open("postgres", base.MaintenanceDSN())
	if err != nil {
		return err
	}
	defer db.Close()

	_, err = db.ExecContext(ctx, "CREATE DATABASE "+pq.QuoteIdentifier(name))
	return err
}
