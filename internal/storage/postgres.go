package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/Nazarious-ucu/newsletter-api/internal/config"
	"github.com/Nazarious-ucu/newsletter-api/migrations"
)

const (
	connectTimeout  = 5 * time.Second
	maxConnLifetime = time.Hour
	maxConnIdleTime = 5 * time.Minute
)

// Pool owns the pgx connection pool and the database/sql view over it.
// Both share the same connections; DB is what goose and the repositories use.
type Pool struct {
	PGX *pgxpool.Pool
	DB  *sql.DB
}

// Open connects to the database described by cfg and verifies the connection.
func Open(ctx context.Context, cfg config.Database) (*Pool, error) {
	if cfg.Name == "" {
		return nil, errors.New("database name cannot be empty")
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parse pool config: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}
	poolCfg.MaxConnLifetime = maxConnLifetime
	poolCfg.MaxConnIdleTime = maxConnIdleTime
	poolCfg.ConnConfig.ConnectTimeout = connectTimeout

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping %s: %w", cfg.Name, err)
	}

	return &Pool{PGX: pool, DB: stdlib.OpenDBFromPool(pool)}, nil
}

func (p *Pool) Close() error {
	err := p.DB.Close()
	p.PGX.Close()
	return err
}

// Migrate applies every pending migration in version order. Already applied
// versions are skipped, so running it twice is harmless.
func Migrate(ctx context.Context, db *sql.DB) ([]*goose.MigrationResult, error) {
	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		return nil, fmt.Errorf("create migration provider: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return results, fmt.Errorf("apply migrations: %w", err)
	}
	return results, nil
}
