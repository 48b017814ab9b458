// Package db opens the Postgres waypoint store through the pgx stdlib driver.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
)

// PoolOptions tunes database/sql pooling. Zero fields use the defaults.
type PoolOptions struct {
	MaxOpen     int
	MaxIdle     int
	MaxLifetime time.Duration
	PingTimeout time.Duration
}

func (o PoolOptions) withDefaults() PoolOptions {
	if o.MaxOpen <= 0 {
		o.MaxOpen = 10
	}
	if o.MaxIdle <= 0 {
		o.MaxIdle = o.MaxOpen
	}
	if o.MaxLifetime <= 0 {
		o.MaxLifetime = 30 * time.Minute
	}
	if o.PingTimeout <= 0 {
		o.PingTimeout = 5 * time.Second
	}
	return o
}

// Open connects with default pool settings.
func Open(databaseURL string) (*sql.DB, error) {
	return OpenWith(context.Background(), databaseURL, PoolOptions{})
}

// OpenWith parses databaseURL with pgx, registers the connection config with
// the stdlib driver and verifies the connection before returning.
func OpenWith(ctx context.Context, databaseURL string, opts PoolOptions) (*sql.DB, error) {
	connCfg, err := pgx.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("openDB: parse postgres url: %w", err)
	}

	opts = opts.withDefaults()

	db := stdlib.OpenDB(*connCfg)
	db.SetMaxOpenConns(opts.MaxOpen)
	db.SetMaxIdleConns(opts.MaxIdle)
	db.SetConnMaxLifetime(opts.MaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, opts.PingTimeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("openDB: verify postgres connection to %s/%s: %w", connCfg.Host, connCfg.Database, err)
	}

	return db, nil
}
