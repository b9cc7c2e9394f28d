package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yourusername/skylark/internal/config"
)

// PoolConfig holds the pgxpool knobs shared by every pool a Registry opens
type PoolConfig struct {
	MaxConns          int32
	MaxConnLifetime   time.Duration
	MaxConnIdleTime   time.Duration
	HealthCheckPeriod time.Duration
	AcquireTimeout    time.Duration
}

// PoolConfigFrom maps the database configuration onto pool settings.
// pgxpool has no overflow notion, so the ceiling is pool size plus
// overflow and connections above the steady size are shed once idle.
func PoolConfigFrom(cfg config.DatabaseConfig) PoolConfig {
	return PoolConfig{
		MaxConns:          int32(cfg.MaxConnections()),
		MaxConnLifetime:   cfg.RecycleInterval(),
		MaxConnIdleTime:   time.Minute,
		HealthCheckPeriod: 30 * time.Second,
		AcquireTimeout:    cfg.AcquireTimeout(),
	}
}

// DB wraps the pgxpool.Pool to provide scoped database operations
type DB struct {
	pool           *pgxpool.Pool
	acquireTimeout time.Duration
}

// NewDB creates a new database connection pool for url and verifies it
func NewDB(ctx context.Context, url string, pc PoolConfig) (*DB, error) {
	poolConfig, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	if pc.MaxConns > 0 {
		poolConfig.MaxConns = pc.MaxConns
	}
	if pc.MaxConnLifetime > 0 {
		poolConfig.MaxConnLifetime = pc.MaxConnLifetime
	}
	if pc.MaxConnIdleTime > 0 {
		poolConfig.MaxConnIdleTime = pc.MaxConnIdleTime
	}
	if pc.HealthCheckPeriod > 0 {
		poolConfig.HealthCheckPeriod = pc.HealthCheckPeriod
	}

	// Liveness check before a connection is handed out; a failed ping
	// destroys the connection and the pool tries the next one.
	poolConfig.BeforeAcquire = func(ctx context.Context, conn *pgx.Conn) bool {
		return conn.Ping(ctx) == nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool, acquireTimeout: pc.AcquireTimeout}, nil
}

// Ping verifies database connectivity
func (db *DB) Ping(ctx context.Context) error {
	if db.pool == nil {
		return fmt.Errorf("database pool is closed")
	}
	return db.pool.Ping(ctx)
}

// Close gracefully closes the connection pool
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// WithConn acquires one connection for the duration of fn and releases
// it on every exit path. Acquisition is bounded by the pool's acquire
// timeout; fn itself runs under the caller's context.
func (db *DB) WithConn(ctx context.Context, fn func(context.Context, *pgxpool.Conn) error) error {
	if db.pool == nil {
		return fmt.Errorf("database pool is closed")
	}

	acquireCtx := ctx
	if db.acquireTimeout > 0 {
		var cancel context.CancelFunc
		acquireCtx, cancel = context.WithTimeout(ctx, db.acquireTimeout)
		defer cancel()
	}

	conn, err := db.pool.Acquire(acquireCtx)
	if err != nil {
		return fmt.Errorf("failed to acquire connection: %w", err)
	}
	defer conn.Release()

	return fn(ctx, conn)
}

// WithTx runs fn inside one transaction on one scoped connection.
// The transaction is committed once if fn succeeds and rolled back
// otherwise. A connection released mid-transaction is destroyed by the pool.
func (db *DB) WithTx(ctx context.Context, fn func(context.Context, pgx.Tx) error) error {
	return db.WithConn(ctx, func(ctx context.Context, conn *pgxpool.Conn) error {
		tx, err := conn.Begin(ctx)
		if err != nil {
			return fmt.Errorf("failed to begin transaction: %w", err)
		}

		if err := fn(ctx, tx); err != nil {
			if rollbackErr := tx.Rollback(ctx); rollbackErr != nil {
				return fmt.Errorf("transaction failed: %w, rollback failed: %w", err, rollbackErr)
			}
			return err
		}

		if err := tx.Commit(ctx); err != nil {
			return fmt.Errorf("failed to commit transaction: %w", err)
		}
		return nil
	})
}

// HealthCheck performs a simple round trip on the database
func (db *DB) HealthCheck(ctx context.Context) error {
	return db.WithConn(ctx, func(ctx context.Context, conn *pgxpool.Conn) error {
		if _, err := conn.Exec(ctx, "SELECT 1"); err != nil {
			return fmt.Errorf("health check failed: %w", err)
		}
		return nil
	})
}

// Stats returns the underlying pool statistics, or nil for a closed pool
func (db *DB) Stats() *pgxpool.Stat {
	if db.pool == nil {
		return nil
	}
	return db.pool.Stat()
}
