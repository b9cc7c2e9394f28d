package database

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Schema is the DDL for every Skylark table. Statements are idempotent.
//
//go:embed schema.sql
var Schema string

// ApplySchema creates any missing tables and indexes
func (db *DB) ApplySchema(ctx context.Context) error {
	return db.WithConn(ctx, func(ctx context.Context, conn *pgxpool.Conn) error {
		if _, err := conn.Exec(ctx, Schema); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
		return nil
	})
}
