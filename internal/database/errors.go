package database

import (
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/yourusername/skylark/internal/models"
)

const (
	pgUniqueViolation   = "23505"
	mysqlDuplicateEntry = 1062
)

// IsDuplicateKey reports whether err is a unique-constraint violation
// from PostgreSQL (SQLSTATE 23505) or the legacy MySQL store (1062).
func IsDuplicateKey(err error) bool {
	if err == nil {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == mysqlDuplicateEntry
	}

	return false
}

// ClassifyError wraps a unique-constraint violation with
// models.ErrDuplicateKey, keeping the driver error in the chain. Other
// errors are returned unchanged.
func ClassifyError(err error) error {
	if !IsDuplicateKey(err) {
		return err
	}
	return fmt.Errorf("%w: %w", models.ErrDuplicateKey, err)
}

// DuplicateDetail returns the store's description of the conflicting
// key, e.g. "Key (id)=(42) already exists.", or the error text.
func DuplicateDetail(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Detail != "" {
			return pgErr.Detail
		}
		return pgErr.Message
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Message
	}

	if err == nil {
		return ""
	}
	return err.Error()
}
