package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/skylark/internal/database"
	"github.com/yourusername/skylark/internal/logger"
	"github.com/yourusername/skylark/internal/metrics"
	"github.com/yourusername/skylark/internal/models"
)

// table describes how a record type maps onto one PostgreSQL table.
// values and fields must list the same columns in the same order.
type table[T any] struct {
	name    string
	columns []string
	key     []string
	values  func(*T) []any
	fields  func(*T) []any
}

func (t table[T]) placeholders() string {
	ph := make([]string, len(t.columns))
	for i := range t.columns {
		ph[i] = fmt.Sprintf("$%d", i+1)
	}
	return strings.Join(ph, ", ")
}

// insertIfAbsent skips a record whose key already exists
func (t table[T]) insertIfAbsent() string {
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) ON CONFLICT (%s) DO NOTHING",
		t.name, strings.Join(t.columns, ", "), t.placeholders(), strings.Join(t.key, ", "))
}

// upsert replaces every non-key column of an existing row
func (t table[T]) upsert() string {
	isKey := make(map[string]bool, len(t.key))
	for _, k := range t.key {
		isKey[k] = true
	}
	var sets []string
	for _, c := range t.columns {
		if !isKey[c] {
			sets = append(sets, fmt.Sprintf("%s = EXCLUDED.%s", c, c))
		}
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) ON CONFLICT (%s) DO UPDATE SET %s",
		t.name, strings.Join(t.columns, ", "), t.placeholders(), strings.Join(t.key, ", "),
		strings.Join(sets, ", "))
}

func (t table[T]) selectWhere(where string) string {
	return fmt.Sprintf("SELECT %s FROM %s WHERE %s", strings.Join(t.columns, ", "), t.name, where)
}

// keyPredicate matches the table's key columns against $1..$n
func (t table[T]) keyPredicate() string {
	preds := make([]string, len(t.key))
	for i, k := range t.key {
		preds[i] = fmt.Sprintf("%s = $%d", k, i+1)
	}
	return strings.Join(preds, " AND ")
}

// batchWriter runs record batches through one transaction each
type batchWriter struct {
	db     *database.DB
	log    *logger.IngestionLogger
	logger *logrus.Logger
}

func newBatchWriter(db *database.DB, log *logrus.Logger) batchWriter {
	if log == nil {
		log = logger.Discard()
	}
	return batchWriter{db: db, log: logger.NewIngestionLogger(log), logger: log}
}

// writeBatch executes stmt once per record inside a single transaction
// and commits once. A duplicate-key failure rolls the whole batch back
// and is reported as success; any other failure is returned.
func writeBatch[T any](ctx context.Context, w batchWriter, t table[T], stmt, outcome string, records []T) error {
	if len(records) == 0 {
		return nil
	}

	start := time.Now()
	var written int64
	err := w.db.WithTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for i := range records {
			batch.Queue(stmt, t.values(&records[i])...)
		}

		br := tx.SendBatch(ctx, batch)
		for i := range records {
			tag, err := br.Exec()
			if err != nil {
				_ = br.Close()
				return fmt.Errorf("record %d: %w", i, err)
			}
			written += tag.RowsAffected()
		}
		return br.Close()
	})

	return w.settle(t.name, outcome, len(records), int(written), time.Since(start), err)
}

// settle logs and counts the outcome of one batch transaction. A
// duplicate-key failure means the batch was rolled back and is
// reported as success.
func (w batchWriter) settle(table, outcome string, size, written int, elapsed time.Duration, err error) error {
	err = database.ClassifyError(err)
	switch {
	case err == nil:
		w.log.LogBatchWritten(table, size, written, elapsed)
		metrics.RecordBatchWritten(table, written, size-written, outcome)
		return nil
	case errors.Is(err, models.ErrDuplicateKey):
		w.log.LogDuplicateIgnored(table, database.DuplicateDetail(err))
		metrics.RecordDuplicateBatch(table)
		return nil
	default:
		w.log.LogWriteFailed(table, size, err)
		metrics.RecordWriteFailure(table)
		return fmt.Errorf("failed to write %s batch: %w", table, err)
	}
}

// readOne scans the single row matched by query, or returns nil when
// there is none. Failures are logged and reported as absent.
func readOne[T any](ctx context.Context, w batchWriter, t table[T], query string, args ...any) *T {
	var record *T
	err := w.db.WithConn(ctx, func(ctx context.Context, conn *pgxpool.Conn) error {
		rec := new(T)
		if err := conn.QueryRow(ctx, query, args...).Scan(t.fields(rec)...); err != nil {
			return err
		}
		record = rec
		return nil
	})
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		w.readFailed(t.name, err)
		return nil
	}
	return record
}

// readMany scans every row returned by query
func readMany[T any](ctx context.Context, w batchWriter, t table[T], query string, args ...any) []*T {
	var records []*T
	err := w.db.WithConn(ctx, func(ctx context.Context, conn *pgxpool.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			rec := new(T)
			if err := rows.Scan(t.fields(rec)...); err != nil {
				return fmt.Errorf("failed to scan %s row: %w", t.name, err)
			}
			records = append(records, rec)
		}
		return rows.Err()
	})
	if err != nil {
		w.readFailed(t.name, err)
		return nil
	}
	return records
}

func (w batchWriter) readFailed(query string, err error) {
	w.logger.WithFields(logrus.Fields{
		"component": "repository",
		"query":     query,
	}).WithError(err).Error("Read failed")
	metrics.RecordReadFailure(query)
}

// readScalar returns the single value selected by query, or nil when
// no row matches or the value is NULL.
func readScalar[V any](ctx context.Context, w batchWriter, label, query string, args ...any) *V {
	var value *V
	err := w.db.WithConn(ctx, func(ctx context.Context, conn *pgxpool.Conn) error {
		return conn.QueryRow(ctx, query, args...).Scan(&value)
	})
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		w.readFailed(label, err)
		return nil
	}
	return value
}
