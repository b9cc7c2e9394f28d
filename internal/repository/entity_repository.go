package repository

import (
	"context"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/skylark/internal/database"
	"github.com/yourusername/skylark/internal/metrics"
	"github.com/yourusername/skylark/internal/models"
)

// PostgresEntityRepository implements EntityRepository for one reference table
type PostgresEntityRepository[T any, K any] struct {
	w      batchWriter
	table  table[T]
	insert string
	get    string
}

func newEntityRepository[T any, K any](db *database.DB, log *logrus.Logger, t table[T]) *PostgresEntityRepository[T, K] {
	return &PostgresEntityRepository[T, K]{
		w:      newBatchWriter(db, log),
		table:  t,
		insert: t.insertIfAbsent(),
		get:    t.selectWhere(t.keyPredicate()),
	}
}

// NewPostgresHorseRepository creates a new horse repository
func NewPostgresHorseRepository(db *database.DB, log *logrus.Logger) HorseRepository {
	return newEntityRepository[models.Horse, int64](db, log, horseTable)
}

// NewPostgresJockeyRepository creates a new jockey repository
func NewPostgresJockeyRepository(db *database.DB, log *logrus.Logger) JockeyRepository {
	return newEntityRepository[models.Jockey, int64](db, log, jockeyTable)
}

// NewPostgresTrainerRepository creates a new trainer repository
func NewPostgresTrainerRepository(db *database.DB, log *logrus.Logger) TrainerRepository {
	return newEntityRepository[models.Trainer, int64](db, log, trainerTable)
}

// NewPostgresOwnerRepository creates a new owner repository
func NewPostgresOwnerRepository(db *database.DB, log *logrus.Logger) OwnerRepository {
	return newEntityRepository[models.Owner, string](db, log, ownerTable)
}

// InsertBatch inserts every record whose key is not yet present.
// Repeating a batch leaves the table unchanged.
func (r *PostgresEntityRepository[T, K]) InsertBatch(ctx context.Context, records []T) error {
	return writeBatch(ctx, r.w, r.table, r.insert, metrics.OutcomeInserted, records)
}

// Get returns the record with the given key, or nil
func (r *PostgresEntityRepository[T, K]) Get(ctx context.Context, id K) *T {
	return readOne(ctx, r.w, r.table, r.get, id)
}
