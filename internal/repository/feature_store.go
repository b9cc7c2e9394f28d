package repository

import (
	"context"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/skylark/internal/database"
	"github.com/yourusername/skylark/internal/metrics"
	"github.com/yourusername/skylark/internal/models"
)

// PostgresFeatureStore implements FeatureStore for PostgreSQL
type PostgresFeatureStore struct {
	w batchWriter
}

// NewPostgresFeatureStore creates a new feature store
func NewPostgresFeatureStore(db *database.DB, log *logrus.Logger) FeatureStore {
	return &PostgresFeatureStore{w: newBatchWriter(db, log)}
}

var (
	upsertFeatureSQL = featureTable.upsert()
	getFeatureSQL    = featureTable.selectWhere(featureTable.keyPredicate())
)

// UpsertBatch writes every feature row, replacing existing rows with
// the same (race_id, horse_number) in full.
func (s *PostgresFeatureStore) UpsertBatch(ctx context.Context, records []models.Feature) error {
	return writeBatch(ctx, s.w, featureTable, upsertFeatureSQL, metrics.OutcomeUpserted, records)
}

// Get returns the feature row of one race entry, or nil
func (s *PostgresFeatureStore) Get(ctx context.Context, raceID int64, horseNumber int) *models.Feature {
	return readOne(ctx, s.w, featureTable, getFeatureSQL, raceID, horseNumber)
}
