package repository

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/skylark/internal/database"
	"github.com/yourusername/skylark/internal/metrics"
	"github.com/yourusername/skylark/internal/models"
)

// PostgresRaceDataRepository implements RaceDataRepository for PostgreSQL
type PostgresRaceDataRepository struct {
	w batchWriter
}

// NewPostgresRaceDataRepository creates a new race data repository
func NewPostgresRaceDataRepository(db *database.DB, log *logrus.Logger) RaceDataRepository {
	return &PostgresRaceDataRepository{w: newBatchWriter(db, log)}
}

var (
	insertRaceInfoSQL   = raceInfoTable.insertIfAbsent()
	insertRaceResultSQL = raceResultTable.insertIfAbsent()
	insertPayoffSQL     = payoffTable.insertIfAbsent()

	getRaceInfoSQL    = raceInfoTable.selectWhere(raceInfoTable.keyPredicate())
	getRaceResultSQL  = raceResultTable.selectWhere(raceResultTable.keyPredicate())
	getRaceResultsSQL = raceResultTable.selectWhere("TRUE") + " ORDER BY race_id, horse_number"
	getPayoffsSQL     = payoffTable.selectWhere("race_id = $1") + " ORDER BY ticket_type, horse_numbers"
)

// InsertRaceInfos inserts races not yet present
func (r *PostgresRaceDataRepository) InsertRaceInfos(ctx context.Context, records []models.RaceInfo) error {
	return writeBatch(ctx, r.w, raceInfoTable, insertRaceInfoSQL, metrics.OutcomeInserted, records)
}

// InsertRaceResults inserts race entries not yet present
func (r *PostgresRaceDataRepository) InsertRaceResults(ctx context.Context, records []models.RaceResult) error {
	return writeBatch(ctx, r.w, raceResultTable, insertRaceResultSQL, metrics.OutcomeInserted, records)
}

// InsertPayoffs inserts payout lines not yet present
func (r *PostgresRaceDataRepository) InsertPayoffs(ctx context.Context, records []models.Payoff) error {
	return writeBatch(ctx, r.w, payoffTable, insertPayoffSQL, metrics.OutcomeInserted, records)
}

// GetRaceInfo returns the race with the given id, or nil
func (r *PostgresRaceDataRepository) GetRaceInfo(ctx context.Context, raceID int64) *models.RaceInfo {
	return readOne(ctx, r.w, raceInfoTable, getRaceInfoSQL, raceID)
}

// GetRaceResults returns every race entry ordered by race id then horse number
func (r *PostgresRaceDataRepository) GetRaceResults(ctx context.Context) []*models.RaceResult {
	return readMany(ctx, r.w, raceResultTable, getRaceResultsSQL)
}

// GetRaceResult returns one race entry, or nil
func (r *PostgresRaceDataRepository) GetRaceResult(ctx context.Context, raceID int64, horseNumber int) *models.RaceResult {
	return readOne(ctx, r.w, raceResultTable, getRaceResultSQL, raceID, horseNumber)
}

// GetPayoffs returns the payout lines of one race
func (r *PostgresRaceDataRepository) GetPayoffs(ctx context.Context, raceID int64) []*models.Payoff {
	return readMany(ctx, r.w, payoffTable, getPayoffsSQL, raceID)
}

// GetHorseID returns the horse that ran under horseNumber in raceID
func (r *PostgresRaceDataRepository) GetHorseID(ctx context.Context, raceID int64, horseNumber int) (*int64, error) {
	return entryColumn[int64](ctx, r.w, "horse_id", raceID, horseNumber)
}

// GetJockeyID returns the jockey of one race entry
func (r *PostgresRaceDataRepository) GetJockeyID(ctx context.Context, raceID int64, horseNumber int) (*int64, error) {
	return entryColumn[int64](ctx, r.w, "jockey_id", raceID, horseNumber)
}

// GetTrainerID returns the trainer of one race entry
func (r *PostgresRaceDataRepository) GetTrainerID(ctx context.Context, raceID int64, horseNumber int) (*int64, error) {
	return entryColumn[int64](ctx, r.w, "trainer_id", raceID, horseNumber)
}

// GetOwnerID returns the owner of one race entry
func (r *PostgresRaceDataRepository) GetOwnerID(ctx context.Context, raceID int64, horseNumber int) (*string, error) {
	return entryColumn[string](ctx, r.w, "owner_id", raceID, horseNumber)
}

// GetOrderOfFinish returns the finishing position of one race entry
func (r *PostgresRaceDataRepository) GetOrderOfFinish(ctx context.Context, raceID int64, horseNumber int) (*float64, error) {
	return entryColumn[float64](ctx, r.w, "order_of_finish", raceID, horseNumber)
}

// entryColumn projects one column of the race entry (raceID, horseNumber).
// column is always one of the fixed names above.
func entryColumn[V any](ctx context.Context, w batchWriter, column string, raceID int64, horseNumber int) (*V, error) {
	if err := validateEntryKey(raceID, horseNumber); err != nil {
		return nil, err
	}
	query := fmt.Sprintf("SELECT %s FROM race_result WHERE race_id = $1 AND horse_number = $2", column)
	return readScalar[V](ctx, w, "race_result."+column, query, raceID, horseNumber), nil
}

func validateEntryKey(raceID int64, horseNumber int) error {
	if raceID <= 0 {
		return fmt.Errorf("race id must be positive, got %d: %w", raceID, models.ErrInvalidArgument)
	}
	if horseNumber <= 0 {
		return fmt.Errorf("horse number must be positive, got %d: %w", horseNumber, models.ErrInvalidArgument)
	}
	return nil
}
