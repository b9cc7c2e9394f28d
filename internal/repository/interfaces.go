package repository

import (
	"context"
	"time"

	"github.com/yourusername/skylark/internal/models"
)

// EntityRepository persists an insert-only reference entity keyed by K
type EntityRepository[T any, K any] interface {
	InsertBatch(ctx context.Context, records []T) error
	Get(ctx context.Context, id K) *T
}

// HorseRepository defines horse persistence
type HorseRepository = EntityRepository[models.Horse, int64]

// JockeyRepository defines jockey persistence
type JockeyRepository = EntityRepository[models.Jockey, int64]

// TrainerRepository defines trainer persistence
type TrainerRepository = EntityRepository[models.Trainer, int64]

// OwnerRepository defines owner persistence
type OwnerRepository = EntityRepository[models.Owner, string]

// RaceDataRepository defines persistence for races, their results and payoffs
type RaceDataRepository interface {
	InsertRaceInfos(ctx context.Context, records []models.RaceInfo) error
	InsertRaceResults(ctx context.Context, records []models.RaceResult) error
	InsertPayoffs(ctx context.Context, records []models.Payoff) error

	GetRaceInfo(ctx context.Context, raceID int64) *models.RaceInfo
	GetRaceResults(ctx context.Context) []*models.RaceResult
	GetRaceResult(ctx context.Context, raceID int64, horseNumber int) *models.RaceResult
	GetPayoffs(ctx context.Context, raceID int64) []*models.Payoff

	GetHorseID(ctx context.Context, raceID int64, horseNumber int) (*int64, error)
	GetJockeyID(ctx context.Context, raceID int64, horseNumber int) (*int64, error)
	GetTrainerID(ctx context.Context, raceID int64, horseNumber int) (*int64, error)
	GetOwnerID(ctx context.Context, raceID int64, horseNumber int) (*string, error)
	GetOrderOfFinish(ctx context.Context, raceID int64, horseNumber int) (*float64, error)
}

// FeatureStore defines persistence for derived feature vectors
type FeatureStore interface {
	UpsertBatch(ctx context.Context, records []models.Feature) error
	Get(ctx context.Context, raceID int64, horseNumber int) *models.Feature
}

// AnalyticsEngine computes per-horse aggregates over the races run
// strictly before a reference date, most recent first.
type AnalyticsEngine interface {
	GetLastSpeedFigure(ctx context.Context, horseID int64, date time.Time) (*float64, error)
	GetAverageSpeedFigure(ctx context.Context, horseID int64, date time.Time, limit int) (*float64, error)
	GetAverageFinishPosition(ctx context.Context, horseID int64, date time.Time, limit int) (*float64, error)
	GetAverageSpeedFigureByDistance(ctx context.Context, horseID int64, date time.Time, distance, limit int) (*float64, error)
	GetAverageDistance(ctx context.Context, horseID int64, date time.Time, limit int) (*float64, error)
	GetAverageEarnings(ctx context.Context, horseID int64, date time.Time, limit int) (*float64, error)
}
