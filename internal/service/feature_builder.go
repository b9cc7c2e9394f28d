package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/skylark/internal/config"
	"github.com/yourusername/skylark/internal/logger"
	"github.com/yourusername/skylark/internal/metrics"
	"github.com/yourusername/skylark/internal/models"
	"github.com/yourusername/skylark/internal/repository"
)

// RefreshResult summarises one feature rebuild
type RefreshResult struct {
	RunID         string
	Entries       int
	Upserted      int
	Skipped       int
	FailedBatches int
	Invalidated   int
	Duration      time.Duration
}

// CacheInvalidator drops every cached aggregate of one horse
type CacheInvalidator interface {
	Invalidate(horseID int64)
}

type entryKey struct {
	raceID      int64
	horseNumber int
}

// FeatureBuilder derives a feature vector for every race entry from the
// horse's history before that race and stores it.
type FeatureBuilder struct {
	races     repository.RaceDataRepository
	analytics repository.AnalyticsEngine
	store     repository.FeatureStore
	cfg       config.FeaturesConfig
	log       *logger.IngestionLogger
	now       func() time.Time

	mu   sync.Mutex
	seen map[entryKey]struct{}
}

// NewFeatureBuilder creates a new feature builder
func NewFeatureBuilder(
	races repository.RaceDataRepository,
	analytics repository.AnalyticsEngine,
	store repository.FeatureStore,
	cfg config.FeaturesConfig,
	log *logrus.Logger,
) *FeatureBuilder {
	if log == nil {
		log = logger.Discard()
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 500
	}
	return &FeatureBuilder{
		races:     races,
		analytics: analytics,
		store:     store,
		cfg:       cfg,
		log:       logger.NewIngestionLogger(log),
		now:       time.Now,
	}
}

// Build computes the feature vector of one entry as of its race date
func (b *FeatureBuilder) Build(ctx context.Context, entry *models.RaceResult, race *models.RaceInfo) (*models.Feature, error) {
	f := &models.Feature{
		RaceID:      entry.RaceID,
		HorseNumber: entry.HorseNumber,
		HorseID:     entry.HorseID,
		ComputedAt:  b.now().UTC(),
	}
	horse, date := entry.HorseID, race.Date

	var err error
	if f.SpeedFigureLast, err = b.analytics.GetLastSpeedFigure(ctx, horse, date); err != nil {
		return nil, err
	}
	if f.SpeedFigureAvg3, err = b.analytics.GetAverageSpeedFigure(ctx, horse, date, b.cfg.SpeedShortWindow); err != nil {
		return nil, err
	}
	if f.SpeedFigureAvg5, err = b.analytics.GetAverageSpeedFigure(ctx, horse, date, b.cfg.SpeedLongWindow); err != nil {
		return nil, err
	}
	if f.WinnerAvg, err = b.analytics.GetAverageFinishPosition(ctx, horse, date, b.cfg.WinnerWindow); err != nil {
		return nil, err
	}
	if f.SpeedFigureAvgDistance, err = b.analytics.GetAverageSpeedFigureByDistance(ctx, horse, date, race.Distance, b.cfg.DistanceWindow); err != nil {
		return nil, err
	}
	if f.DistanceAvg, err = b.analytics.GetAverageDistance(ctx, horse, date, b.cfg.DistanceWindow); err != nil {
		return nil, err
	}
	if f.EarningsAvg, err = b.analytics.GetAverageEarnings(ctx, horse, date, b.cfg.EarningsWindow); err != nil {
		return nil, err
	}
	return f, nil
}

// invalidateChanged drops cached aggregates of every horse with an entry
// that was not present at the previous refresh. Results are append-only,
// so aggregates of other horses are still current. It returns the
// number of horses invalidated.
func (b *FeatureBuilder) invalidateChanged(entries []*models.RaceResult) int {
	inv, ok := b.analytics.(CacheInvalidator)
	if !ok {
		return 0
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	current := make(map[entryKey]struct{}, len(entries))
	changed := make(map[int64]struct{})
	for _, e := range entries {
		k := entryKey{raceID: e.RaceID, horseNumber: e.HorseNumber}
		current[k] = struct{}{}
		if b.seen == nil {
			continue
		}
		if _, known := b.seen[k]; !known {
			changed[e.HorseID] = struct{}{}
		}
	}
	b.seen = current

	for horseID := range changed {
		inv.Invalidate(horseID)
	}
	return len(changed)
}

// Refresh rebuilds the feature row of every race entry. Entries whose
// race is unknown or whose inputs are invalid are skipped; a failed
// batch is counted and the rebuild continues.
func (b *FeatureBuilder) Refresh(ctx context.Context) (*RefreshResult, error) {
	start := time.Now()
	res := &RefreshResult{RunID: uuid.New().String()}
	log := b.log.WithField("run_id", res.RunID)
	log.Info("Starting feature refresh")

	entries := b.races.GetRaceResults(ctx)
	res.Entries = len(entries)
	if res.Invalidated = b.invalidateChanged(entries); res.Invalidated > 0 {
		log.WithField("horses", res.Invalidated).Debug("Invalidated cached aggregates")
	}

	racesByID := make(map[int64]*models.RaceInfo)
	pending := make([]models.Feature, 0, b.cfg.BatchSize)

	flush := func() {
		if len(pending) == 0 {
			return
		}
		if err := b.store.UpsertBatch(ctx, pending); err != nil {
			res.FailedBatches++
		} else {
			res.Upserted += len(pending)
		}
		pending = pending[:0]
	}

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return res, fmt.Errorf("feature refresh interrupted: %w", err)
		}

		race, ok := racesByID[entry.RaceID]
		if !ok {
			race = b.races.GetRaceInfo(ctx, entry.RaceID)
			racesByID[entry.RaceID] = race
		}
		if race == nil {
			res.Skipped++
			continue
		}

		f, err := b.Build(ctx, entry, race)
		if err != nil {
			log.WithFields(logrus.Fields{
				"race_id":      entry.RaceID,
				"horse_number": entry.HorseNumber,
			}).WithError(err).Warn("Skipping entry")
			res.Skipped++
			continue
		}

		pending = append(pending, *f)
		if len(pending) >= b.cfg.BatchSize {
			flush()
		}
	}
	flush()

	res.Duration = time.Since(start)
	metrics.RecordFeatureRefresh(res.Duration.Seconds())
	b.log.LogFeatureRefresh(res.RunID, res.Entries, res.Upserted, res.Skipped+res.FailedBatches, res.Duration)
	return res, nil
}
