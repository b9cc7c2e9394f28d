package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/skylark/internal/legacy"
	"github.com/yourusername/skylark/internal/logger"
	"github.com/yourusername/skylark/internal/metrics"
	"github.com/yourusername/skylark/internal/models"
	"github.com/yourusername/skylark/internal/repository"
	"golang.org/x/time/rate"
)

// Importer copies the legacy store into PostgreSQL table by table, in
// dependency order, through the repositories.
type Importer struct {
	source    legacy.Source
	repos     *repository.Repositories
	limiter   *rate.Limiter
	log       *logger.IngestionLogger
	batchSize int
}

// NewImporter creates a new importer. batchesPerSecond <= 0 disables throttling.
func NewImporter(source legacy.Source, repos *repository.Repositories, log *logrus.Logger, batchSize int, batchesPerSecond float64) *Importer {
	if batchSize <= 0 {
		batchSize = 500
	}
	if log == nil {
		log = logger.Discard()
	}

	limit := rate.Inf
	if batchesPerSecond > 0 {
		limit = rate.Limit(batchesPerSecond)
	}

	return &Importer{
		source:    source,
		repos:     repos,
		limiter:   rate.NewLimiter(limit, 1),
		log:       logger.NewIngestionLogger(log),
		batchSize: batchSize,
	}
}

// Run imports every table. A failed batch is counted and skipped; a
// source failure aborts the run.
func (im *Importer) Run(ctx context.Context) (*ImportMetrics, error) {
	m := NewImportMetrics(uuid.New().String())
	im.log.WithField("run_id", m.RunID).Info("Starting legacy import")

	steps := []struct {
		table string
		run   func() error
	}{
		{"horse", func() error {
			return im.source.Horses(ctx, im.batchSize, sink(ctx, im, m, "horse", im.repos.Horse.InsertBatch))
		}},
		{"jockey", func() error {
			return im.source.Jockeys(ctx, im.batchSize, sink(ctx, im, m, "jockey", im.repos.Jockey.InsertBatch))
		}},
		{"trainer", func() error {
			return im.source.Trainers(ctx, im.batchSize, sink(ctx, im, m, "trainer", im.repos.Trainer.InsertBatch))
		}},
		{"owner", func() error {
			return im.source.Owners(ctx, im.batchSize, sink(ctx, im, m, "owner", im.repos.Owner.InsertBatch))
		}},
		{"race_info", func() error {
			return im.source.RaceInfos(ctx, im.batchSize, sink(ctx, im, m, "race_info", im.repos.RaceData.InsertRaceInfos))
		}},
		{"race_result", func() error {
			return im.source.RaceResults(ctx, im.batchSize, sink(ctx, im, m, "race_result", im.repos.RaceData.InsertRaceResults))
		}},
		{"payoff", func() error {
			return im.source.Payoffs(ctx, im.batchSize, sink(ctx, im, m, "payoff", im.repos.RaceData.InsertPayoffs))
		}},
	}

	for _, step := range steps {
		start := time.Now()
		if err := step.run(); err != nil {
			m.Finish()
			return m, fmt.Errorf("import %s: %w", step.table, err)
		}
		ts := m.Table(step.table)
		im.log.LogImportStep(m.RunID, step.table, ts.Read, ts.Rejected, time.Since(start))
	}

	m.Finish()
	im.log.WithFields(logrus.Fields{
		"run_id":         m.RunID,
		"failed_batches": m.FailedBatches(),
		"duration_ms":    m.Duration.Milliseconds(),
	}).Info("Legacy import complete")
	return m, nil
}

// sink validates one source batch, waits for the limiter and writes
// the valid records.
func sink[T any](ctx context.Context, im *Importer, m *ImportMetrics, table string, write func(context.Context, []T) error) func([]T) error {
	return func(batch []T) error {
		valid, rejected := validRecords(batch)
		if rejected > 0 {
			im.log.WithFields(logrus.Fields{
				"table":    table,
				"rejected": rejected,
			}).Warn("Skipping invalid legacy records")
		}
		metrics.RecordImportRows(table, "read", len(batch))
		metrics.RecordImportRows(table, "rejected", rejected)

		if err := im.limiter.Wait(ctx); err != nil {
			return err
		}

		err := write(ctx, valid)
		m.RecordBatch(table, len(batch), rejected, err != nil)
		return nil
	}
}

func validRecords[T any](batch []T) ([]T, int) {
	valid := make([]T, 0, len(batch))
	for i := range batch {
		if err := models.Validate(&batch[i]); err != nil {
			continue
		}
		valid = append(valid, batch[i])
	}
	return valid, len(batch) - len(valid)
}
