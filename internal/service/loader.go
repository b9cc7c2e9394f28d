package service

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/skylark/internal/logger"
	"github.com/yourusername/skylark/internal/models"
	"github.com/yourusername/skylark/internal/repository"
)

// LoadResult summarises one JSON Lines load
type LoadResult struct {
	Table         string
	Lines         int
	Rejected      int
	Batches       int
	FailedBatches int
}

// Loader writes newline-delimited JSON records into one table. Each
// line must decode into the table's record type; lines with unknown
// fields or failing validation are rejected.
type Loader struct {
	repos     *repository.Repositories
	log       *logrus.Entry
	batchSize int
}

// NewLoader creates a new loader
func NewLoader(repos *repository.Repositories, log *logrus.Logger, batchSize int) *Loader {
	if log == nil {
		log = logger.Discard()
	}
	if batchSize <= 0 {
		batchSize = 500
	}
	return &Loader{repos: repos, log: log.WithField("component", "loader"), batchSize: batchSize}
}

// Tables lists the table names Load accepts
func Tables() []string {
	return []string{"horse", "jockey", "trainer", "owner", "race_info", "race_result", "payoff", "feature"}
}

// Load reads r to the end and writes its records into table
func (l *Loader) Load(ctx context.Context, table string, r io.Reader) (*LoadResult, error) {
	res := &LoadResult{Table: table}
	var err error

	switch table {
	case "horse":
		err = loadLines(ctx, l, res, r, l.repos.Horse.InsertBatch)
	case "jockey":
		err = loadLines(ctx, l, res, r, l.repos.Jockey.InsertBatch)
	case "trainer":
		err = loadLines(ctx, l, res, r, l.repos.Trainer.InsertBatch)
	case "owner":
		err = loadLines(ctx, l, res, r, l.repos.Owner.InsertBatch)
	case "race_info":
		err = loadLines(ctx, l, res, r, l.repos.RaceData.InsertRaceInfos)
	case "race_result":
		err = loadLines(ctx, l, res, r, l.repos.RaceData.InsertRaceResults)
	case "payoff":
		err = loadLines(ctx, l, res, r, l.repos.RaceData.InsertPayoffs)
	case "feature":
		err = loadLines(ctx, l, res, r, l.repos.Features.UpsertBatch)
	default:
		return nil, fmt.Errorf("unknown table %q: %w", table, models.ErrInvalidArgument)
	}
	return res, err
}

func loadLines[T any](ctx context.Context, l *Loader, res *LoadResult, r io.Reader, write func(context.Context, []T) error) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	batch := make([]T, 0, l.batchSize)
	flush := func() {
		if len(batch) == 0 {
			return
		}
		res.Batches++
		if err := write(ctx, batch); err != nil {
			res.FailedBatches++
		}
		batch = batch[:0]
	}

	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		res.Lines++

		rec, err := models.DecodeStrict[T](line)
		if err != nil {
			res.Rejected++
			l.log.WithFields(logrus.Fields{
				"table": res.Table,
				"line":  res.Lines,
			}).WithError(err).Warn("Rejected record")
			continue
		}

		batch = append(batch, *rec)
		if len(batch) >= l.batchSize {
			flush()
		}
		if err := ctx.Err(); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read %s records: %w", res.Table, err)
	}
	flush()
	return nil
}
