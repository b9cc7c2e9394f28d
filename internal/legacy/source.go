// Package legacy reads the original MySQL race store for import.
package legacy

import (
	"context"

	"github.com/yourusername/skylark/internal/models"
)

// Source streams every table of the legacy store in batches. Each call
// invokes fn once per batch of at most batchSize records and stops at
// the first error fn returns.
type Source interface {
	Horses(ctx context.Context, batchSize int, fn func([]models.Horse) error) error
	Jockeys(ctx context.Context, batchSize int, fn func([]models.Jockey) error) error
	Trainers(ctx context.Context, batchSize int, fn func([]models.Trainer) error) error
	Owners(ctx context.Context, batchSize int, fn func([]models.Owner) error) error
	RaceInfos(ctx context.Context, batchSize int, fn func([]models.RaceInfo) error) error
	RaceResults(ctx context.Context, batchSize int, fn func([]models.RaceResult) error) error
	Payoffs(ctx context.Context, batchSize int, fn func([]models.Payoff) error) error
	Close() error
}
