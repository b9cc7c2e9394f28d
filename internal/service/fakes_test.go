package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/yourusername/skylark/internal/models"
	"github.com/yourusername/skylark/internal/repository"
)

var errWrite = errors.New("write failed")

// fakeEntities records every batch it is given
type fakeEntities[T any, K any] struct {
	mu      sync.Mutex
	batches [][]T
	fail    bool
}

func (f *fakeEntities[T, K]) InsertBatch(_ context.Context, records []T) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.batches = append(f.batches, append([]T(nil), records...))
	if f.fail {
		return errWrite
	}
	return nil
}

func (f *fakeEntities[T, K]) Get(_ context.Context, _ K) *T { return nil }

func (f *fakeEntities[T, K]) count() int {
	n := 0
	for _, b := range f.batches {
		n += len(b)
	}
	return n
}

type fakeRaceData struct {
	races     map[int64]*models.RaceInfo
	results   []*models.RaceResult
	infoCalls int
	infos     fakeEntities[models.RaceInfo, int64]
	entries   fakeEntities[models.RaceResult, int64]
	payoffs   fakeEntities[models.Payoff, int64]
}

func (f *fakeRaceData) InsertRaceInfos(ctx context.Context, r []models.RaceInfo) error {
	return f.infos.InsertBatch(ctx, r)
}

func (f *fakeRaceData) InsertRaceResults(ctx context.Context, r []models.RaceResult) error {
	return f.entries.InsertBatch(ctx, r)
}

func (f *fakeRaceData) InsertPayoffs(ctx context.Context, r []models.Payoff) error {
	return f.payoffs.InsertBatch(ctx, r)
}

func (f *fakeRaceData) GetRaceInfo(_ context.Context, raceID int64) *models.RaceInfo {
	f.infoCalls++
	return f.races[raceID]
}

func (f *fakeRaceData) GetRaceResults(context.Context) []*models.RaceResult { return f.results }

func (f *fakeRaceData) GetRaceResult(context.Context, int64, int) *models.RaceResult { return nil }

func (f *fakeRaceData) GetPayoffs(context.Context, int64) []*models.Payoff { return nil }

func (f *fakeRaceData) GetHorseID(context.Context, int64, int) (*int64, error) { return nil, nil }

func (f *fakeRaceData) GetJockeyID(context.Context, int64, int) (*int64, error) { return nil, nil }

func (f *fakeRaceData) GetTrainerID(context.Context, int64, int) (*int64, error) { return nil, nil }

func (f *fakeRaceData) GetOwnerID(context.Context, int64, int) (*string, error) { return nil, nil }

func (f *fakeRaceData) GetOrderOfFinish(context.Context, int64, int) (*float64, error) {
	return nil, nil
}

type fakeFeatureStore struct {
	batches [][]models.Feature
	failOn  int
}

func (f *fakeFeatureStore) UpsertBatch(_ context.Context, records []models.Feature) error {
	f.batches = append(f.batches, append([]models.Feature(nil), records...))
	if f.failOn > 0 && len(f.batches) == f.failOn {
		return errWrite
	}
	return nil
}

func (f *fakeFeatureStore) Get(context.Context, int64, int) *models.Feature { return nil }

// fakeAnalytics answers with a value derived from the query and records
// the windows it was asked for
type fakeAnalytics struct {
	calls []string
	dates []time.Time
}

func (f *fakeAnalytics) answer(q string, date time.Time, v float64) (*float64, error) {
	f.calls = append(f.calls, q)
	f.dates = append(f.dates, date)
	return &v, nil
}

func (f *fakeAnalytics) GetLastSpeedFigure(_ context.Context, horseID int64, date time.Time) (*float64, error) {
	if horseID <= 0 {
		return nil, models.ErrInvalidArgument
	}
	return f.answer("last", date, 90)
}

func (f *fakeAnalytics) GetAverageSpeedFigure(_ context.Context, _ int64, date time.Time, limit int) (*float64, error) {
	return f.answer("speed", date, float64(80+limit))
}

func (f *fakeAnalytics) GetAverageFinishPosition(_ context.Context, _ int64, date time.Time, _ int) (*float64, error) {
	return f.answer("winner", date, 2)
}

func (f *fakeAnalytics) GetAverageSpeedFigureByDistance(_ context.Context, _ int64, date time.Time, distance, _ int) (*float64, error) {
	return f.answer("distance_speed", date, float64(distance)/20)
}

func (f *fakeAnalytics) GetAverageDistance(_ context.Context, _ int64, date time.Time, _ int) (*float64, error) {
	return f.answer("distance", date, 1800)
}

func (f *fakeAnalytics) GetAverageEarnings(_ context.Context, _ int64, date time.Time, _ int) (*float64, error) {
	return f.answer("earnings", date, 500)
}

type fakeRepos struct {
	horses   *fakeEntities[models.Horse, int64]
	jockeys  *fakeEntities[models.Jockey, int64]
	trainers *fakeEntities[models.Trainer, int64]
	owners   *fakeEntities[models.Owner, string]
	races    *fakeRaceData
	features *fakeFeatureStore
}

func newFakeRepos() (*repository.Repositories, *fakeRepos) {
	f := &fakeRepos{
		horses:   &fakeEntities[models.Horse, int64]{},
		jockeys:  &fakeEntities[models.Jockey, int64]{},
		trainers: &fakeEntities[models.Trainer, int64]{},
		owners:   &fakeEntities[models.Owner, string]{},
		races:    &fakeRaceData{races: map[int64]*models.RaceInfo{}},
		features: &fakeFeatureStore{},
	}
	return &repository.Repositories{
		Horse:     f.horses,
		Jockey:    f.jockeys,
		Trainer:   f.trainers,
		Owner:     f.owners,
		RaceData:  f.races,
		Features:  f.features,
		Analytics: &fakeAnalytics{},
	}, f
}

// fakeSource serves fixed rows and records the order tables were read in
type fakeSource struct {
	horses  []models.Horse
	owners  []models.Owner
	races   []models.RaceInfo
	results []models.RaceResult
	failOn  string
	order   []string
	closed  bool
}

func serve[T any](s *fakeSource, table string, rows []T, batchSize int, fn func([]T) error) error {
	s.order = append(s.order, table)
	if s.failOn == table {
		return errors.New("source unavailable")
	}
	for i := 0; i < len(rows); i += batchSize {
		end := i + batchSize
		if end > len(rows) {
			end = len(rows)
		}
		if err := fn(rows[i:end]); err != nil {
			return err
		}
	}
	return nil
}

func (s *fakeSource) Horses(_ context.Context, n int, fn func([]models.Horse) error) error {
	return serve(s, "horse", s.horses, n, fn)
}

func (s *fakeSource) Jockeys(_ context.Context, n int, fn func([]models.Jockey) error) error {
	return serve[models.Jockey](s, "jockey", nil, n, fn)
}

func (s *fakeSource) Trainers(_ context.Context, n int, fn func([]models.Trainer) error) error {
	return serve[models.Trainer](s, "trainer", nil, n, fn)
}

func (s *fakeSource) Owners(_ context.Context, n int, fn func([]models.Owner) error) error {
	return serve(s, "owner", s.owners, n, fn)
}

func (s *fakeSource) RaceInfos(_ context.Context, n int, fn func([]models.RaceInfo) error) error {
	return serve(s, "race_info", s.races, n, fn)
}

func (s *fakeSource) RaceResults(_ context.Context, n int, fn func([]models.RaceResult) error) error {
	return serve(s, "race_result", s.results, n, fn)
}

func (s *fakeSource) Payoffs(_ context.Context, n int, fn func([]models.Payoff) error) error {
	return serve[models.Payoff](s, "payoff", nil, n, fn)
}

func (s *fakeSource) Close() error {
	s.closed = true
	return nil
}
