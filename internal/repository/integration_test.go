//go:build integration

package repository

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/skylark/internal/logger"
	"github.com/yourusername/skylark/internal/models"
	"github.com/yourusername/skylark/internal/testinfra"
)

func day(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func f64(v float64) *float64 { return &v }

func TestRepositoriesIntegration(t *testing.T) {
	pg := testinfra.NewPostgres(t)
	repos, err := NewRepositories(pg.DB, logger.Discard())
	require.NoError(t, err)

	t.Run("entity insert is idempotent", func(t *testing.T) {
		pg.Truncate(t)
		ctx := context.Background()

		batch := []models.Horse{
			{ID: 1, Name: "Deep Impact", Sex: "male"},
			{ID: 2, Name: "Almond Eye", Sex: "female"},
		}
		require.NoError(t, repos.Horse.InsertBatch(ctx, batch))
		require.NoError(t, repos.Horse.InsertBatch(ctx, batch))

		got := repos.Horse.Get(ctx, 2)
		require.NotNil(t, got)
		assert.Equal(t, "Almond Eye", got.Name)
		assert.Nil(t, repos.Horse.Get(ctx, 3))
	})

	t.Run("existing key does not discard siblings", func(t *testing.T) {
		pg.Truncate(t)
		ctx := context.Background()

		require.NoError(t, repos.Owner.InsertBatch(ctx, []models.Owner{{ID: "o1", Name: "First"}}))
		require.NoError(t, repos.Owner.InsertBatch(ctx, []models.Owner{
			{ID: "o1", Name: "Renamed"},
			{ID: "o2", Name: "Second"},
		}))

		first := repos.Owner.Get(ctx, "o1")
		require.NotNil(t, first)
		assert.Equal(t, "First", first.Name, "existing rows are never modified")
		assert.NotNil(t, repos.Owner.Get(ctx, "o2"))
	})

	t.Run("race results come back in key order", func(t *testing.T) {
		pg.Truncate(t)
		ctx := context.Background()
		seedRaces(t, repos)

		results := repos.RaceData.GetRaceResults(ctx)
		require.Len(t, results, 4)
		for i := 1; i < len(results); i++ {
			prev, cur := results[i-1], results[i]
			assert.True(t, prev.RaceID < cur.RaceID ||
				(prev.RaceID == cur.RaceID && prev.HorseNumber < cur.HorseNumber))
		}
	})

	t.Run("entry projections", func(t *testing.T) {
		pg.Truncate(t)
		ctx := context.Background()
		seedRaces(t, repos)

		horseID, err := repos.RaceData.GetHorseID(ctx, 2, 5)
		require.NoError(t, err)
		require.NotNil(t, horseID)
		assert.Equal(t, int64(42), *horseID)

		owner, err := repos.RaceData.GetOwnerID(ctx, 2, 5)
		require.NoError(t, err)
		require.NotNil(t, owner)
		assert.Equal(t, "o42", *owner)

		missing, err := repos.RaceData.GetOrderOfFinish(ctx, 99, 1)
		require.NoError(t, err)
		assert.Nil(t, missing)

		result := repos.RaceData.GetRaceResult(ctx, 1, 5)
		require.NotNil(t, result)
		assert.True(t, result.EarningMoney.Valid)
		assert.True(t, decimal.NewFromInt(1000).Equal(result.EarningMoney.Decimal))

		payoffs := repos.RaceData.GetPayoffs(ctx, 1)
		require.Len(t, payoffs, 1)
		assert.True(t, decimal.RequireFromString("350").Equal(payoffs[0].Amount))
	})

	t.Run("speed figure windows exclude the reference date", func(t *testing.T) {
		pg.Truncate(t)
		ctx := context.Background()
		seedRaces(t, repos)

		avg, err := repos.Analytics.GetAverageSpeedFigure(ctx, 42, day("2024-03-01"), 2)
		require.NoError(t, err)
		require.NotNil(t, avg)
		assert.InDelta(t, 85.0, *avg, 1e-9)

		last, err := repos.Analytics.GetLastSpeedFigure(ctx, 42, day("2024-03-01"))
		require.NoError(t, err)
		require.NotNil(t, last)
		assert.InDelta(t, 90.0, *last, 1e-9)

		none, err := repos.Analytics.GetLastSpeedFigure(ctx, 42, day("2024-01-01"))
		require.NoError(t, err)
		assert.Nil(t, none, "no race strictly before the first one")

		all, err := repos.Analytics.GetAverageSpeedFigure(ctx, 42, day("2025-01-01"), 10)
		require.NoError(t, err)
		require.NotNil(t, all)
		assert.InDelta(t, 80.0, *all, 1e-9)
	})

	t.Run("later races do not change earlier windows", func(t *testing.T) {
		pg.Truncate(t)
		ctx := context.Background()
		seedRaces(t, repos)
		asOf := day("2024-03-01")

		require.NoError(t, repos.RaceData.InsertRaceInfos(ctx, []models.RaceInfo{
			{ID: 4, Date: day("2024-06-01"), Course: "Kyoto", Distance: 1600},
		}))
		require.NoError(t, repos.RaceData.InsertRaceResults(ctx, []models.RaceResult{
			{RaceID: 4, HorseNumber: 1, HorseID: 42, OwnerID: "o42", OrderOfFinish: f64(1), SpeedFigure: f64(999),
				EarningMoney: decimal.NewNullDecimal(decimal.NewFromInt(90000))},
		}))

		avg, err := repos.Analytics.GetAverageSpeedFigure(ctx, 42, asOf, 2)
		require.NoError(t, err)
		require.NotNil(t, avg)
		assert.InDelta(t, 85.0, *avg, 1e-9)

		last, err := repos.Analytics.GetLastSpeedFigure(ctx, 42, asOf)
		require.NoError(t, err)
		require.NotNil(t, last)
		assert.InDelta(t, 90.0, *last, 1e-9)

		winner, err := repos.Analytics.GetAverageFinishPosition(ctx, 42, asOf, 5)
		require.NoError(t, err)
		require.NotNil(t, winner)
		assert.InDelta(t, 2.0, *winner, 1e-9)

		earnings, err := repos.Analytics.GetAverageEarnings(ctx, 42, asOf, 5)
		require.NoError(t, err)
		require.NotNil(t, earnings)
		assert.InDelta(t, 1000.0, *earnings, 1e-9)
	})

	t.Run("races on the same date pick the higher race id", func(t *testing.T) {
		pg.Truncate(t)
		ctx := context.Background()

		require.NoError(t, repos.Horse.InsertBatch(ctx, []models.Horse{{ID: 50, Name: "Gold Ship"}}))
		require.NoError(t, repos.RaceData.InsertRaceInfos(ctx, []models.RaceInfo{
			{ID: 10, Date: day("2024-05-01"), Course: "Tokyo", Distance: 1200},
			{ID: 11, Date: day("2024-05-01"), Course: "Tokyo", Distance: 2400},
		}))
		require.NoError(t, repos.RaceData.InsertRaceResults(ctx, []models.RaceResult{
			{RaceID: 11, HorseNumber: 2, HorseID: 50, OrderOfFinish: f64(2), SpeedFigure: f64(95)},
			{RaceID: 10, HorseNumber: 4, HorseID: 50, OrderOfFinish: f64(1), SpeedFigure: f64(60)},
		}))
		asOf := day("2024-05-02")

		last, err := repos.Analytics.GetLastSpeedFigure(ctx, 50, asOf)
		require.NoError(t, err)
		require.NotNil(t, last)
		assert.InDelta(t, 95.0, *last, 1e-9)

		distance, err := repos.Analytics.GetAverageDistance(ctx, 50, asOf, 1)
		require.NoError(t, err)
		require.NotNil(t, distance)
		assert.InDelta(t, 2400.0, *distance, 1e-9)
	})

	t.Run("other windows", func(t *testing.T) {
		pg.Truncate(t)
		ctx := context.Background()
		seedRaces(t, repos)
		asOf := day("2025-01-01")

		winner, err := repos.Analytics.GetAverageFinishPosition(ctx, 42, asOf, 5)
		require.NoError(t, err)
		require.NotNil(t, winner)
		assert.InDelta(t, 2.0, *winner, 1e-9, "mean of positions 1 and 3; 7th is excluded")

		byDistance, err := repos.Analytics.GetAverageSpeedFigureByDistance(ctx, 42, asOf, 1600, 5)
		require.NoError(t, err)
		require.NotNil(t, byDistance)
		assert.InDelta(t, 75.0, *byDistance, 1e-9)

		distance, err := repos.Analytics.GetAverageDistance(ctx, 42, asOf, 2)
		require.NoError(t, err)
		require.NotNil(t, distance)
		assert.InDelta(t, 1800.0, *distance, 1e-9)

		earnings, err := repos.Analytics.GetAverageEarnings(ctx, 42, asOf, 5)
		require.NoError(t, err)
		require.NotNil(t, earnings)
		assert.InDelta(t, 500.0, *earnings, 1e-9, "NULL earnings are ignored by the average")

		unknown, err := repos.Analytics.GetAverageSpeedFigure(ctx, 7, asOf, 5)
		require.NoError(t, err)
		assert.Nil(t, unknown)
	})

	t.Run("feature upsert overwrites", func(t *testing.T) {
		pg.Truncate(t)
		ctx := context.Background()

		computed := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
		first := models.Feature{RaceID: 3, HorseNumber: 5, HorseID: 42, SpeedFigureAvg3: f64(80), ComputedAt: computed}
		second := first
		second.SpeedFigureAvg3 = f64(85)
		second.WinnerAvg = f64(2)

		require.NoError(t, repos.Features.UpsertBatch(ctx, []models.Feature{first}))
		require.NoError(t, repos.Features.UpsertBatch(ctx, []models.Feature{second}))

		got := repos.Features.Get(ctx, 3, 5)
		require.NotNil(t, got)
		require.NotNil(t, got.SpeedFigureAvg3)
		assert.Equal(t, 85.0, *got.SpeedFigureAvg3)
		require.NotNil(t, got.WinnerAvg)
		assert.Equal(t, 2.0, *got.WinnerAvg)
	})
}

// seedRaces loads horse 42's history:
//
//	race 1  2024-01-01  1600m  speed 80  1st  earnings 1000
//	race 2  2024-02-01  2000m  speed 90  3rd  earnings NULL
//	race 3  2024-03-01  1600m  speed 70  7th  earnings 0
//
// plus one rival entry in race 1.
func seedRaces(t *testing.T, repos *Repositories) {
	t.Helper()
	ctx := context.Background()

	require.NoError(t, repos.Horse.InsertBatch(ctx, []models.Horse{
		{ID: 42, Name: "Kitasan Black"},
		{ID: 43, Name: "Satono Diamond"},
	}))
	require.NoError(t, repos.RaceData.InsertRaceInfos(ctx, []models.RaceInfo{
		{ID: 3, Date: day("2024-03-01"), Course: "Hanshin", Distance: 1600},
		{ID: 1, Date: day("2024-01-01"), Course: "Nakayama", Distance: 1600},
		{ID: 2, Date: day("2024-02-01"), Course: "Tokyo", Distance: 2000},
	}))
	require.NoError(t, repos.RaceData.InsertRaceResults(ctx, []models.RaceResult{
		{RaceID: 3, HorseNumber: 5, HorseID: 42, OwnerID: "o42", OrderOfFinish: f64(7), SpeedFigure: f64(70),
			EarningMoney: decimal.NewNullDecimal(decimal.Zero)},
		{RaceID: 1, HorseNumber: 5, HorseID: 42, OwnerID: "o42", OrderOfFinish: f64(1), SpeedFigure: f64(80),
			EarningMoney: decimal.NewNullDecimal(decimal.NewFromInt(1000))},
		{RaceID: 2, HorseNumber: 5, HorseID: 42, OwnerID: "o42", OrderOfFinish: f64(3), SpeedFigure: f64(90)},
		{RaceID: 1, HorseNumber: 2, HorseID: 43, OwnerID: "o43", OrderOfFinish: f64(2), SpeedFigure: f64(85)},
	}))
	require.NoError(t, repos.RaceData.InsertPayoffs(ctx, []models.Payoff{
		{RaceID: 1, TicketType: 1, HorseNumbers: "5", Amount: decimal.NewFromInt(350)},
	}))
}
