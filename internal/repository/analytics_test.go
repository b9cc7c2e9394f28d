package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/yourusername/skylark/internal/logger"
	"github.com/yourusername/skylark/internal/models"
)

func TestWindowSQL(t *testing.T) {
	tests := []struct {
		name     string
		w        window
		contains []string
		excludes []string
	}{
		{
			name: "speed figure",
			w:    speedFigureWindow,
			contains: []string{
				"SELECT AVG(v)::double precision FROM (SELECT rr.speed_figure AS v",
				"rr.horse_id = $1 AND ri.date < $2",
				"rr.speed_figure IS NOT NULL",
				"ORDER BY ri.date DESC, rr.race_id DESC LIMIT $3) w",
			},
			excludes: []string{"BETWEEN", "ri.distance ="},
		},
		{
			name: "finish position",
			w:    finishPositionWindow,
			contains: []string{
				"SELECT rr.order_of_finish AS v",
				"rr.speed_figure IS NOT NULL",
				"rr.order_of_finish BETWEEN 1 AND 3",
				"LIMIT $3) w",
			},
		},
		{
			name: "speed figure by distance",
			w:    distanceSpeedFigureWindow,
			contains: []string{
				"rr.speed_figure IS NOT NULL",
				"AND ri.distance = $3",
				"LIMIT $4) w",
			},
		},
		{
			name:     "distance",
			w:        distanceWindow,
			contains: []string{"SELECT ri.distance AS v", "LIMIT $3) w"},
			excludes: []string{"IS NOT NULL"},
		},
		{
			name:     "earnings",
			w:        earningsWindow,
			contains: []string{"SELECT rr.earning_money AS v"},
			excludes: []string{"IS NOT NULL", "BETWEEN"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql := tt.w.sql()
			for _, s := range tt.contains {
				assert.Contains(t, sql, s)
			}
			for _, s := range tt.excludes {
				assert.NotContains(t, sql, s)
			}
		})
	}
}

func TestAnalyticsPreconditions(t *testing.T) {
	engine := NewPostgresAnalyticsEngine(closedDB(), logger.Discard())
	ctx := context.Background()
	date := time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)

	calls := map[string]func(horseID int64, limit int) (*float64, error){
		"average speed": func(h int64, l int) (*float64, error) { return engine.GetAverageSpeedFigure(ctx, h, date, l) },
		"finish":        func(h int64, l int) (*float64, error) { return engine.GetAverageFinishPosition(ctx, h, date, l) },
		"by distance":   func(h int64, l int) (*float64, error) { return engine.GetAverageSpeedFigureByDistance(ctx, h, date, 1600, l) },
		"distance":      func(h int64, l int) (*float64, error) { return engine.GetAverageDistance(ctx, h, date, l) },
		"earnings":      func(h int64, l int) (*float64, error) { return engine.GetAverageEarnings(ctx, h, date, l) },
	}

	for name, call := range calls {
		t.Run(name, func(t *testing.T) {
			v, err := call(0, 5)
			assert.ErrorIs(t, err, models.ErrInvalidArgument)
			assert.Nil(t, v)

			v, err = call(42, 0)
			assert.ErrorIs(t, err, models.ErrInvalidArgument)
			assert.Nil(t, v)

			v, err = call(42, -3)
			assert.ErrorIs(t, err, models.ErrInvalidArgument)
			assert.Nil(t, v)
		})
	}

	v, err := engine.GetLastSpeedFigure(ctx, -1, date)
	assert.ErrorIs(t, err, models.ErrInvalidArgument)
	assert.Nil(t, v)

	v, err = engine.GetAverageSpeedFigureByDistance(ctx, 42, date, 0, 5)
	assert.ErrorIs(t, err, models.ErrInvalidArgument)
	assert.Nil(t, v)
}

func TestAnalyticsReadFailureIsAbsent(t *testing.T) {
	engine := NewPostgresAnalyticsEngine(closedDB(), logger.Discard())

	v, err := engine.GetAverageSpeedFigure(context.Background(), 42, time.Now(), 3)
	assert.NoError(t, err)
	assert.Nil(t, v)
}
