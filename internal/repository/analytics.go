package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/skylark/internal/database"
	"github.com/yourusername/skylark/internal/metrics"
	"github.com/yourusername/skylark/internal/models"
)

// window selects a horse's most recent races before a reference date
// and averages one column over them.
type window struct {
	name        string
	column      string
	speedOnly   bool
	placedOnly  bool
	perDistance bool
}

var (
	lastSpeedFigureWindow     = window{name: "last_speed_figure", column: "rr.speed_figure", speedOnly: true}
	speedFigureWindow         = window{name: "speed_figure_avg", column: "rr.speed_figure", speedOnly: true}
	finishPositionWindow      = window{name: "finish_position_avg", column: "rr.order_of_finish", speedOnly: true, placedOnly: true}
	distanceSpeedFigureWindow = window{name: "speed_figure_distance_avg", column: "rr.speed_figure", speedOnly: true, perDistance: true}
	distanceWindow            = window{name: "distance_avg", column: "ri.distance"}
	earningsWindow            = window{name: "earnings_avg", column: "rr.earning_money"}
)

// sql renders the window query. Parameters are $1 horse id, $2 date,
// then the distance when perDistance is set, then the limit.
func (w window) sql() string {
	var b strings.Builder
	fmt.Fprintf(&b, "SELECT AVG(v)::double precision FROM (SELECT %s AS v", w.column)
	b.WriteString(" FROM race_result rr JOIN race_info ri ON rr.race_id = ri.id")
	b.WriteString(" WHERE rr.horse_id = $1 AND ri.date < $2")
	if w.speedOnly {
		b.WriteString(" AND rr.speed_figure IS NOT NULL")
	}
	if w.placedOnly {
		fmt.Fprintf(&b, " AND rr.order_of_finish BETWEEN %d AND %d", models.PlacedFirst, models.PlacedLast)
	}
	next := 3
	if w.perDistance {
		fmt.Fprintf(&b, " AND ri.distance = $%d", next)
		next++
	}
	fmt.Fprintf(&b, " ORDER BY ri.date DESC, rr.race_id DESC LIMIT $%d) w", next)
	return b.String()
}

// PostgresAnalyticsEngine implements AnalyticsEngine for PostgreSQL
type PostgresAnalyticsEngine struct {
	w batchWriter
}

// NewPostgresAnalyticsEngine creates a new analytics engine
func NewPostgresAnalyticsEngine(db *database.DB, log *logrus.Logger) AnalyticsEngine {
	return &PostgresAnalyticsEngine{w: newBatchWriter(db, log)}
}

// GetLastSpeedFigure returns the speed figure of the horse's most recent
// race before date that has one.
func (a *PostgresAnalyticsEngine) GetLastSpeedFigure(ctx context.Context, horseID int64, date time.Time) (*float64, error) {
	return a.aggregate(ctx, lastSpeedFigureWindow, horseID, date, 0, 1)
}

// GetAverageSpeedFigure averages the speed figures of the last limit races
func (a *PostgresAnalyticsEngine) GetAverageSpeedFigure(ctx context.Context, horseID int64, date time.Time, limit int) (*float64, error) {
	return a.aggregate(ctx, speedFigureWindow, horseID, date, 0, limit)
}

// GetAverageFinishPosition averages the finishing positions of the last
// limit top-three finishes. It is a mean position, not a win rate.
func (a *PostgresAnalyticsEngine) GetAverageFinishPosition(ctx context.Context, horseID int64, date time.Time, limit int) (*float64, error) {
	return a.aggregate(ctx, finishPositionWindow, horseID, date, 0, limit)
}

// GetAverageSpeedFigureByDistance averages speed figures over the last
// limit races run at exactly distance.
func (a *PostgresAnalyticsEngine) GetAverageSpeedFigureByDistance(ctx context.Context, horseID int64, date time.Time, distance, limit int) (*float64, error) {
	if distance <= 0 {
		return nil, fmt.Errorf("distance must be positive, got %d: %w", distance, models.ErrInvalidArgument)
	}
	return a.aggregate(ctx, distanceSpeedFigureWindow, horseID, date, distance, limit)
}

// GetAverageDistance averages race distances over the last limit races
func (a *PostgresAnalyticsEngine) GetAverageDistance(ctx context.Context, horseID int64, date time.Time, limit int) (*float64, error) {
	return a.aggregate(ctx, distanceWindow, horseID, date, 0, limit)
}

// GetAverageEarnings averages prize money over the last limit races
func (a *PostgresAnalyticsEngine) GetAverageEarnings(ctx context.Context, horseID int64, date time.Time, limit int) (*float64, error) {
	return a.aggregate(ctx, earningsWindow, horseID, date, 0, limit)
}

func (a *PostgresAnalyticsEngine) aggregate(ctx context.Context, w window, horseID int64, date time.Time, distance, limit int) (*float64, error) {
	if err := validateWindow(horseID, limit); err != nil {
		return nil, err
	}

	args := []any{horseID, date}
	if w.perDistance {
		args = append(args, distance)
	}
	args = append(args, limit)

	start := time.Now()
	value := readScalar[float64](ctx, a.w, w.name, w.sql(), args...)
	metrics.RecordAnalyticsQuery(w.name, time.Since(start).Seconds())
	return value, nil
}

func validateWindow(horseID int64, limit int) error {
	if horseID <= 0 {
		return fmt.Errorf("horse id must be positive, got %d: %w", horseID, models.ErrInvalidArgument)
	}
	if limit <= 0 {
		return fmt.Errorf("limit must be positive, got %d: %w", limit, models.ErrInvalidArgument)
	}
	return nil
}
