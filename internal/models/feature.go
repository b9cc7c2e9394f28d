package models

import "time"

// Feature is the derived feature vector of one race entry, keyed by
// (race_id, horse_number). It is the only mutable table: every upsert
// replaces the whole row.
type Feature struct {
	RaceID                 int64     `db:"race_id" json:"race_id" validate:"required,gt=0"`
	HorseNumber            int       `db:"horse_number" json:"horse_number" validate:"required,gt=0"`
	HorseID                int64     `db:"horse_id" json:"horse_id" validate:"required,gt=0"`
	SpeedFigureLast        *float64  `db:"speed_figure_last" json:"speed_figure_last"`
	SpeedFigureAvg3        *float64  `db:"speed_figure_avg3" json:"speed_figure_avg3"`
	SpeedFigureAvg5        *float64  `db:"speed_figure_avg5" json:"speed_figure_avg5"`
	WinnerAvg              *float64  `db:"winner_avg" json:"winner_avg"`
	SpeedFigureAvgDistance *float64  `db:"speed_figure_avg_distance" json:"speed_figure_avg_distance"`
	DistanceAvg            *float64  `db:"distance_avg" json:"distance_avg"`
	EarningsAvg            *float64  `db:"earnings_avg" json:"earnings_avg"`
	ComputedAt             time.Time `db:"computed_at" json:"computed_at"`
}
