package models

import (
	"github.com/shopspring/decimal"
)

// Finish positions counted as placed by the winner average.
const (
	PlacedFirst = 1
	PlacedLast  = 3
)

// RaceResult is one horse's participation in one race, keyed by
// (race_id, horse_number). Rows are append-only.
type RaceResult struct {
	RaceID        int64               `db:"race_id" json:"race_id" validate:"required,gt=0"`
	HorseNumber   int                 `db:"horse_number" json:"horse_number" validate:"required,gt=0"`
	BracketNumber int                 `db:"bracket_number" json:"bracket_number" validate:"gte=0"`
	HorseID       int64               `db:"horse_id" json:"horse_id" validate:"required,gt=0"`
	JockeyID      int64               `db:"jockey_id" json:"jockey_id" validate:"gte=0"`
	TrainerID     int64               `db:"trainer_id" json:"trainer_id" validate:"gte=0"`
	OwnerID       string              `db:"owner_id" json:"owner_id"`
	OrderOfFinish *float64            `db:"order_of_finish" json:"order_of_finish" validate:"omitempty,gt=0"`
	FinishTime    *float64            `db:"finish_time" json:"finish_time" validate:"omitempty,gt=0"`
	Odds          *float64            `db:"odds" json:"odds" validate:"omitempty,gte=1"`
	Popularity    *int                `db:"popularity" json:"popularity" validate:"omitempty,gt=0"`
	SpeedFigure   *float64            `db:"speed_figure" json:"speed_figure"`
	EarningMoney  decimal.NullDecimal `db:"earning_money" json:"earning_money"`
}
