package models

import "github.com/shopspring/decimal"

// Payoff is one payout line of a race. HorseNumbers encodes the paid
// combination (e.g. "3-7-12"); together with RaceID and TicketType it
// forms the natural key.
type Payoff struct {
	RaceID       int64           `db:"race_id" json:"race_id" validate:"required,gt=0"`
	TicketType   int             `db:"ticket_type" json:"ticket_type" validate:"gte=0"`
	HorseNumbers string          `db:"horse_numbers" json:"horse_numbers" validate:"required"`
	Amount       decimal.Decimal `db:"amount" json:"amount"`
	Popularity   *int            `db:"popularity" json:"popularity" validate:"omitempty,gt=0"`
}
