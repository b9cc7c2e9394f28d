package models

import "time"

// RaceInfo describes a single race. Rows are insert-only.
type RaceInfo struct {
	ID             int64     `db:"id" json:"id" validate:"required,gt=0"`
	Date           time.Time `db:"date" json:"date" validate:"required"`
	Course         string    `db:"course" json:"course" validate:"required"`
	RaceNumber     int       `db:"race_number" json:"race_number" validate:"gte=0"`
	Name           string    `db:"name" json:"name"`
	Distance       int       `db:"distance" json:"distance" validate:"required,gt=0"`
	Surface        string    `db:"surface" json:"surface"`
	Weather        string    `db:"weather" json:"weather"`
	TrackCondition string    `db:"track_condition" json:"track_condition"`
	Class          *int      `db:"class" json:"class"`
	HorseCount     int       `db:"horse_count" json:"horse_count" validate:"gte=0"`
}

// UnmarshalJSON accepts the race date as a plain YYYY-MM-DD date or a
// full timestamp.
func (r *RaceInfo) UnmarshalJSON(data []byte) error {
	type raw RaceInfo
	aux := struct {
		*raw
		Date jsonTime `json:"date"`
	}{raw: (*raw)(r)}
	if err := strictDecode(data, &aux); err != nil {
		return err
	}
	r.Date = time.Time(aux.Date)
	return nil
}
