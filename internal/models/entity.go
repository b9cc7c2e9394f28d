package models

import "time"

// Horse is a reference entity for a racehorse. Rows are insert-only.
type Horse struct {
	ID        int64      `db:"id" json:"id" validate:"required,gt=0"`
	Name      string     `db:"name" json:"name" validate:"required"`
	Sex       string     `db:"sex" json:"sex"`
	BirthDate *time.Time `db:"birth_date" json:"birth_date"`
	Sire      string     `db:"sire" json:"sire"`
	Dam       string     `db:"dam" json:"dam"`
}

// Jockey is a reference entity for a rider.
type Jockey struct {
	ID          int64      `db:"id" json:"id" validate:"required,gt=0"`
	Name        string     `db:"name" json:"name" validate:"required"`
	BirthDate   *time.Time `db:"birth_date" json:"birth_date"`
	Affiliation string     `db:"affiliation" json:"affiliation"`
}

// UnmarshalJSON accepts the birth date as a plain date or a timestamp.
func (h *Horse) UnmarshalJSON(data []byte) error {
	type raw Horse
	aux := struct {
		*raw
		BirthDate *jsonTime `json:"birth_date"`
	}{raw: (*raw)(h)}
	if err := strictDecode(data, &aux); err != nil {
		return err
	}
	h.BirthDate = aux.BirthDate.ptr()
	return nil
}

// UnmarshalJSON accepts the birth date as a plain date or a timestamp.
func (j *Jockey) UnmarshalJSON(data []byte) error {
	type raw Jockey
	aux := struct {
		*raw
		BirthDate *jsonTime `json:"birth_date"`
	}{raw: (*raw)(j)}
	if err := strictDecode(data, &aux); err != nil {
		return err
	}
	j.BirthDate = aux.BirthDate.ptr()
	return nil
}

// Trainer is a reference entity for a stable trainer.
type Trainer struct {
	ID          int64  `db:"id" json:"id" validate:"required,gt=0"`
	Name        string `db:"name" json:"name" validate:"required"`
	Affiliation string `db:"affiliation" json:"affiliation"`
}

// Owner is a reference entity keyed by the source's string identifier.
type Owner struct {
	ID   string `db:"id" json:"id" validate:"required"`
	Name string `db:"name" json:"name" validate:"required"`
}
