package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func recordValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
	})
	return validate
}

// Validate checks a record against its validate tags.
func Validate(record interface{}) error {
	if err := recordValidator().Struct(record); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	return nil
}

// DecodeStrict decodes exactly one JSON object into T, rejecting fields
// the record type does not declare and any trailing content, and
// validates the result.
func DecodeStrict[T any](data []byte) (*T, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var record T
	if err := dec.Decode(&record); err != nil {
		if strings.HasPrefix(err.Error(), "json: unknown field") {
			return nil, fmt.Errorf("%w: %s", ErrUnknownField, strings.TrimPrefix(err.Error(), "json: unknown field "))
		}
		return nil, fmt.Errorf("failed to decode record: %w", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("failed to decode record: trailing data after object")
	}
	if err := Validate(&record); err != nil {
		return nil, err
	}
	return &record, nil
}

// strictDecode decodes data into v rejecting unknown fields. Types with
// their own UnmarshalJSON use it so the rejection still applies.
func strictDecode(data []byte, v interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// dateLayouts are the accepted JSON date forms: full timestamps and the
// plain calendar dates of the legacy store, read as UTC midnight.
var dateLayouts = []string{time.RFC3339Nano, "2006-01-02"}

// jsonTime is a time.Time that also decodes plain YYYY-MM-DD dates
type jsonTime time.Time

func (t *jsonTime) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			*t = jsonTime(parsed)
			return nil
		}
	}
	return fmt.Errorf("invalid date %q: want YYYY-MM-DD or RFC 3339", s)
}

func (t *jsonTime) ptr() *time.Time {
	if t == nil {
		return nil
	}
	v := time.Time(*t)
	return &v
}
