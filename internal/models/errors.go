package models

import "errors"

// Custom errors
var (
	ErrDuplicateKey    = errors.New("duplicate key violation")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrUnknownField    = errors.New("unknown field")
)
