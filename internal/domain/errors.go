package domain

import "errors"

var (
	// ErrNoData is returned when an operation needs at least one record.
	ErrNoData = errors.New("no data available")

	// ErrMissingColumn is returned when the source header lacks a required column.
	ErrMissingColumn = errors.New("missing required column")

	// ErrMalformed is returned when a measured cell is neither a number nor a missing marker.
	ErrMalformed = errors.New("malformed value")

	// ErrUnknownVariable is returned for a variable name outside the fixed set.
	ErrUnknownVariable = errors.New("unknown variable")

	// ErrInvalidRange is returned when a year range is unusable.
	ErrInvalidRange = errors.New("invalid year range")
)
