package history

import "errors"

var (
	// ErrInvalidDate indicates a date that is not YYYY-MM-DD.
	ErrInvalidDate = errors.New("invalid history date")
	// ErrInvalidRange indicates From is after To.
	ErrInvalidRange = errors.New("invalid history date range")
)
