package activity

import "errors"

var (
	// ErrInvalidInput indicates a missing entry or unknown activity type.
	ErrInvalidInput = errors.New("invalid activity input")
)
