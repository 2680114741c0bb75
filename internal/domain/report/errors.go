package report

import "errors"

// ErrInvalidRange indicates a range other than day, week, month or ytd.
var ErrInvalidRange = errors.New("invalid report range")
