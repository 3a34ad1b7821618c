package consolidate

import "errors"

// Domain errors for bill consolidation

var (
	// ErrNoRecords is returned when consolidation is attempted on an
	// empty input. Zero images is a caller error, not a valid input.
	ErrNoRecords = errors.New("no extraction records to consolidate")
)
