package export

import "errors"

// Domain errors for export rendering

var (
	// ErrMissingRecord is returned when a render target is invoked on a
	// bundle without a consolidated record.
	ErrMissingRecord = errors.New("export bundle has no bill record")
)
