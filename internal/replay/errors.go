package replay

import "errors"

var (
	// ErrSnapshot means the snapshot file could not be parsed.
	ErrSnapshot = errors.New("invalid snapshot")
	// ErrNoInput means no snapshot path was given.
	ErrNoInput = errors.New("input snapshot is required")
)
