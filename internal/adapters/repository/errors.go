package repository

import "errors"

// Sentinel kinds for repository errors.
var (
	ErrNotFound       = errors.New("record not found")
	ErrUnknownBackend = errors.New("unknown store backend")
	ErrCorrupt        = errors.New("stored record cannot be decoded")
)
