package grading

import "errors"

// Sentinel errors for manual grading.
var (
	ErrAlreadyResolved = errors.New("recommendation already resolved")
	ErrUnknownPick     = errors.New("recommendation not found")
	ErrInvalidResult   = errors.New("result must be WIN or LOSS")
)
