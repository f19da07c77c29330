package feedback

import "errors"

var (
	// ErrUnknownParam is returned when an action names no known parameter.
	ErrUnknownParam = errors.New("feedback: unknown strategy parameter")
	// ErrNotConfirmed is returned when an adjustment is applied without confirmation.
	ErrNotConfirmed = errors.New("feedback: adjustment requires explicit confirmation")
)
