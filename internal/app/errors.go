package service

import "errors"

// Sentinel errors returned by the service.
var (
	ErrNotStarted  = errors.New("service not started")
	ErrNoSet       = errors.New("no recommendations for date")
	ErrInvalidDate = errors.New("date must be YYYY-MM-DD")

	ErrInvalidBankroll = errors.New("bankroll must be positive")
)
