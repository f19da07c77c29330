package oddsapi

import "errors"

// Sentinel kinds for feed errors.
var (
	ErrRateLimited   = errors.New("odds feed rate limit reached")
	ErrKeysExhausted = errors.New("all odds feed api keys exhausted")
	ErrStatus        = errors.New("odds feed returned non-2xx status")
	ErrNoKeys        = errors.New("no odds feed api keys configured")
)
