package odds

import "errors"

var (
	// ErrInvalidAmerican is returned for an American price of zero.
	ErrInvalidAmerican = errors.New("odds: american price cannot be 0")
	// ErrInvalidDecimal is returned for decimal odds at or below 1.0.
	ErrInvalidDecimal = errors.New("odds: decimal odds must be greater than 1.0")
)
