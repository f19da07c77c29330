package rules

import "errors"

// ErrLoadRules is returned when the rules file cannot be read or decoded.
var ErrLoadRules = errors.New("rules: failed to load knowledge base")
