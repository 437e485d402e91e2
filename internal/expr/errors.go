package expr

import "errors"

// Common errors.
var (
	ErrUnsupportedExpression = errors.New("unsupported expression")
	ErrUnknownFunction       = errors.New("unknown function")
	ErrUnknownVariable       = errors.New("unknown variable")
)
