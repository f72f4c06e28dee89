package domain

import "errors"

// Error taxonomy shared across layers. Components wrap these with %w so callers
// can classify failures with errors.Is.
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNotFound        = errors.New("not found")
	ErrUpstream        = errors.New("upstream error")
	ErrStorage         = errors.New("storage error")
	ErrBroker          = errors.New("broker error")
)
