package mapping

import "errors"

var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrNoResults     = errors.New("no results")
	ErrNotConfigured = errors.New("mapping provider not configured")
	ErrUpstream      = errors.New("mapping provider error")
)
