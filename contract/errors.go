package contract

import "errors"

var (
	ErrNotConfigured = errors.New("not configured")
	ErrNotFound      = errors.New("not found")
	ErrUpstream      = errors.New("upstream request failed")
	ErrValidation    = errors.New("validation failed")
)
