package domain

import "errors"

// Sentinel errors classify every failure the API can surface. Callers wrap
// them with fmt.Errorf("pkg: op: %w", ...) and handlers map them to HTTP
// status codes with errors.Is.
var (
	ErrValidation  = errors.New("validation failed")
	ErrNotFound    = errors.New("not found")
	ErrExternalAPI = errors.New("external api error")
	ErrTimeout     = errors.New("timeout")
	ErrRateLimited = errors.New("rate limited")
	ErrInternal    = errors.New("internal error")
)
