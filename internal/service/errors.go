package service

import "errors"

// Common service errors. The API layer maps these to HTTP status codes.
var (
	// ErrServiceUnavailable indicates a dependency required by the operation
	// was not configured, such as the background job runner.
	ErrServiceUnavailable = errors.New("service unavailable")
)
