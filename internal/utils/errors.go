package utils

import "errors"

// Common application errors used across services.
var (
	ErrMissingIdentity    = errors.New("MISSING_IDENTITY")
	ErrInvalidToken       = errors.New("INVALID_TOKEN")
	ErrInvalidCredentials = errors.New("INVALID_CREDENTIALS")
	ErrUserExists         = errors.New("USER_EXISTS")
	ErrUserNotRegistered  = errors.New("USER_NOT_REGISTERED")
	ErrBackendUnavailable = errors.New("BACKEND_UNAVAILABLE")
	ErrMalformedResponse  = errors.New("MALFORMED_RESPONSE")
	ErrProductNotFound    = errors.New("PRODUCT_NOT_FOUND")
	ErrStaleLoad          = errors.New("STALE_LOAD")
	ErrEmptyQuery         = errors.New("EMPTY_QUERY")
)
