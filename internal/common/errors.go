// Package common defines shared constants and sentinel errors used across
// client and server layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Session-level rejections. None of them changes the session state.
	ErrValidation        = errors.New("validation error")
	ErrUnknownAccount    = errors.New("unknown account")
	ErrInvalidCredential = errors.New("invalid credential")
	ErrEmailAlreadyUsed  = errors.New("email already used")
	ErrNotAuthenticated  = errors.New("not authenticated")

	// Infrastructure errors (network, timeout, bad status).
	ErrDirectoryUnavailable = errors.New("directory unavailable")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
)
