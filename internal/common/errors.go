package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")
	ErrorConflict = errors.New("already exists")

	// Service-level errors.
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("invalid username or password")
	ErrorValidation   = errors.New("validation error")
	ErrorForbidden    = errors.New("forbidden")

	// ErrorNotConfigured is returned by optional features that are switched off.
	ErrorNotConfigured = errors.New("feature not configured")

	// ErrorCredentialUnrecoverable means a stored secret no longer decrypts
	// under the configured passphrase. It is a server fault, never a user one.
	ErrorCredentialUnrecoverable = errors.New("cannot recover credential, check server configuration")

	// Session token errors.
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
	ErrTokenRevoked = errors.New("token revoked")
)
