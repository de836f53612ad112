// Package common defines shared constants and sentinel errors used across
// CloudyGo components. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors.
	ErrorUnauthorized   = errors.New("unauthorized")
	ErrEmailNotVerified = errors.New("email not verified")
	ErrInvalidInput     = errors.New("invalid input")

	// ErrConfiguration reports a missing or malformed secret or setting.
	// It is surfaced when the setting is first needed.
	ErrConfiguration = errors.New("configuration error")

	// ErrIntegrity reports an envelope that failed authentication or
	// could not be decoded.
	ErrIntegrity = errors.New("integrity check failed")

	// ErrInvalidCredential covers every session credential failure: missing,
	// malformed, wrong signature or expired.
	ErrInvalidCredential = errors.New("invalid credential")

	// ErrTokenNotFound is returned when no unexpired pending token matches.
	// Wrong and expired tokens are deliberately indistinguishable.
	ErrTokenNotFound = errors.New("token not found")
)
