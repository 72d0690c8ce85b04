// Package common defines shared constants and sentinel errors used across
// avachat client components. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Validation errors. Their messages are shown to the user verbatim.
	ErrEmailRequired    = errors.New("please enter your email address")
	ErrOTPCodeRequired  = errors.New("please enter the verification code")
	ErrUsernameTooShort = errors.New("username must be at least 3 characters")
	ErrPasswordMismatch = errors.New("passwords do not match")

	// Auth errors.
	ErrMissingIdentity = errors.New("sign-in succeeded but returned no usable identity")
	ErrInvalidToken    = errors.New("invalid token")
	ErrUnauthorized    = errors.New("unauthorized")

	// Migration errors.
	ErrSchemaDrift = errors.New("migration set does not match the database")
)
