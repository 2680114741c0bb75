package auth

import "errors"

var (
	// ErrUnauthorized indicates a missing, unknown or revoked token.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrKeyNotFound indicates the key doesn't exist for this user.
	ErrKeyNotFound = errors.New("api key not found")
	// ErrInvalidInput indicates invalid input for key operations.
	ErrInvalidInput = errors.New("invalid api key input")
)
