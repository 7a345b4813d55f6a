package session

import "errors"

var (
	// ErrNotConfigured is returned when a request needs a session
	// but the application has no session manager.
	ErrNotConfigured = errors.New("session manager is not enabled")

	ErrNotFound     = errors.New("session: not found")
	ErrExpired      = errors.New("session: expired")
	ErrInvalidToken = errors.New("session: invalid token")
	ErrTypeMismatch = errors.New("session: type mismatch")
	ErrEncode       = errors.New("session: failed to encode session")
	ErrDecode       = errors.New("session: failed to decode session")
)
