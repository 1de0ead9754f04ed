package auth

import "errors"

var (
	ErrNotFound          = errors.New("auth: user not found")
	ErrDuplicateEmail    = errors.New("auth: email already registered")
	ErrInvalidCredential = errors.New("auth: invalid credential")
	ErrInvalidInput      = errors.New("auth: invalid input")
)

// ErrInvalidToken indicates the token failed validation.
var ErrInvalidToken = errors.New("auth: invalid token")

// ErrTokenExpired indicates a structurally sound token whose expiry claim is
// in the past. Verify still reports ErrInvalidToken for expired tokens; this
// sentinel only surfaces from DecodeUnverified so callers can clear stale
// local state.
var ErrTokenExpired = errors.New("auth: token expired")
