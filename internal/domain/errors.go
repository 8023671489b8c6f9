package domain

import "errors"

// Sentinel errors shared across services and repositories. Repositories
// translate driver-level misses into ErrNotFound so callers never see pgx
// internals.
var (
	ErrNotFound           = errors.New("not found")
	ErrAccessDenied       = errors.New("access denied")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
)
