package common

import "errors"

// Sentinel errors shared by client and server layers. Callers should use
// errors.Is to match these values.
var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// ErrInvalidIdentity signals an unusable product identifier. The
	// mutation is rejected before any I/O and nothing is persisted.
	ErrInvalidIdentity = errors.New("invalid product identity")

	// ErrStockExceeded is returned alongside a successful clamped mutation:
	// the requested quantity was reduced to the available stock. Non-fatal.
	ErrStockExceeded = errors.New("requested quantity exceeds available stock")

	// ErrMergeFailed signals a login-time cart sync failure. The anonymous
	// cart is retained and the merge may be retried.
	ErrMergeFailed = errors.New("could not sync your cart to your account")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)
