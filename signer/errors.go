package signer

import "errors"

var (
	// ErrInvalidKey is returned when key material is invalid (nil or on
	// the wrong curve).
	ErrInvalidKey = errors.New("signer: invalid key material")

	// ErrSignerTimeout is returned when a remote signing call exceeds its
	// deadline. The call may be retried by the caller.
	ErrSignerTimeout = errors.New("signer: remote signer timed out")

	// ErrSignerUnavailable is returned when the remote signing service
	// cannot be reached or answers with a failure. The call may be
	// retried by the caller.
	ErrSignerUnavailable = errors.New("signer: remote signer unavailable")

	// ErrMalformedResponse is returned when the remote signing service
	// answers with a body that cannot be decoded.
	ErrMalformedResponse = errors.New("signer: malformed remote signer response")
)
