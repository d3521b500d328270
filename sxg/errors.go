package sxg

import "errors"

var (
	// ErrRequest is returned when the incoming request is not eligible
	// for a signed exchange (only GET requests can be signed).
	ErrRequest = errors.New("sxg: request not eligible for signing")

	// ErrOriginFetch is returned when the origin response cannot be
	// obtained or is not signable. The core never retries; retry policy
	// belongs to the calling adapter.
	ErrOriginFetch = errors.New("sxg: origin fetch failed")

	// ErrValidityWindow is returned when the configured validity duration
	// exceeds the 7-day maximum or outlives the leaf certificate. The
	// window is never silently truncated.
	ErrValidityWindow = errors.New("sxg: validity window not permitted")

	// ErrSerialization is returned when the artifact cannot be encoded,
	// e.g. a section exceeds its wire-format length bound.
	ErrSerialization = errors.New("sxg: serialization failed")

	// ErrMalformedExchange is returned when exchange bytes cannot be
	// parsed.
	ErrMalformedExchange = errors.New("sxg: malformed exchange")

	// ErrVerify is returned when a parsed exchange fails verification:
	// stale signature, digest mismatch, certificate mismatch, or a bad
	// signature.
	ErrVerify = errors.New("sxg: verification failed")
)
