package certchain

import "errors"

var (
	// ErrCertificate is returned when the leaf certificate cannot be
	// parsed, does not cover the signed origin, is outside its validity
	// period, exceeds the maximum permitted lifetime, or lacks the
	// CanSignHttpExchanges extension.
	ErrCertificate = errors.New("certchain: invalid certificate")

	// ErrEmptyChain is returned when a chain has no certificates.
	ErrEmptyChain = errors.New("certchain: chain must contain at least one certificate")

	// ErrMalformedChain is returned when cert-chain+cbor bytes cannot be
	// decoded.
	ErrMalformedChain = errors.New("certchain: malformed cert-chain+cbor")

	// ErrOCSP is returned when an OCSP response cannot be obtained or does
	// not report the leaf certificate as good.
	ErrOCSP = errors.New("certchain: ocsp failed")
)
