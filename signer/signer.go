package signer

import "context"

// Signer signs a canonical signing message. Implementations must be safe
// for concurrent use: one Signer is shared by all generations in a
// process.
type Signer interface {
	// Sign produces an ECDSA-P256 signature (ASN.1 DER) over message.
	// Implementations that suspend on I/O honor ctx cancellation.
	Sign(ctx context.Context, message []byte) ([]byte, error)
}
