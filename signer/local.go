package signer

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha256"
	"fmt"
)

// LocalSigner signs with an in-process ECDSA-P256 private key. Signing is
// synchronous and never suspends.
type LocalSigner struct {
	key *ecdsa.PrivateKey
}

// NewLocalSigner creates a LocalSigner. The key must be on curve P-256.
func NewLocalSigner(key *ecdsa.PrivateKey) (*LocalSigner, error) {
	if key == nil {
		return nil, fmt.Errorf("%w: private key must not be nil", ErrInvalidKey)
	}

	if key.Curve != elliptic.P256() {
		return nil, fmt.Errorf("%w: key curve must be P-256", ErrInvalidKey)
	}

	return &LocalSigner{key: key}, nil
}

// Sign hashes message with SHA-256 and returns the ASN.1 DER signature.
func (s *LocalSigner) Sign(_ context.Context, message []byte) ([]byte, error) {
	digest := sha256.Sum256(message)

	return ecdsa.SignASN1(rand.Reader, s.key, digest[:])
}

// Public returns the signer's public key for verification.
func (s *LocalSigner) Public() *ecdsa.PublicKey {
	return &s.key.PublicKey
}
