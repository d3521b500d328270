package certchain

import (
	"crypto/sha256"
	"crypto/x509"
	"encoding/asn1"
	"encoding/pem"
	"fmt"
	"time"
)

// canSignHTTPExchangesOID identifies the CanSignHttpExchanges certificate
// extension required on signed-exchange leaf certificates.
var canSignHTTPExchangesOID = asn1.ObjectIdentifier{1, 3, 6, 1, 4, 1, 11129, 2, 1, 22}

// maxLeafLifetime is the maximum permitted validity period for a
// signed-exchange leaf certificate.
const maxLeafLifetime = 90 * 24 * time.Hour

// Chain is an ordered certificate chain, leaf first, with optional OCSP
// response and SCT list attached to the leaf.
type Chain struct {
	// Certs holds the DER encoding of each certificate, leaf first.
	Certs [][]byte

	// OCSP is a raw DER OCSP response for the leaf. Optional.
	OCSP []byte

	// SCT is a SignedCertificateTimestampList for the leaf. Optional.
	SCT []byte
}

// New creates a Chain from DER certificates, leaf first.
func New(derCerts [][]byte) (*Chain, error) {
	if len(derCerts) == 0 {
		return nil, ErrEmptyChain
	}

	return &Chain{Certs: derCerts}, nil
}

// FromPEM creates a Chain from PEM-encoded leaf and issuer material.
// Each argument may contain multiple CERTIFICATE blocks; all are kept in
// order. issuerPEM may be nil for a self-signed leaf.
func FromPEM(certPEM, issuerPEM []byte) (*Chain, error) {
	certs, err := pemCertificates(certPEM)
	if err != nil {
		return nil, err
	}

	if issuerPEM != nil {
		issuers, err := pemCertificates(issuerPEM)
		if err != nil {
			return nil, err
		}

		certs = append(certs, issuers...)
	}

	return New(certs)
}

func pemCertificates(data []byte) ([][]byte, error) {
	var certs [][]byte

	for {
		var block *pem.Block

		block, data = pem.Decode(data)
		if block == nil {
			break
		}

		if block.Type == "CERTIFICATE" {
			certs = append(certs, block.Bytes)
		}
	}

	if len(certs) == 0 {
		return nil, fmt.Errorf("%w: no CERTIFICATE block in PEM input", ErrCertificate)
	}

	return certs, nil
}

// Leaf parses and returns the leaf certificate.
func (c *Chain) Leaf() (*x509.Certificate, error) {
	if len(c.Certs) == 0 {
		return nil, ErrEmptyChain
	}

	leaf, err := x509.ParseCertificate(c.Certs[0])
	if err != nil {
		return nil, fmt.Errorf("%w: parse leaf: %v", ErrCertificate, err)
	}

	return leaf, nil
}

// LeafSHA256 returns the SHA-256 digest of the leaf certificate's DER
// bytes, used as the cert-sha256 signature parameter.
func (c *Chain) LeafSHA256() ([]byte, error) {
	if len(c.Certs) == 0 {
		return nil, ErrEmptyChain
	}

	sum := sha256.Sum256(c.Certs[0])

	return sum[:], nil
}

// Validate checks that the leaf certificate is eligible to sign exchanges
// for domain at time now. Any violation is a hard failure.
func (c *Chain) Validate(domain string, now time.Time) error {
	leaf, err := c.Leaf()
	if err != nil {
		return err
	}

	if now.Before(leaf.NotBefore) {
		return fmt.Errorf("%w: not valid until %s", ErrCertificate, leaf.NotBefore.UTC().Format(time.RFC3339))
	}

	if now.After(leaf.NotAfter) {
		return fmt.Errorf("%w: expired at %s", ErrCertificate, leaf.NotAfter.UTC().Format(time.RFC3339))
	}

	if lifetime := leaf.NotAfter.Sub(leaf.NotBefore); lifetime > maxLeafLifetime {
		return fmt.Errorf("%w: lifetime %s exceeds the 90-day maximum", ErrCertificate, lifetime)
	}

	if err := leaf.VerifyHostname(domain); err != nil {
		return fmt.Errorf("%w: %v", ErrCertificate, err)
	}

	if !hasCanSignHTTPExchanges(leaf) {
		return fmt.Errorf("%w: missing CanSignHttpExchanges extension", ErrCertificate)
	}

	return nil
}

func hasCanSignHTTPExchanges(cert *x509.Certificate) bool {
	for _, ext := range cert.Extensions {
		if ext.Id.Equal(canSignHTTPExchangesOID) {
			return true
		}
	}

	return false
}
