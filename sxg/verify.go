package sxg

import (
	"bytes"
	"crypto/ecdsa"
	"crypto/sha256"
	"fmt"
	"time"

	"github.com/vitalvas/sxgkit/certchain"
)

// Verify checks the exchange the way a consumer would: signature
// freshness at time now, certificate binding, payload digest, and the
// ECDSA signature over the independently reconstructed signing message.
func (e *Exchange) Verify(chain *certchain.Chain, now time.Time) error {
	h, err := parseSignatureHeader(e.SignatureHeader)
	if err != nil {
		return err
	}

	if unix := now.Unix(); unix < h.date || unix > h.expires {
		return fmt.Errorf("%w: signature not fresh at %s", ErrVerify, now.UTC().Format(time.RFC3339))
	}

	leafSHA256, err := chain.LeafSHA256()
	if err != nil {
		return err
	}

	if !bytes.Equal(leafSHA256, h.certSHA256) {
		return fmt.Errorf("%w: cert-sha256 does not match the chain's leaf", ErrVerify)
	}

	_, respHeaders, err := e.ResponseHeaders()
	if err != nil {
		return err
	}

	if got := respHeaders.Get(digestHeader); got != PayloadDigest(e.Payload) {
		return fmt.Errorf("%w: payload digest mismatch", ErrVerify)
	}

	message := signingInput{
		certSHA256:  h.certSHA256,
		validityURL: h.validityURL,
		date:        h.date,
		expires:     h.expires,
		requestURL:  e.FallbackURL,
		headerBytes: e.SignedHeaders,
	}.message()

	leaf, err := chain.Leaf()
	if err != nil {
		return err
	}

	pub, ok := leaf.PublicKey.(*ecdsa.PublicKey)
	if !ok {
		return fmt.Errorf("%w: leaf key is not ECDSA", ErrVerify)
	}

	digest := sha256.Sum256(message)
	if !ecdsa.VerifyASN1(pub, digest[:], h.sig) {
		return fmt.Errorf("%w: signature does not verify", ErrVerify)
	}

	return nil
}
