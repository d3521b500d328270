package certchain

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// ContentType is the media type of an encoded certificate chain.
const ContentType = "application/cert-chain+cbor"

// chainMagic is the first element of the cert-chain+cbor array.
const chainMagic = "📜⛓"

// encMode produces canonically encoded CBOR (RFC 7049 Section 3.9):
// shortest-form lengths and length-first map key ordering, so identical
// chains always encode to identical bytes.
var encMode, _ = cbor.CanonicalEncOptions().EncMode()

// chainItem is one certificate entry in the cert-chain+cbor array.
type chainItem struct {
	Cert []byte `cbor:"cert"`
	OCSP []byte `cbor:"ocsp,omitempty"`
	SCT  []byte `cbor:"sct,omitempty"`
}

// Encode serializes the chain as application/cert-chain+cbor. The OCSP
// response and SCT list, when present, are attached to the leaf entry.
// Encoding is deterministic given identical input.
func (c *Chain) Encode() ([]byte, error) {
	if len(c.Certs) == 0 {
		return nil, ErrEmptyChain
	}

	items := make([]any, 0, len(c.Certs)+1)
	items = append(items, chainMagic)

	for i, der := range c.Certs {
		item := chainItem{Cert: der}
		if i == 0 {
			item.OCSP = c.OCSP
			item.SCT = c.SCT
		}

		items = append(items, item)
	}

	return encMode.Marshal(items)
}

// Decode parses application/cert-chain+cbor bytes back into a Chain.
func Decode(data []byte) (*Chain, error) {
	var raw []cbor.RawMessage
	if err := cbor.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedChain, err)
	}

	if len(raw) < 2 {
		return nil, fmt.Errorf("%w: need magic and at least one certificate", ErrMalformedChain)
	}

	var magic string
	if err := cbor.Unmarshal(raw[0], &magic); err != nil || magic != chainMagic {
		return nil, fmt.Errorf("%w: bad magic", ErrMalformedChain)
	}

	chain := &Chain{Certs: make([][]byte, 0, len(raw)-1)}

	for i, msg := range raw[1:] {
		var item chainItem
		if err := cbor.Unmarshal(msg, &item); err != nil {
			return nil, fmt.Errorf("%w: entry %d: %v", ErrMalformedChain, i, err)
		}

		if len(item.Cert) == 0 {
			return nil, fmt.Errorf("%w: entry %d has no cert", ErrMalformedChain, i)
		}

		chain.Certs = append(chain.Certs, item.Cert)

		if i == 0 {
			chain.OCSP = item.OCSP
			chain.SCT = item.SCT
		}
	}

	return chain, nil
}
