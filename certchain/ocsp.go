package certchain

import (
	"bytes"
	"context"
	"crypto/x509"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/crypto/ocsp"
)

// ocspMaxResponseSize bounds how much of an OCSP responder's reply is read.
const ocspMaxResponseSize = 1 << 20

// HTTPDoer is the minimal HTTP capability used to reach an OCSP responder.
// *http.Client satisfies it.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// FetchOCSP obtains an OCSP response for the leaf from the responder named
// in the leaf's authority information access and attaches it to the chain.
// The chain must contain the issuer as its second certificate.
//
// The response is validated before being attached: a responder error or a
// non-good certificate status fails with ErrOCSP.
func (c *Chain) FetchOCSP(ctx context.Context, client HTTPDoer) error {
	if len(c.Certs) < 2 {
		return fmt.Errorf("%w: issuer certificate required", ErrOCSP)
	}

	leaf, err := c.Leaf()
	if err != nil {
		return err
	}

	issuer, err := x509.ParseCertificate(c.Certs[1])
	if err != nil {
		return fmt.Errorf("%w: parse issuer: %v", ErrCertificate, err)
	}

	if len(leaf.OCSPServer) == 0 {
		return fmt.Errorf("%w: leaf names no OCSP responder", ErrOCSP)
	}

	reqDER, err := ocsp.CreateRequest(leaf, issuer, nil)
	if err != nil {
		return fmt.Errorf("%w: create request: %v", ErrOCSP, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, leaf.OCSPServer[0], bytes.NewReader(reqDER))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrOCSP, err)
	}

	req.Header.Set("Content-Type", "application/ocsp-request")
	req.Header.Set("Accept", "application/ocsp-response")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrOCSP, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: responder returned status %d", ErrOCSP, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, ocspMaxResponseSize))
	if err != nil {
		return fmt.Errorf("%w: read response: %v", ErrOCSP, err)
	}

	parsed, err := ocsp.ParseResponseForCert(body, leaf, issuer)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrOCSP, err)
	}

	if parsed.Status != ocsp.Good {
		return fmt.Errorf("%w: certificate status %d is not good", ErrOCSP, parsed.Status)
	}

	c.OCSP = body

	return nil
}
