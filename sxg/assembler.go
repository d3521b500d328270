package sxg

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/vitalvas/sxgkit/certchain"
	"github.com/vitalvas/sxgkit/config"
	"github.com/vitalvas/sxgkit/headers"
	"github.com/vitalvas/sxgkit/htmlrewrite"
	"github.com/vitalvas/sxgkit/signer"
)

// maxValidityDuration is the longest permitted signature freshness
// window.
const maxValidityDuration = 7 * 24 * time.Hour

// maxPreloadLinks caps how many subresource preload hints are attached to
// the signed headers.
const maxPreloadLinks = 20

// Options configures an Assembler. Config, Fetcher, Signer, and Chain are
// required.
type Options struct {
	// Config is the materialized signing configuration, shared read-only
	// across generations.
	Config *config.Config

	// Fetcher retrieves origin responses.
	Fetcher Fetcher

	// Signer signs canonical signing messages.
	Signer signer.Signer

	// Chain is the certificate chain served at the config's cert-url.
	Chain *certchain.Chain

	// Now supplies wall-clock time for validity stamping. Defaults to
	// time.Now.
	Now func() time.Time
}

// Assembler generates signed exchanges. One Assembler serves concurrent
// generations; it holds only read-only state.
type Assembler struct {
	cfg        *config.Config
	fetcher    Fetcher
	signer     signer.Signer
	chain      *certchain.Chain
	now        func() time.Time
	certSHA256 []byte

	forward map[string]bool
	strip   map[string]bool
}

// New creates an Assembler and precomputes the request header policy and
// the leaf certificate digest.
func New(opts Options) (*Assembler, error) {
	switch {
	case opts.Config == nil:
		return nil, fmt.Errorf("%w: config is required", ErrRequest)
	case opts.Fetcher == nil:
		return nil, fmt.Errorf("%w: fetcher is required", ErrRequest)
	case opts.Signer == nil:
		return nil, fmt.Errorf("%w: signer is required", ErrRequest)
	case opts.Chain == nil:
		return nil, fmt.Errorf("%w: certificate chain is required", ErrRequest)
	}

	certSHA256, err := opts.Chain.LeafSHA256()
	if err != nil {
		return nil, err
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return &Assembler{
		cfg:        opts.Config,
		fetcher:    opts.Fetcher,
		signer:     opts.Signer,
		chain:      opts.Chain,
		now:        now,
		certSHA256: certSHA256,
		forward:    nameSet(opts.Config.ForwardRequestHeaders),
		strip:      nameSet(opts.Config.StripRequestHeaders),
	}, nil
}

// Generate produces a signed exchange for one incoming request. The
// pipeline is strictly sequential: fetch, header transform, content
// rewrite, digest, canonicalize, sign, serialize. Any failure is terminal
// for this generation and the caller is expected to serve the fallback
// URL unsigned.
func (a *Assembler) Generate(ctx context.Context, req *http.Request) (*Exchange, error) {
	if req.Method != "" && req.Method != http.MethodGet {
		return nil, fmt.Errorf("%w: method %s", ErrRequest, req.Method)
	}

	fallbackURL := a.fallbackURL(req)

	docURL, err := url.Parse(fallbackURL)
	if err != nil {
		return nil, fmt.Errorf("%w: fallback url: %v", ErrRequest, err)
	}

	origin, err := a.originRequest(ctx, docURL, req.Header)
	if err != nil {
		return nil, err
	}

	resp, err := a.fetcher.Fetch(ctx, origin)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOriginFetch, err)
	}

	if resp.Status != http.StatusOK {
		return nil, fmt.Errorf("%w: origin status %d", ErrOriginFetch, resp.Status)
	}

	signed, err := headers.Transform(resp.Header, headers.Options{
		Strip:              a.cfg.StripResponseHeaders,
		StripIdentifying:   a.cfg.StripIdentifyingHeaders,
		IdentifyingHeaders: a.cfg.IdentifyingHeaders,
	})
	if err != nil {
		return nil, err
	}

	payload := resp.Body

	if a.cfg.ContentRewrite {
		rewritten, preloads, err := htmlrewrite.Rewrite(payload, signed.Get("Content-Type"), docURL)
		if err != nil {
			return nil, err
		}

		payload = rewritten

		if len(preloads) > maxPreloadLinks {
			preloads = preloads[:maxPreloadLinks]
		}

		for _, u := range preloads {
			signed.Add("Link", fmt.Sprintf("<%s>;rel=preload", u))
		}
	}

	date := a.now().UTC().Truncate(time.Second)

	expires, err := a.expiry(date)
	if err != nil {
		return nil, err
	}

	if err := a.chain.Validate(docURL.Hostname(), date); err != nil {
		return nil, err
	}

	// The digest commits the final payload; nothing may mutate the body
	// past this point.
	signed.Set(digestHeader, PayloadDigest(payload))

	headerBytes, err := encodeSignedHeaders(resp.Status, signed)
	if err != nil {
		return nil, err
	}

	message := signingInput{
		certSHA256:  a.certSHA256,
		validityURL: a.cfg.ValidityURL,
		date:        date.Unix(),
		expires:     expires.Unix(),
		requestURL:  fallbackURL,
		headerBytes: headerBytes,
	}.message()

	sig, err := a.signer.Sign(ctx, message)
	if err != nil {
		return nil, err
	}

	exchange := &Exchange{
		FallbackURL: fallbackURL,
		SignatureHeader: signatureHeader{
			label:       signatureLabel,
			sig:         sig,
			certSHA256:  a.certSHA256,
			certURL:     a.cfg.CertURL,
			validityURL: a.cfg.ValidityURL,
			integrity:   integrityValue,
			date:        date.Unix(),
			expires:     expires.Unix(),
		}.String(),
		SignedHeaders: headerBytes,
		Payload:       payload,
	}

	if err := exchange.validate(); err != nil {
		return nil, err
	}

	return exchange, nil
}

// expiry computes the signature expiry, failing rather than truncating
// when the window exceeds the 7-day maximum or the leaf certificate's
// remaining lifetime.
func (a *Assembler) expiry(date time.Time) (time.Time, error) {
	duration := time.Duration(a.cfg.ValidityDuration)
	if duration <= 0 {
		duration = maxValidityDuration
	}

	if duration > maxValidityDuration {
		return time.Time{}, fmt.Errorf("%w: %s exceeds the 7-day maximum", ErrValidityWindow, duration)
	}

	leaf, err := a.chain.Leaf()
	if err != nil {
		return time.Time{}, err
	}

	expires := date.Add(duration)
	if expires.After(leaf.NotAfter) {
		return time.Time{}, fmt.Errorf("%w: window ends %s but certificate expires %s",
			ErrValidityWindow,
			expires.UTC().Format(time.RFC3339),
			leaf.NotAfter.UTC().Format(time.RFC3339))
	}

	return expires, nil
}

// fallbackURL derives the unsigned origin location for req: the
// configured override when set, otherwise the request path on the HTML
// host.
func (a *Assembler) fallbackURL(req *http.Request) string {
	if a.cfg.FallbackURL != "" {
		return a.cfg.FallbackURL
	}

	return "https://" + a.cfg.HTMLHost + req.URL.RequestURI()
}

// originRequest builds the GET sent to the origin: the fallback URL with
// only the configured forwardable request headers attached.
func (a *Assembler) originRequest(ctx context.Context, docURL *url.URL, incoming http.Header) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, docURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequest, err)
	}

	for name, values := range incoming {
		lower := strings.ToLower(name)
		if a.strip[lower] || !a.forward[lower] {
			continue
		}

		for _, v := range values {
			req.Header.Add(name, v)
		}
	}

	return req, nil
}

func nameSet(names []string) map[string]bool {
	s := make(map[string]bool, len(names))
	for _, n := range names {
		s[strings.ToLower(n)] = true
	}

	return s
}
