package headers

import (
	"fmt"
	"net/http"
	"strings"
)

// Options configures Transform.
type Options struct {
	// Strip lists additional header names to remove. Matching is
	// case-insensitive.
	Strip []string

	// StripIdentifying, when true, additionally removes headers that
	// could reveal per-request identity, making the exchange safe to
	// replay for any requester.
	StripIdentifying bool

	// IdentifyingHeaders overrides the set used by StripIdentifying.
	// Defaults to DefaultIdentifyingHeaders when nil.
	IdentifyingHeaders []string
}

// Transform produces the signing-eligible header set for an origin
// response. It removes hop-by-hop and stateful headers, the configured
// removal set, and (optionally) identifying headers, then validates that
// the remainder is representable in the wire format.
//
// The input header map is never mutated.
func Transform(h http.Header, opts Options) (http.Header, error) {
	strip := make(map[string]bool, len(opts.Strip))
	for _, name := range opts.Strip {
		strip[strings.ToLower(name)] = true
	}

	if opts.StripIdentifying {
		identifying := opts.IdentifyingHeaders
		if identifying == nil {
			identifying = DefaultIdentifyingHeaders
		}

		for _, name := range identifying {
			strip[strings.ToLower(name)] = true
		}
	}

	if cc := h.Get("Cache-Control"); forbidsStorage(cc) {
		return nil, fmt.Errorf("%w: cache-control %q", ErrUncacheable, cc)
	}

	out := make(http.Header, len(h))

	for name, values := range h {
		lower := strings.ToLower(name)
		if uncachedHeaders[lower] || strip[lower] {
			continue
		}

		if !validHeaderName(lower) {
			return nil, fmt.Errorf("%w: name %q", ErrInvalidHeader, name)
		}

		for _, v := range values {
			if !validHeaderValue(v) {
				return nil, fmt.Errorf("%w: value of %q contains illegal bytes", ErrInvalidHeader, name)
			}

			out.Add(name, v)
		}
	}

	if out.Get("Content-Type") == "" {
		return nil, fmt.Errorf("%w: content-type is required", ErrInvalidHeader)
	}

	return out, nil
}
