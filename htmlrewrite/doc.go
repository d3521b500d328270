// Package htmlrewrite rewrites HTML payloads before they are committed to
// a signed exchange.
//
// A signed exchange is served from a location other than the origin, so
// relative subresource references inside the document would resolve against
// the wrong base. Rewrite resolves script, image, and stylesheet/preload
// link references against the document URL in a single deterministic pass,
// leaving every byte outside the rewritten tags untouched:
//
//	body, preloads, err := htmlrewrite.Rewrite(payload, contentType, docURL)
//
// The returned preload list carries the subresource URLs found in the
// document, ready to be surfaced as Link rel=preload response headers.
// Non-HTML payloads pass through unchanged. A malformed document fails the
// whole rewrite; partial output is never produced.
package htmlrewrite
