// Package headers rewrites an origin HTTP response header set into the
// restricted subset eligible for inclusion in a signed exchange.
//
// A signed exchange is cached and replayed by intermediaries, so headers
// that are hop-by-hop, carry per-client state, or control authentication
// must never appear in the signed header block. Transform strips those,
// applies the configured removal set, and optionally strips identifying
// headers so the exchange stays replayable independent of who requested it:
//
//	signed, err := headers.Transform(resp.Header, headers.Options{
//	    Strip:            cfg.StripResponseHeaders,
//	    StripIdentifying: true,
//	})
//
// Transform never mutates its input; it validates that the result is
// representable in the signed-exchange wire format (content-type present,
// names and values free of illegal bytes) and that the response is
// cacheable at all.
package headers
