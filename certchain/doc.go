// Package certchain builds and validates the certificate chain delivered
// alongside a signed exchange.
//
// The chain is served at the exchange's cert-url in the
// application/cert-chain+cbor format: a CBOR array opening with a magic
// string followed by one map per certificate carrying the DER bytes and,
// for the leaf, optional OCSP and SCT data.
//
//	chain, err := certchain.FromPEM(certPEM, issuerPEM)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	if err := chain.Validate("example.org", time.Now()); err != nil {
//	    log.Fatal(err)
//	}
//
//	body, err := chain.Encode()
//
// Validate enforces the constraints a signed-exchange consumer will check:
// the leaf must parse, cover the signed origin, be valid at signing time,
// carry the CanSignHttpExchanges extension, and have a lifetime of at most
// 90 days. Violations are hard generation failures.
package certchain
