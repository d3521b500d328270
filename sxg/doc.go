// Package sxg assembles Signed HTTP Exchanges: binary artifacts that let
// an intermediary serve an origin's content under the origin's identity,
// verifiable offline against a certificate chain.
//
// The Assembler orchestrates one generation: fetch the origin response,
// reduce its headers to the signing-eligible set, optionally rewrite the
// HTML payload, commit the payload digest, canonicalize the signing
// message, sign it, and serialize the application/signed-exchange binary:
//
//	asm, err := sxg.New(sxg.Options{
//	    Config:  cfg,
//	    Fetcher: sxg.NewHTTPFetcher(nil),
//	    Signer:  localSigner,
//	    Chain:   chain,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	exchange, err := asm.Generate(ctx, incomingRequest)
//	if err != nil {
//	    // serve the unsigned fallback instead
//	}
//
//	body, err := exchange.MarshalBinary()
//
// All host-specific I/O (origin fetch, signing, clock) enters through
// capabilities on Options, keeping the pipeline host-agnostic. Each
// Generate call owns its intermediate state exclusively; concurrent
// generations share only the read-only configuration, chain, and signer.
// Errors are typed and terminal for the generation: the caller decides
// whether to retry or fall back to serving the unsigned origin response.
//
// ParseExchange and Exchange.Verify reconstruct and check an artifact the
// way a consumer would, which keeps generation and verification honest
// against each other.
package sxg
