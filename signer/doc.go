// Package signer produces the ECDSA-P256 signature over a signed
// exchange's canonical signing message.
//
// Two implementations of the Signer capability are provided. LocalSigner
// holds the private key in-process and signs synchronously:
//
//	s, err := signer.NewLocalSigner(privateKey)
//
// RemoteSigner delegates to an external HTTP signing service, applying a
// per-call timeout and classifying failures as retryable timeout or
// unavailability errors for the caller to act on:
//
//	s := signer.NewRemoteSigner("https://signer.internal/sign", signer.RemoteOptions{
//	    Timeout: 2 * time.Second,
//	})
//
// Key handles are opaque: no implementation logs or exposes private key
// material. New backends implement the Signer interface; the exchange
// assembler is agnostic to which one it is handed.
package signer
