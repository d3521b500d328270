// Package config loads the human-authored YAML signing configuration and
// materializes it into the immutable SigningConfig the generation pipeline
// consumes.
//
// The input names hosts, path layout, header policy, and the signing
// backend; materialization resolves certificate PEM into DER, lowercases
// header sets, and computes the cert and validity URLs:
//
//	input, err := config.ParseInput(yamlBytes)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	cfg, err := config.New(input, certPEM, issuerPEM)
//
// A SigningConfig is materialized once per process and treated as
// read-only by every generation; it is safe to share across concurrent
// generations without locking.
package config
