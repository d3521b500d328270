package sxg

import (
	"crypto/sha256"
	"encoding/base64"
)

// digestHeader is the response header carrying the payload digest.
const digestHeader = "Digest"

// integrityValue is the integrity signature parameter: the header and
// algorithm a consumer recomputes to check the payload.
const integrityValue = "digest/sha-256"

// PayloadDigest returns the digest header value committed for payload:
// SHA-256 over the exact bytes shipped in the exchange. The digest is
// computed after any content rewriting, never before, so the committed
// value always matches the shipped body.
func PayloadDigest(payload []byte) string {
	sum := sha256.Sum256(payload)

	return "sha-256=" + base64.StdEncoding.EncodeToString(sum[:])
}
