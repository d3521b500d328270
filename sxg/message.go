package sxg

import (
	"bytes"
	"encoding/binary"
)

// signatureContext is the signing message context string. The 64 leading
// space octets and this string keep exchange signatures from colliding
// with signatures computed for any other protocol.
const signatureContext = "HTTP Exchange 1 b3"

// signingInput carries everything the canonical signing message covers.
// The headerBytes must be the exact CBOR bytes embedded in the artifact;
// they are never re-encoded for signing.
type signingInput struct {
	certSHA256  []byte
	validityURL string
	date        int64
	expires     int64
	requestURL  string
	headerBytes []byte
}

// message builds the canonical byte string covered by the signature. Both
// the signer and any third-party verifier must reconstruct these bytes
// identically.
func (in signingInput) message() []byte {
	var buf bytes.Buffer

	buf.Grow(64 + len(signatureContext) + 1 + 5*8 + 16 +
		len(in.certSHA256) + len(in.validityURL) + len(in.requestURL) + len(in.headerBytes))

	buf.Write(bytes.Repeat([]byte{0x20}, 64))
	buf.WriteString(signatureContext)
	buf.WriteByte(0x00)

	writeLengthPrefixed(&buf, in.certSHA256)
	writeLengthPrefixed(&buf, []byte(in.validityURL))
	writeUint64(&buf, uint64(in.date))
	writeUint64(&buf, uint64(in.expires))
	writeLengthPrefixed(&buf, []byte(in.requestURL))
	writeLengthPrefixed(&buf, in.headerBytes)

	return buf.Bytes()
}

// writeLengthPrefixed writes the 8-byte big-endian length of b followed
// by b itself.
func writeLengthPrefixed(buf *bytes.Buffer, b []byte) {
	writeUint64(buf, uint64(len(b)))
	buf.Write(b)
}

func writeUint64(buf *bytes.Buffer, v uint64) {
	var b [8]byte

	binary.BigEndian.PutUint64(b[:], v)
	buf.Write(b[:])
}
