package sxg

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"net/http"
)

// ContentType is the media type of a serialized exchange.
const ContentType = "application/signed-exchange;v=b3"

// exchangeMagic identifies the wire-format version.
const exchangeMagic = "sxg1-b3\x00"

// Wire-format length bounds.
const (
	maxFallbackURLLength = 1<<16 - 1
	maxSignatureLength   = 16384
	maxHeaderLength      = 524288
)

// Exchange is a generated signed exchange: the sections of the binary
// artifact, immutable once produced.
type Exchange struct {
	// FallbackURL is the unsigned origin location a consumer loads when
	// it cannot use the exchange.
	FallbackURL string

	// SignatureHeader is the structured-field signature header value.
	SignatureHeader string

	// SignedHeaders is the canonical CBOR header map covered by the
	// signature.
	SignedHeaders []byte

	// Payload is the exact body bytes shipped and committed by the
	// digest.
	Payload []byte
}

// validate checks the wire-format length bounds.
func (e *Exchange) validate() error {
	switch {
	case len(e.FallbackURL) > maxFallbackURLLength:
		return fmt.Errorf("%w: fallback url exceeds %d bytes", ErrSerialization, maxFallbackURLLength)
	case len(e.SignatureHeader) > maxSignatureLength:
		return fmt.Errorf("%w: signature exceeds %d bytes", ErrSerialization, maxSignatureLength)
	case len(e.SignedHeaders) > maxHeaderLength:
		return fmt.Errorf("%w: header map exceeds %d bytes", ErrSerialization, maxHeaderLength)
	}

	return nil
}

// MarshalBinary serializes the exchange: magic, 2-byte big-endian
// fallback-URL length and URL, 3-byte big-endian signature and header
// lengths, signature header value, header CBOR, payload.
func (e *Exchange) MarshalBinary() ([]byte, error) {
	if err := e.validate(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer

	buf.Grow(len(exchangeMagic) + 2 + len(e.FallbackURL) + 6 +
		len(e.SignatureHeader) + len(e.SignedHeaders) + len(e.Payload))

	buf.WriteString(exchangeMagic)

	var u16 [2]byte

	binary.BigEndian.PutUint16(u16[:], uint16(len(e.FallbackURL)))
	buf.Write(u16[:])
	buf.WriteString(e.FallbackURL)

	writeUint24(&buf, len(e.SignatureHeader))
	writeUint24(&buf, len(e.SignedHeaders))

	buf.WriteString(e.SignatureHeader)
	buf.Write(e.SignedHeaders)
	buf.Write(e.Payload)

	return buf.Bytes(), nil
}

// ParseExchange parses a serialized exchange back into its sections.
func ParseExchange(data []byte) (*Exchange, error) {
	if len(data) < len(exchangeMagic)+2 {
		return nil, fmt.Errorf("%w: truncated", ErrMalformedExchange)
	}

	if string(data[:len(exchangeMagic)]) != exchangeMagic {
		return nil, fmt.Errorf("%w: bad magic", ErrMalformedExchange)
	}

	rest := data[len(exchangeMagic):]

	urlLen := int(binary.BigEndian.Uint16(rest[:2]))
	rest = rest[2:]

	if len(rest) < urlLen+6 {
		return nil, fmt.Errorf("%w: truncated", ErrMalformedExchange)
	}

	fallbackURL := string(rest[:urlLen])
	rest = rest[urlLen:]

	sigLen := readUint24(rest[:3])
	headerLen := readUint24(rest[3:6])
	rest = rest[6:]

	if sigLen > maxSignatureLength || headerLen > maxHeaderLength {
		return nil, fmt.Errorf("%w: section length out of bounds", ErrMalformedExchange)
	}

	if len(rest) < sigLen+headerLen {
		return nil, fmt.Errorf("%w: truncated", ErrMalformedExchange)
	}

	return &Exchange{
		FallbackURL:     fallbackURL,
		SignatureHeader: string(rest[:sigLen]),
		SignedHeaders:   bytes.Clone(rest[sigLen : sigLen+headerLen]),
		Payload:         bytes.Clone(rest[sigLen+headerLen:]),
	}, nil
}

// ResponseHeaders decodes the signed header map into a status code and
// header set.
func (e *Exchange) ResponseHeaders() (int, http.Header, error) {
	return decodeSignedHeaders(e.SignedHeaders)
}

func writeUint24(buf *bytes.Buffer, v int) {
	buf.Write([]byte{byte(v >> 16), byte(v >> 8), byte(v)})
}

func readUint24(b []byte) int {
	return int(b[0])<<16 | int(b[1])<<8 | int(b[2])
}
