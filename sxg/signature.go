package sxg

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
)

// signatureLabel names the single signature in the exchange's signature
// header.
const signatureLabel = "sig"

// signatureHeader is the structured-field value of the exchange's
// signature header: the raw signature bytes plus the metadata a consumer
// needs to re-derive and check the signing message. It is bound to
// exactly one signing message and never reused across payloads.
type signatureHeader struct {
	label       string
	sig         []byte
	certSHA256  []byte
	certURL     string
	validityURL string
	integrity   string
	date        int64
	expires     int64
}

// String serializes the header as a structured-field parameterised label
// with parameters in fixed alphabetical order, so identical inputs always
// serialize identically.
func (h signatureHeader) String() string {
	var b strings.Builder

	b.WriteString(h.label)
	b.WriteString(";cert-sha256=")
	writeByteSequence(&b, h.certSHA256)
	b.WriteString(";cert-url=")
	writeQuoted(&b, h.certURL)
	b.WriteString(";date=")
	b.WriteString(strconv.FormatInt(h.date, 10))
	b.WriteString(";expires=")
	b.WriteString(strconv.FormatInt(h.expires, 10))
	b.WriteString(";integrity=")
	writeQuoted(&b, h.integrity)
	b.WriteString(";sig=")
	writeByteSequence(&b, h.sig)
	b.WriteString(";validity-url=")
	writeQuoted(&b, h.validityURL)

	return b.String()
}

// parseSignatureHeader parses a signature header value as produced by
// String.
func parseSignatureHeader(raw string) (signatureHeader, error) {
	var h signatureHeader

	parts := splitQuoteAware(raw, ';')
	if len(parts) == 0 {
		return h, fmt.Errorf("%w: empty signature header", ErrMalformedExchange)
	}

	h.label = parts[0]
	if h.label == "" || strings.Contains(h.label, "=") {
		return h, fmt.Errorf("%w: missing signature label", ErrMalformedExchange)
	}

	for _, part := range parts[1:] {
		key, value, ok := strings.Cut(part, "=")
		if !ok {
			return h, fmt.Errorf("%w: bad signature parameter %q", ErrMalformedExchange, part)
		}

		var err error

		switch key {
		case "sig":
			h.sig, err = parseByteSequence(value)
		case "cert-sha256":
			h.certSHA256, err = parseByteSequence(value)
		case "cert-url":
			h.certURL, err = parseQuoted(value)
		case "validity-url":
			h.validityURL, err = parseQuoted(value)
		case "integrity":
			h.integrity, err = parseQuoted(value)
		case "date":
			h.date, err = strconv.ParseInt(value, 10, 64)
		case "expires":
			h.expires, err = strconv.ParseInt(value, 10, 64)
		}

		if err != nil {
			return h, fmt.Errorf("%w: parameter %s: %v", ErrMalformedExchange, key, err)
		}
	}

	switch {
	case len(h.sig) == 0:
		return h, fmt.Errorf("%w: missing sig parameter", ErrMalformedExchange)
	case len(h.certSHA256) == 0:
		return h, fmt.Errorf("%w: missing cert-sha256 parameter", ErrMalformedExchange)
	case h.certURL == "", h.validityURL == "":
		return h, fmt.Errorf("%w: missing url parameters", ErrMalformedExchange)
	case h.date == 0, h.expires == 0:
		return h, fmt.Errorf("%w: missing date or expires", ErrMalformedExchange)
	}

	return h, nil
}

// writeByteSequence writes a structured-field byte sequence: base64
// between asterisks.
func writeByteSequence(b *strings.Builder, v []byte) {
	b.WriteByte('*')
	b.WriteString(base64.StdEncoding.EncodeToString(v))
	b.WriteByte('*')
}

func parseByteSequence(v string) ([]byte, error) {
	if len(v) < 2 || v[0] != '*' || v[len(v)-1] != '*' {
		return nil, fmt.Errorf("not a byte sequence: %q", v)
	}

	return base64.StdEncoding.DecodeString(v[1 : len(v)-1])
}

// writeQuoted writes a structured-field quoted string. Only backslash and
// double-quote are escaped.
func writeQuoted(b *strings.Builder, s string) {
	b.WriteByte('"')

	for i := 0; i < len(s); i++ {
		if s[i] == '\\' || s[i] == '"' {
			b.WriteByte('\\')
		}

		b.WriteByte(s[i])
	}

	b.WriteByte('"')
}

func parseQuoted(v string) (string, error) {
	if len(v) < 2 || v[0] != '"' || v[len(v)-1] != '"' {
		return "", fmt.Errorf("not a quoted string: %q", v)
	}

	v = v[1 : len(v)-1]
	if !strings.Contains(v, `\`) {
		return v, nil
	}

	var b strings.Builder

	b.Grow(len(v))

	for i := 0; i < len(v); i++ {
		if v[i] == '\\' && i+1 < len(v) {
			i++
		}

		b.WriteByte(v[i])
	}

	return b.String(), nil
}

// splitQuoteAware splits s on delim while respecting "..." quoted regions
// and backslash escapes inside them. Parts are trimmed of whitespace;
// empty parts are skipped.
func splitQuoteAware(s string, delim byte) []string {
	var result []string
	var part strings.Builder

	inQuote := false

	for i := 0; i < len(s); i++ {
		ch := s[i]

		if inQuote {
			if ch == '\\' && i+1 < len(s) {
				part.WriteByte(ch)
				i++
				part.WriteByte(s[i])

				continue
			}

			if ch == '"' {
				inQuote = false
			}

			part.WriteByte(ch)

			continue
		}

		switch ch {
		case '"':
			inQuote = true
			part.WriteByte(ch)
		case delim:
			if p := strings.TrimSpace(part.String()); p != "" {
				result = append(result, p)
			}

			part.Reset()
		default:
			part.WriteByte(ch)
		}
	}

	if p := strings.TrimSpace(part.String()); p != "" {
		result = append(result, p)
	}

	return result
}
