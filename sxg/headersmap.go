package sxg

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/fxamacker/cbor/v2"
)

// statusKey is the pseudo-header carrying the response status in the
// signed header map.
const statusKey = ":status"

// encMode produces canonically encoded CBOR (RFC 7049 Section 3.9):
// shortest-form lengths, length-first bytewise key order. Canonical
// output is what makes two generations with identical inputs
// byte-identical regardless of map iteration order.
var encMode, _ = cbor.CanonicalEncOptions().EncMode()

// encodeSignedHeaders serializes the response status and headers as the
// canonical CBOR map embedded in the exchange and covered by the
// signature. Keys and values are byte strings; names are lowercased and
// multiple values per name are combined with ", ".
func encodeSignedHeaders(status int, h http.Header) ([]byte, error) {
	m := make(map[cbor.ByteString][]byte, len(h)+1)
	m[cbor.ByteString(statusKey)] = []byte(strconv.Itoa(status))

	for name, values := range h {
		m[cbor.ByteString(strings.ToLower(name))] = []byte(strings.Join(values, ", "))
	}

	out, err := encMode.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("%w: encode headers: %v", ErrSerialization, err)
	}

	return out, nil
}

// decodeSignedHeaders parses a signed header map back into a status code
// and header set.
func decodeSignedHeaders(data []byte) (int, http.Header, error) {
	var m map[cbor.ByteString][]byte
	if err := cbor.Unmarshal(data, &m); err != nil {
		return 0, nil, fmt.Errorf("%w: header cbor: %v", ErrMalformedExchange, err)
	}

	rawStatus, ok := m[cbor.ByteString(statusKey)]
	if !ok {
		return 0, nil, fmt.Errorf("%w: missing %s", ErrMalformedExchange, statusKey)
	}

	status, err := strconv.Atoi(string(rawStatus))
	if err != nil {
		return 0, nil, fmt.Errorf("%w: bad %s value %q", ErrMalformedExchange, statusKey, rawStatus)
	}

	h := make(http.Header, len(m)-1)

	for name, value := range m {
		if name == statusKey {
			continue
		}

		h.Set(string(name), string(value))
	}

	return status, h, nil
}
