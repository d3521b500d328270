package headers

import "strings"

// uncachedHeaders are always removed before signing: hop-by-hop headers
// that only make sense on a single connection, and stateful headers whose
// effect depends on which client received them.
var uncachedHeaders = newSet(
	// Hop-by-hop.
	"connection",
	"keep-alive",
	"proxy-connection",
	"te",
	"trailer",
	"transfer-encoding",
	"upgrade",
	// Stateful.
	"authentication-control",
	"authentication-info",
	"clear-site-data",
	"optional-www-authenticate",
	"proxy-authenticate",
	"proxy-authentication-info",
	"public-key-pins",
	"sec-websocket-accept",
	"set-cookie",
	"set-cookie2",
	"setprofile",
	"strict-transport-security",
	"www-authenticate",
)

// DefaultIdentifyingHeaders is the default set stripped under the
// identifying-headers policy. The exchange is expected to be replayable
// for any requester, so anything that varies by or reveals client
// identity is removed. The set is configuration data: callers can
// override it via Options.IdentifyingHeaders as the standard evolves.
var DefaultIdentifyingHeaders = []string{
	"authorization",
	"cookie",
	"forwarded",
	"proxy-authorization",
	"referer",
	"set-cookie",
	"vary",
	"x-forwarded-for",
}

func newSet(names ...string) map[string]bool {
	s := make(map[string]bool, len(names))
	for _, n := range names {
		s[n] = true
	}

	return s
}

// validHeaderName reports whether name is a valid HTTP field name token.
func validHeaderName(name string) bool {
	if name == "" {
		return false
	}

	for i := 0; i < len(name); i++ {
		if !isTokenByte(name[i]) {
			return false
		}
	}

	return true
}

// validHeaderValue reports whether value contains only bytes legal in a
// signed header value: visible ASCII plus space and horizontal tab.
func validHeaderValue(value string) bool {
	for i := 0; i < len(value); i++ {
		ch := value[i]
		if ch != '\t' && (ch < 0x20 || ch == 0x7f) {
			return false
		}
	}

	return true
}

// isTokenByte reports whether ch is a tchar per RFC 9110 Section 5.6.2.
func isTokenByte(ch byte) bool {
	switch {
	case ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z', ch >= '0' && ch <= '9':
		return true
	}

	switch ch {
	case '!', '#', '$', '%', '&', '\'', '*', '+', '-', '.', '^', '_', '`', '|', '~':
		return true
	}

	return false
}

// forbidsStorage reports whether a Cache-Control value contains a
// directive that forbids storing the response.
func forbidsStorage(cacheControl string) bool {
	for directive := range strings.SplitSeq(cacheControl, ",") {
		directive = strings.TrimSpace(directive)
		if name, _, ok := strings.Cut(directive, "="); ok {
			directive = name
		}

		switch strings.ToLower(directive) {
		case "no-store", "private":
			return true
		}
	}

	return false
}
