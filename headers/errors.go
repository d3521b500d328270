package headers

import "errors"

var (
	// ErrInvalidHeader is returned when the transformed header set cannot
	// be represented in the signed-exchange wire format: a required header
	// is missing, or a name or value contains illegal bytes.
	ErrInvalidHeader = errors.New("headers: invalid header")

	// ErrUncacheable is returned when the response declares itself
	// uncacheable (Cache-Control: no-store or private) and therefore must
	// not be packaged as a signed exchange.
	ErrUncacheable = errors.New("headers: response is not cacheable")
)
