package feed

import "fmt"

// ErrorKind classifies a fetch failure.
type ErrorKind int

const (
	// KindNetwork covers transport failures: unreachable host, timeout,
	// cancelled context.
	KindNetwork ErrorKind = iota
	// KindHTTP covers non-2xx responses (with or without a parseable
	// error body) and API-level error envelopes.
	KindHTTP
	// KindBadShape covers 2xx responses whose JSON does not contain the
	// expected rows array.
	KindBadShape
)

// FetchError is the uniform failure value produced at the client boundary.
// Nothing past this boundary panics or throws.
type FetchError struct {
	Kind     ErrorKind
	Endpoint string
	Status   int // HTTP status, 0 for transport failures
	Message  string
}

func (e *FetchError) Error() string {
	switch e.Kind {
	case KindNetwork:
		return fmt.Sprintf("fetching %s: %s", e.Endpoint, e.Message)
	case KindBadShape:
		return fmt.Sprintf("fetching %s: unexpected response shape: %s", e.Endpoint, e.Message)
	default:
		return fmt.Sprintf("fetching %s: %s", e.Endpoint, e.Message)
	}
}
