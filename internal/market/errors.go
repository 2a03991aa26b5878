package market

import "errors"

var (
	// ErrUnavailable means a single source had no data for the
	// requested symbol. Expected; triggers fallback to the next
	// source. Adapters convert every transport and parse failure
	// into this error before it crosses the adapter boundary.
	ErrUnavailable = errors.New("source unavailable")

	// ErrMalformedPayload means a source returned data that cannot
	// be normalized. Logged by the adapter and then treated the same
	// as ErrUnavailable by the resolver.
	ErrMalformedPayload = errors.New("malformed payload")
)
