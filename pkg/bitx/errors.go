package bitx

import (
	"errors"
	"fmt"
)

// ErrAuthenticationRequired is returned when a private endpoint is invoked
// on a client that has no credential configured. The check runs before any
// request is built, so no network call is ever issued.
var ErrAuthenticationRequired = errors.New("bitx: API credentials required for this endpoint")

// APIError is returned when the exchange explicitly reported a
// business-level error, either through a non-success HTTP status or through
// the error envelope in the response body. The envelope is recognised even
// on a 200 status, since the service does not reliably align status codes
// with its own error reporting.
type APIError struct {
	// Message is the free-text error description from the service.
	Message string

	// Code is the service's error code. The upstream code space is
	// undocumented and open-ended, so callers must compare by string
	// (e.g. "ErrTooManyRequests"); it may be empty.
	Code string

	// HTTPStatus is the status code of the response that carried the error.
	HTTPStatus int
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("bitx: API error %s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("bitx: API error (HTTP %d): %s", e.HTTPStatus, e.Message)
}

// TransportError is returned when the request failed below the HTTP layer:
// connection refused, timeouts, TLS failures, or an interrupted body read.
// The underlying error is preserved and can be inspected with errors.As
// (for example against net.Error for timeout detection).
type TransportError struct {
	// Op describes the call being made, e.g. "GET /api/1/ticker".
	Op  string
	Err error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	return fmt.Sprintf("bitx: %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying transport error.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// DecodeError is returned when the response body matched neither the
// expected payload shape nor the error envelope. It usually signals an
// upstream contract change; Raw retains the response body for diagnostics.
type DecodeError struct {
	Err error

	// Raw is the unmodified response body.
	Raw []byte
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	return fmt.Sprintf("bitx: unparseable response: %v", e.Err)
}

// Unwrap returns the underlying decode error.
func (e *DecodeError) Unwrap() error {
	return e.Err
}
