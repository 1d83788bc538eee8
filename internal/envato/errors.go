package envato

import (
	"errors"
	"fmt"
)

// ErrRateLimited is returned when a bounded retry policy gives up on 429s.
var ErrRateLimited = errors.New("rate limited: retry attempts exhausted")

// StatusError is a non-success, non-429 HTTP response.
type StatusError struct {
	Endpoint   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: status %d", e.Endpoint, e.StatusCode)
	}
	return fmt.Sprintf("%s: status %d: %s", e.Endpoint, e.StatusCode, e.Body)
}

// DecodeError is a response body that is not a JSON object.
type DecodeError struct {
	Endpoint string
	Err      error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s: decode response: %v", e.Endpoint, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// TransportError is a connection-level failure before any response.
type TransportError struct {
	Endpoint string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: request failed: %v", e.Endpoint, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// errorTypeLabel is used for log fields.
func errorTypeLabel(err error) string {
	if err == nil {
		return "unknown"
	}
	var status *StatusError
	if errors.As(err, &status) {
		return "status"
	}
	var decode *DecodeError
	if errors.As(err, &decode) {
		return "decode"
	}
	var transport *TransportError
	if errors.As(err, &transport) {
		return "transport"
	}
	if errors.Is(err, ErrRateLimited) {
		return "rate_limited"
	}
	return "other"
}
