package api

import (
	"errors"
	"fmt"
)

// ErrMalformedResponse is returned when a 2xx response lacks the field the
// caller needs or is not JSON.
var ErrMalformedResponse = errors.New("api: malformed response")

// HTTPStatusError captures non-2xx backend responses. Message is the
// envelope message when the body decoded as one.
type HTTPStatusError struct {
	StatusCode int
	URL        string
	Body       string
	Message    string
}

func (e *HTTPStatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api: status %d from %s: %s", e.StatusCode, e.URL, e.Message)
	}
	return fmt.Sprintf("api: unexpected status %d from %s: %s", e.StatusCode, e.URL, e.Body)
}

// Unwrap exposes the backend message as an *Error.
func (e *HTTPStatusError) Unwrap() error {
	if e.Message == "" {
		return nil
	}
	return &Error{Message: e.Message}
}

// Error is a backend-reported failure, either a 2xx response with status
// "error" or the message of a non-2xx envelope.
type Error struct {
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return "api: backend error"
	}
	return "api: backend error: " + e.Message
}
