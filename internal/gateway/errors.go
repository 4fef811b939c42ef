package gateway

import (
	"errors"
	"fmt"
)

// ErrMissingField marks a successful response that lacks the field the caller needs.
var ErrMissingField = errors.New("expected field missing from gateway response")

// UpstreamError is a non-2xx response from the gateway.
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("API error: %d", e.StatusCode)
}
