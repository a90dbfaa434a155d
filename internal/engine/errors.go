package engine

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// Error codes form a small closed set; callers switch on Code, not Message.
const (
	CodeTimeout       = "TIMEOUT"
	CodeNetworkError  = "NETWORK_ERROR"
	CodeUnknownError  = "UNKNOWN_ERROR"
	CodeNotConfigured = "NOT_CONFIGURED"
)

// Error is a classified engine failure
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// HTTPCode builds the code for an HTTP-level rejection (e.g. HTTP_404)
func HTTPCode(status int) string {
	return fmt.Sprintf("HTTP_%d", status)
}

// classifyTransportError maps a transport-level error to TIMEOUT or
// NETWORK_ERROR
func classifyTransportError(err error) *Error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &Error{Code: CodeTimeout, Message: "request timed out"}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &Error{Code: CodeTimeout, Message: "request timed out"}
	}
	return &Error{Code: CodeNetworkError, Message: err.Error()}
}

// isRetryable reports whether a classified error warrants the single retry.
// HTTP rejections are assumed non-transient and are never retried.
func isRetryable(e *Error) bool {
	return e.Code == CodeTimeout || e.Code == CodeNetworkError
}
